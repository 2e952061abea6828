// Package nutripatrol is a typed client for NutriPatrol, the Open Food Facts
// moderation service where users flag products and images and moderators
// handle the resulting tickets.
//
// Every method returns a rest.Result. Input values are sent as given; the
// service validates them and its 422 answers surface as a Failure whose
// Details carry the validation messages in server order:
//
//	res := c.CreateTicket(ctx, nutripatrol.Ticket{Type: nutripatrol.IssueProduct, Status: "opsen"})
//	if f := res.Failure(); f != nil {
//		fmt.Println(f.StatusCode, f.Details) // 422 [Input should be 'open' or 'closed']
//	}
package nutripatrol
