package main

import (
	"context"

	"github.com/kbukum/offclient/nutripatrol"
)

var (
	issueTypes = []string{
		string(nutripatrol.IssueProduct),
		string(nutripatrol.IssueImage),
		string(nutripatrol.IssueSearch),
	}
	ticketStatuses = []string{
		string(nutripatrol.StatusOpen),
		string(nutripatrol.StatusClosed),
	}
	sources = []string{
		string(nutripatrol.SourceMobile),
		string(nutripatrol.SourceWeb),
		string(nutripatrol.SourceRobotoff),
	}
	flavors = []string{
		string(nutripatrol.FlavorOFF),
		string(nutripatrol.FlavorOBF),
		string(nutripatrol.FlavorOPFF),
		string(nutripatrol.FlavorOPF),
		string(nutripatrol.FlavorOFFPro),
	}
)

var nutripatrolCommands = map[string]command{
	"status": {
		usage: "status",
		run: func(ctx context.Context, env *app, raw []string) (any, error) {
			if err := newArgs("status", 0).parse(raw); err != nil {
				return nil, err
			}
			return unwrap(env.nutripatrol.GetAPIStatus(ctx))
		},
	},
	"flags": {
		usage: "flags",
		run: func(ctx context.Context, env *app, raw []string) (any, error) {
			if err := newArgs("flags", 0).parse(raw); err != nil {
				return nil, err
			}
			return unwrap(env.nutripatrol.GetFlags(ctx))
		},
	},
	"flag": {
		usage: "flag <id>",
		run: func(ctx context.Context, env *app, raw []string) (any, error) {
			a := newArgs("flag", 1, "id")
			if err := a.parse(raw); err != nil {
				return nil, err
			}
			id := a.number("id")
			if err := a.check(); err != nil {
				return nil, err
			}
			return unwrap(env.nutripatrol.GetFlagByID(ctx, id))
		},
	},
	"create-flag": {
		usage: "create-flag -type t -source s [-barcode b] [-url u] [-reason r] [-comment c] [-flavor f] [-image id] [-user id] [-device id] [-confidence x]",
		run: func(ctx context.Context, env *app, raw []string) (any, error) {
			a := newArgs("create-flag", 0)
			var flag nutripatrol.Flag
			issue := a.fs.String("type", "", "issue type")
			source := a.fs.String("source", "", "flag source")
			flavor := a.fs.String("flavor", string(nutripatrol.FlavorOFF), "product flavor")
			confidence := a.fs.Float64("confidence", -1, "robotoff confidence in [0, 1]")
			a.fs.StringVar(&flag.Barcode, "barcode", "", "product barcode")
			a.fs.StringVar(&flag.URL, "url", "", "URL of the flagged item")
			a.fs.StringVar(&flag.Reason, "reason", "", "reason")
			a.fs.StringVar(&flag.Comment, "comment", "", "comment")
			a.fs.StringVar(&flag.ImageID, "image", "", "image id")
			a.fs.StringVar(&flag.UserID, "user", "", "user id")
			a.fs.StringVar(&flag.DeviceID, "device", "", "device id")
			if err := a.parse(raw); err != nil {
				return nil, err
			}
			a.v.Required("type", *issue).OneOf("type", *issue, issueTypes...)
			a.v.Required("source", *source).OneOf("source", *source, sources...)
			a.v.OneOf("flavor", *flavor, flavors...)
			if err := a.check(); err != nil {
				return nil, err
			}
			flag.Type = nutripatrol.IssueType(*issue)
			flag.Source = nutripatrol.Source(*source)
			flag.Flavor = nutripatrol.Flavor(*flavor)
			if *confidence >= 0 {
				flag.Confidence = confidence
			}
			return unwrap(env.nutripatrol.CreateFlag(ctx, flag))
		},
	},
	"ticket-flags": {
		usage: "ticket-flags <ticket-id>...",
		run: func(ctx context.Context, env *app, raw []string) (any, error) {
			a := newArgs("ticket-flags", 1, "ticket-id").repeated()
			if err := a.parse(raw); err != nil {
				return nil, err
			}
			ids := a.numbers(0)
			if err := a.check(); err != nil {
				return nil, err
			}
			return unwrap(env.nutripatrol.GetFlagsByTicketBatch(ctx, ids))
		},
	},
	"tickets": {
		usage: "tickets [-status s] [-type t] [-reason r] [-page n] [-page-size n]",
		run: func(ctx context.Context, env *app, raw []string) (any, error) {
			a := newArgs("tickets", 0)
			status := a.fs.String("status", "", "ticket status")
			issue := a.fs.String("type", "", "issue type")
			reason := a.fs.String("reason", "", "flag reason")
			page := a.fs.Int("page", 0, "page number, from 1")
			pageSize := a.fs.Int("page-size", 0, "tickets per page")
			if err := a.parse(raw); err != nil {
				return nil, err
			}
			a.v.OneOf("status", *status, ticketStatuses...)
			a.v.OneOf("type", *issue, issueTypes...)
			a.v.Min("page", *page, 0).Min("page-size", *pageSize, 0)
			if err := a.check(); err != nil {
				return nil, err
			}
			return unwrap(env.nutripatrol.GetTickets(ctx, nutripatrol.TicketQuery{
				Status:   nutripatrol.TicketStatus(*status),
				Type:     nutripatrol.IssueType(*issue),
				Reason:   *reason,
				Page:     *page,
				PageSize: *pageSize,
			}))
		},
	},
	"ticket": {
		usage: "ticket <id>",
		run: func(ctx context.Context, env *app, raw []string) (any, error) {
			a := newArgs("ticket", 1, "id")
			if err := a.parse(raw); err != nil {
				return nil, err
			}
			id := a.number("id")
			if err := a.check(); err != nil {
				return nil, err
			}
			return unwrap(env.nutripatrol.GetTicketByID(ctx, id))
		},
	},
	"create-ticket": {
		usage: "create-ticket -type t [-barcode b] [-url u] [-status s] [-flavor f] [-image id]",
		run: func(ctx context.Context, env *app, raw []string) (any, error) {
			a := newArgs("create-ticket", 0)
			var ticket nutripatrol.Ticket
			issue := a.fs.String("type", "", "issue type")
			status := a.fs.String("status", string(nutripatrol.StatusOpen), "ticket status")
			flavor := a.fs.String("flavor", string(nutripatrol.FlavorOFF), "product flavor")
			a.fs.StringVar(&ticket.Barcode, "barcode", "", "product barcode")
			a.fs.StringVar(&ticket.URL, "url", "", "URL of the item")
			a.fs.StringVar(&ticket.ImageID, "image", "", "image id")
			if err := a.parse(raw); err != nil {
				return nil, err
			}
			a.v.Required("type", *issue).OneOf("type", *issue, issueTypes...)
			a.v.OneOf("status", *status, ticketStatuses...)
			a.v.OneOf("flavor", *flavor, flavors...)
			if err := a.check(); err != nil {
				return nil, err
			}
			ticket.Type = nutripatrol.IssueType(*issue)
			ticket.Status = nutripatrol.TicketStatus(*status)
			ticket.Flavor = nutripatrol.Flavor(*flavor)
			return unwrap(env.nutripatrol.CreateTicket(ctx, ticket))
		},
	},
	"ticket-status": {
		usage: "ticket-status <id> <open|closed>",
		run: func(ctx context.Context, env *app, raw []string) (any, error) {
			a := newArgs("ticket-status", 2, "id", "status")
			if err := a.parse(raw); err != nil {
				return nil, err
			}
			id := a.number("id")
			a.v.OneOf("status", a.get("status"), ticketStatuses...)
			if err := a.check(); err != nil {
				return nil, err
			}
			return unwrap(env.nutripatrol.UpdateTicketStatus(ctx, id, nutripatrol.TicketStatus(a.get("status"))))
		},
	},
}
