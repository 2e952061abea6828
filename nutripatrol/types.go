package nutripatrol

import "strconv"

// TicketStatus is the moderation state of a ticket.
type TicketStatus string

const (
	StatusOpen   TicketStatus = "open"
	StatusClosed TicketStatus = "closed"
)

// IssueType is what a flag or ticket is about.
type IssueType string

const (
	IssueProduct IssueType = "product"
	IssueImage   IssueType = "image"
	IssueSearch  IssueType = "search"
)

// Source is the client a flag was raised from.
type Source string

const (
	SourceMobile   Source = "mobile"
	SourceWeb      Source = "web"
	SourceRobotoff Source = "robotoff"
)

// Flavor is the Open Food Facts project a product belongs to.
type Flavor string

const (
	FlavorOFF    Flavor = "off"
	FlavorOBF    Flavor = "obf"
	FlavorOPFF   Flavor = "opff"
	FlavorOPF    Flavor = "opf"
	FlavorOFFPro Flavor = "off_pro"
)

// Flag is one report raised by a user or a bot. The service groups flags
// about the same item into a ticket.
type Flag struct {
	ID         int       `json:"id,omitempty"`
	TicketID   int       `json:"ticket_id,omitempty"`
	Barcode    string    `json:"barcode,omitempty"`
	Type       IssueType `json:"type,omitempty"`
	URL        string    `json:"url,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	DeviceID   string    `json:"device_id,omitempty"`
	Source     Source    `json:"source,omitempty"`
	Confidence *float64  `json:"confidence,omitempty"`
	ImageID    string    `json:"image_id,omitempty"`
	Flavor     Flavor    `json:"flavor,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  string    `json:"created_at,omitempty"`
}

// Ticket groups the flags about one product, image, or search.
type Ticket struct {
	ID        int          `json:"id,omitempty"`
	Barcode   string       `json:"barcode,omitempty"`
	Type      IssueType    `json:"type,omitempty"`
	URL       string       `json:"url,omitempty"`
	Status    TicketStatus `json:"status,omitempty"`
	ImageID   string       `json:"image_id,omitempty"`
	Flavor    Flavor       `json:"flavor,omitempty"`
	CreatedAt string       `json:"created_at,omitempty"`
}

// TicketQuery filters GetTickets. Zero fields are not sent.
type TicketQuery struct {
	Status   TicketStatus
	Type     IssueType
	Reason   string
	Page     int
	PageSize int
}

func (q TicketQuery) params() map[string]string {
	p := map[string]string{
		"status": string(q.Status),
		"type_":  string(q.Type),
		"reason": q.Reason,
	}
	if q.Page > 0 {
		p["page"] = strconv.Itoa(q.Page)
	}
	if q.PageSize > 0 {
		p["page_size"] = strconv.Itoa(q.PageSize)
	}
	return p
}

// APIStatus is the health answer of the service.
type APIStatus struct {
	Status string `json:"status"`
}
