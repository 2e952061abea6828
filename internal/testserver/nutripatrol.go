package testserver

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// NutriPatrolPrefix is the path the fake API is mounted under.
const NutriPatrolPrefix = "/api/v1"

type npFlagCreate struct {
	Barcode    string   `json:"barcode"`
	Type       string   `json:"type" binding:"required,oneof=product image search"`
	URL        string   `json:"url" binding:"required"`
	UserID     string   `json:"user_id"`
	DeviceID   string   `json:"device_id"`
	Source     string   `json:"source" binding:"required,oneof=mobile web robotoff"`
	Confidence *float64 `json:"confidence" binding:"omitempty,gte=0,lte=1"`
	ImageID    string   `json:"image_id"`
	Flavor     string   `json:"flavor" binding:"required,oneof=off obf opff opf off_pro"`
	Reason     string   `json:"reason" binding:"omitempty,oneof=inappropriate human beauty other"`
	Comment    string   `json:"comment" binding:"max=500"`
}

type npFlag struct {
	ID         int      `json:"id"`
	TicketID   int      `json:"ticket_id"`
	Barcode    string   `json:"barcode,omitempty"`
	Type       string   `json:"type"`
	URL        string   `json:"url"`
	UserID     string   `json:"user_id,omitempty"`
	DeviceID   string   `json:"device_id,omitempty"`
	Source     string   `json:"source"`
	Confidence *float64 `json:"confidence,omitempty"`
	ImageID    string   `json:"image_id,omitempty"`
	Flavor     string   `json:"flavor"`
	Reason     string   `json:"reason,omitempty"`
	Comment    string   `json:"comment,omitempty"`
	CreatedAt  string   `json:"created_at"`
}

type npTicketCreate struct {
	Barcode string `json:"barcode"`
	Type    string `json:"type" binding:"required,oneof=product image search"`
	URL     string `json:"url" binding:"required"`
	Status  string `json:"status" binding:"required,oneof=open closed"`
	ImageID string `json:"image_id"`
	Flavor  string `json:"flavor" binding:"required,oneof=off obf opff opf off_pro"`
}

type npTicket struct {
	ID        int    `json:"id"`
	Barcode   string `json:"barcode,omitempty"`
	Type      string `json:"type"`
	URL       string `json:"url"`
	Status    string `json:"status"`
	ImageID   string `json:"image_id,omitempty"`
	Flavor    string `json:"flavor"`
	CreatedAt string `json:"created_at"`
}

type npTicketFilter struct {
	Status   string `form:"status" json:"status" binding:"omitempty,oneof=open closed"`
	Type     string `form:"type_" json:"type_" binding:"omitempty,oneof=product image search"`
	Reason   string `form:"reason" json:"reason" binding:"omitempty,oneof=inappropriate human beauty other"`
	Page     int    `form:"page" json:"page" binding:"omitempty,gte=1"`
	PageSize int    `form:"page_size" json:"page_size" binding:"omitempty,gte=1,lte=50"`
}

type npStatusUpdate struct {
	Status string `form:"status" json:"status" binding:"required,oneof=open closed"`
}

type npBatch struct {
	TicketIDs []int `json:"ticket_ids" binding:"required"`
}

// NutriPatrol is an in-memory NutriPatrol API.
type NutriPatrol struct {
	mu      sync.Mutex
	flags   []npFlag
	tickets []npTicket
}

// StartNutriPatrol serves an empty NutriPatrol fake. The returned server's
// URL already includes NutriPatrolPrefix.
func StartNutriPatrol(tb testing.TB) (*Server, *NutriPatrol) {
	tb.Helper()
	n := &NutriPatrol{}
	return start(tb, NutriPatrolPrefix, n.register), n
}

func (n *NutriPatrol) register(r gin.IRouter) {
	r.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "running"})
	})
	r.GET("/flags", n.listFlags)
	r.POST("/flags", n.createFlag)
	r.POST("/flags/batch", n.flagsByTicket)
	r.GET("/flags/:flag_id", n.getFlag)
	r.GET("/tickets", n.listTickets)
	r.POST("/tickets", n.createTicket)
	r.GET("/tickets/:ticket_id", n.getTicket)
	r.PUT("/tickets/:ticket_id/status", n.updateStatus)
}

func (n *NutriPatrol) listFlags(c *gin.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"flags": append([]npFlag{}, n.flags...)})
}

func (n *NutriPatrol) getFlag(c *gin.Context) {
	id, ok := intParam(c, "flag_id", "flag_id")
	if !ok {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	for _, f := range n.flags {
		if f.ID == id {
			c.JSON(http.StatusOK, gin.H{"__data__": f})
			return
		}
	}
	notFound(c, "Flag")
}

func (n *NutriPatrol) createFlag(c *gin.Context) {
	var req npFlagCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, "body", err)
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	ticket := n.openTicketFor(req)
	f := npFlag{
		ID:         len(n.flags) + 1,
		TicketID:   ticket.ID,
		Barcode:    req.Barcode,
		Type:       req.Type,
		URL:        req.URL,
		UserID:     req.UserID,
		DeviceID:   req.DeviceID,
		Source:     req.Source,
		Confidence: req.Confidence,
		ImageID:    req.ImageID,
		Flavor:     req.Flavor,
		Reason:     req.Reason,
		Comment:    req.Comment,
		CreatedAt:  now(),
	}
	n.flags = append(n.flags, f)
	c.JSON(http.StatusCreated, f)
}

// openTicketFor returns the open ticket about the same item, creating one
// when there is none.
func (n *NutriPatrol) openTicketFor(req npFlagCreate) npTicket {
	for _, t := range n.tickets {
		if t.Status == "open" && t.Type == req.Type && t.Barcode == req.Barcode &&
			t.ImageID == req.ImageID && t.Flavor == req.Flavor {
			return t
		}
	}
	t := npTicket{
		ID:        len(n.tickets) + 1,
		Barcode:   req.Barcode,
		Type:      req.Type,
		URL:       req.URL,
		Status:    "open",
		ImageID:   req.ImageID,
		Flavor:    req.Flavor,
		CreatedAt: now(),
	}
	n.tickets = append(n.tickets, t)
	return t
}

func (n *NutriPatrol) flagsByTicket(c *gin.Context) {
	var req npBatch
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, "body", err)
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	wanted := make(map[int]bool, len(req.TicketIDs))
	for _, id := range req.TicketIDs {
		wanted[id] = true
	}
	out := make(map[int][]npFlag)
	for _, f := range n.flags {
		if wanted[f.TicketID] {
			out[f.TicketID] = append(out[f.TicketID], f)
		}
	}
	c.JSON(http.StatusOK, gin.H{"ticket_id_to_flags": out})
}

func (n *NutriPatrol) listTickets(c *gin.Context) {
	var q npTicketFilter
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, "query", err)
		return
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = 10
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	matched := []npTicket{}
	for _, t := range n.tickets {
		if q.Status != "" && t.Status != q.Status {
			continue
		}
		if q.Type != "" && t.Type != q.Type {
			continue
		}
		if q.Reason != "" && !n.hasReason(t.ID, q.Reason) {
			continue
		}
		matched = append(matched, t)
	}

	maxPage := (len(matched) + q.PageSize - 1) / q.PageSize
	lo := min((q.Page-1)*q.PageSize, len(matched))
	hi := min(lo+q.PageSize, len(matched))
	c.JSON(http.StatusOK, gin.H{"tickets": matched[lo:hi], "max_page": maxPage})
}

func (n *NutriPatrol) hasReason(ticketID int, reason string) bool {
	for _, f := range n.flags {
		if f.TicketID == ticketID && f.Reason == reason {
			return true
		}
	}
	return false
}

func (n *NutriPatrol) getTicket(c *gin.Context) {
	id, ok := intParam(c, "ticket_id", "ticket_id")
	if !ok {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if i := n.ticketIndex(id); i >= 0 {
		c.JSON(http.StatusOK, n.tickets[i])
		return
	}
	notFound(c, "Ticket")
}

func (n *NutriPatrol) createTicket(c *gin.Context) {
	var req npTicketCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, "body", err)
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	t := npTicket{
		ID:        len(n.tickets) + 1,
		Barcode:   req.Barcode,
		Type:      req.Type,
		URL:       req.URL,
		Status:    req.Status,
		ImageID:   req.ImageID,
		Flavor:    req.Flavor,
		CreatedAt: now(),
	}
	n.tickets = append(n.tickets, t)
	c.JSON(http.StatusCreated, t)
}

func (n *NutriPatrol) updateStatus(c *gin.Context) {
	id, ok := intParam(c, "ticket_id", "ticket_id")
	if !ok {
		return
	}
	var q npStatusUpdate
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, "query", err)
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	i := n.ticketIndex(id)
	if i < 0 {
		notFound(c, "Ticket")
		return
	}
	n.tickets[i].Status = q.Status
	c.JSON(http.StatusOK, n.tickets[i])
}

func (n *NutriPatrol) ticketIndex(id int) int {
	for i, t := range n.tickets {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func now() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000000")
}
