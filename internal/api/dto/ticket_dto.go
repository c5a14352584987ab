package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest payload. Status is optional and defaults to Open.
type CreateTicketRequest struct {
	Status              domain.TicketStatus `json:"status"`
	ProblemStatement    string              `json:"problemStatement"`
	ProblemDateOccurred time.Time           `json:"problem_dateOccurred"`
}

// UpdateTicketRequest payload. Nil fields keep the stored value.
type UpdateTicketRequest struct {
	Status           *domain.TicketStatus `json:"status"`
	ProblemStatement *string              `json:"problemStatement"`
}

// TicketResponse is the ticket shape returned to the client.
type TicketResponse struct {
	ID                  int64               `json:"id"`
	TicketNumber        string              `json:"ticketNumber"`
	EmployeeID          string              `json:"employeeID"`
	Name                string              `json:"name"`
	Status              domain.TicketStatus `json:"status"`
	ProblemStatement    string              `json:"problemStatement"`
	ProblemDateOccurred time.Time           `json:"problem_dateOccurred"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

// Pagination carries paging metadata alongside a ticket list.
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalTickets int  `json:"totalTickets"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
	Limit        int  `json:"limit"`
}

// TicketListResponse is the paginated listing shape.
type TicketListResponse struct {
	Tickets    []TicketResponse `json:"tickets"`
	Pagination Pagination       `json:"pagination"`
}

// AnalyticsResponse carries the full ticket set plus per-status counts.
type AnalyticsResponse struct {
	Tickets      []TicketResponse `json:"tickets"`
	TotalTickets int              `json:"totalTickets"`
	StatusCounts map[string]int   `json:"statusCounts"`
}

// StaleCheckResponse acknowledges a manual stale-ticket sweep.
type StaleCheckResponse struct {
	Message string `json:"message"`
}

// NewTicketResponse maps a domain ticket onto the wire shape.
func NewTicketResponse(t domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                  t.ID,
		TicketNumber:        t.TicketNumber,
		EmployeeID:          t.EmployeeID,
		Name:                t.Name,
		Status:              t.Status,
		ProblemStatement:    t.ProblemStatement,
		ProblemDateOccurred: t.ProblemDateOccurred,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

// NewTicketResponses maps a slice of domain tickets.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, NewTicketResponse(t))
	}
	return out
}
