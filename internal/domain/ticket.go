package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets. Stored values keep
// the human-readable casing; comparisons go through Normalized.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusClosed     TicketStatus = "Closed"
)

// Normalized returns the lower-cased form used for comparisons and filters.
func (s TicketStatus) Normalized() string {
	return strings.ToLower(strings.TrimSpace(string(s)))
}

// Unresolved reports whether the ticket still needs attention.
func (s TicketStatus) Unresolved() bool {
	switch s.Normalized() {
	case "open", "in progress":
		return true
	}
	return false
}

// Badge returns the upper-cased form used in notification emails.
func (s TicketStatus) Badge() string {
	return strings.ToUpper(strings.TrimSpace(string(s)))
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID                  int64
	TicketNumber        string
	EmployeeID          string
	Name                string
	Status              TicketStatus
	ProblemStatement    string
	ProblemDateOccurred time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
