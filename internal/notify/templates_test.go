package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func digestTicket(number string, status domain.TicketStatus, days int) domain.StaleTicket {
	updated := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
	return domain.StaleTicket{
		Ticket: domain.Ticket{
			TicketNumber:     number,
			EmployeeID:       "E-1001",
			Name:             "Dana",
			Status:           status,
			ProblemStatement: "printer jam",
			CreatedAt:        updated,
			UpdatedAt:        updated,
		},
		DaysSinceLastUpdate: days,
	}
}

func TestRenderStaleDigest(t *testing.T) {
	tickets := []domain.StaleTicket{
		digestTicket("TKT-0007", domain.TicketStatusOpen, 2),
		digestTicket("TKT-0012", domain.TicketStatusInProgress, 5),
	}

	subject, html, err := renderStaleDigest(tickets, 1)
	if err != nil {
		t.Fatalf("renderStaleDigest() error: %v", err)
	}
	if !strings.Contains(subject, "2 ticket") {
		t.Errorf("subject %q does not carry the stale count", subject)
	}

	for _, want := range []string{"TKT-0007", "TKT-0012", "OPEN", "IN PROGRESS", "Dana", "E-1001", "3/10/2024"} {
		if !strings.Contains(html, want) {
			t.Errorf("digest body missing %q", want)
		}
	}
	if !strings.Contains(html, "2 days") || !strings.Contains(html, "5 days") {
		t.Errorf("digest body missing the per-ticket day counts")
	}
}

func TestRenderStaleDigestEscapesHTML(t *testing.T) {
	ticket := digestTicket("TKT-0001", domain.TicketStatusOpen, 1)
	ticket.Name = `<script>alert("x")</script>`

	_, html, err := renderStaleDigest([]domain.StaleTicket{ticket}, 1)
	if err != nil {
		t.Fatalf("renderStaleDigest() error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Error("user-supplied name was not escaped")
	}
}

func TestRenderNewTicket(t *testing.T) {
	ticket := domain.Ticket{
		TicketNumber:        "TKT-0042",
		EmployeeID:          "E-1001",
		Name:                "Dana",
		Status:              domain.TicketStatusOpen,
		ProblemStatement:    "laptop will not boot",
		ProblemDateOccurred: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
	}
	creator := domain.User{Name: "Dana", Email: "dana@corp.test", Department: "Finance"}

	subject, html, err := renderNewTicket(ticket, creator, "http://localhost:3000")
	if err != nil {
		t.Fatalf("renderNewTicket() error: %v", err)
	}
	if !strings.Contains(subject, "TKT-0042") {
		t.Errorf("subject %q missing ticket number", subject)
	}
	for _, want := range []string{"laptop will not boot", "Finance", "3/9/2024", "http://localhost:3000"} {
		if !strings.Contains(html, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestRenderStatusUpdate(t *testing.T) {
	ticket := domain.Ticket{
		TicketNumber: "TKT-0042",
		Name:         "Dana",
		Status:       domain.TicketStatusClosed,
	}
	creator := domain.User{Name: "Dana", Email: "dana@corp.test"}

	subject, html, err := renderStatusUpdate(ticket, creator,
		domain.TicketStatusInProgress, domain.TicketStatusClosed, "http://localhost:3000")
	if err != nil {
		t.Fatalf("renderStatusUpdate() error: %v", err)
	}
	if !strings.Contains(subject, "TKT-0042") {
		t.Errorf("subject %q missing ticket number", subject)
	}
	if !strings.Contains(html, "In Progress") || !strings.Contains(html, "Closed") {
		t.Error("body missing the status transition")
	}
}

func TestValueOrNA(t *testing.T) {
	if got := valueOrNA(""); got != "N/A" {
		t.Errorf("valueOrNA(\"\") = %q", got)
	}
	if got := valueOrNA("IT"); got != "IT" {
		t.Errorf("valueOrNA(\"IT\") = %q", got)
	}
}
