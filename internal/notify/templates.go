package notify

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/spec-kit/helpdesk/internal/domain"
)

const dateLayout = "1/2/2006"

var staleDigestTmpl = template.Must(template.New("stale_digest").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Stale Tickets Alert</title></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 800px; margin: 0 auto; padding: 20px;">
    <div style="background-color: #f44336; color: white; padding: 20px; text-align: center;">
      <h1>Stale Tickets Alert</h1>
      <p>{{len .Tickets}} ticket(s) require immediate attention</p>
    </div>
    <div style="background-color: #f9f9f9; padding: 20px;">
      <p><strong>Attention Required:</strong> The following tickets have gone
      {{.ThresholdDays}} or more days without any update and need action from the IT support team.</p>
      <table style="width: 100%; border-collapse: collapse; background-color: white;">
        <thead>
          <tr>
            <th style="padding: 12px; text-align: left;">Ticket #</th>
            <th style="padding: 12px; text-align: left;">Created By</th>
            <th style="padding: 12px; text-align: left;">Employee ID</th>
            <th style="padding: 12px; text-align: left;">Status</th>
            <th style="padding: 12px; text-align: left;">Days Since Last Update</th>
            <th style="padding: 12px; text-align: left;">Last Updated</th>
          </tr>
        </thead>
        <tbody>
          {{range .Tickets}}
          <tr style="border-bottom: 1px solid #ddd;">
            <td style="padding: 12px;">{{.TicketNumber}}</td>
            <td style="padding: 12px;">{{.Name}}</td>
            <td style="padding: 12px;">{{.EmployeeID}}</td>
            <td style="padding: 12px;"><span style="background-color: {{.BadgeColor}}; color: white; padding: 4px 8px; border-radius: 4px; font-size: 12px;">{{.Badge}}</span></td>
            <td style="padding: 12px;">{{.DaysSinceLastUpdate}} days</td>
            <td style="padding: 12px;">{{.LastUpdated}}</td>
          </tr>
          {{end}}
        </tbody>
      </table>
      <p style="margin-top: 30px; font-size: 14px; color: #666;">
        This is an automated notification from the IT Help Desk System.<br>
        Please log into the system to take action on these tickets.
      </p>
    </div>
  </div>
</body>
</html>`))

var newTicketTmpl = template.Must(template.New("new_ticket").Parse(`<div style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto;">
  <div style="background-color: #667eea; padding: 20px; text-align: center;">
    <h1 style="color: white; margin: 0;">New IT Support Ticket</h1>
  </div>
  <div style="padding: 20px; background: #f8f9fa;">
    <p>Hello Admin,</p>
    <p>A new IT support ticket has been created and requires your attention.</p>
    <table style="width: 100%; border-collapse: collapse; background: white;">
      <tr><td style="padding: 8px; font-weight: bold;">Ticket Number:</td><td style="padding: 8px;">{{.TicketNumber}}</td></tr>
      <tr><td style="padding: 8px; font-weight: bold;">Status:</td><td style="padding: 8px;">{{.Status}}</td></tr>
      <tr><td style="padding: 8px; font-weight: bold;">Date Occurred:</td><td style="padding: 8px;">{{.DateOccurred}}</td></tr>
      <tr><td style="padding: 8px; font-weight: bold;">Problem Statement:</td><td style="padding: 8px;">{{.ProblemStatement}}</td></tr>
      <tr><td style="padding: 8px; font-weight: bold;">Name:</td><td style="padding: 8px;">{{.CreatorName}}</td></tr>
      <tr><td style="padding: 8px; font-weight: bold;">Employee ID:</td><td style="padding: 8px;">{{.EmployeeID}}</td></tr>
      <tr><td style="padding: 8px; font-weight: bold;">Department:</td><td style="padding: 8px;">{{.Department}}</td></tr>
      <tr><td style="padding: 8px; font-weight: bold;">Branch:</td><td style="padding: 8px;">{{.Branch}}</td></tr>
    </table>
    <p style="text-align: center; margin-top: 30px;">
      <a href="{{.DashboardURL}}" style="background: #667eea; color: white; padding: 12px 24px; text-decoration: none;">View Ticket in Dashboard</a>
    </p>
    <p style="color: #666; font-size: 14px;">Best regards,<br>IT Help Desk System</p>
  </div>
</div>`))

var statusUpdateTmpl = template.Must(template.New("status_update").Parse(`<div style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto;">
  <div style="background-color: #28a745; padding: 20px; text-align: center;">
    <h1 style="color: white; margin: 0;">Ticket Status Updated</h1>
  </div>
  <div style="padding: 20px; background: #f8f9fa;">
    <p>Hello {{.CreatorName}},</p>
    <p>Your IT support ticket has been updated.</p>
    <table style="width: 100%; border-collapse: collapse; background: white;">
      <tr><td style="padding: 8px; font-weight: bold;">Ticket Number:</td><td style="padding: 8px;">{{.TicketNumber}}</td></tr>
      <tr><td style="padding: 8px; font-weight: bold;">Previous Status:</td><td style="padding: 8px;">{{.OldStatus}}</td></tr>
      <tr><td style="padding: 8px; font-weight: bold;">New Status:</td><td style="padding: 8px;">{{.NewStatus}}</td></tr>
      <tr><td style="padding: 8px; font-weight: bold;">Problem Statement:</td><td style="padding: 8px;">{{.ProblemStatement}}</td></tr>
    </table>
    <p style="text-align: center; margin-top: 30px;">
      <a href="{{.DashboardURL}}" style="background: #28a745; color: white; padding: 12px 24px; text-decoration: none;">View Ticket in Dashboard</a>
    </p>
    <p style="color: #666; font-size: 14px;">Best regards,<br>IT Help Desk Team</p>
  </div>
</div>`))

type staleDigestRow struct {
	TicketNumber        string
	Name                string
	EmployeeID          string
	Badge               string
	BadgeColor          string
	DaysSinceLastUpdate int
	LastUpdated         string
}

type staleDigestData struct {
	ThresholdDays int
	Tickets       []staleDigestRow
}

// renderStaleDigest renders one digest covering the full stale sequence,
// rows in the order received (oldest update first).
func renderStaleDigest(tickets []domain.StaleTicket, thresholdDays int) (subject, html string, err error) {
	rows := make([]staleDigestRow, 0, len(tickets))
	for _, t := range tickets {
		color := "#2196f3"
		if t.Status.Normalized() == "open" {
			color = "#ff9800"
		}
		rows = append(rows, staleDigestRow{
			TicketNumber:        t.TicketNumber,
			Name:                t.Name,
			EmployeeID:          t.EmployeeID,
			Badge:               t.Status.Badge(),
			BadgeColor:          color,
			DaysSinceLastUpdate: t.DaysSinceLastUpdate,
			LastUpdated:         t.UpdatedAt.Format(dateLayout),
		})
	}

	var buf strings.Builder
	if err := staleDigestTmpl.Execute(&buf, staleDigestData{ThresholdDays: thresholdDays, Tickets: rows}); err != nil {
		return "", "", err
	}
	subject = fmt.Sprintf("Stale Tickets Alert: %d ticket(s) require attention", len(tickets))
	return subject, buf.String(), nil
}

type newTicketData struct {
	TicketNumber     string
	Status           string
	DateOccurred     string
	ProblemStatement string
	CreatorName      string
	EmployeeID       string
	Department       string
	Branch           string
	DashboardURL     string
}

func renderNewTicket(ticket domain.Ticket, creator domain.User, frontendURL string) (subject, html string, err error) {
	var buf strings.Builder
	data := newTicketData{
		TicketNumber:     ticket.TicketNumber,
		Status:           string(ticket.Status),
		DateOccurred:     ticket.ProblemDateOccurred.Format(dateLayout),
		ProblemStatement: ticket.ProblemStatement,
		CreatorName:      creator.Name,
		EmployeeID:       creator.EmployeeID,
		Department:       valueOrNA(creator.Department),
		Branch:           valueOrNA(creator.Branch),
		DashboardURL:     frontendURL + "/admin/dashboard",
	}
	if err := newTicketTmpl.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return fmt.Sprintf("New IT Support Ticket: %s", ticket.TicketNumber), buf.String(), nil
}

type statusUpdateData struct {
	TicketNumber     string
	OldStatus        string
	NewStatus        string
	ProblemStatement string
	CreatorName      string
	DashboardURL     string
}

func renderStatusUpdate(ticket domain.Ticket, creator domain.User, oldStatus, newStatus domain.TicketStatus, frontendURL string) (subject, html string, err error) {
	var buf strings.Builder
	data := statusUpdateData{
		TicketNumber:     ticket.TicketNumber,
		OldStatus:        string(oldStatus),
		NewStatus:        string(newStatus),
		ProblemStatement: ticket.ProblemStatement,
		CreatorName:      creator.Name,
		DashboardURL:     frontendURL + "/user/dashboard",
	}
	if err := statusUpdateTmpl.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return fmt.Sprintf("Your Ticket Has Been Updated by Admin: %s", ticket.TicketNumber), buf.String(), nil
}

func valueOrNA(val string) string {
	if strings.TrimSpace(val) == "" {
		return "N/A"
	}
	return val
}
