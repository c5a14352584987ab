package domain

import "time"

// StaleTicket is a ticket flagged by the escalation check, annotated with
// how long it has sat without an update. It is derived fresh on every cycle
// and never persisted.
type StaleTicket struct {
	Ticket
	DaysSinceLastUpdate int
}

// DaysBetween returns the calendar-day difference between two instants in
// the given location. Both timestamps are truncated to their date before
// subtracting, so 23:59 yesterday to 00:01 today counts as one day.
func DaysBetween(from, to time.Time, loc *time.Location) int {
	f := from.In(loc)
	t := to.In(loc)
	fd := time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, loc)
	td := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return int(td.Sub(fd).Hours() / 24)
}

// StaleAsOf reports whether the ticket qualifies as stale at the given
// instant: still open or in progress, and last updated at least
// thresholdDays calendar days ago.
func (t Ticket) StaleAsOf(now time.Time, thresholdDays int, loc *time.Location) (StaleTicket, bool) {
	if !t.Status.Unresolved() {
		return StaleTicket{}, false
	}
	days := DaysBetween(t.UpdatedAt, now, loc)
	if days < thresholdDays {
		return StaleTicket{}, false
	}
	return StaleTicket{Ticket: t, DaysSinceLastUpdate: days}, true
}
