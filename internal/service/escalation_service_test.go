package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/notify"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/repository"
)

type fakeTicketRepo struct {
	repository.TicketRepository
	unresolved []domain.Ticket
	err        error
}

func (f *fakeTicketRepo) ListUnresolved(ctx context.Context) ([]domain.Ticket, error) {
	return f.unresolved, f.err
}

type fakeUserRepo struct {
	repository.UserRepository
	adminEmails []string
	err         error
}

func (f *fakeUserRepo) AdminEmails(ctx context.Context) ([]string, error) {
	return f.adminEmails, f.err
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	sent    []sentMail
	failFor map[string]error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func newTestEscalation(tickets *fakeTicketRepo, users *fakeUserRepo, mailer *fakeMailer, threshold int, now time.Time) (*EscalationService, *observability.Metrics) {
	logger := zap.NewNop()
	notifier := notify.NewNotifier(mailer, users, logger, "http://localhost:3000")
	metrics := observability.NewMetrics()
	svc := NewEscalationService(tickets, notifier, metrics, logger, threshold, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, metrics
}

func openTicket(number string, updatedAt time.Time) domain.Ticket {
	return domain.Ticket{
		TicketNumber:     number,
		EmployeeID:       "E-1001",
		Name:             "Dana",
		Status:           domain.TicketStatusOpen,
		ProblemStatement: "printer jam",
		CreatedAt:        updatedAt,
		UpdatedAt:        updatedAt,
	}
}

func TestStaleTicketsAppliesThreshold(t *testing.T) {
	now := time.Date(2024, 3, 12, 11, 0, 0, 0, time.UTC)
	tickets := &fakeTicketRepo{unresolved: []domain.Ticket{
		openTicket("TKT-0005", now.AddDate(0, 0, -3)),
		openTicket("TKT-0007", now.AddDate(0, 0, -2)),
		openTicket("TKT-0009", now),
	}}
	svc, _ := newTestEscalation(tickets, &fakeUserRepo{}, &fakeMailer{}, 1, now)

	stale, err := svc.StaleTickets(context.Background())
	require.NoError(t, err)
	require.Len(t, stale, 2)

	// Order follows the repository's oldest-update-first sequence.
	assert.Equal(t, "TKT-0005", stale[0].TicketNumber)
	assert.Equal(t, 3, stale[0].DaysSinceLastUpdate)
	assert.Equal(t, "TKT-0007", stale[1].TicketNumber)
	assert.Equal(t, 2, stale[1].DaysSinceLastUpdate)
}

func TestRunCycleSendsDigestToEveryAdmin(t *testing.T) {
	now := time.Date(2024, 3, 12, 11, 0, 0, 0, time.UTC)
	tickets := &fakeTicketRepo{unresolved: []domain.Ticket{
		openTicket("TKT-0007", now.AddDate(0, 0, -2)),
	}}
	users := &fakeUserRepo{adminEmails: []string{"a@corp.test", "b@corp.test"}}
	mailer := &fakeMailer{}
	svc, metrics := newTestEscalation(tickets, users, mailer, 1, now)

	require.NoError(t, svc.RunCycle(context.Background()))
	require.Len(t, mailer.sent, 2)

	for _, mail := range mailer.sent {
		assert.Contains(t, mail.subject, "1 ticket")
		assert.Contains(t, mail.body, "TKT-0007")
		assert.Contains(t, mail.body, "OPEN")
	}
	// Every recipient receives the identical digest document.
	assert.Equal(t, mailer.sent[0].body, mailer.sent[1].body)

	cycles, staleCount := metrics.CycleStats()
	assert.Equal(t, int64(1), cycles)
	assert.Equal(t, 1, staleCount)
}

func TestRunCycleContinuesPastFailedRecipients(t *testing.T) {
	now := time.Date(2024, 3, 12, 11, 0, 0, 0, time.UTC)
	tickets := &fakeTicketRepo{unresolved: []domain.Ticket{
		openTicket("TKT-0001", now.AddDate(0, 0, -5)),
	}}
	users := &fakeUserRepo{adminEmails: []string{"a@corp.test", "b@corp.test", "c@corp.test"}}
	mailer := &fakeMailer{failFor: map[string]error{"b@corp.test": errors.New("smtp 550")}}
	svc, _ := newTestEscalation(tickets, users, mailer, 1, now)

	require.NoError(t, svc.RunCycle(context.Background()))

	var delivered []string
	for _, mail := range mailer.sent {
		delivered = append(delivered, mail.to)
	}
	assert.Equal(t, []string{"a@corp.test", "c@corp.test"}, delivered)
}

func TestRunCycleNoStaleTicketsIsNoOp(t *testing.T) {
	now := time.Date(2024, 3, 12, 11, 0, 0, 0, time.UTC)
	tickets := &fakeTicketRepo{unresolved: []domain.Ticket{
		openTicket("TKT-0002", now),
	}}
	mailer := &fakeMailer{}
	users := &fakeUserRepo{adminEmails: []string{"a@corp.test"}}
	svc, metrics := newTestEscalation(tickets, users, mailer, 1, now)

	require.NoError(t, svc.RunCycle(context.Background()))
	assert.Empty(t, mailer.sent)

	cycles, staleCount := metrics.CycleStats()
	assert.Equal(t, int64(1), cycles)
	assert.Equal(t, 0, staleCount)
}

func TestRunCycleNoRecipientsSkipsSend(t *testing.T) {
	now := time.Date(2024, 3, 12, 11, 0, 0, 0, time.UTC)
	tickets := &fakeTicketRepo{unresolved: []domain.Ticket{
		openTicket("TKT-0003", now.AddDate(0, 0, -4)),
	}}
	mailer := &fakeMailer{}
	svc, _ := newTestEscalation(tickets, &fakeUserRepo{}, mailer, 1, now)

	require.NoError(t, svc.RunCycle(context.Background()))
	assert.Empty(t, mailer.sent)
}

func TestRunCyclePropagatesRepositoryError(t *testing.T) {
	now := time.Date(2024, 3, 12, 11, 0, 0, 0, time.UTC)
	tickets := &fakeTicketRepo{err: errors.New("connection refused")}
	svc, metrics := newTestEscalation(tickets, &fakeUserRepo{}, &fakeMailer{}, 1, now)

	err := svc.RunCycle(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "connection refused"))

	cycles, _ := metrics.CycleStats()
	assert.Equal(t, int64(0), cycles)
}

func TestRunCycleIsIdempotentWithoutMutations(t *testing.T) {
	now := time.Date(2024, 3, 12, 11, 0, 0, 0, time.UTC)
	tickets := &fakeTicketRepo{unresolved: []domain.Ticket{
		openTicket("TKT-0004", now.AddDate(0, 0, -2)),
	}}
	users := &fakeUserRepo{adminEmails: []string{"a@corp.test"}}
	mailer := &fakeMailer{}
	svc, _ := newTestEscalation(tickets, users, mailer, 1, now)

	require.NoError(t, svc.RunCycle(context.Background()))
	require.NoError(t, svc.RunCycle(context.Background()))

	require.Len(t, mailer.sent, 2)
	assert.Equal(t, mailer.sent[0].body, mailer.sent[1].body)
}
