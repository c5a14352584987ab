package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// Notifier turns domain happenings into admin/user emails. All delivery is
// best-effort: per-recipient failures are logged with the failing address
// and never abort the remaining sends or the triggering operation.
type Notifier struct {
	mailer      Mailer
	users       repository.UserRepository
	logger      *zap.Logger
	frontendURL string
}

// NewNotifier creates the service.
func NewNotifier(mailer Mailer, users repository.UserRepository, logger *zap.Logger, frontendURL string) *Notifier {
	return &Notifier{
		mailer:      mailer,
		users:       users,
		logger:      logger,
		frontendURL: frontendURL,
	}
}

// RegisterHandlers subscribes to ticket lifecycle events.
func (n *Notifier) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	dispatcher.Subscribe(events.EventTicketUpdated, n.handleTicketUpdated)
}

// SendStaleDigest renders one digest for the full stale sequence and sends
// the identical document to every admin-equivalent account, sequentially.
// An empty sequence is a logged no-op with zero network calls.
func (n *Notifier) SendStaleDigest(ctx context.Context, tickets []domain.StaleTicket, thresholdDays int) error {
	if len(tickets) == 0 {
		n.logger.Info("no stale tickets found")
		return nil
	}
	n.logger.Info("stale tickets found", zap.Int("count", len(tickets)))

	recipients, err := n.users.AdminEmails(ctx)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		n.logger.Warn("no admin recipients configured; skipping stale digest")
		return nil
	}

	subject, html, err := renderStaleDigest(tickets, thresholdDays)
	if err != nil {
		return err
	}

	n.sendToEach(ctx, recipients, subject, html)
	return nil
}

func (n *Notifier) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}

	creator, err := n.users.GetByEmployeeID(ctx, payload.Ticket.EmployeeID)
	if err != nil {
		n.logger.Error("ticket created: cannot load creator",
			zap.String("ticket_number", event.TicketNumber), zap.Error(err))
		return nil
	}

	recipients, err := n.users.AdminEmails(ctx)
	if err != nil {
		n.logger.Error("ticket created: cannot resolve admin recipients", zap.Error(err))
		return nil
	}
	if len(recipients) == 0 {
		return nil
	}

	subject, html, err := renderNewTicket(payload.Ticket, *creator, n.frontendURL)
	if err != nil {
		n.logger.Error("ticket created: render failed", zap.Error(err))
		return nil
	}

	n.sendToEach(ctx, recipients, subject, html)
	return nil
}

// handleTicketUpdated mails the ticket creator, but only when the change was
// made by an admin-equivalent account; users editing their own tickets do
// not notify themselves.
func (n *Notifier) handleTicketUpdated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketUpdatedPayload)
	if !ok {
		return nil
	}
	if !event.Actor.Role.AdminEquivalent() {
		return nil
	}

	creator, err := n.users.GetByEmployeeID(ctx, payload.Ticket.EmployeeID)
	if err != nil {
		n.logger.Error("ticket updated: cannot load creator",
			zap.String("ticket_number", event.TicketNumber), zap.Error(err))
		return nil
	}

	subject, html, err := renderStatusUpdate(payload.Ticket, *creator, payload.OldStatus, payload.NewStatus, n.frontendURL)
	if err != nil {
		n.logger.Error("ticket updated: render failed", zap.Error(err))
		return nil
	}

	if err := n.mailer.Send(ctx, creator.Email, subject, html); err != nil {
		n.logger.Error("ticket updated: delivery failed",
			zap.String("to", creator.Email), zap.Error(err))
	}
	return nil
}

func (n *Notifier) sendToEach(ctx context.Context, recipients []string, subject, html string) {
	for _, to := range recipients {
		if err := n.mailer.Send(ctx, to, subject, html); err != nil {
			n.logger.Error("mail delivery failed", zap.String("to", to), zap.Error(err))
			continue
		}
		n.logger.Info("mail sent", zap.String("to", to))
	}
}
