package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/notify"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// EscalationService runs one stale-ticket check-and-notify cycle: query
// unresolved tickets, apply the staleness predicate, send the digest. The
// cycle is a pure read followed by best-effort dispatch, so concurrent
// cycles (timer plus manual trigger) are tolerated without locking.
type EscalationService struct {
	tickets       repository.TicketRepository
	notifier      *notify.Notifier
	metrics       *observability.Metrics
	logger        *zap.Logger
	thresholdDays int
	location      *time.Location
	now           func() time.Time
}

// NewEscalationService constructs the service.
func NewEscalationService(
	tickets repository.TicketRepository,
	notifier *notify.Notifier,
	metrics *observability.Metrics,
	logger *zap.Logger,
	thresholdDays int,
	location *time.Location,
) *EscalationService {
	if thresholdDays <= 0 {
		thresholdDays = 1
	}
	if location == nil {
		location = time.Local
	}
	return &EscalationService{
		tickets:       tickets,
		notifier:      notifier,
		metrics:       metrics,
		logger:        logger,
		thresholdDays: thresholdDays,
		location:      location,
		now:           time.Now,
	}
}

// StaleTickets derives the current stale set: open or in-progress tickets
// whose last update is at least the threshold number of calendar days old,
// ordered oldest update first. Pure read; calling it twice without
// intervening mutations yields the same records.
func (s *EscalationService) StaleTickets(ctx context.Context) ([]domain.StaleTicket, error) {
	candidates, err := s.tickets.ListUnresolved(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch unresolved tickets: %w", err)
	}

	now := s.now()
	var stale []domain.StaleTicket
	for _, ticket := range candidates {
		if record, ok := ticket.StaleAsOf(now, s.thresholdDays, s.location); ok {
			stale = append(stale, record)
		}
	}
	return stale, nil
}

// RunCycle executes one check-and-notify cycle. Results are logged, not
// returned to any caller beyond the error for cycle-level logging.
func (s *EscalationService) RunCycle(ctx context.Context) error {
	s.logger.Info("checking for stale tickets",
		zap.Int("threshold_days", s.thresholdDays))

	stale, err := s.StaleTickets(ctx)
	if err != nil {
		return err
	}

	if err := s.notifier.SendStaleDigest(ctx, stale, s.thresholdDays); err != nil {
		return fmt.Errorf("send stale digest: %w", err)
	}
	s.metrics.RecordCycle(len(stale))
	return nil
}
