package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

const (
	analyticsCacheKey = "helpdesk:analytics:status_counts"
	analyticsCacheTTL = 60 * time.Second
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	cache      *redis.Client
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Cache      *redis.Client
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
		logger:     deps.Logger,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Status              domain.TicketStatus
	ProblemStatement    string
	ProblemDateOccurred time.Time
}

// TicketUpdateInput carries optional fields; nil means keep the stored value.
type TicketUpdateInput struct {
	Status           *domain.TicketStatus
	ProblemStatement *string
}

// TicketPage bundles a listing with its pagination summary.
type TicketPage struct {
	Tickets     []domain.Ticket
	CurrentPage int
	TotalPages  int
	Total       int
	Limit       int
}

// Analytics aggregates the full ticket set for dashboard charts.
type Analytics struct {
	Tickets      []domain.Ticket
	Total        int
	StatusCounts map[string]int
}

// Create assigns the next TKT-#### number, stores the ticket, and publishes
// the created event. Email outcomes never affect the returned result.
func (s *TicketService) Create(ctx context.Context, creator *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	number, err := s.tickets.NextTicketNumber(ctx)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.TicketStatusOpen
	}

	ticket := &domain.Ticket{
		TicketNumber:        number,
		EmployeeID:          creator.EmployeeID,
		Name:                creator.Name,
		Status:              status,
		ProblemStatement:    strings.TrimSpace(input.ProblemStatement),
		ProblemDateOccurred: input.ProblemDateOccurred,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.invalidateAnalyticsCache(ctx)
	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketCreated,
		TicketNumber: ticket.TicketNumber,
		Actor:        events.Actor{EmployeeID: creator.EmployeeID, Role: creator.Role},
		Payload:      events.TicketCreatedPayload{Ticket: *ticket},
	})
	return ticket, nil
}

// Get fetches a ticket by its number.
func (s *TicketService) Get(ctx context.Context, ticketNumber string) (*domain.Ticket, error) {
	return s.tickets.GetByNumber(ctx, ticketNumber)
}

// List returns a paginated, searchable ticket listing across all employees.
func (s *TicketService) List(ctx context.Context, page, limit int, search string) (*TicketPage, error) {
	return s.list(ctx, nil, page, limit, search)
}

// ListForEmployee returns a paginated, searchable listing scoped to one
// employee's own tickets.
func (s *TicketService) ListForEmployee(ctx context.Context, employeeID string, page, limit int, search string) (*TicketPage, error) {
	return s.list(ctx, &employeeID, page, limit, search)
}

func (s *TicketService) list(ctx context.Context, employeeID *string, page, limit int, search string) (*TicketPage, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	filter := repository.TicketFilter{
		EmployeeID: employeeID,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}
	if strings.TrimSpace(search) != "" {
		filter.SearchTerm = &search
	}
	tickets, total, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	totalPages := (total + limit - 1) / limit
	return &TicketPage{
		Tickets:     tickets,
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
		Limit:       limit,
	}, nil
}

// Update applies the requested changes and publishes the updated event with
// the status transition so the creator can be notified of admin edits.
func (s *TicketService) Update(ctx context.Context, actor *domain.User, ticketNumber string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByNumber(ctx, ticketNumber)
	if err != nil {
		return nil, err
	}
	oldStatus := ticket.Status

	if input.Status != nil {
		if !validStatus(*input.Status) {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
		}
		ticket.Status = *input.Status
	}
	if input.ProblemStatement != nil && strings.TrimSpace(*input.ProblemStatement) != "" {
		ticket.ProblemStatement = strings.TrimSpace(*input.ProblemStatement)
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.invalidateAnalyticsCache(ctx)
	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketUpdated,
		TicketNumber: ticket.TicketNumber,
		Actor:        events.Actor{EmployeeID: actor.EmployeeID, Role: actor.Role},
		Payload: events.TicketUpdatedPayload{
			Ticket:    *ticket,
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
		},
	})
	return ticket, nil
}

// Delete removes a ticket by number.
func (s *TicketService) Delete(ctx context.Context, ticketNumber string) error {
	if err := s.tickets.Delete(ctx, ticketNumber); err != nil {
		return err
	}
	s.invalidateAnalyticsCache(ctx)
	return nil
}

// GetAnalytics returns every ticket plus per-status counts. The counts are
// cached briefly in Redis; a cache miss or unreachable cache falls back to
// the database.
func (s *TicketService) GetAnalytics(ctx context.Context) (*Analytics, error) {
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	counts, ok := s.cachedStatusCounts(ctx)
	if !ok {
		counts, err = s.tickets.CountByStatus(ctx)
		if err != nil {
			return nil, err
		}
		s.storeStatusCounts(ctx, counts)
	}

	return &Analytics{
		Tickets:      tickets,
		Total:        len(tickets),
		StatusCounts: counts,
	}, nil
}

func (s *TicketService) cachedStatusCounts(ctx context.Context) (map[string]int, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, analyticsCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var counts map[string]int
	if err := json.Unmarshal(raw, &counts); err != nil {
		return nil, false
	}
	return counts, true
}

func (s *TicketService) storeStatusCounts(ctx context.Context, counts map[string]int) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(counts)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, analyticsCacheKey, raw, analyticsCacheTTL).Err(); err != nil {
		s.logger.Debug("analytics cache write failed", zap.Error(err))
	}
}

func (s *TicketService) invalidateAnalyticsCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, analyticsCacheKey).Err(); err != nil {
		s.logger.Debug("analytics cache invalidation failed", zap.Error(err))
	}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validStatus(status domain.TicketStatus) bool {
	switch status.Normalized() {
	case "open", "in progress", "closed":
		return true
	}
	return false
}
