package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// StaleChecker triggers one stale-ticket sweep on demand. The scheduled
// nightly run and this manual trigger share the same code path.
type StaleChecker interface {
	RunNow(ctx context.Context) error
}

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service   *service.TicketService
	checker   StaleChecker
	responder Responder
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, checker StaleChecker, responder Responder) *TicketsHandler {
	return &TicketsHandler{service: ticketService, checker: checker, responder: responder}
}

// Create POST /api/tickets/create.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.ProblemStatement) == "" {
		return apperrors.NewValidationError("problemStatement required", nil)
	}

	ticket, err := h.service.Create(c.UserContext(), principal, service.TicketCreateInput{
		Status:              req.Status,
		ProblemStatement:    req.ProblemStatement,
		ProblemDateOccurred: req.ProblemDateOccurred,
	})
	if err != nil {
		return err
	}
	return h.responder.Send(c, http.StatusCreated, fiber.Map{
		"message": "Ticket created successfully",
		"ticket":  dto.NewTicketResponse(*ticket),
	})
}

// ListAll GET /api/tickets/all. Admin view over every ticket.
func (h *TicketsHandler) ListAll(c *fiber.Ctx) error {
	page, limit, search := listParams(c)
	result, err := h.service.List(c.UserContext(), page, limit, search)
	if err != nil {
		return err
	}
	return h.responder.Send(c, http.StatusOK, ticketListResponse(result))
}

// MyTickets GET /api/tickets/my-tickets. Tickets created by the caller.
func (h *TicketsHandler) MyTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	page, limit, search := listParams(c)
	result, err := h.service.ListForEmployee(c.UserContext(), principal.EmployeeID, page, limit, search)
	if err != nil {
		return err
	}
	return h.responder.Send(c, http.StatusOK, ticketListResponse(result))
}

// Get GET /api/tickets/view/:ticketNumber.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.service.Get(c.UserContext(), c.Params("ticketNumber"))
	if err != nil {
		return err
	}
	return h.responder.Send(c, http.StatusOK, fiber.Map{"ticket": dto.NewTicketResponse(*ticket)})
}

// Update PUT /api/tickets/edit/:ticketNumber.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Update(c.UserContext(), principal, c.Params("ticketNumber"), service.TicketUpdateInput{
		Status:           req.Status,
		ProblemStatement: req.ProblemStatement,
	})
	if err != nil {
		return err
	}
	return h.responder.Send(c, http.StatusOK, fiber.Map{
		"message": "Ticket updated successfully",
		"ticket":  dto.NewTicketResponse(*ticket),
	})
}

// Delete DELETE /api/tickets/delete/:ticketNumber.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("ticketNumber")); err != nil {
		return err
	}
	return h.responder.Send(c, http.StatusOK, dto.MessageResponse{Message: "Ticket deleted successfully"})
}

// Analytics GET /api/tickets/analytics. Dashboard aggregates.
func (h *TicketsHandler) Analytics(c *fiber.Ctx) error {
	analytics, err := h.service.GetAnalytics(c.UserContext())
	if err != nil {
		return err
	}
	return h.responder.Send(c, http.StatusOK, dto.AnalyticsResponse{
		Tickets:      dto.NewTicketResponses(analytics.Tickets),
		TotalTickets: analytics.Total,
		StatusCounts: analytics.StatusCounts,
	})
}

// CheckStale POST /api/tickets/check-stale-tickets. Runs one sweep with the
// same semantics as the nightly schedule and reports completion.
func (h *TicketsHandler) CheckStale(c *fiber.Ctx) error {
	if err := h.checker.RunNow(c.UserContext()); err != nil {
		return err
	}
	return h.responder.Send(c, http.StatusOK, dto.StaleCheckResponse{
		Message: "Stale ticket check completed; notifications sent where needed",
	})
}

func listParams(c *fiber.Ctx) (page, limit int, search string) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	limit, _ = strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit, strings.TrimSpace(c.Query("search"))
}

func ticketListResponse(result *service.TicketPage) dto.TicketListResponse {
	return dto.TicketListResponse{
		Tickets: dto.NewTicketResponses(result.Tickets),
		Pagination: dto.Pagination{
			CurrentPage:  result.CurrentPage,
			TotalPages:   result.TotalPages,
			TotalTickets: result.Total,
			HasNextPage:  result.CurrentPage < result.TotalPages,
			HasPrevPage:  result.CurrentPage > 1,
			Limit:        result.Limit,
		},
	}
}
