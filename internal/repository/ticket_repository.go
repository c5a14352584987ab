package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// TicketFilter captures listing parameters. Search terms are always bound as
// query parameters, never interpolated into SQL text.
type TicketFilter struct {
	EmployeeID *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	NextTicketNumber(ctx context.Context) (string, error)
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByNumber(ctx context.Context, ticketNumber string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	ListUnresolved(ctx context.Context) ([]domain.Ticket, error)
	Delete(ctx context.Context, ticketNumber string) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

// NextTicketNumber draws the next value from the ticket sequence and formats
// it as TKT-#### (zero-padded, grows past four digits).
func (r *ticketRepository) NextTicketNumber(ctx context.Context) (string, error) {
	var seq int64
	if err := r.pool.QueryRow(ctx, `SELECT nextval('ticket_number_seq')`).Scan(&seq); err != nil {
		return "", err
	}
	return fmt.Sprintf("TKT-%04d", seq), nil
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_number, employee_id, name, status, problem_statement, problem_date_occurred)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.EmployeeID,
		ticket.Name,
		ticket.Status,
		ticket.ProblemStatement,
		ticket.ProblemDateOccurred,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

// Update persists status and problem statement changes. updated_at is bumped
// on every call; it anchors the staleness computation.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, problem_statement=$2, updated_at=NOW()
        WHERE ticket_number=$3
        RETURNING updated_at`
	if err := r.pool.QueryRow(ctx, query,
		ticket.Status,
		ticket.ProblemStatement,
		ticket.TicketNumber,
	).Scan(&ticket.UpdatedAt); err != nil {
		return err
	}
	return nil
}

func (r *ticketRepository) GetByNumber(ctx context.Context, ticketNumber string) (*domain.Ticket, error) {
	const query = `
        SELECT id, ticket_number, employee_id, name, status, problem_statement,
               problem_date_occurred, created_at, updated_at
        FROM tickets WHERE ticket_number=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, ticketNumber).Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.EmployeeID,
		&ticket.Name,
		&ticket.Status,
		&ticket.ProblemStatement,
		&ticket.ProblemDateOccurred,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("employee_id=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(ticket_number) LIKE %[1]s OR LOWER(name) LIKE %[1]s OR LOWER(employee_id) LIKE %[1]s OR LOWER(status) LIKE %[1]s OR LOWER(problem_statement) LIKE %[1]s)",
			placeholder))
	}
	where := strings.Join(clauses, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM tickets WHERE %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
        SELECT id, ticket_number, employee_id, name, status, problem_statement,
               problem_date_occurred, created_at, updated_at
        FROM tickets WHERE %s
        ORDER BY created_at DESC LIMIT %d OFFSET %d`, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	tickets, err := scanTickets(rows)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
        SELECT id, ticket_number, employee_id, name, status, problem_statement,
               problem_date_occurred, created_at, updated_at
        FROM tickets ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// ListUnresolved returns all open or in-progress tickets, oldest update
// first, so the most neglected tickets lead any digest built from them.
// The day filtering itself happens in the domain predicate.
func (r *ticketRepository) ListUnresolved(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
        SELECT id, ticket_number, employee_id, name, status, problem_statement,
               problem_date_occurred, created_at, updated_at
        FROM tickets
        WHERE LOWER(status) IN ('open', 'in progress')
        ORDER BY updated_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Delete(ctx context.Context, ticketNumber string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE ticket_number=$1`, ticketNumber)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT LOWER(status), COUNT(*) FROM tickets GROUP BY LOWER(status)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.TicketNumber,
			&ticket.EmployeeID,
			&ticket.Name,
			&ticket.Status,
			&ticket.ProblemStatement,
			&ticket.ProblemDateOccurred,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
