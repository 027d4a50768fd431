package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/Dosada05/fight-events/models"
)

var (
	ErrTicketNotFound         = errors.New("ticket not found")
	ErrTicketAlreadyCheckedIn = errors.New("ticket already checked in")
	ErrTicketCodeConflict     = errors.New("ticket code already exists")
)

// SalesTotals are aggregated non-canceled ticket sales.
type SalesTotals struct {
	TicketsSold  int
	RevenueCents int64
}

type TicketRepository interface {
	Create(ctx context.Context, exec SQLExecutor, ticket *models.Ticket) error
	CountSold(ctx context.Context, exec SQLExecutor, eventID int) (int, error)
	ListByEvent(ctx context.Context, eventID int) ([]models.Ticket, error)
	GetByCode(ctx context.Context, code string) (*models.Ticket, error)
	CheckIn(ctx context.Context, code string, at time.Time) (*models.Ticket, error)
	Totals(ctx context.Context, from, to time.Time) (SalesTotals, error)
	DailySales(ctx context.Context, from, to time.Time) ([]models.DailySales, error)
}

type postgresTicketRepository struct {
	db *sql.DB
}

func NewPostgresTicketRepository(db *sql.DB) TicketRepository {
	return &postgresTicketRepository{db: db}
}

const ticketColumns = `id, event_id, code, buyer_name, buyer_email, tier, quantity,
	unit_price_cents, total_cents, status, created_at, checked_in_at`

func scanTicket(row rowScanner, t *models.Ticket) error {
	return row.Scan(&t.ID, &t.EventID, &t.Code, &t.BuyerName, &t.BuyerEmail, &t.Tier, &t.Quantity,
		&t.UnitPriceCents, &t.TotalCents, &t.Status, &t.CreatedAt, &t.CheckedInAt)
}

func (r *postgresTicketRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Ticket) error {
	query := `
		INSERT INTO tickets (event_id, code, buyer_name, buyer_email, tier, quantity,
			unit_price_cents, total_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`
	err := executor(r.db, exec).QueryRowContext(ctx, query,
		t.EventID, t.Code, t.BuyerName, t.BuyerEmail, t.Tier, t.Quantity,
		t.UnitPriceCents, t.TotalCents, t.Status,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		if code, _, ok := pqCode(err); ok && code == pgUniqueViolation {
			return ErrTicketCodeConflict
		}
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

func (r *postgresTicketRepository) CountSold(ctx context.Context, exec SQLExecutor, eventID int) (int, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM tickets WHERE event_id = $1 AND status <> 'canceled'`
	var n int
	if err := executor(r.db, exec).QueryRowContext(ctx, query, eventID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sold tickets: %w", err)
	}
	return n, nil
}

func (r *postgresTicketRepository) ListByEvent(ctx context.Context, eventID int) ([]models.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE event_id = $1 ORDER BY created_at DESC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	tickets := make([]models.Ticket, 0)
	for rows.Next() {
		var t models.Ticket
		if err := scanTicket(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan ticket row: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (r *postgresTicketRepository) GetByCode(ctx context.Context, code string) (*models.Ticket, error) {
	t := &models.Ticket{}
	if err := scanTicket(r.db.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE code = $1`, code), t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return t, nil
}

// CheckIn marks a paid ticket as used. A second check-in is rejected.
func (r *postgresTicketRepository) CheckIn(ctx context.Context, code string, at time.Time) (*models.Ticket, error) {
	query := `
		UPDATE tickets SET status = 'checked_in', checked_in_at = $1
		WHERE code = $2 AND status = 'paid'
		RETURNING ` + ticketColumns
	t := &models.Ticket{}
	err := scanTicket(r.db.QueryRowContext(ctx, query, at, code), t)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check in ticket: %w", err)
	}

	existing, getErr := r.GetByCode(ctx, code)
	if getErr != nil {
		return nil, getErr
	}
	if existing.Status == models.TicketCheckedIn {
		return nil, ErrTicketAlreadyCheckedIn
	}
	return nil, ErrTicketNotFound
}

func (r *postgresTicketRepository) Totals(ctx context.Context, from, to time.Time) (SalesTotals, error) {
	query, args, err := psql.Select("COALESCE(SUM(quantity), 0)", "COALESCE(SUM(total_cents), 0)").
		From("tickets").
		Where(sq.NotEq{"status": models.TicketCanceled}).
		Where(timeWindow("created_at", from, to)).
		ToSql()
	if err != nil {
		return SalesTotals{}, err
	}
	var totals SalesTotals
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&totals.TicketsSold, &totals.RevenueCents); err != nil {
		return SalesTotals{}, fmt.Errorf("failed to sum ticket sales: %w", err)
	}
	return totals, nil
}

func (r *postgresTicketRepository) DailySales(ctx context.Context, from, to time.Time) ([]models.DailySales, error) {
	query, args, err := psql.Select(
		"to_char(date_trunc('day', created_at), 'YYYY-MM-DD') AS day",
		"COALESCE(SUM(quantity), 0)",
		"COALESCE(SUM(total_cents), 0)",
	).
		From("tickets").
		Where(sq.NotEq{"status": models.TicketCanceled}).
		Where(timeWindow("created_at", from, to)).
		GroupBy("day").
		OrderBy("day ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily sales: %w", err)
	}
	defer rows.Close()

	sales := make([]models.DailySales, 0)
	for rows.Next() {
		var d models.DailySales
		if err := rows.Scan(&d.Date, &d.TicketsSold, &d.RevenueCents); err != nil {
			return nil, fmt.Errorf("failed to scan daily sales row: %w", err)
		}
		sales = append(sales, d)
	}
	return sales, rows.Err()
}
