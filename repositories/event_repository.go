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
	ErrEventNotFound     = errors.New("event not found")
	ErrEventNameConflict = errors.New("an event with this name already starts at that date")
	ErrEventInvalidDates = errors.New("event end date must not be before start date")
)

type ListEventsFilter struct {
	Status *models.EventStatus
	Format *string
	Search string
	Page   int
	Limit  int
}

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context, filter ListEventsFilter) ([]models.Event, int, error)
	Update(ctx context.Context, event *models.Event) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.EventStatus) error
	UpdateBracketFlags(ctx context.Context, exec SQLExecutor, id int, publish, show bool) error
	UpdatePosterURL(ctx context.Context, id int, url string) error
	Delete(ctx context.Context, id int) error
	LockForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Event, error)
	ListForStatusUpdate(ctx context.Context, now time.Time) ([]models.Event, error)
	Count(ctx context.Context, status *models.EventStatus) (int, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

const eventColumns = `id, name, description, format, sport, sanctioning_body, venue,
	start_date, end_date, status, poster_url, logo_url, publish_brackets, show_brackets,
	ticket_price_cents, ticket_capacity, promoter_id, created_at, updated_at`

func scanEvent(row rowScanner, e *models.Event) error {
	return row.Scan(
		&e.ID, &e.Name, &e.Description, &e.Format, &e.Sport, &e.SanctioningBody, &e.Venue,
		&e.StartDate, &e.EndDate, &e.Status, &e.PosterURL, &e.LogoURL, &e.PublishBrackets, &e.ShowBrackets,
		&e.TicketPriceCents, &e.TicketCapacity, &e.PromoterID, &e.CreatedAt, &e.UpdatedAt,
	)
}

func (r *postgresEventRepository) Create(ctx context.Context, e *models.Event) error {
	query := `
		INSERT INTO events (
			name, description, format, sport, sanctioning_body, venue, start_date, end_date,
			status, poster_url, logo_url, publish_brackets, show_brackets,
			ticket_price_cents, ticket_capacity, promoter_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		e.Name, e.Description, e.Format, e.Sport, e.SanctioningBody, e.Venue, e.StartDate, e.EndDate,
		e.Status, e.PosterURL, e.LogoURL, e.PublishBrackets, e.ShowBrackets,
		e.TicketPriceCents, e.TicketCapacity, e.PromoterID,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)

	return r.handleEventError(err)
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	e := &models.Event{}
	if err := scanEvent(r.db.QueryRowContext(ctx, query, id), e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	return e, nil
}

func (r *postgresEventRepository) List(ctx context.Context, filter ListEventsFilter) ([]models.Event, int, error) {
	where := sq.And{}
	if filter.Status != nil {
		where = append(where, sq.Eq{"status": *filter.Status})
	}
	if filter.Format != nil {
		where = append(where, sq.Eq{"format": *filter.Format})
	}
	if filter.Search != "" {
		where = append(where, sq.ILike{"name": "%" + filter.Search + "%"})
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("events").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build event count query: %w", err)
	}
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	query, args, err := psql.Select(eventColumns).From("events").Where(where).
		OrderBy("start_date DESC", "id DESC").
		Limit(uint64(filter.Limit)).Offset(pageOffset(filter.Page, filter.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build event list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		var e models.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, 0, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, total, nil
}

func (r *postgresEventRepository) Update(ctx context.Context, e *models.Event) error {
	query := `
		UPDATE events SET
			name = $1, description = $2, format = $3, sport = $4, sanctioning_body = $5, venue = $6,
			start_date = $7, end_date = $8, status = $9, logo_url = $10,
			publish_brackets = $11, show_brackets = $12, ticket_price_cents = $13, ticket_capacity = $14,
			promoter_id = $15, updated_at = NOW()
		WHERE id = $16
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		e.Name, e.Description, e.Format, e.Sport, e.SanctioningBody, e.Venue,
		e.StartDate, e.EndDate, e.Status, e.LogoURL,
		e.PublishBrackets, e.ShowBrackets, e.TicketPriceCents, e.TicketCapacity,
		e.PromoterID, e.ID,
	).Scan(&e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrEventNotFound
	}
	return r.handleEventError(err)
}

func (r *postgresEventRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.EventStatus) error {
	query := `UPDATE events SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := executor(r.db, exec).ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) UpdateBracketFlags(ctx context.Context, exec SQLExecutor, id int, publish, show bool) error {
	query := `UPDATE events SET publish_brackets = $1, show_brackets = $2, updated_at = NOW() WHERE id = $3`
	result, err := executor(r.db, exec).ExecContext(ctx, query, publish, show, id)
	if err != nil {
		return fmt.Errorf("failed to update bracket flags: %w", err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) UpdatePosterURL(ctx context.Context, id int, url string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE events SET poster_url = $1, updated_at = NOW() WHERE id = $2`, url, id)
	if err != nil {
		return fmt.Errorf("failed to update poster url: %w", err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

// LockForUpdate reads an event inside a transaction and holds its row lock.
func (r *postgresEventRepository) LockForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	e := &models.Event{}
	if err := scanEvent(executor(r.db, exec).QueryRowContext(ctx, query, id), e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to lock event %d: %w", id, err)
	}
	return e, nil
}

// ListForStatusUpdate returns events whose status lags behind their dates.
func (r *postgresEventRepository) ListForStatusUpdate(ctx context.Context, now time.Time) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
		WHERE (status = 'upcoming' AND start_date <= $1)
		   OR (status = 'live' AND end_date <= $1)`

	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for status update: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		var e models.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *postgresEventRepository) Count(ctx context.Context, status *models.EventStatus) (int, error) {
	builder := psql.Select("COUNT(*)").From("events")
	if status != nil {
		builder = builder.Where(sq.Eq{"status": *status})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}

func (r *postgresEventRepository) handleEventError(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint, ok := pqCode(err); ok {
		switch {
		case code == pgUniqueViolation && constraint == "events_name_start_key":
			return ErrEventNameConflict
		case code == pgCheckViolation && constraint == "chk_event_dates":
			return ErrEventInvalidDates
		}
	}
	return fmt.Errorf("event query failed: %w", err)
}
