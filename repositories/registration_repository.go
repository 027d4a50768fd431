package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/Dosada05/fight-events/models"
)

var (
	ErrRegistrationNotFound      = errors.New("registration not found")
	ErrRegistrationDuplicate     = errors.New("this email is already registered for the event")
	ErrRegistrationEventNotFound = errors.New("event for registration not found")
)

// ListRegistrationsFilter mirrors the query string of the participants table.
type ListRegistrationsFilter struct {
	EventID     int
	Type        *models.RegistrationType
	Status      *models.RegistrationStatus
	WeightClass *string
	AgeClass    *string
	Search      string
	Page        int
	Limit       int // 0 = без ограничения (для экспорта)
}

// RegistrationCounts are per-type totals for the dashboard.
type RegistrationCounts struct {
	Fighters  int
	Trainers  int
	Promoters int
}

type RegistrationRepository interface {
	Create(ctx context.Context, reg *models.Registration) error
	GetByID(ctx context.Context, id int) (*models.Registration, error)
	List(ctx context.Context, filter ListRegistrationsFilter) ([]models.Registration, int, error)
	UpdateStatus(ctx context.Context, id int, status models.RegistrationStatus) error
	UpdatePhotoURL(ctx context.Context, id int, url string) error
	UpdateLicenseURL(ctx context.Context, id int, url string) error
	CountByType(ctx context.Context, from, to time.Time) (RegistrationCounts, error)
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

const registrationColumns = `id, event_id, type, first_name, last_name, email, phone, date_of_birth,
	gender, weight_class, age_class, club, profile_photo_url, license_certificate_url, trainers,
	status, created_at`

func scanRegistration(row rowScanner, r *models.Registration) error {
	return row.Scan(&r.ID, &r.EventID, &r.Type, &r.FirstName, &r.LastName, &r.Email, &r.Phone,
		&r.DateOfBirth, &r.Gender, &r.WeightClass, &r.AgeClass, &r.Club, &r.ProfilePhotoURL,
		&r.LicenseCertificateURL, pq.Array(&r.Trainers), &r.Status, &r.CreatedAt)
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	if reg.Trainers == nil {
		reg.Trainers = []string{}
	}
	if reg.Status == "" {
		reg.Status = models.RegistrationPending
	}
	query := `
		INSERT INTO registrations (event_id, type, first_name, last_name, email, phone, date_of_birth,
			gender, weight_class, age_class, club, profile_photo_url, license_certificate_url, trainers, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		reg.EventID, reg.Type, reg.FirstName, reg.LastName, reg.Email, reg.Phone, reg.DateOfBirth,
		reg.Gender, reg.WeightClass, reg.AgeClass, reg.Club, reg.ProfilePhotoURL, reg.LicenseCertificateURL,
		pq.Array(reg.Trainers), reg.Status,
	).Scan(&reg.ID, &reg.CreatedAt)
	if err != nil {
		if code, _, ok := pqCode(err); ok {
			switch code {
			case pgUniqueViolation:
				return ErrRegistrationDuplicate
			case pgForeignKeyViolation:
				return ErrRegistrationEventNotFound
			}
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

func (r *postgresRegistrationRepository) GetByID(ctx context.Context, id int) (*models.Registration, error) {
	reg := &models.Registration{}
	err := scanRegistration(r.db.QueryRowContext(ctx, `SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id), reg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration %d: %w", id, err)
	}
	return reg, nil
}

func registrationWhere(filter ListRegistrationsFilter) sq.And {
	where := sq.And{sq.Eq{"event_id": filter.EventID}}
	if filter.Type != nil {
		where = append(where, sq.Eq{"type": *filter.Type})
	}
	if filter.Status != nil {
		where = append(where, sq.Eq{"status": *filter.Status})
	}
	if filter.WeightClass != nil {
		where = append(where, sq.Eq{"weight_class": *filter.WeightClass})
	}
	if filter.AgeClass != nil {
		where = append(where, sq.Eq{"age_class": *filter.AgeClass})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		where = append(where, sq.Or{
			sq.ILike{"first_name": pattern},
			sq.ILike{"last_name": pattern},
			sq.ILike{"email": pattern},
			sq.ILike{"club": pattern},
		})
	}
	return where
}

func (r *postgresRegistrationRepository) List(ctx context.Context, filter ListRegistrationsFilter) ([]models.Registration, int, error) {
	where := registrationWhere(filter)

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("registrations").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build registration count query: %w", err)
	}
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count registrations: %w", err)
	}

	builder := psql.Select(registrationColumns).From("registrations").Where(where).
		OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(pageOffset(filter.Page, filter.Limit))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build registration list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	regs := make([]models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		if err := scanRegistration(rows, &reg); err != nil {
			return nil, 0, fmt.Errorf("failed to scan registration row: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating registration rows: %w", err)
	}
	return regs, total, nil
}

func (r *postgresRegistrationRepository) UpdateStatus(ctx context.Context, id int, status models.RegistrationStatus) error {
	return r.updateColumn(ctx, id, "status", status)
}

func (r *postgresRegistrationRepository) UpdatePhotoURL(ctx context.Context, id int, url string) error {
	return r.updateColumn(ctx, id, "profile_photo_url", url)
}

func (r *postgresRegistrationRepository) UpdateLicenseURL(ctx context.Context, id int, url string) error {
	return r.updateColumn(ctx, id, "license_certificate_url", url)
}

func (r *postgresRegistrationRepository) updateColumn(ctx context.Context, id int, column string, value any) error {
	query, args, err := psql.Update("registrations").Set(column, value).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update registration %s: %w", column, err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

// CountByType counts registrations created inside [from, to]. Zero bounds are open.
func (r *postgresRegistrationRepository) CountByType(ctx context.Context, from, to time.Time) (RegistrationCounts, error) {
	builder := psql.Select("type", "COUNT(*)").From("registrations").GroupBy("type")
	builder = builder.Where(timeWindow("created_at", from, to))

	query, args, err := builder.ToSql()
	if err != nil {
		return RegistrationCounts{}, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return RegistrationCounts{}, fmt.Errorf("failed to count registrations by type: %w", err)
	}
	defer rows.Close()

	var counts RegistrationCounts
	for rows.Next() {
		var t models.RegistrationType
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return RegistrationCounts{}, fmt.Errorf("failed to scan registration count: %w", err)
		}
		switch t {
		case models.RegistrationFighter:
			counts.Fighters = n
		case models.RegistrationTrainer:
			counts.Trainers = n
		case models.RegistrationPromoter:
			counts.Promoters = n
		}
	}
	return counts, rows.Err()
}

func timeWindow(column string, from, to time.Time) sq.And {
	where := sq.And{}
	if !from.IsZero() {
		where = append(where, sq.GtOrEq{column: from})
	}
	if !to.IsZero() {
		where = append(where, sq.LtOrEq{column: to})
	}
	return where
}
