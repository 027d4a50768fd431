package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/fight-events/models"
)

var (
	ErrBoutNotFound       = errors.New("bout not found")
	ErrBoutNumberConflict = errors.New("bout number already used in this event")
)

type BoutRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, bouts []models.Bout) error
	GetByID(ctx context.Context, id int) (*models.Bout, error)
	ListByEvent(ctx context.Context, eventID int) ([]models.Bout, error)
	UpdateFight(ctx context.Context, id int, fight *models.Fight) error
}

type postgresBoutRepository struct {
	db *sql.DB
}

func NewPostgresBoutRepository(db *sql.DB) BoutRepository {
	return &postgresBoutRepository{db: db}
}

const boutColumns = `id, event_id, bracket_id, bout_number, red_corner, blue_corner,
	weight_min, weight_max, rounds, round_duration_secs, scheduled_at, fight`

func scanBout(row rowScanner, b *models.Bout) error {
	var red, blue, fight []byte
	if err := row.Scan(&b.ID, &b.EventID, &b.BracketID, &b.BoutNumber, &red, &blue,
		&b.WeightClassMin, &b.WeightClassMax, &b.Rounds, &b.RoundDurationSecs, &b.ScheduledAt, &fight); err != nil {
		return err
	}
	if err := json.Unmarshal(red, &b.RedCorner); err != nil {
		return fmt.Errorf("decode red corner of bout %d: %w", b.ID, err)
	}
	if len(blue) > 0 && string(blue) != "null" {
		b.BlueCorner = &models.FighterRef{}
		if err := json.Unmarshal(blue, b.BlueCorner); err != nil {
			return fmt.Errorf("decode blue corner of bout %d: %w", b.ID, err)
		}
	}
	if len(fight) > 0 && string(fight) != "null" {
		b.Fight = &models.Fight{}
		if err := json.Unmarshal(fight, b.Fight); err != nil {
			return fmt.Errorf("decode fight of bout %d: %w", b.ID, err)
		}
	}
	return nil
}

func marshalOptional(v any, isNil bool) ([]byte, error) {
	if isNil {
		return nil, nil
	}
	return json.Marshal(v)
}

func (r *postgresBoutRepository) CreateBatch(ctx context.Context, exec SQLExecutor, bouts []models.Bout) error {
	exec = executor(r.db, exec)
	query := `
		INSERT INTO bouts (event_id, bracket_id, bout_number, red_corner, blue_corner,
			weight_min, weight_max, rounds, round_duration_secs, scheduled_at, fight)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	for i := range bouts {
		b := &bouts[i]
		red, err := json.Marshal(b.RedCorner)
		if err != nil {
			return fmt.Errorf("encode red corner: %w", err)
		}
		blue, err := marshalOptional(b.BlueCorner, b.BlueCorner == nil)
		if err != nil {
			return fmt.Errorf("encode blue corner: %w", err)
		}
		fight, err := marshalOptional(b.Fight, b.Fight == nil)
		if err != nil {
			return fmt.Errorf("encode fight: %w", err)
		}

		err = exec.QueryRowContext(ctx, query,
			b.EventID, b.BracketID, b.BoutNumber, red, nullableBytes(blue),
			b.WeightClassMin, b.WeightClassMax, b.Rounds, b.RoundDurationSecs, b.ScheduledAt, nullableBytes(fight),
		).Scan(&b.ID)
		if err != nil {
			if code, _, ok := pqCode(err); ok && code == pgUniqueViolation {
				return ErrBoutNumberConflict
			}
			return fmt.Errorf("failed to insert bout %d: %w", b.BoutNumber, err)
		}
	}
	return nil
}

func (r *postgresBoutRepository) GetByID(ctx context.Context, id int) (*models.Bout, error) {
	b := &models.Bout{}
	err := scanBout(r.db.QueryRowContext(ctx, `SELECT `+boutColumns+` FROM bouts WHERE id = $1`, id), b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBoutNotFound
		}
		return nil, fmt.Errorf("failed to get bout %d: %w", id, err)
	}
	return b, nil
}

func (r *postgresBoutRepository) ListByEvent(ctx context.Context, eventID int) ([]models.Bout, error) {
	query := `SELECT ` + boutColumns + ` FROM bouts WHERE event_id = $1 ORDER BY bout_number ASC`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bouts: %w", err)
	}
	defer rows.Close()

	bouts := make([]models.Bout, 0)
	for rows.Next() {
		var b models.Bout
		if err := scanBout(rows, &b); err != nil {
			return nil, fmt.Errorf("failed to scan bout row: %w", err)
		}
		bouts = append(bouts, b)
	}
	return bouts, rows.Err()
}

func (r *postgresBoutRepository) UpdateFight(ctx context.Context, id int, fight *models.Fight) error {
	payload, err := marshalOptional(fight, fight == nil)
	if err != nil {
		return fmt.Errorf("encode fight: %w", err)
	}
	result, err := r.db.ExecContext(ctx, `UPDATE bouts SET fight = $1 WHERE id = $2`, nullableBytes(payload), id)
	if err != nil {
		return fmt.Errorf("failed to update fight of bout %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrBoutNotFound)
}
