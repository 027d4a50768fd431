package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Dosada05/fight-events/models"
)

var (
	ErrBracketNotFound        = errors.New("bracket not found")
	ErrBracketNumberConflict  = errors.New("bracket number already used in this event")
	ErrBracketPositionTaken   = errors.New("position already taken in this bracket")
	ErrBracketEventNotFound   = errors.New("event for bracket not found")
	ErrBracketRegistrationRef = errors.New("bracket member references unknown registration")
)

type BracketRepository interface {
	// ReplaceForEvent drops the event's brackets (members and bouts cascade) and
	// inserts the given ones, filling in generated IDs.
	ReplaceForEvent(ctx context.Context, exec SQLExecutor, eventID int, brackets []models.Bracket) error
	SyncRoster(ctx context.Context, exec SQLExecutor, eventID int, brackets []models.Bracket) error
	ListByEvent(ctx context.Context, eventID int) ([]models.Bracket, error)
	ListMembersByEvent(ctx context.Context, eventID int) ([]models.BracketMember, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.BracketStatus) error
}

type postgresBracketRepository struct {
	db *sql.DB
}

func NewPostgresBracketRepository(db *sql.DB) BracketRepository {
	return &postgresBracketRepository{db: db}
}

const (
	insertBracketQuery = `
		INSERT INTO brackets (event_id, bracket_number, title, age_class, sport, rule_style, ring, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	insertMemberQuery = `
		INSERT INTO bracket_members (bracket_id, registration_id, name, image, position, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
)

func (r *postgresBracketRepository) ReplaceForEvent(ctx context.Context, exec SQLExecutor, eventID int, brackets []models.Bracket) error {
	exec = executor(r.db, exec)

	if _, err := exec.ExecContext(ctx, `DELETE FROM brackets WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("failed to clear brackets of event %d: %w", eventID, err)
	}

	for i := range brackets {
		if err := r.insertBracket(ctx, exec, eventID, &brackets[i]); err != nil {
			return err
		}
		if err := r.insertMembers(ctx, exec, &brackets[i]); err != nil {
			return err
		}
	}
	return nil
}

// SyncRoster rewrites the members of the event's brackets. Brackets are matched
// by number: existing rows keep their metadata, status and bouts, missing
// numbers are inserted and numbers absent from the roster are removed.
func (r *postgresBracketRepository) SyncRoster(ctx context.Context, exec SQLExecutor, eventID int, brackets []models.Bracket) error {
	exec = executor(r.db, exec)

	rows, err := exec.QueryContext(ctx,
		`SELECT id, bracket_number FROM brackets WHERE event_id = $1 FOR UPDATE`, eventID)
	if err != nil {
		return fmt.Errorf("failed to lock brackets of event %d: %w", eventID, err)
	}
	existing := make(map[int]int)
	for rows.Next() {
		var id, number int
		if err := rows.Scan(&id, &number); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan bracket row: %w", err)
		}
		existing[number] = id
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating bracket rows: %w", err)
	}
	rows.Close()

	keep := make([]int64, 0, len(brackets))
	for i := range brackets {
		b := &brackets[i]
		keep = append(keep, int64(b.BracketNumber))

		if id, ok := existing[b.BracketNumber]; ok {
			b.ID = id
			b.EventID = eventID
			if _, err := exec.ExecContext(ctx, `DELETE FROM bracket_members WHERE bracket_id = $1`, id); err != nil {
				return fmt.Errorf("failed to clear members of bracket %d: %w", id, err)
			}
		} else if err := r.insertBracket(ctx, exec, eventID, b); err != nil {
			return err
		}
		if err := r.insertMembers(ctx, exec, b); err != nil {
			return err
		}
	}

	_, err = exec.ExecContext(ctx,
		`DELETE FROM brackets WHERE event_id = $1 AND bracket_number <> ALL($2)`, eventID, pq.Array(keep))
	if err != nil {
		return fmt.Errorf("failed to remove empty brackets of event %d: %w", eventID, err)
	}
	return nil
}

func (r *postgresBracketRepository) insertBracket(ctx context.Context, exec SQLExecutor, eventID int, b *models.Bracket) error {
	b.EventID = eventID
	if b.Status == "" {
		b.Status = models.BracketStatusOpen
	}
	err := exec.QueryRowContext(ctx, insertBracketQuery,
		eventID, b.BracketNumber, b.Title, b.AgeClass, b.Sport, b.RuleStyle, b.Ring, b.Status,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return r.handleBracketError(err)
	}
	return nil
}

func (r *postgresBracketRepository) insertMembers(ctx context.Context, exec SQLExecutor, b *models.Bracket) error {
	for j := range b.Members {
		m := &b.Members[j]
		m.BracketID = b.ID
		number := b.BracketNumber
		m.Bracket = &number
		if m.Role == "" {
			m.Role = models.MemberRoleFighter
		}
		if m.Position == 0 {
			m.Position = j + 1
		}
		err := exec.QueryRowContext(ctx, insertMemberQuery,
			b.ID, m.RegistrationID, m.Name, m.Image, m.Position, m.Role,
		).Scan(&m.ID)
		if err != nil {
			return r.handleBracketError(err)
		}
	}
	return nil
}

func (r *postgresBracketRepository) ListByEvent(ctx context.Context, eventID int) ([]models.Bracket, error) {
	query := `
		SELECT id, event_id, bracket_number, title, age_class, sport, rule_style, ring, status, created_at
		FROM brackets
		WHERE event_id = $1
		ORDER BY bracket_number ASC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list brackets: %w", err)
	}
	defer rows.Close()

	brackets := make([]models.Bracket, 0)
	index := make(map[int]int)
	for rows.Next() {
		var b models.Bracket
		if err := rows.Scan(&b.ID, &b.EventID, &b.BracketNumber, &b.Title, &b.AgeClass,
			&b.Sport, &b.RuleStyle, &b.Ring, &b.Status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bracket row: %w", err)
		}
		b.Members = make([]models.BracketMember, 0)
		index[b.ID] = len(brackets)
		brackets = append(brackets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bracket rows: %w", err)
	}
	if len(brackets) == 0 {
		return brackets, nil
	}

	members, err := r.ListMembersByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if i, ok := index[m.BracketID]; ok {
			brackets[i].Members = append(brackets[i].Members, m)
		}
	}
	return brackets, nil
}

// ListMembersByEvent returns every member of the event's brackets, stamped with
// its bracket number, ordered by bracket then position.
func (r *postgresBracketRepository) ListMembersByEvent(ctx context.Context, eventID int) ([]models.BracketMember, error) {
	query := `
		SELECT m.id, m.bracket_id, m.registration_id, m.name, m.image, b.bracket_number, m.position, m.role
		FROM bracket_members m
		JOIN brackets b ON b.id = m.bracket_id
		WHERE b.event_id = $1
		ORDER BY b.bracket_number ASC, m.position ASC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bracket members: %w", err)
	}
	defer rows.Close()

	members := make([]models.BracketMember, 0)
	for rows.Next() {
		var m models.BracketMember
		if err := rows.Scan(&m.ID, &m.BracketID, &m.RegistrationID, &m.Name, &m.Image,
			&m.Bracket, &m.Position, &m.Role); err != nil {
			return nil, fmt.Errorf("failed to scan bracket member row: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *postgresBracketRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.BracketStatus) error {
	result, err := executor(r.db, exec).ExecContext(ctx, `UPDATE brackets SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update bracket status: %w", err)
	}
	return checkAffectedRows(result, ErrBracketNotFound)
}

func (r *postgresBracketRepository) handleBracketError(err error) error {
	if code, constraint, ok := pqCode(err); ok {
		switch code {
		case pgUniqueViolation:
			if constraint == "bracket_members_position_key" {
				return ErrBracketPositionTaken
			}
			return ErrBracketNumberConflict
		case pgForeignKeyViolation:
			if constraint == "bracket_members_registration_id_fkey" {
				return ErrBracketRegistrationRef
			}
			return ErrBracketEventNotFound
		}
	}
	return fmt.Errorf("bracket query failed: %w", err)
}
