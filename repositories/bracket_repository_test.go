package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/fight-events/models"
)

func TestBracketRepository_ReplaceForEvent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresBracketRepository(db)
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	list := []models.Bracket{{
		BracketNumber: 3, Title: "-71kg", AgeClass: "Senior",
		Members: []models.BracketMember{{Name: "Ann"}, {Name: "Bo", Role: models.MemberRoleTrainer}},
	}}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM brackets WHERE event_id = $1")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO brackets")).
		WithArgs(5, 3, "-71kg", "Senior", "", "", "", "Open").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(21, created))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bracket_members")).
		WithArgs(21, nil, "Ann", nil, 1, "fighter").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bracket_members")).
		WithArgs(21, nil, "Bo", nil, 2, "trainer").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(102))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceForEvent(context.Background(), tx, 5, list))
	require.NoError(t, tx.Commit())

	b := list[0]
	assert.Equal(t, 21, b.ID)
	assert.Equal(t, 5, b.EventID)
	assert.Equal(t, models.BracketStatusOpen, b.Status)
	assert.Equal(t, 102, b.Members[1].ID)
	assert.Equal(t, 3, *b.Members[0].Bracket)
	assert.Equal(t, models.MemberRoleFighter, b.Members[0].Role)
}

func TestBracketRepository_ReplaceForEvent_Conflicts(t *testing.T) {
	tests := []struct {
		name string
		err  *pq.Error
		want error
	}{
		{"duplicate number", &pq.Error{Code: pgUniqueViolation, Constraint: "brackets_event_number_key"}, ErrBracketNumberConflict},
		{"duplicate position", &pq.Error{Code: pgUniqueViolation, Constraint: "bracket_members_position_key"}, ErrBracketPositionTaken},
		{"missing event", &pq.Error{Code: pgForeignKeyViolation, Constraint: "brackets_event_id_fkey"}, ErrBracketEventNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewPostgresBracketRepository(db)
			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM brackets")).WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO brackets")).WillReturnError(tt.err)

			err := repo.ReplaceForEvent(context.Background(), nil, 5, []models.Bracket{{BracketNumber: 1}})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBracketRepository_SyncRoster_KeepsExistingBrackets(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresBracketRepository(db)
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	list := []models.Bracket{
		{BracketNumber: 1, Title: "-60kg", Members: []models.BracketMember{{Name: "Ann", Position: 1}, {Name: "Cruz", Position: 2}}},
		{BracketNumber: 4, Title: "-81kg", Members: []models.BracketMember{{Name: "Dee", Position: 1}}},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, bracket_number FROM brackets WHERE event_id = $1 FOR UPDATE")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "bracket_number"}).AddRow(21, 1).AddRow(22, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bracket_members WHERE bracket_id = $1")).
		WithArgs(21).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bracket_members")).
		WithArgs(21, nil, "Ann", nil, 1, "fighter").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(201))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bracket_members")).
		WithArgs(21, nil, "Cruz", nil, 2, "fighter").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(202))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO brackets")).
		WithArgs(5, 4, "-81kg", "", "", "", "", "Open").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(23, created))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bracket_members")).
		WithArgs(23, nil, "Dee", nil, 1, "fighter").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(203))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM brackets WHERE event_id = $1 AND bracket_number <> ALL($2)")).
		WithArgs(5, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.SyncRoster(context.Background(), tx, 5, list))
	require.NoError(t, tx.Commit())

	assert.Equal(t, 21, list[0].ID, "existing bracket row is reused")
	assert.Equal(t, 23, list[1].ID)
	assert.Equal(t, 202, list[0].Members[1].ID)
}

func TestBracketRepository_ListByEvent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresBracketRepository(db)
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM brackets WHERE event_id = $1 ORDER BY bracket_number ASC")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "bracket_number", "title", "age_class", "sport", "rule_style", "ring", "status", "created_at"}).
			AddRow(21, 5, 1, "-71kg", "Senior", "Kickboxing", "K1", "A", "Open", created).
			AddRow(22, 5, 2, "-60kg", "Junior", "Kickboxing", "K1", "B", "Started", created))
	mock.ExpectQuery(regexp.QuoteMeta("FROM bracket_members m JOIN brackets b ON b.id = m.bracket_id")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "bracket_id", "registration_id", "name", "image", "bracket_number", "position", "role"}).
			AddRow(101, 21, 4, "Ann", "https://cdn.test/a.png", 1, 1, "fighter").
			AddRow(102, 21, nil, "Bo", nil, 1, 2, "fighter").
			AddRow(103, 22, nil, "Cy", nil, 2, 1, "fighter"))

	list, err := repo.ListByEvent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Len(t, list[0].Members, 2)
	assert.Len(t, list[1].Members, 1)
	assert.Equal(t, models.BracketStatusStarted, list[1].Status)
	assert.Equal(t, 4, *list[0].Members[0].RegistrationID)
	key, ok := list[1].Members[0].BracketKey()
	assert.True(t, ok)
	assert.Equal(t, 2, key)
}

func TestBracketRepository_ListByEvent_Empty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresBracketRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM brackets WHERE event_id = $1")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	list, err := repo.ListByEvent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
}
