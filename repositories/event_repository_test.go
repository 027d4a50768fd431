package repositories

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/fight-events/models"
)

var eventStart = time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)

func eventValues(id int, name string, status models.EventStatus) []driver.Value {
	return []driver.Value{
		id, name, nil, models.FormatFullContact, "Kickboxing", "WAKO", "Arena",
		eventStart, eventStart.Add(4 * time.Hour), string(status), nil, nil, true, false,
		int64(2500), 200, nil, eventStart.Add(-48 * time.Hour), eventStart.Add(-48 * time.Hour),
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresEventRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE id = $1")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(columnsOf(eventColumns)).AddRow(eventValues(7, "Spring Open", models.EventStatusUpcoming)...))

	e, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Spring Open", e.Name)
	assert.Equal(t, models.EventStatusUpcoming, e.Status)
	assert.True(t, e.IsFullContact())
	assert.True(t, e.PublishBrackets)
	assert.Nil(t, e.Description)
	assert.Equal(t, 200, e.TicketCapacity)
}

func TestEventRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresEventRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE id = $1")).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(columnsOf(eventColumns)))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventRepository_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresEventRepository(db)
	status := models.EventStatusUpcoming

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM events WHERE (status = $1)")).
		WithArgs("upcoming").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE (status = $1) ORDER BY start_date DESC, id DESC LIMIT 5 OFFSET 5")).
		WithArgs("upcoming").
		WillReturnRows(sqlmock.NewRows(columnsOf(eventColumns)).
			AddRow(eventValues(3, "Summer Cup", status)...).
			AddRow(eventValues(2, "Spring Open", status)...))

	events, total, err := repo.List(context.Background(), ListEventsFilter{Status: &status, Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	require.Len(t, events, 2)
	assert.Equal(t, 3, events[0].ID)
}

func TestEventRepository_Create_Conflicts(t *testing.T) {
	tests := []struct {
		name string
		err  *pq.Error
		want error
	}{
		{"name and start taken", &pq.Error{Code: pgUniqueViolation, Constraint: "events_name_start_key"}, ErrEventNameConflict},
		{"end before start", &pq.Error{Code: pgCheckViolation, Constraint: "chk_event_dates"}, ErrEventInvalidDates},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewPostgresEventRepository(db)
			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO events")).WillReturnError(tt.err)

			err := repo.Create(context.Background(), &models.Event{Name: "Spring Open", StartDate: eventStart, EndDate: eventStart})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEventRepository_UpdateStatus(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresEventRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET status = $1")).
		WithArgs("live", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET status = $1")).
		WithArgs("live", 5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateStatus(context.Background(), nil, 4, models.EventStatusLive))
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), nil, 5, models.EventStatusLive), ErrEventNotFound)
}

func TestEventRepository_LockForUpdate_InTx(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE id = $1 FOR UPDATE")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(columnsOf(eventColumns)).AddRow(eventValues(1, "Spring Open", models.EventStatusLive)...))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	e, err := repo.LockForUpdate(context.Background(), tx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusLive, e.Status)
	require.NoError(t, tx.Commit())
}

func TestEventRepository_Count(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresEventRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM events")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))

	n, err := repo.Count(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 9, n)
}
