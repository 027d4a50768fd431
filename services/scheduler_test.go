package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/fight-events/brackets"
	"github.com/Dosada05/fight-events/models"
)

func TestNextStatus(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	hour := time.Hour

	tests := []struct {
		name   string
		event  models.Event
		want   models.EventStatus
		change bool
	}{
		{"upcoming not started", models.Event{Status: models.EventStatusUpcoming, StartDate: now.Add(hour), EndDate: now.Add(2 * hour)}, "", false},
		{"upcoming started", models.Event{Status: models.EventStatusUpcoming, StartDate: now.Add(-hour), EndDate: now.Add(hour)}, models.EventStatusLive, true},
		{"upcoming already over", models.Event{Status: models.EventStatusUpcoming, StartDate: now.Add(-2 * hour), EndDate: now.Add(-hour)}, models.EventStatusCompleted, true},
		{"live running", models.Event{Status: models.EventStatusLive, StartDate: now.Add(-hour), EndDate: now.Add(hour)}, "", false},
		{"live over", models.Event{Status: models.EventStatusLive, StartDate: now.Add(-2 * hour), EndDate: now}, models.EventStatusCompleted, true},
		{"draft ignored", models.Event{Status: models.EventStatusDraft, StartDate: now.Add(-2 * hour), EndDate: now.Add(-hour)}, "", false},
		{"canceled ignored", models.Event{Status: models.EventStatusCanceled, StartDate: now.Add(-2 * hour), EndDate: now.Add(-hour)}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := nextStatus(tt.event, now)
			assert.Equal(t, tt.change, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusScheduler_RunOnce(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeEventRepo(
		models.Event{ID: 1, Status: models.EventStatusUpcoming, StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)},
		models.Event{ID: 2, Status: models.EventStatusLive, StartDate: now.Add(-3 * time.Hour), EndDate: now.Add(-time.Hour)},
		models.Event{ID: 3, Status: models.EventStatusUpcoming, StartDate: now.Add(time.Hour), EndDate: now.Add(2 * time.Hour)},
	)
	hub := &fakeBroadcaster{}

	s, err := NewStatusScheduler("@every 1m", repo, hub, nil)
	require.NoError(t, err)
	s.now = func() time.Time { return now }

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []models.EventStatus{models.EventStatusLive, models.EventStatusCompleted}, repo.updates)
	assert.Equal(t, []string{brackets.MessageEventUpdated, brackets.MessageEventUpdated}, hub.types())

	n, err = s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStatusScheduler_InvalidSchedule(t *testing.T) {
	_, err := NewStatusScheduler("every now and then", newFakeEventRepo(), nil, nil)
	assert.Error(t, err)
}

func TestStatusScheduler_StartStop(t *testing.T) {
	s, err := NewStatusScheduler("@hourly", newFakeEventRepo(), nil, nil)
	require.NoError(t, err)
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	assert.NoError(t, ctx.Err())
}
