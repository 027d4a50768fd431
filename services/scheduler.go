package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Dosada05/fight-events/brackets"
	"github.com/Dosada05/fight-events/models"
	"github.com/Dosada05/fight-events/repositories"
)

// StatusScheduler moves events to live and completed as their dates pass.
type StatusScheduler struct {
	cron      *cron.Cron
	eventRepo repositories.EventRepository
	hub       Broadcaster
	logger    *slog.Logger
	now       func() time.Time
}

func NewStatusScheduler(schedule string, eventRepo repositories.EventRepository, hub Broadcaster, logger *slog.Logger) (*StatusScheduler, error) {
	logger = loggerOrDefault(logger)
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))

	s := &StatusScheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		eventRepo: eventRepo,
		hub:       broadcasterOrNoop(hub),
		logger:    logger,
		now:       time.Now,
	}
	if _, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("Scheduler: periodic run failed", slog.Any("error", err))
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid status schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *StatusScheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running job to finish or ctx to end.
func (s *StatusScheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// nextStatus returns the status an event should have at now.
func nextStatus(e models.Event, now time.Time) (models.EventStatus, bool) {
	switch e.Status {
	case models.EventStatusUpcoming:
		if !e.EndDate.After(now) {
			return models.EventStatusCompleted, true
		}
		if !e.StartDate.After(now) {
			return models.EventStatusLive, true
		}
	case models.EventStatusLive:
		if !e.EndDate.After(now) {
			return models.EventStatusCompleted, true
		}
	}
	return "", false
}

// RunOnce applies due status changes and reports how many events changed.
func (s *StatusScheduler) RunOnce(ctx context.Context) (int, error) {
	now := s.now()
	events, err := s.eventRepo.ListForStatusUpdate(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list events for status update: %w", err)
	}

	updated := 0
	var errs []error
	for _, e := range events {
		target, ok := nextStatus(e, now)
		if !ok {
			continue
		}
		if err := s.eventRepo.UpdateStatus(ctx, nil, e.ID, target); err != nil {
			errs = append(errs, fmt.Errorf("event %d: %w", e.ID, err))
			continue
		}
		s.logger.InfoContext(ctx, "event status updated",
			slog.Int("event_id", e.ID), slog.String("from", string(e.Status)), slog.String("to", string(target)))
		e.Status = target
		s.hub.BroadcastToEvent(e.ID, brackets.MessageEventUpdated, e)
		updated++
	}
	return updated, errors.Join(errs...)
}
