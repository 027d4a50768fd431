package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/fight-events/cache"
	"github.com/Dosada05/fight-events/models"
	"github.com/Dosada05/fight-events/repositories"
)

type DashboardService interface {
	GetStats(ctx context.Context, start, end time.Time) (*models.DashboardStats, error)
}

type dashboardService struct {
	eventRepo  repositories.EventRepository
	regRepo    repositories.RegistrationRepository
	ticketRepo repositories.TicketRepository
	cache      cache.Cache
	ttl        time.Duration
	logger     *slog.Logger
}

func NewDashboardService(
	eventRepo repositories.EventRepository,
	regRepo repositories.RegistrationRepository,
	ticketRepo repositories.TicketRepository,
	c cache.Cache,
	ttl time.Duration,
	logger *slog.Logger,
) DashboardService {
	if c == nil {
		c = cache.NewMemory()
	}
	return &dashboardService{
		eventRepo:  eventRepo,
		regRepo:    regRepo,
		ticketRepo: ticketRepo,
		cache:      c,
		ttl:        ttl,
		logger:     loggerOrDefault(logger),
	}
}

// inclusiveEnd stretches a date-only end bound to the end of that day.
func inclusiveEnd(end time.Time) time.Time {
	if end.IsZero() {
		return end
	}
	if end.Hour() == 0 && end.Minute() == 0 && end.Second() == 0 && end.Nanosecond() == 0 {
		return end.Add(24*time.Hour - time.Nanosecond)
	}
	return end
}

func dashboardCacheKey(start, end time.Time) string {
	format := func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("dashboard:%s:%s", format(start), format(end))
}

func (s *dashboardService) GetStats(ctx context.Context, start, end time.Time) (*models.DashboardStats, error) {
	end = inclusiveEnd(end)
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	key := dashboardCacheKey(start, end)
	if cached, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "dashboard cache read failed", slog.Any("error", err))
	} else if ok {
		var stats models.DashboardStats
		if err := json.Unmarshal(cached, &stats); err == nil {
			return &stats, nil
		}
	}

	stats := &models.DashboardStats{StartDate: start, EndDate: end}
	upcoming := models.EventStatusUpcoming

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.eventRepo.Count(gctx, nil)
		stats.EventsTotal = n
		return err
	})
	g.Go(func() error {
		n, err := s.eventRepo.Count(gctx, &upcoming)
		stats.UpcomingTotal = n
		return err
	})
	g.Go(func() error {
		counts, err := s.regRepo.CountByType(gctx, start, end)
		stats.Fighters, stats.Trainers, stats.Promoters = counts.Fighters, counts.Trainers, counts.Promoters
		return err
	})
	g.Go(func() error {
		totals, err := s.ticketRepo.Totals(gctx, start, end)
		stats.TicketsSold, stats.RevenueCents = totals.TicketsSold, totals.RevenueCents
		return err
	})
	g.Go(func() error {
		daily, err := s.ticketRepo.DailySales(gctx, start, end)
		stats.DailySales = daily
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}
	if stats.DailySales == nil {
		stats.DailySales = []models.DailySales{}
	}

	if payload, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
			s.logger.WarnContext(ctx, "dashboard cache write failed", slog.Any("error", err))
		}
	}
	return stats, nil
}
