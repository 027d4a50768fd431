package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/fight-events/brackets"
	"github.com/Dosada05/fight-events/models"
	"github.com/Dosada05/fight-events/repositories"
)

type FightResultInput struct {
	Status models.FightStatus  `json:"status"`
	Winner *models.Corner      `json:"winner"`
	Method *models.FightMethod `json:"method"`
	Round  *int                `json:"round"`
	Scores []models.JudgeScore `json:"scores"`
}

type BoutService interface {
	GetBout(ctx context.Context, id int) (*models.Bout, error)
	RecordResult(ctx context.Context, id int, input FightResultInput) (*models.Bout, error)
}

type boutService struct {
	boutRepo repositories.BoutRepository
	hub      Broadcaster
	logger   *slog.Logger
}

func NewBoutService(boutRepo repositories.BoutRepository, hub Broadcaster, logger *slog.Logger) BoutService {
	return &boutService{
		boutRepo: boutRepo,
		hub:      broadcasterOrNoop(hub),
		logger:   loggerOrDefault(logger),
	}
}

func (s *boutService) GetBout(ctx context.Context, id int) (*models.Bout, error) {
	bout, err := s.boutRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrBoutNotFound) {
			return nil, ErrBoutNotFound
		}
		return nil, fmt.Errorf("failed to get bout %d: %w", id, err)
	}
	return bout, nil
}

func invalidResult(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFightResult, fmt.Sprintf(format, args...))
}

func validateFightResult(bout *models.Bout, in FightResultInput) error {
	switch in.Status {
	case models.FightStatusScheduled, models.FightStatusInProgress:
		if in.Winner != nil || in.Method != nil {
			return invalidResult("winner and method are only set on finished fights")
		}
	case models.FightStatusNoContest:
		if in.Winner != nil {
			return invalidResult("a no contest has no winner")
		}
	case models.FightStatusCompleted:
		if in.Winner == nil {
			return invalidResult("winner is required for a completed fight")
		}
		if *in.Winner != models.CornerRed && *in.Winner != models.CornerBlue {
			return invalidResult("winner must be red or blue")
		}
		if *in.Winner == models.CornerBlue && bout.BlueCorner == nil {
			return invalidResult("blue corner is empty in this bout")
		}
	default:
		return invalidResult("unknown status %q", in.Status)
	}

	if in.Method != nil {
		switch *in.Method {
		case models.MethodKO, models.MethodTKO, models.MethodSubmission, models.MethodDQ:
		case models.MethodDecision, models.MethodPoints:
			if len(in.Scores) == 0 {
				return invalidResult("%s requires judge scores", *in.Method)
			}
		default:
			return invalidResult("unknown method %q", *in.Method)
		}
	}
	if in.Round != nil && (*in.Round < 1 || *in.Round > bout.Rounds) {
		return invalidResult("round must be between 1 and %d", bout.Rounds)
	}
	for _, sc := range in.Scores {
		if sc.Red < 0 || sc.Blue < 0 {
			return invalidResult("judge scores must not be negative")
		}
	}
	return nil
}

// RecordResult stores the fight result of a bout and pushes it to the event room.
func (s *boutService) RecordResult(ctx context.Context, id int, input FightResultInput) (*models.Bout, error) {
	bout, err := s.GetBout(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateFightResult(bout, input); err != nil {
		return nil, err
	}

	fight := &models.Fight{
		Status: input.Status,
		Winner: input.Winner,
		Method: input.Method,
		Round:  input.Round,
		Scores: input.Scores,
	}
	if err := s.boutRepo.UpdateFight(ctx, id, fight); err != nil {
		if errors.Is(err, repositories.ErrBoutNotFound) {
			return nil, ErrBoutNotFound
		}
		return nil, fmt.Errorf("failed to record result of bout %d: %w", id, err)
	}
	bout.Fight = fight

	s.logger.InfoContext(ctx, "fight result recorded",
		slog.Int("bout_id", id), slog.Int("event_id", bout.EventID), slog.String("status", string(fight.Status)))
	s.hub.BroadcastToEvent(bout.EventID, brackets.MessageBoutUpdated, bout)
	return bout, nil
}
