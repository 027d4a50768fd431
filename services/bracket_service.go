package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/fight-events/brackets"
	"github.com/Dosada05/fight-events/forms"
	"github.com/Dosada05/fight-events/models"
	"github.com/Dosada05/fight-events/repositories"
)

// PublishInput replaces the roster when Brackets is non-nil; otherwise the
// stored brackets are published as they are.
type PublishInput struct {
	Brackets          []models.Bracket `json:"brackets"`
	ShowBrackets      *bool            `json:"showBrackets"`
	Rounds            int              `json:"rounds"`
	RoundDurationSecs int              `json:"roundDurationSecs"`
}

// BracketsView is the server-side rendering of one bracket screen.
type BracketsView struct {
	EventID      int                    `json:"eventId"`
	Site         brackets.Site          `json:"site"`
	State        brackets.State         `json:"state"`
	Message      string                 `json:"message,omitempty"`
	AgeClass     string                 `json:"ageClass,omitempty"`
	Participants []models.BracketMember `json:"participants,omitempty"`
	Layouts      []brackets.Layout      `json:"layouts"`
}

type FightCardView struct {
	EventID int                    `json:"eventId"`
	State   brackets.State         `json:"state"`
	Message string                 `json:"message,omitempty"`
	Bouts   []models.FightCardBout `json:"bouts"`
}

type BracketService interface {
	PublishBrackets(ctx context.Context, eventID int, input PublishInput) (*models.Event, error)
	GetBracketLayouts(ctx context.Context, eventID int, site brackets.Site, ageClass string) (*BracketsView, error)
	GetFightCard(ctx context.Context, eventID int) (*FightCardView, error)
}

type bracketService struct {
	db          *sql.DB
	events      EventService
	eventRepo   repositories.EventRepository
	bracketRepo repositories.BracketRepository
	boutRepo    repositories.BoutRepository
	generator   brackets.BoutGenerator
	hub         Broadcaster
	logger      *slog.Logger
}

func NewBracketService(
	db *sql.DB,
	events EventService,
	eventRepo repositories.EventRepository,
	bracketRepo repositories.BracketRepository,
	boutRepo repositories.BoutRepository,
	generator brackets.BoutGenerator,
	hub Broadcaster,
	logger *slog.Logger,
) BracketService {
	if generator == nil {
		generator = brackets.NewFirstRoundGenerator()
	}
	return &bracketService{
		db:          db,
		events:      events,
		eventRepo:   eventRepo,
		bracketRepo: bracketRepo,
		boutRepo:    boutRepo,
		generator:   generator,
		hub:         broadcasterOrNoop(hub),
		logger:      loggerOrDefault(logger),
	}
}

func validateRoster(list []models.Bracket) error {
	seen := make(map[int]bool, len(list))
	for i, b := range list {
		if b.BracketNumber < 1 {
			return fmt.Errorf("%w: bracket %d has no bracket number", ErrValidationFailed, i)
		}
		if seen[b.BracketNumber] {
			return fmt.Errorf("%w: bracket %d appears twice", ErrBracketNumberConflict, b.BracketNumber)
		}
		seen[b.BracketNumber] = true
		positions := make(map[int]int, len(b.Members))
		for j, m := range b.Members {
			if strings.TrimSpace(m.Name) == "" {
				return fmt.Errorf("%w: bracket %d member %d has no name", ErrValidationFailed, b.BracketNumber, j)
			}
			field := fmt.Sprintf("brackets[%d].members[%d].position", i, j)
			if m.Position < 0 {
				return validationError(forms.ValidationErrors{field: "position must not be negative"})
			}
			if m.Position == 0 {
				continue
			}
			if k, dup := positions[m.Position]; dup {
				return validationError(forms.ValidationErrors{
					field: fmt.Sprintf("position %d in bracket %d is already taken by member %d", m.Position, b.BracketNumber, k),
				})
			}
			positions[m.Position] = j
		}
	}
	return nil
}

// mergeRoster lays a rebuilt roster over the stored brackets by number, so a
// member edit keeps each bracket's metadata, status and bouts.
func mergeRoster(stored, rebuilt []models.Bracket) []models.Bracket {
	byNumber := make(map[int]models.Bracket, len(stored))
	for _, b := range stored {
		byNumber[b.BracketNumber] = b
	}
	out := make([]models.Bracket, 0, len(rebuilt))
	for _, b := range rebuilt {
		if prev, ok := byNumber[b.BracketNumber]; ok {
			prev.Members = b.Members
			b = prev
		}
		out = append(out, b)
	}
	return out
}

func nextBoutNumber(list []models.Bracket) int {
	maxNumber := 0
	for _, b := range list {
		for _, bout := range b.Bouts {
			if bout.BoutNumber > maxNumber {
				maxNumber = bout.BoutNumber
			}
		}
	}
	return maxNumber + 1
}

// PublishBrackets saves the roster, generates first-round bouts for brackets
// that have none and makes the brackets public.
func (s *bracketService) PublishBrackets(ctx context.Context, eventID int, input PublishInput) (*models.Event, error) {
	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	replacing := input.Brackets != nil
	source := event.Brackets
	if replacing {
		if err := validateRoster(input.Brackets); err != nil {
			return nil, err
		}
		source = append([]models.Bracket(nil), input.Brackets...)
		for i := range source {
			source[i].Bouts = nil
			source[i].Members = append([]models.BracketMember(nil), source[i].Members...)
			brackets.AssignPositions(source[i].Members)
		}
	}
	if len(source) == 0 {
		return nil, ErrBracketsRequired
	}

	show := true
	if input.ShowBrackets != nil {
		show = *input.ShowBrackets
	}

	err = withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		if replacing {
			if err := s.bracketRepo.ReplaceForEvent(ctx, tx, eventID, source); err != nil {
				return err
			}
		}

		number := nextBoutNumber(source)
		var created []models.Bout
		for i := range source {
			if len(source[i].Bouts) > 0 {
				continue
			}
			bouts, err := s.generator.Generate(ctx, brackets.GenerateParams{
				Event:           event,
				Bracket:         &source[i],
				FirstBoutNumber: number,
				Rounds:          input.Rounds,
				RoundDuration:   time.Duration(input.RoundDurationSecs) * time.Second,
			})
			if errors.Is(err, brackets.ErrNotEnoughMembers) {
				s.logger.WarnContext(ctx, "bracket skipped by generator",
					slog.Int("event_id", eventID), slog.Int("bracket_number", source[i].BracketNumber),
					slog.String("generator", s.generator.GetName()))
				continue
			}
			if err != nil {
				return err
			}
			created = append(created, bouts...)
			number += len(bouts)
		}

		if len(created) > 0 {
			if err := s.boutRepo.CreateBatch(ctx, tx, created); err != nil {
				return err
			}
		}
		return s.eventRepo.UpdateBracketFlags(ctx, tx, eventID, true, show)
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrBracketNumberConflict), errors.Is(err, repositories.ErrBracketPositionTaken):
			return nil, fmt.Errorf("%w: %w", ErrBracketNumberConflict, err)
		case errors.Is(err, repositories.ErrEventNotFound):
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to publish brackets of event %d: %w", eventID, err)
	}

	published, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "brackets published",
		slog.Int("event_id", eventID), slog.Int("brackets", len(published.Brackets)), slog.Bool("show", show))
	s.hub.BroadcastToEvent(eventID, brackets.MessageBracketsPublished, published.Brackets)
	return published, nil
}

func validSite(site brackets.Site) bool {
	switch site {
	case brackets.SiteAdmin, brackets.SitePublic, brackets.SiteTournament:
		return true
	}
	return false
}

// GetBracketLayouts drives the bracket view for the given site up to its
// bracket screen and returns what that screen shows.
func (s *bracketService) GetBracketLayouts(ctx context.Context, eventID int, site brackets.Site, ageClass string) (*BracketsView, error) {
	if !validSite(site) {
		return nil, fmt.Errorf("%w: unknown site %q", ErrValidationFailed, site)
	}
	if ageClass != "" && site != brackets.SiteTournament {
		return nil, fmt.Errorf("%w: age class filter is only available on the tournament site", ErrValidationFailed)
	}

	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	view := brackets.NewView(site)
	if err := view.SelectEvent(event); err != nil {
		return nil, err
	}
	if err := view.LoadData(); err != nil {
		return nil, err
	}

	result := &BracketsView{EventID: eventID, Site: site}
	if view.State() == brackets.StateParticipantList {
		result.Participants = view.Participants()
		if err := view.ShowBrackets(); err != nil {
			return nil, err
		}
	}
	if ageClass != "" && view.State() == brackets.StateBracketView {
		if err := view.FilterAgeClass(ageClass); err != nil {
			return nil, err
		}
	}

	result.State = view.State()
	result.Message = view.Message()
	result.AgeClass = view.AgeClass()
	result.Layouts = view.Layouts()
	if result.Layouts == nil {
		result.Layouts = []brackets.Layout{}
	}
	return result, nil
}

func (s *bracketService) GetFightCard(ctx context.Context, eventID int) (*FightCardView, error) {
	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	view := brackets.NewView(brackets.SitePublic)
	if err := view.SelectEvent(event); err != nil {
		return nil, err
	}
	if err := view.OpenFightCard(); err != nil {
		return nil, err
	}

	card := view.FightCard()
	if card == nil {
		card = []models.FightCardBout{}
	}
	return &FightCardView{
		EventID: eventID,
		State:   view.State(),
		Message: view.Message(),
		Bouts:   card,
	}, nil
}
