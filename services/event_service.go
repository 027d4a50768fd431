package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/fight-events/brackets"
	"github.com/Dosada05/fight-events/forms"
	"github.com/Dosada05/fight-events/models"
	"github.com/Dosada05/fight-events/repositories"
	"github.com/Dosada05/fight-events/storage"
)

type ListEventsInput struct {
	Status *models.EventStatus
	Format *string
	Search string
	Page   int
	Limit  int
}

type EventPage struct {
	Items      []models.Event    `json:"items"`
	Pagination models.Pagination `json:"pagination"`
}

type EventService interface {
	CreateEvent(ctx context.Context, form forms.EventForm) (*models.Event, error)
	GetEventByID(ctx context.Context, id int) (*models.Event, error)
	ListEvents(ctx context.Context, input ListEventsInput) (*EventPage, error)
	UpdateEvent(ctx context.Context, id int, form forms.EventForm) (*models.Event, error)
	ApplyFormActions(ctx context.Context, id int, actions []forms.Action) (*models.Event, error)
	UpdateEventStatus(ctx context.Context, id int, status models.EventStatus) (*models.Event, error)
	DeleteEvent(ctx context.Context, id int) error
	UploadPoster(ctx context.Context, id int, contentType string, body io.Reader) (*models.Event, error)
}

type eventService struct {
	db          *sql.DB
	eventRepo   repositories.EventRepository
	bracketRepo repositories.BracketRepository
	boutRepo    repositories.BoutRepository
	uploader    storage.FileUploader
	hub         Broadcaster
	logger      *slog.Logger
}

func NewEventService(
	db *sql.DB,
	eventRepo repositories.EventRepository,
	bracketRepo repositories.BracketRepository,
	boutRepo repositories.BoutRepository,
	uploader storage.FileUploader,
	hub Broadcaster,
	logger *slog.Logger,
) EventService {
	return &eventService{
		db:          db,
		eventRepo:   eventRepo,
		bracketRepo: bracketRepo,
		boutRepo:    boutRepo,
		uploader:    uploader,
		hub:         broadcasterOrNoop(hub),
		logger:      loggerOrDefault(logger),
	}
}

func validationError(errs forms.ValidationErrors) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrValidationFailed, errs)
}

func (s *eventService) CreateEvent(ctx context.Context, form forms.EventForm) (*models.Event, error) {
	if err := validationError(form.Validate()); err != nil {
		return nil, err
	}

	roster := form.Brackets()
	if err := validateRoster(roster); err != nil {
		return nil, err
	}

	event := &models.Event{Status: models.EventStatusUpcoming}
	form.ApplyTo(event)

	if err := s.eventRepo.Create(ctx, event); err != nil {
		if mapped := mapEventRepoError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	s.logger.InfoContext(ctx, "event created", slog.Int("event_id", event.ID), slog.String("name", event.Name))

	if len(roster) > 0 {
		if err := s.replaceRoster(ctx, event.ID, roster); err != nil {
			return nil, err
		}
		event.Brackets = roster
	}
	return event, nil
}

// GetEventByID returns the event with brackets, members and bouts embedded.
func (s *eventService) GetEventByID(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event by id %d: %w", id, err)
	}

	var (
		list  []models.Bracket
		bouts []models.Bout
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = s.bracketRepo.ListByEvent(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		bouts, err = s.boutRepo.ListByEvent(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load brackets of event %d: %w", id, err)
	}

	attachBouts(list, bouts)
	event.Brackets = list
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, input ListEventsInput) (*EventPage, error) {
	page, limit := normalizePage(input.Page, input.Limit)
	if input.Status != nil && !validEventStatus(*input.Status) {
		return nil, ErrInvalidStatus
	}

	events, total, err := s.eventRepo.List(ctx, repositories.ListEventsFilter{
		Status: input.Status,
		Format: input.Format,
		Search: strings.TrimSpace(input.Search),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return &EventPage{Items: events, Pagination: models.NewPagination(page, limit, total)}, nil
}

// UpdateEvent rewrites the scalar fields of an event. The roster is managed by
// ApplyFormActions and the publish flow.
func (s *eventService) UpdateEvent(ctx context.Context, id int, form forms.EventForm) (*models.Event, error) {
	form.Fighters = nil
	if err := validationError(form.Validate()); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapEventRepoError(err)
	}
	form.ApplyTo(event)

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if mapped := mapEventRepoError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update event %d: %w", id, err)
	}
	s.hub.BroadcastToEvent(id, brackets.MessageEventUpdated, event)
	return event, nil
}

// ApplyFormActions replays reducer actions on the stored event and saves the
// result when it validates.
func (s *eventService) ApplyFormActions(ctx context.Context, id int, actions []forms.Action) (*models.Event, error) {
	event, err := s.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}

	form, err := forms.ReduceAll(forms.EventFormFromModel(event), actions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	if err := validationError(form.Validate()); err != nil {
		return nil, err
	}

	var roster []models.Bracket
	rosterChanged := touchesRoster(actions)
	if rosterChanged {
		roster = mergeRoster(event.Brackets, form.Brackets())
		if err := validateRoster(roster); err != nil {
			return nil, err
		}
	}

	form.ApplyTo(event)
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if mapped := mapEventRepoError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update event %d: %w", id, err)
	}

	if rosterChanged {
		if err := s.syncRoster(ctx, id, roster); err != nil {
			return nil, err
		}
		event.Brackets = roster
	}

	s.hub.BroadcastToEvent(id, brackets.MessageEventUpdated, event)
	return event, nil
}

func touchesRoster(actions []forms.Action) bool {
	for _, a := range actions {
		if a.Type == forms.ActionAddFighter || a.Type == forms.ActionRemoveFighter {
			return true
		}
	}
	return false
}

func (s *eventService) replaceRoster(ctx context.Context, eventID int, roster []models.Bracket) error {
	return s.saveRoster(ctx, eventID, func(tx *sql.Tx) error {
		return s.bracketRepo.ReplaceForEvent(ctx, tx, eventID, roster)
	})
}

// syncRoster rewrites members only; bracket rows and their bouts stay.
func (s *eventService) syncRoster(ctx context.Context, eventID int, roster []models.Bracket) error {
	return s.saveRoster(ctx, eventID, func(tx *sql.Tx) error {
		return s.bracketRepo.SyncRoster(ctx, tx, eventID, roster)
	})
}

func (s *eventService) saveRoster(ctx context.Context, eventID int, save func(tx *sql.Tx) error) error {
	err := withTx(ctx, s.db, s.logger, save)
	if err != nil {
		if errors.Is(err, repositories.ErrBracketNumberConflict) || errors.Is(err, repositories.ErrBracketPositionTaken) {
			return fmt.Errorf("%w: %w", ErrBracketNumberConflict, err)
		}
		return fmt.Errorf("failed to save roster of event %d: %w", eventID, err)
	}
	return nil
}

func (s *eventService) UpdateEventStatus(ctx context.Context, id int, status models.EventStatus) (*models.Event, error) {
	if !validEventStatus(status) {
		return nil, ErrInvalidStatus
	}
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapEventRepoError(err)
	}
	if !isValidStatusTransition(event.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, event.Status, status)
	}
	if err := s.eventRepo.UpdateStatus(ctx, nil, id, status); err != nil {
		return nil, mapEventRepoError(err)
	}
	event.Status = status
	s.hub.BroadcastToEvent(id, brackets.MessageEventUpdated, event)
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id int) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}
	s.logger.InfoContext(ctx, "event deleted", slog.Int("event_id", id))
	return nil
}

func (s *eventService) UploadPoster(ctx context.Context, id int, contentType string, body io.Reader) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapEventRepoError(err)
	}

	result, err := uploadImage(ctx, s.uploader, "posters", id, contentType, body, false)
	if err != nil {
		return nil, err
	}

	if err := s.eventRepo.UpdatePosterURL(ctx, id, result.Location); err != nil {
		// Загруженный файл больше не нужен.
		if delErr := s.uploader.Delete(ctx, result.Key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to delete orphaned poster", slog.String("key", result.Key), slog.Any("error", delErr))
		}
		return nil, mapEventRepoError(err)
	}
	event.PosterURL = &result.Location
	return event, nil
}
