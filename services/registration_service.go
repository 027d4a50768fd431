package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/fight-events/brackets"
	"github.com/Dosada05/fight-events/forms"
	"github.com/Dosada05/fight-events/models"
	"github.com/Dosada05/fight-events/repositories"
	"github.com/Dosada05/fight-events/storage"
)

type ListRegistrationsInput struct {
	EventID     int
	Type        *models.RegistrationType
	Status      *models.RegistrationStatus
	WeightClass *string
	AgeClass    *string
	Search      string
	Page        int
	Limit       int
}

type RegistrationPage struct {
	Items      []models.Registration `json:"items"`
	Pagination models.Pagination     `json:"pagination"`
	Message    string                `json:"message,omitempty"`
}

type RegistrationService interface {
	Register(ctx context.Context, form forms.RegistrationForm) (*models.Registration, error)
	GetRegistration(ctx context.Context, id int) (*models.Registration, error)
	ListRegistrations(ctx context.Context, input ListRegistrationsInput) (*RegistrationPage, error)
	UpdateStatus(ctx context.Context, id int, status models.RegistrationStatus) (*models.Registration, error)
	UploadPhoto(ctx context.Context, id int, contentType string, body io.Reader) (*models.Registration, error)
	UploadLicense(ctx context.Context, id int, contentType string, body io.Reader) (*models.Registration, error)
	ExportRegistrations(ctx context.Context, input ListRegistrationsInput, w io.Writer) error
}

type registrationService struct {
	regRepo   repositories.RegistrationRepository
	eventRepo repositories.EventRepository
	uploader  storage.FileUploader
	logger    *slog.Logger
	now       func() time.Time
}

func NewRegistrationService(
	regRepo repositories.RegistrationRepository,
	eventRepo repositories.EventRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) RegistrationService {
	return &registrationService{
		regRepo:   regRepo,
		eventRepo: eventRepo,
		uploader:  uploader,
		logger:    loggerOrDefault(logger),
		now:       time.Now,
	}
}

func mapRegistrationRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrRegistrationNotFound):
		return ErrRegistrationNotFound
	case errors.Is(err, repositories.ErrRegistrationDuplicate):
		return ErrRegistrationDuplicate
	case errors.Is(err, repositories.ErrRegistrationEventNotFound):
		return ErrEventNotFound
	default:
		return err
	}
}

func (s *registrationService) Register(ctx context.Context, form forms.RegistrationForm) (*models.Registration, error) {
	if err := validationError(form.Validate(s.now())); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, form.EventID)
	if err != nil {
		return nil, mapEventRepoError(err)
	}
	if event.Status == models.EventStatusCompleted || event.Status == models.EventStatusCanceled {
		return nil, fmt.Errorf("%w: event %d is %s", ErrValidationFailed, event.ID, event.Status)
	}

	reg := form.ToModel()
	if err := s.regRepo.Create(ctx, reg); err != nil {
		if mapped := mapRegistrationRepoError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}
	s.logger.InfoContext(ctx, "registration created",
		slog.Int("registration_id", reg.ID), slog.Int("event_id", reg.EventID), slog.String("type", string(reg.Type)))
	return reg, nil
}

func (s *registrationService) GetRegistration(ctx context.Context, id int) (*models.Registration, error) {
	reg, err := s.regRepo.GetByID(ctx, id)
	if err != nil {
		if mapped := mapRegistrationRepoError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to get registration %d: %w", id, err)
	}
	return reg, nil
}

func (input ListRegistrationsInput) filter() repositories.ListRegistrationsFilter {
	return repositories.ListRegistrationsFilter{
		EventID:     input.EventID,
		Type:        input.Type,
		Status:      input.Status,
		WeightClass: input.WeightClass,
		AgeClass:    input.AgeClass,
		Search:      strings.TrimSpace(input.Search),
		Page:        input.Page,
		Limit:       input.Limit,
	}
}

func (s *registrationService) ListRegistrations(ctx context.Context, input ListRegistrationsInput) (*RegistrationPage, error) {
	input.Page, input.Limit = normalizePage(input.Page, input.Limit)

	regs, total, err := s.regRepo.List(ctx, input.filter())
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations of event %d: %w", input.EventID, err)
	}
	page := &RegistrationPage{Items: regs, Pagination: models.NewPagination(input.Page, input.Limit, total)}
	if total == 0 {
		page.Message = brackets.MessageNoParticipants
	}
	return page, nil
}

func (s *registrationService) UpdateStatus(ctx context.Context, id int, status models.RegistrationStatus) (*models.Registration, error) {
	switch status {
	case models.RegistrationPending, models.RegistrationApproved, models.RegistrationRejected:
	default:
		return nil, ErrInvalidStatus
	}
	if err := s.regRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, mapRegistrationRepoError(err)
	}
	return s.GetRegistration(ctx, id)
}

func (s *registrationService) UploadPhoto(ctx context.Context, id int, contentType string, body io.Reader) (*models.Registration, error) {
	return s.upload(ctx, id, "profile-photos", contentType, body, false, s.regRepo.UpdatePhotoURL)
}

func (s *registrationService) UploadLicense(ctx context.Context, id int, contentType string, body io.Reader) (*models.Registration, error) {
	return s.upload(ctx, id, "licenses", contentType, body, true, s.regRepo.UpdateLicenseURL)
}

func (s *registrationService) upload(
	ctx context.Context,
	id int,
	prefix, contentType string,
	body io.Reader,
	allowPDF bool,
	save func(ctx context.Context, id int, url string) error,
) (*models.Registration, error) {
	if _, err := s.GetRegistration(ctx, id); err != nil {
		return nil, err
	}
	result, err := uploadImage(ctx, s.uploader, prefix, id, contentType, body, allowPDF)
	if err != nil {
		return nil, err
	}
	if err := save(ctx, id, result.Location); err != nil {
		if delErr := s.uploader.Delete(ctx, result.Key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to delete orphaned upload", slog.String("key", result.Key), slog.Any("error", delErr))
		}
		return nil, mapRegistrationRepoError(err)
	}
	return s.GetRegistration(ctx, id)
}

// ExportRegistrations writes every registration matching input (ignoring
// pagination) as an XLSX workbook.
func (s *registrationService) ExportRegistrations(ctx context.Context, input ListRegistrationsInput, w io.Writer) error {
	event, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		return mapEventRepoError(err)
	}

	input.Page, input.Limit = 1, 0
	regs, _, err := s.regRepo.List(ctx, input.filter())
	if err != nil {
		return fmt.Errorf("failed to load registrations for export: %w", err)
	}
	return writeRegistrationsXLSX(w, event.Name, regs)
}
