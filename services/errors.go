package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed     = errors.New("validation failed")
	ErrInvalidDateRange     = errors.New("end date must not be before start date")
	ErrInvalidStatus        = errors.New("invalid status provided")
	ErrInvalidTransition    = errors.New("invalid event status transition")
	ErrInvalidTier          = errors.New("unknown ticket tier")
	ErrInvalidQuantity      = errors.New("ticket quantity must be between 1 and 10")
	ErrInvalidFightResult   = errors.New("invalid fight result")
	ErrTicketSalesClosed    = errors.New("ticket sales are closed for this event")
	ErrTicketsSoldOut       = errors.New("not enough tickets left for this event")
	ErrBracketsRequired     = errors.New("event has no brackets to publish")
	ErrInvalidFileType      = errors.New("unsupported file type")
	ErrStorageNotConfigured = errors.New("file storage is not configured")
	ErrUploadFailed         = errors.New("failed to upload file")

	// Ошибки конфликтов
	ErrEventNameConflict      = errors.New("an event with this name already starts at that date")
	ErrRegistrationDuplicate  = errors.New("this email is already registered for the event")
	ErrBracketNumberConflict  = errors.New("bracket numbers must be unique within an event")
	ErrTicketAlreadyCheckedIn = errors.New("ticket has already been checked in")

	// Ошибки, специфичные для сущностей
	ErrEventNotFound        = errors.New("event not found")
	ErrBoutNotFound         = errors.New("bout not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrTicketNotFound       = errors.New("ticket not found")
)
