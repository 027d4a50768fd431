package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Dosada05/fight-events/brackets"
	"github.com/Dosada05/fight-events/models"
	"github.com/Dosada05/fight-events/repositories"
	"github.com/Dosada05/fight-events/storage"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Broadcaster pushes live updates to websocket rooms. *brackets.Hub implements it.
type Broadcaster interface {
	BroadcastToEvent(eventID int, msgType string, payload any)
}

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToEvent(int, string, any) {}

var _ Broadcaster = (*brackets.Hub)(nil)

func broadcasterOrNoop(b Broadcaster) Broadcaster {
	if b == nil {
		return noopBroadcaster{}
	}
	return b
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

// withTx runs fn in a transaction, committing on success and rolling back on
// error or panic.
func withTx(ctx context.Context, db *sql.DB, logger *slog.Logger, fn func(tx *sql.Tx) error) (txErr error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.ErrorContext(ctx, "rollback failed", slog.Any("error", rbErr), slog.Any("original_error", txErr))
				txErr = fmt.Errorf("transaction processing error: %w (rollback also failed: %v)", txErr, rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()
	return fn(tx)
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

func isValidStatusTransition(current, next models.EventStatus) bool {
	if current == next {
		return true
	}
	allowedTransitions := map[models.EventStatus][]models.EventStatus{
		models.EventStatusDraft:     {models.EventStatusUpcoming, models.EventStatusCanceled},
		models.EventStatusUpcoming:  {models.EventStatusDraft, models.EventStatusLive, models.EventStatusCanceled},
		models.EventStatusLive:      {models.EventStatusCompleted, models.EventStatusCanceled},
		models.EventStatusCompleted: {},
		models.EventStatusCanceled:  {},
	}
	for _, allowed := range allowedTransitions[current] {
		if next == allowed {
			return true
		}
	}
	return false
}

func validEventStatus(s models.EventStatus) bool {
	switch s {
	case models.EventStatusDraft, models.EventStatusUpcoming, models.EventStatusLive,
		models.EventStatusCompleted, models.EventStatusCanceled:
		return true
	}
	return false
}

// attachBouts distributes bouts to their brackets by bracket ID.
func attachBouts(list []models.Bracket, bouts []models.Bout) {
	index := make(map[int]int, len(list))
	for i := range list {
		index[list[i].ID] = i
		list[i].Bouts = make([]models.Bout, 0)
	}
	for _, b := range bouts {
		if i, ok := index[b.BracketID]; ok {
			list[i].Bouts = append(list[i].Bouts, b)
		}
	}
}

func mapEventRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrEventNotFound):
		return ErrEventNotFound
	case errors.Is(err, repositories.ErrEventNameConflict):
		return ErrEventNameConflict
	case errors.Is(err, repositories.ErrEventInvalidDates):
		return ErrInvalidDateRange
	default:
		return err
	}
}

// uploadImage stores an image under prefix and returns its public URL.
func uploadImage(ctx context.Context, uploader storage.FileUploader, prefix string, ownerID int, contentType string, body io.Reader, allowPDF bool) (*storage.UploadResult, error) {
	if uploader == nil {
		return nil, ErrStorageNotConfigured
	}
	if !strings.HasPrefix(contentType, "image/") && !(allowPDF && contentType == "application/pdf") {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFileType, contentType)
	}
	ext, err := storage.ExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFileType, err)
	}
	result, err := uploader.Upload(ctx, storage.ObjectKey(prefix, ownerID, ext), contentType, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	return result, nil
}
