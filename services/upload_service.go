package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Dosada05/fight-events/storage"
)

// Папки, доступные для загрузки через общий эндпоинт.
var uploadFolders = map[string]bool{
	"posters":        false,
	"logos":          false,
	"profile-photos": false,
	"fighters":       false,
	"licenses":       true, // разрешён PDF
}

type UploadService interface {
	Upload(ctx context.Context, folder, contentType string, body io.Reader) (*storage.UploadResult, error)
}

type uploadService struct {
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewUploadService(uploader storage.FileUploader, logger *slog.Logger) UploadService {
	return &uploadService{uploader: uploader, logger: loggerOrDefault(logger)}
}

// Upload stores a file not yet tied to any record, e.g. a fighter photo picked
// in the event form before the event is saved.
func (s *uploadService) Upload(ctx context.Context, folder, contentType string, body io.Reader) (*storage.UploadResult, error) {
	allowPDF, ok := uploadFolders[folder]
	if !ok {
		return nil, fmt.Errorf("%w: unknown upload folder %q", ErrValidationFailed, folder)
	}
	result, err := uploadImage(ctx, s.uploader, folder, 0, contentType, body, allowPDF)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "file uploaded", slog.String("key", result.Key))
	return result, nil
}
