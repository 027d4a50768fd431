package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Dosada05/fight-events/forms"
	"github.com/Dosada05/fight-events/models"
	"github.com/Dosada05/fight-events/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RegistrationHandler struct {
	registrationService services.RegistrationService
}

func NewRegistrationHandler(rs services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: rs}
}

// listInput собирает фильтры таблицы участников из query параметров.
func listInput(r *http.Request) (services.ListRegistrationsInput, error) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		return services.ListRegistrationsInput{}, err
	}
	input := services.ListRegistrationsInput{
		EventID:     eventID,
		WeightClass: queryString(r, "weightClass"),
		AgeClass:    queryString(r, "ageClass"),
		Search:      r.URL.Query().Get("search"),
	}
	if t := queryString(r, "type"); t != nil {
		typ := models.RegistrationType(*t)
		input.Type = &typ
	}
	if s := queryString(r, "status"); s != nil {
		status := models.RegistrationStatus(*s)
		input.Status = &status
	}
	if input.Page, err = queryInt(r, "page"); err != nil {
		return input, err
	}
	if input.Limit, err = queryInt(r, "limit"); err != nil {
		return input, err
	}
	return input, nil
}

// ListByEventHandler обрабатывает GET /registrations/event/{eventID}
func (h *RegistrationHandler) ListByEventHandler(w http.ResponseWriter, r *http.Request) {
	input, err := listInput(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	page, err := h.registrationService.ListRegistrations(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, page, page.Message)
}

// ExportHandler обрабатывает GET /registrations/event/{eventID}/export
func (h *RegistrationHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	input, err := listInput(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// Файл собирается целиком до записи заголовков, чтобы ошибка вернулась как JSON.
	var buf bytes.Buffer
	if err := h.registrationService.ExportRegistrations(r.Context(), input, &buf); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	filename := fmt.Sprintf("registrations-event-%d-%s.xlsx", input.EventID, time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// CreateHandler обрабатывает POST /registrations
func (h *RegistrationHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var form forms.RegistrationForm
	if err := readJSON(w, r, &form); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	reg, err := h.registrationService.Register(r.Context(), form)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusCreated, reg, "registration received")
}

// GetByIDHandler обрабатывает GET /registrations/{registrationID}
func (h *RegistrationHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "registrationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	reg, err := h.registrationService.GetRegistration(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, reg, "")
}

// UpdateStatusHandler обрабатывает PATCH /registrations/{registrationID}/status
func (h *RegistrationHandler) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "registrationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Status models.RegistrationStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	reg, err := h.registrationService.UpdateStatus(r.Context(), id, input.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, reg, "")
}

// UploadPhotoHandler обрабатывает POST /registrations/{registrationID}/photo
func (h *RegistrationHandler) UploadPhotoHandler(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.registrationService.UploadPhoto)
}

// UploadLicenseHandler обрабатывает POST /registrations/{registrationID}/license
func (h *RegistrationHandler) UploadLicenseHandler(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.registrationService.UploadLicense)
}

type registrationUpload func(ctx context.Context, id int, contentType string, body io.Reader) (*models.Registration, error)

func (h *RegistrationHandler) upload(w http.ResponseWriter, r *http.Request, save registrationUpload) {
	id, err := getIDFromURL(r, "registrationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, contentType, err := readUpload(w, r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	reg, err := save(r.Context(), id, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, reg, "file uploaded")
}
