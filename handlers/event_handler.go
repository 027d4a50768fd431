package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/fight-events/forms"
	"github.com/Dosada05/fight-events/models"
	"github.com/Dosada05/fight-events/services"
)

type EventHandler struct {
	eventService services.EventService
}

func NewEventHandler(es services.EventService) *EventHandler {
	return &EventHandler{eventService: es}
}

// ListHandler обрабатывает GET /events
func (h *EventHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	var input services.ListEventsInput
	var err error

	if input.Page, err = queryInt(r, "page"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Limit, err = queryInt(r, "limit"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if status := queryString(r, "status"); status != nil {
		s := models.EventStatus(*status)
		input.Status = &s
	}
	input.Format = queryString(r, "format")
	input.Search = r.URL.Query().Get("search")

	page, err := h.eventService.ListEvents(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, page, "")
}

// CreateHandler обрабатывает POST /events/add
func (h *EventHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var form forms.EventForm
	if err := readJSON(w, r, &form); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.CreateEvent(r.Context(), form)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusCreated, event, "event created")
}

// GetByIDHandler обрабатывает GET /events/{eventID}
func (h *EventHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.GetEventByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, event, "")
}

// UpdateHandler обрабатывает PUT /events/{eventID}
func (h *EventHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var form forms.EventForm
	if err := readJSON(w, r, &form); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.UpdateEvent(r.Context(), id, form)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, event, "event updated")
}

// ApplyFormHandler обрабатывает PATCH /events/{eventID}/form
// Тело: {"actions": [{"type": "SET_FIELD", "field": "name", "value": "..."}]}
func (h *EventHandler) ApplyFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Actions []forms.Action `json:"actions"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if len(input.Actions) == 0 {
		badRequestResponse(w, r, errors.New("at least one action is required"))
		return
	}

	event, err := h.eventService.ApplyFormActions(r.Context(), id, input.Actions)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, event, "event updated")
}

// UpdateStatusHandler обрабатывает PATCH /events/{eventID}/status
func (h *EventHandler) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Status models.EventStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.UpdateEventStatus(r.Context(), id, input.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, event, "")
}

// DeleteHandler обрабатывает DELETE /events/{eventID}
func (h *EventHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.eventService.DeleteEvent(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, jsonResponse{"id": id}, "event deleted")
}

// UploadPosterHandler обрабатывает POST /events/{eventID}/poster (multipart, поле "file")
func (h *EventHandler) UploadPosterHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
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

	event, err := h.eventService.UploadPoster(r.Context(), id, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, event, "poster uploaded")
}
