package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/fight-events/services"
)

type TicketHandler struct {
	ticketService services.TicketService
}

func NewTicketHandler(ts services.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ts}
}

// BuyHandler обрабатывает POST /tickets
func (h *TicketHandler) BuyHandler(w http.ResponseWriter, r *http.Request) {
	var input services.PurchaseInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	ticket, err := h.ticketService.BuyTickets(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusCreated, ticket, "tickets purchased")
}

// ListByEventHandler обрабатывает GET /tickets/event/{eventID}
func (h *TicketHandler) ListByEventHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tickets, err := h.ticketService.ListTickets(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, tickets, "")
}

// CheckInHandler обрабатывает POST /tickets/{code}/check-in
func (h *TicketHandler) CheckInHandler(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.ticketService.CheckIn(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, ticket, "checked in")
}
