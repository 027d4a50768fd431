package handlers

import (
	"net/http"

	"github.com/Dosada05/fight-events/brackets"
	"github.com/Dosada05/fight-events/services"
)

type BracketHandler struct {
	bracketService services.BracketService
	boutService    services.BoutService
}

func NewBracketHandler(bs services.BracketService, bouts services.BoutService) *BracketHandler {
	return &BracketHandler{bracketService: bs, boutService: bouts}
}

// PublishHandler обрабатывает POST /events/{eventID}/brackets/publish
func (h *BracketHandler) PublishHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.PublishInput
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	event, err := h.bracketService.PublishBrackets(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, event, "brackets published")
}

// LayoutsHandler обрабатывает GET /events/{eventID}/brackets?site=public&ageClass=Junior
// Неопубликованные сетки и пустые результаты возвращаются с 200 и сообщением.
func (h *BracketHandler) LayoutsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	query := r.URL.Query()
	site := brackets.Site(query.Get("site"))
	if site == "" {
		site = brackets.Site(query.Get("variant"))
	}
	if site == "" {
		site = brackets.SitePublic
	}

	view, err := h.bracketService.GetBracketLayouts(r.Context(), id, site, query.Get("ageClass"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, view, view.Message)
}

// FightCardHandler обрабатывает GET /events/{eventID}/fight-card
func (h *BracketHandler) FightCardHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	card, err := h.bracketService.GetFightCard(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, card, card.Message)
}

// GetBoutHandler обрабатывает GET /bouts/{boutID}
func (h *BracketHandler) GetBoutHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "boutID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bout, err := h.boutService.GetBout(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, bout, "")
}

// RecordResultHandler обрабатывает PUT /bouts/{boutID}/result
func (h *BracketHandler) RecordResultHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "boutID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.FightResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bout, err := h.boutService.RecordResult(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, bout, "result recorded")
}
