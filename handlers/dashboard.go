package handlers

import (
	"net/http"

	"github.com/Dosada05/fight-events/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(s services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: s}
}

// Stats обрабатывает GET /dashboard?startDate=2024-05-01&endDate=2024-05-31
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	start, err := queryDate(r, "startDate")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	end, err := queryDate(r, "endDate")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.dashboardService.GetStats(r.Context(), start, end)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, stats, "")
}
