package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/fight-events/brackets"
	"github.com/Dosada05/fight-events/services"
)

type WebSocketHandler struct {
	hub          *brackets.Hub
	eventService services.EventService
	upgrader     websocket.Upgrader
	logger       *slog.Logger
}

// NewWebSocketHandler принимает список разрешённых Origin; "*" разрешает любые.
func NewWebSocketHandler(hub *brackets.Hub, es services.EventService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		hub:          hub,
		eventService: es,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

// ServeWs обрабатывает WebSocket запросы для конкретного события.
// Клиент подключается к /ws/events/{eventID} и получает BRACKETS_PUBLISHED,
// BOUT_UPDATED и EVENT_UPDATED.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if _, err := h.eventService.GetEventByID(r.Context(), eventID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отправляет HTTP ошибку клиенту.
		h.logger.Warn("websocket upgrade failed", slog.Int("event_id", eventID), slog.Any("error", err))
		return
	}

	room := brackets.RoomForEvent(eventID)
	h.hub.Attach(conn, room)
	h.logger.Info("websocket client attached", slog.String("room", room), slog.Int("event_id", eventID))
}
