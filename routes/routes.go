package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/fight-events/handlers"
	"github.com/Dosada05/fight-events/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/fight-events/docs"
)

// Handlers собирает все HTTP обработчики API.
type Handlers struct {
	Event        *handlers.EventHandler
	Bracket      *handlers.BracketHandler
	Registration *handlers.RegistrationHandler
	Ticket       *handlers.TicketHandler
	Dashboard    *handlers.DashboardHandler
	Upload       *handlers.UploadHandler
	WebSocket    *handlers.WebSocketHandler
}

type Options struct {
	AllowedOrigins []string
	Metrics        *middleware.Metrics
	Logger         *slog.Logger
	RequestTimeout time.Duration
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Recoverer(logger))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	// Websocket живёт вне таймаута: соединение долгое.
	if h.WebSocket != nil {
		router.Get("/ws/events/{eventID}", h.WebSocket.ServeWs)
	}

	router.Group(func(r chi.Router) {
		if opts.RequestTimeout > 0 {
			r.Use(chiMiddleware.Timeout(opts.RequestTimeout))
		}

		if h.Event != nil {
			r.Route("/events", func(r chi.Router) {
				r.Get("/", h.Event.ListHandler)
				r.Post("/add", h.Event.CreateHandler)

				r.Route("/{eventID}", func(r chi.Router) {
					r.Get("/", h.Event.GetByIDHandler)
					r.Put("/", h.Event.UpdateHandler)
					r.Delete("/", h.Event.DeleteHandler)
					r.Patch("/form", h.Event.ApplyFormHandler)
					r.Patch("/status", h.Event.UpdateStatusHandler)
					r.Post("/poster", h.Event.UploadPosterHandler)

					if h.Bracket != nil {
						r.Get("/brackets", h.Bracket.LayoutsHandler)
						r.Post("/brackets/publish", h.Bracket.PublishHandler)
						r.Get("/fight-card", h.Bracket.FightCardHandler)
					}
				})
			})
		}

		if h.Bracket != nil {
			r.Route("/bouts/{boutID}", func(r chi.Router) {
				r.Get("/", h.Bracket.GetBoutHandler)
				r.Put("/result", h.Bracket.RecordResultHandler)
			})
		}

		if h.Registration != nil {
			r.Route("/registrations", func(r chi.Router) {
				r.Post("/", h.Registration.CreateHandler)
				r.Get("/event/{eventID}", h.Registration.ListByEventHandler)
				r.Get("/event/{eventID}/export", h.Registration.ExportHandler)

				r.Route("/{registrationID}", func(r chi.Router) {
					r.Get("/", h.Registration.GetByIDHandler)
					r.Patch("/status", h.Registration.UpdateStatusHandler)
					r.Post("/photo", h.Registration.UploadPhotoHandler)
					r.Post("/license", h.Registration.UploadLicenseHandler)
				})
			})
		}

		if h.Ticket != nil {
			r.Route("/tickets", func(r chi.Router) {
				r.Post("/", h.Ticket.BuyHandler)
				r.Get("/event/{eventID}", h.Ticket.ListByEventHandler)
				r.Post("/{code}/check-in", h.Ticket.CheckInHandler)
			})
		}

		if h.Dashboard != nil {
			r.Get("/dashboard", h.Dashboard.Stats)
		}
		if h.Upload != nil {
			r.Post("/uploads", h.Upload.UploadHandler)
		}
	})
}
