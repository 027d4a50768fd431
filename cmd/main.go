package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Dosada05/fight-events/brackets"
	"github.com/Dosada05/fight-events/cache"
	"github.com/Dosada05/fight-events/config"
	"github.com/Dosada05/fight-events/db"
	"github.com/Dosada05/fight-events/handlers"
	"github.com/Dosada05/fight-events/middleware"
	"github.com/Dosada05/fight-events/repositories"
	api "github.com/Dosada05/fight-events/routes"
	"github.com/Dosada05/fight-events/services"
	"github.com/Dosada05/fight-events/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

const (
	shutdownTimeout = 15 * time.Second
	requestTimeout  = 30 * time.Second
)

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		return 1
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("log_level", cfg.LogLevel))

	ctx := context.Background()

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		return 1
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if cfg.MigrateOnStart {
		migrateCtx, cancel := context.WithTimeout(ctx, time.Minute)
		err := db.Migrate(migrateCtx, dbConn)
		cancel()
		if err != nil {
			logger.Error("failed to apply migrations", slog.Any("error", err))
			return 1
		}
		logger.Info("migrations applied")
	}

	// Объектное хранилище опционально: без него загрузки отвечают 503.
	var uploader storage.FileUploader
	if cfg.StorageEnabled() {
		uploader, err = storage.NewS3Uploader(ctx, storage.S3UploaderConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			BucketName:      cfg.S3Bucket,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize object storage uploader", slog.Any("error", err))
			return 1
		}
		logger.Info("object storage uploader initialized", slog.String("bucket", cfg.S3Bucket))
	} else {
		logger.Warn("object storage is not configured, uploads are disabled")
	}

	var statsCache cache.Cache
	if cfg.RedisURL != "" {
		redisCache, redisClient, err := cache.NewRedis(ctx, cfg.RedisURL, "fight-events:")
		if err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			return 1
		}
		defer redisClient.Close()
		statsCache = redisCache
		logger.Info("redis cache initialized")
	} else {
		statsCache = cache.NewMemory()
		logger.Info("using in-memory dashboard cache")
	}

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub(logger)
	go wsHub.Run()
	defer wsHub.Stop()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	bracketRepo := repositories.NewPostgresBracketRepository(dbConn)
	boutRepo := repositories.NewPostgresBoutRepository(dbConn)
	registrationRepo := repositories.NewPostgresRegistrationRepository(dbConn)
	ticketRepo := repositories.NewPostgresTicketRepository(dbConn)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	eventService := services.NewEventService(dbConn, eventRepo, bracketRepo, boutRepo, uploader, wsHub, logger)
	bracketService := services.NewBracketService(
		dbConn,
		eventService,
		eventRepo,
		bracketRepo,
		boutRepo,
		brackets.NewFirstRoundGenerator(),
		wsHub,
		logger,
	)
	boutService := services.NewBoutService(boutRepo, wsHub, logger)
	registrationService := services.NewRegistrationService(registrationRepo, eventRepo, uploader, logger)
	ticketService := services.NewTicketService(dbConn, eventRepo, ticketRepo, logger)
	dashboardService := services.NewDashboardService(eventRepo, registrationRepo, ticketRepo, statsCache, cfg.DashboardCacheTTL, logger)
	uploadService := services.NewUploadService(uploader, logger)
	logger.Info("Services initialized")

	// Планировщик автоматического обновления статусов событий
	scheduler, err := services.NewStatusScheduler(cfg.StatusSchedule, eventRepo, wsHub, logger)
	if err != nil {
		logger.Error("failed to create status scheduler", slog.Any("error", err))
		return 1
	}
	initialCtx, cancelInitial := context.WithTimeout(ctx, time.Minute)
	if _, err := scheduler.RunOnce(initialCtx); err != nil {
		logger.Error("Scheduler: initial run failed", slog.Any("error", err))
	}
	cancelInitial()
	scheduler.Start()
	logger.Info("Event status scheduler started", slog.String("schedule", cfg.StatusSchedule))

	// Инициализация обработчиков HTTP
	h := api.Handlers{
		Event:        handlers.NewEventHandler(eventService),
		Bracket:      handlers.NewBracketHandler(bracketService, boutService),
		Registration: handlers.NewRegistrationHandler(registrationService),
		Ticket:       handlers.NewTicketHandler(ticketService),
		Dashboard:    handlers.NewDashboardHandler(dashboardService),
		Upload:       handlers.NewUploadHandler(uploadService),
		WebSocket:    handlers.NewWebSocketHandler(wsHub, eventService, cfg.CORSAllowedOrigins, logger),
	}
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, h, api.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:        middleware.NewMetrics(),
		Logger:         logger,
		RequestTimeout: requestTimeout,
	})
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := awaitShutdown(logger, server, serverErrors, quit, scheduler)
	logger.Info("application exited")
	return exitCode
}

type stopper interface {
	Stop(ctx context.Context)
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
	Close() error
}

// awaitShutdown blocks until the server fails or a signal arrives. The
// background jobs are stopped on both paths.
func awaitShutdown(logger *slog.Logger, server shutdowner, serverErrors <-chan error, quit <-chan os.Signal, jobs stopper) int {
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		jobs.Stop(ctx)
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			return 1
		}
		logger.Info("server stopped gracefully")
		return 0
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("failed to force close server", slog.Any("error", closeErr))
		}
		return 1
	}
	logger.Info("server shutdown complete")
	return 0
}
