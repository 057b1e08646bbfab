// Пакет server: HTTP-сервер printfiles с graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"

	apihandlers "github.com/HansenBerlin/printfiles/internal/api/handlers"
	"github.com/HansenBerlin/printfiles/internal/api/middleware"
	"github.com/HansenBerlin/printfiles/internal/config"
)

// Server: HTTP-сервер printfiles.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с настроенными маршрутами и middleware.
// По doc проверяются запросы к /api.
func New(cfg *config.Config, logger *slog.Logger, h *apihandlers.APIHandler, doc *openapi3.T) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewHandler(cfg, logger, h, doc),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewHandler собирает роутер со всеми маршрутами сервиса.
func NewHandler(cfg *config.Config, logger *slog.Logger, h *apihandlers.APIHandler, doc *openapi3.T) http.Handler {
	router := chi.NewRouter()

	// Глобальные middleware
	router.Use(chimw.RequestID)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	router.Get("/health/live", h.HealthLive)
	router.Get("/health/ready", h.HealthReady)
	router.Get("/metrics", h.GetMetrics)
	router.Get("/api-doc/openapi.yaml", h.GetAPIDoc)

	// Валидатор встраивается в обработчики маршрутов группы,
	// поэтому видит полный шаблон пути.
	router.Group(func(r chi.Router) {
		r.Use(middleware.OpenAPIValidator(doc))

		r.Get("/api/files/public", h.ListPublicFiles)
		r.Get("/api/files/private/{userId}", h.ListPrivateFiles)
		r.Get("/api/files/user/{userId}", h.ListUserFiles)
		r.Post("/api/files", h.CreateFile)
		r.Get("/api/files/{id}", h.GetFile)
		r.Patch("/api/files/{id}", h.UpdateFile)
		r.Delete("/api/files/{id}", h.DeleteFile)
		r.Get("/api/files/{id}/owner", h.GetFileOwner)
		r.Get("/api/files/{id}/{userId}", h.GetFileForViewer)
		r.Post("/api/files/{id}/permissions", h.GrantPermission)

		r.Get("/api/users", h.ListUsers)
		r.Post("/api/users", h.CreateUser)
		r.Get("/api/users/{mail}", h.GetUserByMail)

		r.Get("/api/prints/{fileId}", h.ListPrints)
	})

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError)),
		handlers.PrintRecoveryStack(true),
	)
	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-Request-Id"}),
		handlers.AllowCredentials(),
	)

	return recovery(cors(router))
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
