package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "framestat/docs"
	api "framestat/internal/api/application"
	"framestat/internal/api/handlers"
	apimiddleware "framestat/internal/api/middleware"
	configapp "framestat/internal/config/application"
	"framestat/internal/infrastructure/logger"
	entitydomain "framestat/internal/shared/entity/domain"
	telemetryapp "framestat/internal/telemetry/application"
)

// Server represents the API server
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
}

// NewServer creates a new API server
func NewServer(
	logger *logger.Logger,
	runtimeCfg *configapp.RuntimeConfig,
	configLoader *configapp.Loader,
	entityRepo entitydomain.Repository,
	telemetry *telemetryapp.Service,
	gatherer prometheus.Gatherer,
) (*Server, error) {
	// Validate API key is set
	if runtimeCfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required (set FRAMESTAT_API_KEY or use --api-key flag)")
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// Initialize services
	entityService := api.NewEntityService(entityRepo)
	telemetryService := api.NewTelemetryService(telemetry)

	// Initialize handlers
	configHandler := handlers.NewConfigHandler(configLoader)
	entityHandler := handlers.NewEntityHandler(entityService)
	telemetryHandler := handlers.NewTelemetryHandler(telemetryService)

	// Setup chi router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httplog.RequestLogger(logger.SLog(), &httplog.Options{
		Level:             slog.LevelDebug,
		Schema:            httplog.SchemaECS.Concise(true),
		LogRequestHeaders: []string{}, // Log no headers by default to reduce verbosity
	}))

	// Open endpoints
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI (only in dev mode, no auth required)
	if runtimeCfg.DevMode {
		swaggerHandler := httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		)
		r.Handle("/swagger/*", swaggerHandler)
		r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
		})
	}

	// API v1 routes (with authentication)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apimiddleware.APIKeyAuthWithKey(runtimeCfg.APIKey))

		r.Get("/config", configHandler.GetConfig)
		r.Post("/config", configHandler.LoadConfig)
		r.Get("/entities", entityHandler.ListEntities)
		r.Get("/entities/{id}", entityHandler.GetEntity)

		r.Route("/loggers", func(r chi.Router) {
			r.Get("/", telemetryHandler.ListLoggers)
			r.Get("/{name}", telemetryHandler.GetLogger)
			r.Get("/{name}/log", telemetryHandler.GetLog)
			r.Post("/{name}/visibility", telemetryHandler.ToggleVisibility)
			r.Post("/{name}/reset", telemetryHandler.Reset)
		})
	})

	httpServer := &http.Server{
		Addr:         ":" + runtimeCfg.APIPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Debug("Server configured",
		"port", runtimeCfg.APIPort,
		"dev_mode", runtimeCfg.DevMode,
		"middleware", []string{"RequestID", "RealIP", "Recoverer", "httplog"},
	)

	return &Server{
		httpServer: httpServer,
		logger:     logger,
	}, nil
}

// Handler returns the router, for serving without a listener
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		s.logger.Error("Server error", "err", err)
	}
	return err
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Server shutdown error", "err", err)
	} else {
		s.logger.Info("Server shutdown complete")
	}
	return err
}
