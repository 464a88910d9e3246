// @title           framestat API
// @version         1.0
// @description     Frame statistics telemetry loggers: display values, rolling logs and log visibility.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API Key authentication

// @host      localhost:8080
// @BasePath  /api/v1

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"

	apiserver "framestat/internal/api"
	configapp "framestat/internal/config/application"
	"framestat/internal/frame"
	"framestat/internal/infrastructure/database"
	"framestat/internal/infrastructure/logger"
	entityinfra "framestat/internal/shared/entity/infrastructure"
	telemetryapp "framestat/internal/telemetry/application"
	telemetrydomain "framestat/internal/telemetry/domain"
	telemetryinfra "framestat/internal/telemetry/infrastructure"
)

const version = "1.0"

func newApp() *cli.App {
	return &cli.App{
		Name:      "framestat",
		Usage:     "run frame statistics telemetry loggers and serve them over HTTP",
		ArgsUsage: "[config]",
		Version:   version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-key", Usage: "API key for /api/v1 (FRAMESTAT_API_KEY)"},
			&cli.StringFlag{Name: "port", Usage: "API port (FRAMESTAT_API_PORT, default 8080)"},
			&cli.StringFlag{Name: "log-level", Usage: "DEBUG, INFO, WARN or ERROR (FRAMESTAT_LOG_LEVEL)"},
			&cli.StringFlag{Name: "log-format", Usage: "text or json (FRAMESTAT_LOG_FORMAT)"},
			&cli.StringFlag{Name: "log-output", Usage: "stdout, stderr or a file path (FRAMESTAT_LOG_OUTPUT)"},
			&cli.StringFlag{Name: "db", Usage: "SQLite database path (FRAMESTAT_DB_PATH, default framestat.db)"},
			&cli.StringFlag{Name: "env-file", Usage: "load environment variables from this file instead of .env"},
			&cli.BoolFlag{Name: "dev", Usage: "enable development mode (Swagger UI)"},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	// Bootstrap logger until the runtime config is known
	bootLogger := logger.DefaultLogger()
	if _, err := configapp.LoadEnvFile(bootLogger, c.String("env-file")); err != nil {
		return err
	}

	runtimeCfg := configapp.LoadRuntimeConfig(
		c.String("api-key"),
		c.String("port"),
		c.String("log-level"),
		c.String("log-format"),
		c.String("log-output"),
		c.String("db"),
		c.Args().First(),
		c.Bool("dev"),
	)
	if err := runtimeCfg.Validate(); err != nil {
		cli.ShowAppHelp(c)
		return err
	}

	appLogger := logger.NewLogger(logger.Options{
		Level:  runtimeCfg.LogLevel,
		Format: runtimeCfg.LogFormat,
		Output: runtimeCfg.LogOutput,
	})
	logger.SetDefaultLogger(appLogger)

	appLogger.Info("Starting framestat", "version", version)

	sigCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	appLogger.Debug("Reading configuration file", "path", runtimeCfg.ConfigPath)
	rawCfg, err := os.ReadFile(runtimeCfg.ConfigPath)
	if err != nil {
		appLogger.Error("Failed to read config file", "path", runtimeCfg.ConfigPath, "err", err)
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Initialize database connections
	appLogger.Debug("Connecting to database", "file", runtimeCfg.DBPath)
	dbRead, err := database.ConnectSQLite(runtimeCfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to connect to read database", "err", err)
		return fmt.Errorf("failed to connect to read database: %w", err)
	}
	defer dbRead.Close()
	dbRead.SetMaxOpenConns(runtime.NumCPU())
	appLogger.Debug("Read database configured", "max_open_conns", runtime.NumCPU())

	dbWrite, err := database.ConnectSQLite(runtimeCfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to connect to write database", "err", err)
		return fmt.Errorf("failed to connect to write database: %w", err)
	}
	defer dbWrite.Close()
	dbWrite.SetMaxOpenConns(1)
	appLogger.Debug("Write database configured", "max_open_conns", 1)

	appLogger.Debug("Initializing database schema")
	if err := database.Migrate(sigCtx, dbWrite); err != nil {
		appLogger.Error("Failed to initialize schema", "err", err)
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	appLogger.Debug("Initializing entity repository")
	entityRepo := entityinfra.NewRepository(dbRead, dbWrite)

	// Metrics registry shared by the Prometheus sinks and /metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMetrics, err := telemetryinfra.NewPrometheusMetrics(reg)
	if err != nil {
		appLogger.Error("Failed to register telemetry metrics", "err", err)
		return fmt.Errorf("failed to register telemetry metrics: %w", err)
	}

	appLogger.Debug("Initializing telemetry service")
	sinks := &telemetryinfra.SinkFactory{
		Console:    os.Stdout,
		Logger:     appLogger.SLog(),
		Prometheus: promMetrics,
	}
	sensors := func(d *frame.Driver) telemetrydomain.SensorSet {
		return telemetryinfra.NewRuntimeSensors(d)
	}
	telemetryService := telemetryapp.NewService(appLogger, entityRepo, sinks, sensors)

	appLogger.Debug("Initializing configuration loader")
	configLoader := configapp.NewLoader(appLogger, telemetryService)

	appLogger.Info("Loading configuration")
	if err := configLoader.LoadConfig(sigCtx, rawCfg); err != nil {
		appLogger.Error("Failed to load config", "err", err)
		return fmt.Errorf("failed to load config: %w", err)
	}

	appLogger.Debug("Initializing API server")
	apiServer, err := apiserver.NewServer(appLogger, runtimeCfg, configLoader, entityRepo, telemetryService, reg)
	if err != nil {
		appLogger.Error("Failed to create API server", "err", err)
		return fmt.Errorf("failed to create API server: %w", err)
	}

	serverErrChan := make(chan error, 1)
	go func() {
		if err := apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	appLogger.Info("framestat started successfully, waiting for shutdown signal")

	select {
	case <-sigCtx.Done():
		appLogger.Info("Shutdown signal received, starting graceful shutdown")
	case err := <-serverErrChan:
		appLogger.Error("Server error received", "err", err)
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		configLoader.Stop(stopCtx)
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	var shutdownErr error
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		shutdownErr = fmt.Errorf("API server shutdown error: %w", err)
	}

	if err := configLoader.Stop(shutdownCtx); err != nil {
		appLogger.Error("Config loader shutdown error", "err", err)
		if shutdownErr != nil {
			return fmt.Errorf("multiple shutdown errors: %v, %v", shutdownErr, err)
		}
		return fmt.Errorf("config loader shutdown error: %w", err)
	}

	appLogger.Info("Graceful shutdown completed")
	return shutdownErr
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		// Use default logger for final error message if run() failed early
		logger := logger.DefaultLogger()
		logger.Error("Application error", "err", err)
		os.Exit(1)
	}
}
