package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"framestat/internal/config/domain"
	"framestat/internal/infrastructure/logger"
	"framestat/internal/shared/validation"
	telemetryapp "framestat/internal/telemetry/application"
)

// Loader handles configuration loading and translation to domain operations
type Loader struct {
	logger           *logger.Logger
	telemetryService *telemetryapp.Service

	mu      sync.RWMutex
	current []byte
}

// NewLoader creates a new configuration loader
func NewLoader(logger *logger.Logger, telemetryService *telemetryapp.Service) *Loader {
	return &Loader{
		logger:           logger,
		telemetryService: telemetryService,
	}
}

// LoadConfig loads and applies configuration from raw JSON bytes
func (l *Loader) LoadConfig(ctx context.Context, rawConfig []byte) error {
	var cfg domain.InstanceConfig
	err := json.Unmarshal(rawConfig, &cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validation.Check(ctx, &cfg, cfg.Name); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	err = l.telemetryService.Load(ctx, cfg.Name, cfg.Loggers)
	var cfgErr validation.ConfigError
	if errors.As(err, &cfgErr) {
		cfgErr.PrependPath(cfg.Name)
		return err
	} else if err != nil {
		return fmt.Errorf("failed to load loggers for %s: %w", cfg.Name, err)
	}

	l.current = append(l.current[:0:0], rawConfig...)
	l.logger.Info("Configuration loaded", "instance", cfg.Name, "loggers", len(cfg.Loggers))
	return nil
}

// GetConfig returns the last configuration that was applied, or nil.
func (l *Loader) GetConfig() []byte {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Stop stops all loggers
func (l *Loader) Stop(ctx context.Context) error {
	return l.telemetryService.Stop(ctx)
}
