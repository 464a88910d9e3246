package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"framestat/internal/frame"
	"framestat/internal/infrastructure/logger"
	"framestat/internal/shared/validation"
	"framestat/internal/telemetry/domain"
	"framestat/pkg/utils"
)

// SinkBuilder creates the display sinks named in a logger configuration and
// releases whatever they hold once the logger stops.
type SinkBuilder interface {
	Build(logger string, interval time.Duration, names []string) ([]domain.DisplaySink, error)
	Release(logger string)
}

// SensorFactory returns the sensors for a logger's frame loop.
type SensorFactory func(driver *frame.Driver) domain.SensorSet

// ParseLoggerConfig decodes and validates one entry of the "loggers" list.
func ParseLoggerConfig(ctx context.Context, raw []byte) (domain.LoggerConfig, error) {
	var cfg domain.LoggerConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse logger config: %w", err)
	}
	if cfg.Name == "" {
		return cfg, validation.NewNoNameError()
	}
	if err := validation.Check(ctx, &cfg, cfg.Name); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// BuildInstance wires a TelemetryLogger, a frame driver running the synthetic
// workload, the sensors and the sinks for one logger configuration.
func BuildInstance(
	instanceName string,
	cfg domain.LoggerConfig,
	raw json.RawMessage,
	log *logger.Logger,
	sinks SinkBuilder,
	sensors SensorFactory,
) (*Instance, error) {
	id := utils.NewLoggerID(instanceName, cfg.Name)
	log = log.With("logger", cfg.Name)

	telemetry := NewTelemetryLogger(WithSlog(log.SLog()), WithLogVisible(cfg.LogVisible))
	if err := telemetry.Initialize(cfg.Interval(), cfg.Limit()); err != nil {
		return nil, err
	}

	built, err := sinks.Build(cfg.Name, cfg.Interval(), cfg.Sinks)
	if err != nil {
		return nil, validation.NewValidationError(map[string]string{"sinks": err.Error()}, cfg.Name)
	}

	inst := &Instance{
		ID:        id,
		Config:    cfg,
		Raw:       raw,
		Session:   uuid.New(),
		log:       log,
		sinks:     built,
		telemetry: telemetry,
	}

	workload := frame.NewSyntheticWorkload(cfg.Workload.UpdateIterations, cfg.Workload.RenderBytes)
	inst.driver = frame.NewDriver(
		frame.WithTargetFPS(cfg.FPS()),
		frame.WithUpdate(workload.Update),
		frame.WithRender(workload.Render),
		frame.WithFrameCallback(inst.onFrame),
	)
	inst.sensors = sensors(inst.driver)

	return inst, nil
}
