package application

import (
	"errors"
	"log/slog"
	"time"

	"framestat/internal/shared/validation"
	"framestat/internal/telemetry/domain"
)

// TelemetryLogger samples frame statistics once per frame and keeps a rolling
// text log of them. It is not safe for concurrent use: the host calls
// OnFrameTick from its single frame loop.
type TelemetryLogger struct {
	updateInterval time.Duration
	sampling       domain.SamplingState
	log            *domain.LogBuffer
	visible        bool
	lastSampled    bool
	rollovers      int
	unavailable    map[string]bool
	logger         *slog.Logger
}

// TelemetryLoggerOption configures a TelemetryLogger at construction.
type TelemetryLoggerOption func(*TelemetryLogger)

// WithSlog sets the logger used to report unreadable sensors.
func WithSlog(l *slog.Logger) TelemetryLoggerOption {
	return func(t *TelemetryLogger) {
		t.logger = l
	}
}

// WithLogVisible sets the initial visibility of the log view.
func WithLogVisible(visible bool) TelemetryLoggerOption {
	return func(t *TelemetryLogger) {
		t.visible = visible
	}
}

// NewTelemetryLogger creates a logger with the default interval and limit.
func NewTelemetryLogger(options ...TelemetryLoggerOption) *TelemetryLogger {
	t := &TelemetryLogger{
		updateInterval: domain.DefaultUpdateInterval,
		log:            domain.NewLogBuffer(domain.LogHeader, domain.DefaultLogLimit),
		unavailable:    make(map[string]bool),
		logger:         slog.Default(),
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// Initialize sets the sampling cadence and rollover threshold and resets the
// sampling state and the log. Invalid settings leave the logger untouched.
func (t *TelemetryLogger) Initialize(updateInterval time.Duration, logLimit int) error {
	if problems := domain.ValidateSettings(updateInterval, logLimit); len(problems) > 0 {
		return validation.NewValidationError(problems, "telemetry")
	}

	t.updateInterval = updateInterval
	t.sampling.Reset()
	t.log = domain.NewLogBuffer(domain.LogHeader, logLimit)
	t.lastSampled = false
	return nil
}

// OnFrameTick is called once per rendered frame. now is the host's elapsed
// time since start; it must not decrease between calls.
func (t *TelemetryLogger) OnFrameTick(now time.Duration, sensors domain.SensorSet) domain.DisplayValues {
	t.lastSampled = t.sampling.Advance(now, t.updateInterval)

	sample := domain.Sample{
		domain.NewMetric(domain.MetricFPS, t.sampling.FPS, domain.UnitFramesPerSecond),
		t.read(domain.MetricCPUTime, domain.UnitNanoseconds, sensors.CPUNanoseconds),
		t.read(domain.MetricGPUTime, domain.UnitNanoseconds, sensors.GPUNanoseconds),
		t.read(domain.MetricRenderTime, domain.UnitNanoseconds, sensors.RenderThreadNanoseconds),
		t.read(domain.MetricAllocatedMemory, domain.UnitBytes, sensors.AllocatedBytes),
	}

	if t.log.Append(sample.Line()) {
		t.rollovers++
	}

	return domain.DisplayValues{
		FPS:        t.sampling.FPS,
		FPSText:    sample[0].Text(),
		CPUText:    sample[1].Text(),
		GPUText:    sample[2].Text(),
		RenderText: sample[3].Text(),
		MemoryText: sample[4].Text(),
		Metrics:    sample,
	}
}

// read takes one sensor reading. An error or a panic in the sensor yields the
// unavailable sentinel. An unavailable reading is logged once until the sensor
// recovers; other failures are logged every time.
func (t *TelemetryLogger) read(name string, unit domain.Unit, sensor func() (int64, error)) (m domain.Metric) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Debug("Sensor panicked", "metric", name, "panic", r)
			m = domain.UnavailableMetric(name, unit)
		}
	}()

	v, err := sensor()
	switch {
	case errors.Is(err, domain.ErrSensorUnavailable):
		if !t.unavailable[name] {
			t.unavailable[name] = true
			t.logger.Debug("Sensor unavailable", "metric", name)
		}
		return domain.UnavailableMetric(name, unit)
	case err != nil:
		t.logger.Debug("Sensor read failed", "metric", name, "err", err)
		return domain.UnavailableMetric(name, unit)
	}
	delete(t.unavailable, name)
	return domain.NewMetric(name, float64(v), unit)
}

// ToggleVisibility flips the log view flag and returns the new state.
func (t *TelemetryLogger) ToggleVisibility() bool {
	t.visible = !t.visible
	return t.visible
}

func (t *TelemetryLogger) Visible() bool {
	return t.visible
}

// LogText returns the header and every line since the last rollover.
func (t *TelemetryLogger) LogText() string {
	return t.log.Text()
}

// LineCount returns the number of lines appended since the last rollover.
func (t *TelemetryLogger) LineCount() int {
	return t.log.Count()
}

func (t *TelemetryLogger) LogLimit() int {
	return t.log.Limit()
}

func (t *TelemetryLogger) UpdateInterval() time.Duration {
	return t.updateInterval
}

// FPS returns the most recently computed frame rate.
func (t *TelemetryLogger) FPS() float64 {
	return t.sampling.FPS
}

// Sampled reports whether the last tick recomputed FPS.
func (t *TelemetryLogger) Sampled() bool {
	return t.lastSampled
}

// Rollovers counts how many times the log has rolled over since construction.
func (t *TelemetryLogger) Rollovers() int {
	return t.rollovers
}
