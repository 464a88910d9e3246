package application

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"framestat/internal/frame"
	"framestat/internal/infrastructure/logger"
	"framestat/internal/telemetry/domain"
	"framestat/pkg/utils"
)

// Snapshot is a point-in-time view of a running logger.
type Snapshot struct {
	Name           string
	ID             utils.EntityID
	Session        uuid.UUID
	StartedAt      time.Time
	Values         domain.DisplayValues
	Visible        bool
	LineCount      int
	LogLimit       int
	UpdateInterval time.Duration
	Rollovers      int
}

// Instance binds a TelemetryLogger to its frame loop, sensors and sinks.
// The frame loop and API readers are serialised by mu.
type Instance struct {
	ID      utils.EntityID
	Config  domain.LoggerConfig
	Raw     json.RawMessage
	Session uuid.UUID

	log     *logger.Logger
	driver  *frame.Driver
	sensors domain.SensorSet
	sinks   []domain.DisplaySink

	mu        sync.Mutex
	telemetry *TelemetryLogger
	values    domain.DisplayValues
	startedAt time.Time

	ctx     context.Context
	cancel  context.CancelFunc
	running bool
	done    chan struct{}
}

func (i *Instance) Name() string {
	return i.Config.Name
}

// onFrame is the driver's frame callback.
func (i *Instance) onFrame(elapsed time.Duration, _ frame.Timings) {
	panel := i.tick(elapsed)

	ctx := i.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	for _, sink := range i.sinks {
		if err := sink.Render(ctx, panel); err != nil {
			i.log.Warn("Display sink failed", "logger", i.Config.Name, "err", err)
		}
	}
}

// tick advances the telemetry under mu and returns the panel for the sinks.
func (i *Instance) tick(elapsed time.Duration) domain.Panel {
	i.mu.Lock()
	defer i.mu.Unlock()

	values := i.telemetry.OnFrameTick(elapsed, i.sensors)
	i.values = values
	return domain.Panel{
		Logger:     i.Config.Name,
		Values:     values,
		LogText:    i.telemetry.LogText(),
		LogVisible: i.telemetry.Visible(),
		LineCount:  i.telemetry.LineCount(),
		Sampled:    i.telemetry.Sampled(),
	}
}

func (i *Instance) snapshot() Snapshot {
	i.mu.Lock()
	defer i.mu.Unlock()
	return Snapshot{
		Name:           i.Config.Name,
		ID:             i.ID,
		Session:        i.Session,
		StartedAt:      i.startedAt,
		Values:         i.values,
		Visible:        i.telemetry.Visible(),
		LineCount:      i.telemetry.LineCount(),
		LogLimit:       i.telemetry.LogLimit(),
		UpdateInterval: i.telemetry.UpdateInterval(),
		Rollovers:      i.telemetry.Rollovers(),
	}
}

func (i *Instance) logText() (string, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.telemetry.LogText(), i.telemetry.Visible()
}

func (i *Instance) toggleVisibility() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.telemetry.ToggleVisibility()
}

func (i *Instance) reset() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.values = domain.DisplayValues{}
	return i.telemetry.Initialize(i.Config.Interval(), i.Config.Limit())
}
