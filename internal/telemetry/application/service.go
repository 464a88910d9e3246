package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"framestat/internal/infrastructure/logger"
	entitydomain "framestat/internal/shared/entity/domain"
	"framestat/internal/shared/validation"
	"framestat/internal/telemetry/domain"
)

// Service runs one frame loop per configured telemetry logger.
type Service struct {
	logger     *logger.Logger
	entityRepo entitydomain.Repository
	sinks      SinkBuilder
	sensors    SensorFactory
	autoStart  bool

	mu        sync.RWMutex
	instance  string
	instances map[string]*Instance

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithAutoStart controls whether loaded loggers get a running frame loop.
// Without it frames are only produced by explicit Step calls.
func WithAutoStart(enabled bool) ServiceOption {
	return func(s *Service) {
		s.autoStart = enabled
	}
}

// NewService creates a telemetry service
func NewService(logger *logger.Logger, entityRepo entitydomain.Repository, sinks SinkBuilder, sensors SensorFactory, options ...ServiceOption) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		logger:     logger,
		entityRepo: entityRepo,
		sinks:      sinks,
		sensors:    sensors,
		autoStart:  true,
		instances:  make(map[string]*Instance),
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Load replaces the running loggers with the given configurations. Loggers
// whose configuration did not change keep running with their log intact.
// Every replacement is built and registered before anything is stopped, so a
// failed Load leaves the running set as it was.
func (s *Service) Load(ctx context.Context, instanceName string, rawConfigs []json.RawMessage) error {
	configs, err := s.parseAll(ctx, rawConfigs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switching := s.instance != instanceName

	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)

	pending := make(map[string]*Instance, len(names))
	for _, name := range names {
		c := configs[name]
		if inst, ok := s.instances[name]; ok && !switching && sameConfig(inst.Raw, c.raw) {
			continue
		}
		inst, err := BuildInstance(instanceName, c.cfg, c.raw, s.logger, s.sinks, s.sensors)
		if err != nil {
			return err
		}
		if err := s.ensureEntity(ctx, inst); err != nil {
			return fmt.Errorf("failed to register logger %s: %w", name, err)
		}
		pending[name] = inst
	}

	for name := range s.instances {
		_, wanted := configs[name]
		_, replaced := pending[name]
		if switching || !wanted || replaced {
			s.removeUnsynced(ctx, name)
		}
	}
	s.instance = instanceName

	for _, name := range names {
		if inst, ok := pending[name]; ok {
			s.instances[name] = inst
			s.startUnsynced(inst)
		}
	}

	return nil
}

type parsedConfig struct {
	cfg domain.LoggerConfig
	raw json.RawMessage
}

func (s *Service) parseAll(ctx context.Context, rawConfigs []json.RawMessage) (map[string]parsedConfig, error) {
	result := make(map[string]parsedConfig, len(rawConfigs))
	for i, raw := range rawConfigs {
		cfg, err := ParseLoggerConfig(ctx, raw)
		var nnerr *validation.NoNameError
		if errors.As(err, &nnerr) {
			nnerr.Path = "loggers"
			nnerr.SetIndex(i)
			return nil, nnerr
		} else if err != nil {
			return nil, err
		}

		if _, exists := result[cfg.Name]; exists {
			return nil, validation.NewDuplicateFoundError("loggers", fmt.Sprint(i))
		}
		result[cfg.Name] = parsedConfig{cfg: cfg, raw: raw}
	}
	return result, nil
}

func (s *Service) ensureEntity(ctx context.Context, inst *Instance) error {
	canon := inst.ID.Canonical()
	_, err := s.entityRepo.GetID(ctx, canon)
	if errors.Is(err, entitydomain.ErrIDNotFound) {
		_, err = s.entityRepo.InsertEntity(ctx, canon)
	}
	return err
}

func (s *Service) startUnsynced(inst *Instance) {
	inst.ctx, inst.cancel = context.WithCancel(s.ctx)
	inst.done = make(chan struct{})
	inst.startedAt = time.Now()

	if !s.autoStart {
		close(inst.done)
		return
	}

	inst.running = true
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(inst.done)
		s.logger.Info("Telemetry logger started", "logger", inst.Name(), "session", inst.Session)
		if err := inst.driver.Run(inst.ctx); err != nil {
			s.logger.Error("Frame loop stopped", "logger", inst.Name(), "err", err)
		}
	}()
}

// removeUnsynced stops the instance's frame loop, waits for it to exit
// (bounded by ctx) and drops it.
func (s *Service) removeUnsynced(ctx context.Context, name string) {
	inst, ok := s.instances[name]
	if !ok {
		return
	}
	inst.cancel()
	select {
	case <-inst.done:
	case <-ctx.Done():
		s.logger.Warn("Timed out waiting for frame loop", "logger", name)
	}
	inst.running = false
	s.sinks.Release(name)
	delete(s.instances, name)
	s.logger.Info("Telemetry logger stopped", "logger", name, "session", inst.Session)
}

// Stop stops every frame loop
func (s *Service) Stop(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (s *Service) get(name string) (*Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instances[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrLoggerNotFound, name)
	}
	return inst, nil
}

// List returns a snapshot of every logger, sorted by name.
func (s *Service) List() []Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Snapshot, 0, len(s.instances))
	for _, inst := range s.instances {
		result = append(result, inst.snapshot())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func (s *Service) Get(name string) (Snapshot, error) {
	inst, err := s.get(name)
	if err != nil {
		return Snapshot{}, err
	}
	return inst.snapshot(), nil
}

// Log returns a logger's log text and whether its log view is visible.
func (s *Service) Log(name string) (string, bool, error) {
	inst, err := s.get(name)
	if err != nil {
		return "", false, err
	}
	text, visible := inst.logText()
	return text, visible, nil
}

func (s *Service) ToggleVisibility(name string) (bool, error) {
	inst, err := s.get(name)
	if err != nil {
		return false, err
	}
	visible := inst.toggleVisibility()
	s.logger.Debug("Log visibility toggled", "logger", name, "visible", visible)
	return visible, nil
}

// Reset re-initializes a logger with its configured interval and limit.
func (s *Service) Reset(name string) error {
	inst, err := s.get(name)
	if err != nil {
		return err
	}
	return inst.reset()
}

// Step runs one frame of the named logger's loop at now. Used when the
// service was created without auto start.
func (s *Service) Step(name string, now time.Time) error {
	s.mu.RLock()
	inst, ok := s.instances[name]
	running := ok && inst.running
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrLoggerNotFound, name)
	}
	if running {
		return fmt.Errorf("logger %s has a running frame loop", name)
	}
	inst.driver.Step(now)
	return nil
}

func sameConfig(a, b json.RawMessage) bool {
	var ca, cb bytes.Buffer
	if json.Compact(&ca, a) != nil || json.Compact(&cb, b) != nil {
		return false
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}
