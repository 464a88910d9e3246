package application

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"framestat/internal/frame"
	"framestat/internal/infrastructure/logger"
	entitydomain "framestat/internal/shared/entity/domain"
	"framestat/internal/shared/validation"
	"framestat/internal/telemetry/domain"
)

// memoryEntityRepo is an in-memory entitydomain.Repository.
type memoryEntityRepo struct {
	mu        sync.Mutex
	ids       map[string]int64
	insertErr error
}

func newMemoryEntityRepo() *memoryEntityRepo {
	return &memoryEntityRepo{ids: make(map[string]int64)}
}

func (r *memoryEntityRepo) GetID(ctx context.Context, canonID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.ids[canonID]
	if !ok {
		return 0, entitydomain.ErrIDNotFound
	}
	return id, nil
}

func (r *memoryEntityRepo) InsertEntity(ctx context.Context, canonID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	id := int64(len(r.ids) + 1)
	r.ids[canonID] = id
	return id, nil
}

func (r *memoryEntityRepo) GetCanonicalID(ctx context.Context, id int64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for canon, v := range r.ids {
		if v == id {
			return canon, nil
		}
	}
	return "", entitydomain.ErrIDNotFound
}

func (r *memoryEntityRepo) ListEntities(ctx context.Context) ([]entitydomain.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entitydomain.Entity
	for canon, id := range r.ids {
		out = append(out, entitydomain.Entity{ID: id, CanonicalID: canon})
	}
	return out, nil
}

func (r *memoryEntityRepo) GetEntity(ctx context.Context, canonID string) (*entitydomain.Entity, error) {
	id, err := r.GetID(ctx, canonID)
	if err != nil {
		return nil, err
	}
	return &entitydomain.Entity{ID: id, CanonicalID: canonID}, nil
}

// recordingSink keeps every panel it is asked to render.
type recordingSink struct {
	mu     sync.Mutex
	panels []domain.Panel
	err    error
}

func (s *recordingSink) Render(ctx context.Context, panel domain.Panel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panels = append(s.panels, panel)
	return s.err
}

// fakeSinkBuilder hands out one recordingSink per logger.
type fakeSinkBuilder struct {
	mu       sync.Mutex
	sinks    map[string]*recordingSink
	released []string
	failErr  error
}

func newFakeSinkBuilder() *fakeSinkBuilder {
	return &fakeSinkBuilder{sinks: make(map[string]*recordingSink)}
}

func (b *fakeSinkBuilder) Build(logger string, interval time.Duration, names []string) ([]domain.DisplaySink, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failErr != nil {
		return nil, b.failErr
	}
	s := &recordingSink{}
	b.sinks[logger] = s
	return []domain.DisplaySink{s}, nil
}

func (b *fakeSinkBuilder) Release(logger string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.released = append(b.released, logger)
}

func fixedSensors(*frame.Driver) domain.SensorSet {
	return &fakeSensors{cpu: 1000, gpuErr: domain.ErrSensorUnavailable, render: 2000, alloc: 4 * 1024 * 1024}
}

func newTestService(t *testing.T) (*Service, *memoryEntityRepo, *fakeSinkBuilder) {
	t.Helper()
	repo := newMemoryEntityRepo()
	sinks := newFakeSinkBuilder()
	svc := NewService(logger.NewDiscardLogger(), repo, sinks, fixedSensors, WithAutoStart(false))
	t.Cleanup(func() { svc.Stop(context.Background()) })
	return svc, repo, sinks
}

func rawConfigs(configs ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(configs))
	for i, c := range configs {
		out[i] = json.RawMessage(c)
	}
	return out
}

func TestService_LoadRegistersEntities(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	err := svc.Load(ctx, "rig", rawConfigs(
		`{"name": "main", "update_interval": 0.5, "log_limit": 10}`,
		`{"name": "overlay"}`,
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, canon := range []string{"instance=rig|kind=logger|name=main", "instance=rig|kind=logger|name=overlay"} {
		if _, err := repo.GetID(ctx, canon); err != nil {
			t.Errorf("expected entity %s to be registered: %v", canon, err)
		}
	}

	list := svc.List()
	if len(list) != 2 || list[0].Name != "main" || list[1].Name != "overlay" {
		t.Fatalf("unexpected logger list %+v", list)
	}
	if list[0].LogLimit != 10 || list[1].LogLimit != domain.DefaultLogLimit {
		t.Errorf("unexpected log limits %d/%d", list[0].LogLimit, list[1].LogLimit)
	}
	if list[1].UpdateInterval != domain.DefaultUpdateInterval {
		t.Errorf("expected default interval, got %v", list[1].UpdateInterval)
	}
}

func TestService_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		configs []json.RawMessage
		check   func(t *testing.T, err error)
	}{
		{
			name:    "missing name",
			configs: rawConfigs(`{"name": "main"}`, `{"log_limit": 5}`),
			check: func(t *testing.T, err error) {
				var nnerr *validation.NoNameError
				if !errors.As(err, &nnerr) || nnerr.Index != 1 {
					t.Errorf("expected NoNameError at index 1, got %v", err)
				}
			},
		},
		{
			name:    "duplicate name",
			configs: rawConfigs(`{"name": "main"}`, `{"name": "main"}`),
			check: func(t *testing.T, err error) {
				var dup *validation.DuplicateFoundError
				if !errors.As(err, &dup) {
					t.Errorf("expected DuplicateFoundError, got %v", err)
				}
			},
		},
		{
			name:    "non-positive interval",
			configs: rawConfigs(`{"name": "main", "update_interval": 0}`),
			check: func(t *testing.T, err error) {
				var valErr *validation.ValidationError
				if !errors.As(err, &valErr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if _, ok := valErr.Problems["update_interval"]; !ok {
					t.Errorf("expected update_interval problem, got %v", valErr.Problems)
				}
			},
		},
		{
			name:    "invalid json",
			configs: rawConfigs(`{"name": `),
			check: func(t *testing.T, err error) {
				if err == nil {
					t.Errorf("expected parse error")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t)
			err := svc.Load(context.Background(), "rig", tt.configs)
			tt.check(t, err)
			if len(svc.List()) != 0 {
				t.Errorf("a rejected config must not start loggers")
			}
		})
	}
}

func TestService_StepDrivesTelemetry(t *testing.T) {
	svc, _, sinks := newTestService(t)
	if err := svc.Load(context.Background(), "rig", rawConfigs(`{"name": "main", "update_interval": 0.1, "log_limit": 3, "log_visible": true}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	start := time.Unix(100, 0)
	for i := 0; i < 7; i++ {
		if err := svc.Step("main", start.Add(time.Duration(i)*50*time.Millisecond)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	snap, err := svc.Get("main")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 7 frames with limit 3 roll over once on the fifth append.
	if snap.LineCount != 3 || snap.Rollovers != 1 {
		t.Errorf("expected 3 lines after one rollover, got %d/%d", snap.LineCount, snap.Rollovers)
	}
	if snap.Values.GPUText != domain.UnavailableText || snap.Values.CPUText != "1000 ns" {
		t.Errorf("unexpected display values %+v", snap.Values)
	}
	if math.Abs(snap.Values.FPS-20) > 1e-9 {
		t.Errorf("expected 20 fps, got %v", snap.Values.FPS)
	}

	sink := sinks.sinks["main"]
	if len(sink.panels) != 7 {
		t.Fatalf("expected 7 rendered panels, got %d", len(sink.panels))
	}
	last := sink.panels[6]
	if !last.LogVisible || !strings.HasPrefix(last.LogText, domain.LogHeader) {
		t.Errorf("unexpected last panel %+v", last)
	}
	if last.Logger != "main" || last.LineCount != 3 {
		t.Errorf("unexpected panel metadata %+v", last)
	}
}

func TestService_SinkErrorDoesNotStopFrames(t *testing.T) {
	svc, _, sinks := newTestService(t)
	if err := svc.Load(context.Background(), "rig", rawConfigs(`{"name": "main"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sinks.sinks["main"].err = errors.New("display gone")

	now := time.Unix(0, 0)
	for i := 0; i < 3; i++ {
		if err := svc.Step("main", now.Add(time.Duration(i)*time.Millisecond)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	snap, _ := svc.Get("main")
	if snap.LineCount != 3 {
		t.Errorf("expected 3 lines despite sink errors, got %d", snap.LineCount)
	}
}

func TestService_VisibilityLogAndReset(t *testing.T) {
	svc, _, _ := newTestService(t)
	if err := svc.Load(context.Background(), "rig", rawConfigs(`{"name": "main"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.Step("main", time.Unix(0, 0))

	text, visible, err := svc.Log("main")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if visible {
		t.Errorf("log should start hidden")
	}
	if !strings.HasPrefix(text, domain.LogHeader+domain.LineTerminator) {
		t.Errorf("unexpected log text %q", text)
	}

	if v, _ := svc.ToggleVisibility("main"); !v {
		t.Errorf("expected visible after first toggle")
	}
	if v, _ := svc.ToggleVisibility("main"); v {
		t.Errorf("expected hidden after second toggle")
	}

	if err := svc.Reset("main"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap, _ := svc.Get("main")
	if snap.LineCount != 0 {
		t.Errorf("expected empty log after reset, got %d lines", snap.LineCount)
	}
}

func TestService_UnknownLogger(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Get("nope"); !errors.Is(err, domain.ErrLoggerNotFound) {
		t.Errorf("Get: expected ErrLoggerNotFound, got %v", err)
	}
	if _, _, err := svc.Log("nope"); !errors.Is(err, domain.ErrLoggerNotFound) {
		t.Errorf("Log: expected ErrLoggerNotFound, got %v", err)
	}
	if _, err := svc.ToggleVisibility("nope"); !errors.Is(err, domain.ErrLoggerNotFound) {
		t.Errorf("ToggleVisibility: expected ErrLoggerNotFound, got %v", err)
	}
	if err := svc.Reset("nope"); !errors.Is(err, domain.ErrLoggerNotFound) {
		t.Errorf("Reset: expected ErrLoggerNotFound, got %v", err)
	}
	if err := svc.Step("nope", time.Now()); !errors.Is(err, domain.ErrLoggerNotFound) {
		t.Errorf("Step: expected ErrLoggerNotFound, got %v", err)
	}
}

func TestService_Reload(t *testing.T) {
	svc, _, sinks := newTestService(t)
	ctx := context.Background()

	if err := svc.Load(ctx, "rig", rawConfigs(`{"name": "main"}`, `{"name": "old"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before, _ := svc.Get("main")
	svc.Step("main", time.Unix(0, 0))

	// Same config for main (whitespace differs), old removed, new added.
	if err := svc.Load(ctx, "rig", rawConfigs(`{ "name":"main" }`, `{"name": "new"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after, err := svc.Get("main")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after.Session != before.Session || after.LineCount != 1 {
		t.Errorf("unchanged logger should keep running, got session change=%v lines=%d",
			after.Session != before.Session, after.LineCount)
	}
	if _, err := svc.Get("old"); !errors.Is(err, domain.ErrLoggerNotFound) {
		t.Errorf("expected old logger to be removed, got %v", err)
	}
	if _, err := svc.Get("new"); err != nil {
		t.Errorf("expected new logger, got %v", err)
	}
	if len(sinks.released) != 1 || sinks.released[0] != "old" {
		t.Errorf("expected sinks of old to be released, got %v", sinks.released)
	}

	// Changed config restarts the logger.
	if err := svc.Load(ctx, "rig", rawConfigs(`{"name": "main", "log_limit": 5}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	changed, _ := svc.Get("main")
	if changed.Session == before.Session || changed.LogLimit != 5 {
		t.Errorf("changed logger should restart with new settings, got %+v", changed)
	}
}

func TestService_SinkBuildFailure(t *testing.T) {
	svc, _, sinks := newTestService(t)
	sinks.failErr = errors.New("no console")

	err := svc.Load(context.Background(), "rig", rawConfigs(`{"name": "main", "sinks": ["console"]}`))
	var valErr *validation.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if valErr.Path != "main" {
		t.Errorf("expected path main, got %q", valErr.Path)
	}
}

func TestService_FailedReloadKeepsRunningLoggers(t *testing.T) {
	tests := []struct {
		name     string
		instance string
		configs  []string
		fail     func(repo *memoryEntityRepo, sinks *fakeSinkBuilder)
	}{
		{
			name:     "sink build fails for changed logger",
			instance: "rig",
			configs:  []string{`{"name": "main", "log_limit": 5}`},
			fail:     func(_ *memoryEntityRepo, sinks *fakeSinkBuilder) { sinks.failErr = errors.New("boom") },
		},
		{
			name:     "entity insert fails for added logger",
			instance: "rig",
			configs:  []string{`{"name": "main"}`, `{"name": "extra"}`},
			fail:     func(repo *memoryEntityRepo, _ *fakeSinkBuilder) { repo.insertErr = errors.New("disk full") },
		},
		{
			name:     "sink build fails while switching instance",
			instance: "other-rig",
			configs:  []string{`{"name": "main"}`},
			fail:     func(_ *memoryEntityRepo, sinks *fakeSinkBuilder) { sinks.failErr = errors.New("boom") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, sinks := newTestService(t)
			ctx := context.Background()

			if err := svc.Load(ctx, "rig", rawConfigs(`{"name": "main"}`)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			svc.Step("main", time.Unix(0, 0))
			before, _ := svc.Get("main")

			tt.fail(repo, sinks)
			if err := svc.Load(ctx, tt.instance, rawConfigs(tt.configs...)); err == nil {
				t.Fatalf("expected reload to fail")
			}

			after, err := svc.Get("main")
			if err != nil {
				t.Fatalf("expected main to survive the failed reload, got %v", err)
			}
			if after.Session != before.Session || after.LogLimit != domain.DefaultLogLimit || after.LineCount != 1 {
				t.Errorf("expected main unchanged, got %+v", after)
			}
			if got := svc.List(); len(got) != 1 {
				t.Errorf("expected only main to be running, got %d loggers", len(got))
			}
			if len(sinks.released) != 0 {
				t.Errorf("expected no sinks released, got %v", sinks.released)
			}
			if err := svc.Step("main", time.Unix(1, 0)); err != nil {
				t.Errorf("expected main to keep producing frames, got %v", err)
			}
		})
	}
}

func TestService_AutoStartRunsFrames(t *testing.T) {
	repo := newMemoryEntityRepo()
	sinks := newFakeSinkBuilder()
	svc := NewService(logger.NewDiscardLogger(), repo, sinks, fixedSensors)

	err := svc.Load(context.Background(), "rig", rawConfigs(`{"name": "main", "target_fps": 200, "update_interval": 0.01}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if snap, _ := svc.Get("main"); snap.LineCount >= 3 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if snap, _ := svc.Get("main"); snap.LineCount < 3 {
		t.Errorf("expected running frame loop to append lines, got %d", snap.LineCount)
	}
	if err := svc.Step("main", time.Now()); err == nil {
		t.Errorf("Step must be refused while the frame loop runs")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := svc.Stop(ctx); err != nil {
		t.Errorf("unexpected stop error: %v", err)
	}
}
