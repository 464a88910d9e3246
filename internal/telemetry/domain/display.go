package domain

import "context"

// DisplayValues is what one frame tick hands to the display.
type DisplayValues struct {
	FPS        float64 `json:"fps"`
	FPSText    string  `json:"fps_text"`
	CPUText    string  `json:"cpu_text"`
	GPUText    string  `json:"gpu_text"`
	RenderText string  `json:"render_text"`
	MemoryText string  `json:"memory_text"`
	Metrics    Sample  `json:"-"`
}

// Panel is everything a sink needs to draw one frame.
type Panel struct {
	Logger     string
	Values     DisplayValues
	LogText    string
	LogVisible bool
	LineCount  int
	// Sampled is true on the ticks where FPS was recomputed.
	Sampled bool
}

// DisplaySink renders panels. Implementations must not retain the panel.
type DisplaySink interface {
	Render(ctx context.Context, panel Panel) error
}

// Sink names accepted in logger configuration.
const (
	SinkConsole    = "console"
	SinkSlog       = "slog"
	SinkPrometheus = "prometheus"
)

// KnownSinks lists every sink a logger configuration may reference.
var KnownSinks = []string{SinkConsole, SinkSlog, SinkPrometheus}
