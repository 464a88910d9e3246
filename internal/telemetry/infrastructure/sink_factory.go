package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"framestat/internal/telemetry/domain"
)

// SinkFactory builds the sinks a logger configuration names.
type SinkFactory struct {
	Console    io.Writer
	Logger     *slog.Logger
	Prometheus *PrometheusMetrics
}

// Build returns one sink per name, in order.
func (f *SinkFactory) Build(logger string, interval time.Duration, names []string) ([]domain.DisplaySink, error) {
	sinks := make([]domain.DisplaySink, 0, len(names))
	for _, name := range names {
		switch name {
		case domain.SinkConsole:
			if f.Console == nil {
				return nil, fmt.Errorf("sink %q: no console writer configured", name)
			}
			sinks = append(sinks, NewConsoleSink(f.Console))
		case domain.SinkSlog:
			l := f.Logger
			if l == nil {
				l = slog.Default()
			}
			sinks = append(sinks, NewSlogSink(l, interval))
		case domain.SinkPrometheus:
			if f.Prometheus == nil {
				return nil, fmt.Errorf("sink %q: no prometheus registry configured", name)
			}
			sinks = append(sinks, f.Prometheus.Sink(logger))
		default:
			return nil, fmt.Errorf("unknown sink %q", name)
		}
	}
	return sinks, nil
}

// Release drops the Prometheus series of a stopped logger.
func (f *SinkFactory) Release(logger string) {
	if f.Prometheus != nil {
		f.Prometheus.Forget(logger)
	}
}
