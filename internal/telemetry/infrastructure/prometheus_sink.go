package infrastructure

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"framestat/internal/telemetry/domain"
)

// PrometheusMetrics holds the gauges every logger's PrometheusSink writes to.
type PrometheusMetrics struct {
	gauges   map[string]*prometheus.GaugeVec
	logLines *prometheus.GaugeVec
}

var gaugeHelp = map[string]struct{ name, help string }{
	domain.MetricFPS:             {"framestat_fps", "Frames per second over the last update interval."},
	domain.MetricCPUTime:         {"framestat_cpu_nanoseconds", "Duration of the last update stage."},
	domain.MetricGPUTime:         {"framestat_gpu_nanoseconds", "GPU time of the last frame."},
	domain.MetricRenderTime:      {"framestat_render_nanoseconds", "Duration of the last render stage."},
	domain.MetricAllocatedMemory: {"framestat_allocated_bytes", "Live heap bytes at the last frame."},
}

// NewPrometheusMetrics creates the gauge vectors and registers them on reg.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		gauges: make(map[string]*prometheus.GaugeVec, len(gaugeHelp)),
		logLines: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "framestat_log_lines",
			Help: "Lines in the rolling log since its last rollover.",
		}, []string{"logger"}),
	}
	collectors := []prometheus.Collector{m.logLines}
	for metric, g := range gaugeHelp {
		vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: g.name, Help: g.help}, []string{"logger"})
		m.gauges[metric] = vec
		collectors = append(collectors, vec)
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Sink returns a DisplaySink that reports under the given logger label.
func (m *PrometheusMetrics) Sink(logger string) *PrometheusSink {
	return &PrometheusSink{metrics: m, logger: logger}
}

// Forget removes every series of a logger that is no longer running.
func (m *PrometheusMetrics) Forget(logger string) {
	for _, vec := range m.gauges {
		vec.DeleteLabelValues(logger)
	}
	m.logLines.DeleteLabelValues(logger)
}

// PrometheusSink sets one gauge per available metric. An unavailable metric
// leaves its gauge untouched.
type PrometheusSink struct {
	metrics *PrometheusMetrics
	logger  string
}

func (s *PrometheusSink) Render(ctx context.Context, panel domain.Panel) error {
	for _, metric := range panel.Values.Metrics {
		vec, ok := s.metrics.gauges[metric.Name]
		if !ok || !metric.Available() {
			continue
		}
		vec.WithLabelValues(s.logger).Set(metric.Value)
	}
	s.metrics.logLines.WithLabelValues(s.logger).Set(float64(panel.LineCount))
	return nil
}
