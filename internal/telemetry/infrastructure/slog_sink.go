package infrastructure

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"framestat/internal/telemetry/domain"
)

// SlogSink logs display values at debug level, at most once per interval.
type SlogSink struct {
	logger  *slog.Logger
	limiter *rate.Limiter
}

func NewSlogSink(logger *slog.Logger, interval time.Duration) *SlogSink {
	return &SlogSink{
		logger:  logger,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (s *SlogSink) Render(ctx context.Context, panel domain.Panel) error {
	if !s.limiter.Allow() {
		return nil
	}
	v := panel.Values
	s.logger.DebugContext(ctx, "Frame stats",
		"logger", panel.Logger,
		"fps", v.FPSText,
		"cpu", v.CPUText,
		"gpu", v.GPUText,
		"render", v.RenderText,
		"memory", v.MemoryText,
		"log_lines", panel.LineCount,
	)
	return nil
}
