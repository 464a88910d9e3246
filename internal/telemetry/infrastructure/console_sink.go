package infrastructure

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"

	"framestat/internal/telemetry/domain"
)

// ConsoleSink writes a text panel to w each time FPS is recomputed. The log
// is included only while it is visible.
type ConsoleSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (s *ConsoleSink) Render(ctx context.Context, panel domain.Panel) error {
	if !panel.Sampled {
		return nil
	}

	var b strings.Builder
	v := panel.Values
	fmt.Fprintf(&b, "[%s] FPS %s | CPU %s | GPU %s | Render %s | Memory %s",
		panel.Logger, v.FPSText, v.CPUText, v.GPUText, v.RenderText, v.MemoryText)
	if mem, ok := v.Metrics.Get(domain.MetricAllocatedMemory); ok && mem.Available() {
		fmt.Fprintf(&b, " (%s)", humanize.IBytes(uint64(mem.Value)))
	}
	b.WriteString("\n")
	if panel.LogVisible {
		b.WriteString(panel.LogText)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, b.String())
	return err
}
