package frame

import (
	"math"
	"time"
)

// SyntheticWorkload gives a headless frame loop something to measure: a
// numeric loop in the update stage and a buffer fill in the render stage.
type SyntheticWorkload struct {
	UpdateIterations int
	RenderBytes      int

	acc   float64
	frame []byte
}

func NewSyntheticWorkload(updateIterations, renderBytes int) *SyntheticWorkload {
	return &SyntheticWorkload{
		UpdateIterations: updateIterations,
		RenderBytes:      renderBytes,
	}
}

func (w *SyntheticWorkload) Update(dt time.Duration) {
	x := dt.Seconds()
	for i := 0; i < w.UpdateIterations; i++ {
		x = math.Sin(x + float64(i))
	}
	w.acc += x
}

// Render allocates a fresh frame buffer each call so that allocation shows
// up in memory readings.
func (w *SyntheticWorkload) Render(dt time.Duration) {
	if w.RenderBytes <= 0 {
		w.frame = nil
		return
	}
	buf := make([]byte, w.RenderBytes)
	for i := range buf {
		buf[i] = byte(i)
	}
	w.frame = buf
}

// FrameSize is the size of the last rendered buffer.
func (w *SyntheticWorkload) FrameSize() int {
	return len(w.frame)
}
