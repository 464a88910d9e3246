package frame

import (
	"context"
	"fmt"
	"time"
)

// Stage is one phase of a frame. dt is the time since the previous frame.
type Stage func(dt time.Duration)

// Timings holds how long each stage of the most recent frame took.
type Timings struct {
	Frame  uint64
	Update time.Duration
	Render time.Duration
}

// Callback receives the elapsed time since the driver's first frame and the
// stage timings of the frame that just finished.
type Callback func(elapsed time.Duration, timings Timings)

// Driver runs a fixed-rate frame loop: update stage, render stage, then the
// frame callback. It plays the part a game engine's per-frame hook plays for
// an in-engine profiler. All stages and the callback run on the goroutine
// that calls Run or Step.
type Driver struct {
	frameDuration time.Duration
	update        Stage
	render        Stage
	onFrame       Callback
	clock         func() time.Time

	start     time.Time
	lastFrame time.Time
	timings   Timings
	frames    uint64
}

// NewDriver creates a Driver at 60 frames per second with empty stages.
func NewDriver(options ...DriverOption) *Driver {
	d := &Driver{
		frameDuration: time.Second / 60,
		clock:         time.Now,
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// Run steps the driver on every tick until ctx is done. A panic inside a
// stage or the callback stops the loop and is returned as an error.
func (d *Driver) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("frame loop panicked: %v", r)
		}
	}()

	ticker := time.NewTicker(d.frameDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.Step(d.clock())
		}
	}
}

// Step runs one frame as if it started at now.
func (d *Driver) Step(now time.Time) {
	if d.start.IsZero() {
		d.start = now
		d.lastFrame = now
	}
	dt := now.Sub(d.lastFrame)
	d.lastFrame = now

	t0 := d.clock()
	if d.update != nil {
		d.update(dt)
	}
	t1 := d.clock()
	if d.render != nil {
		d.render(dt)
	}
	t2 := d.clock()

	d.frames++
	d.timings = Timings{
		Frame:  d.frames,
		Update: t1.Sub(t0),
		Render: t2.Sub(t1),
	}

	if d.onFrame != nil {
		d.onFrame(now.Sub(d.start), d.timings)
	}
}

// LastTimings returns the stage timings of the most recent frame. The zero
// value means no frame has run yet.
func (d *Driver) LastTimings() Timings {
	return d.timings
}

// FrameDuration is the target time between frames.
func (d *Driver) FrameDuration() time.Duration {
	return d.frameDuration
}
