package frame

import "time"

// DriverOption is a functional option for configuring a Driver.
type DriverOption func(*Driver)

// WithTargetFPS sets the frame rate. Values <= 0 fall back to 60.
func WithTargetFPS(fps float64) DriverOption {
	return func(d *Driver) {
		if fps <= 0 {
			fps = 60
		}
		d.frameDuration = time.Duration(float64(time.Second) / fps)
	}
}

// WithUpdate sets the update stage (game logic in a real host).
func WithUpdate(stage Stage) DriverOption {
	return func(d *Driver) {
		d.update = stage
	}
}

// WithRender sets the render stage.
func WithRender(stage Stage) DriverOption {
	return func(d *Driver) {
		d.render = stage
	}
}

// WithFrameCallback sets the function called after every frame.
func WithFrameCallback(cb Callback) DriverOption {
	return func(d *Driver) {
		d.onFrame = cb
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(clock func() time.Time) DriverOption {
	return func(d *Driver) {
		d.clock = clock
	}
}
