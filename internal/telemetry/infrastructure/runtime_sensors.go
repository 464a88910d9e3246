package infrastructure

import (
	"runtime/metrics"

	"framestat/internal/frame"
	"framestat/internal/telemetry/domain"
)

const heapObjectsMetric = "/memory/classes/heap/objects:bytes"

// TimingSource is anything that reports the stage timings of the last frame.
// *frame.Driver implements it.
type TimingSource interface {
	LastTimings() frame.Timings
}

// RuntimeSensors reads frame-stage timings from the frame loop and heap usage
// from the Go runtime. There is no GPU in this process, so GPU time is always
// unavailable.
type RuntimeSensors struct {
	timings TimingSource
	samples []metrics.Sample
}

// NewRuntimeSensors returns sensors for the given frame loop.
func NewRuntimeSensors(timings TimingSource) *RuntimeSensors {
	return &RuntimeSensors{
		timings: timings,
		samples: []metrics.Sample{{Name: heapObjectsMetric}},
	}
}

// CPUNanoseconds is the duration of the last update stage.
func (s *RuntimeSensors) CPUNanoseconds() (int64, error) {
	t := s.timings.LastTimings()
	if t.Frame == 0 {
		return 0, domain.ErrSensorUnavailable
	}
	return t.Update.Nanoseconds(), nil
}

func (s *RuntimeSensors) GPUNanoseconds() (int64, error) {
	return 0, domain.ErrSensorUnavailable
}

// RenderThreadNanoseconds is the duration of the last render stage.
func (s *RuntimeSensors) RenderThreadNanoseconds() (int64, error) {
	t := s.timings.LastTimings()
	if t.Frame == 0 {
		return 0, domain.ErrSensorUnavailable
	}
	return t.Render.Nanoseconds(), nil
}

// AllocatedBytes is the size of live heap objects.
func (s *RuntimeSensors) AllocatedBytes() (int64, error) {
	metrics.Read(s.samples)
	v := s.samples[0].Value
	if v.Kind() != metrics.KindUint64 {
		return 0, domain.ErrSensorUnavailable
	}
	return int64(v.Uint64()), nil
}
