package domain

import "errors"

// ErrSensorUnavailable is returned by a sensor that cannot produce a reading
// on this platform or at this moment.
var ErrSensorUnavailable = errors.New("sensor reading unavailable")

// SensorSet supplies instantaneous performance readings. Each reading is
// independent; a failure of one must not affect the others.
type SensorSet interface {
	CPUNanoseconds() (int64, error)
	GPUNanoseconds() (int64, error)
	RenderThreadNanoseconds() (int64, error)
	AllocatedBytes() (int64, error)
}
