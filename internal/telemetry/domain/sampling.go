package domain

import "time"

// SamplingState tracks frames since the last FPS computation.
type SamplingState struct {
	Frames     int
	LastSample time.Duration
	FPS        float64
}

// Advance counts one frame at now. FPS is recomputed only once now is past
// LastSample+interval; otherwise the previous value is kept.
func (s *SamplingState) Advance(now, interval time.Duration) bool {
	s.Frames++
	if now <= s.LastSample+interval {
		return false
	}
	s.FPS = float64(s.Frames) / (now - s.LastSample).Seconds()
	s.Frames = 0
	s.LastSample = now
	return true
}

func (s *SamplingState) Reset() {
	*s = SamplingState{}
}
