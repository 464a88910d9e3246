package domain

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"framestat/pkg/utils"
)

const (
	DefaultUpdateInterval = 500 * time.Millisecond
	DefaultLogLimit       = 300
	DefaultTargetFPS      = 60.0
)

// maxIntervalSeconds is the first value in seconds a time.Duration cannot hold.
const maxIntervalSeconds = float64(math.MaxInt64) / float64(time.Second)

// checkIntervalSeconds reports why an interval given in seconds cannot be
// used, or "" when it can.
func checkIntervalSeconds(secs float64) string {
	switch {
	case math.IsNaN(secs) || math.IsInf(secs, 0):
		return "update interval must be a finite number"
	case secs <= 0:
		return "update interval must be positive"
	case secs*float64(time.Second) >= float64(math.MaxInt64):
		return fmt.Sprintf("update interval must be below %.0f seconds", maxIntervalSeconds)
	case secs*float64(time.Second) < 1:
		return "update interval must be at least 1ns"
	}
	return ""
}

// ValidateSettings checks the two knobs of a TelemetryLogger.
func ValidateSettings(updateInterval time.Duration, logLimit int) map[string]string {
	problems := make(map[string]string, 2)
	if updateInterval <= 0 {
		problems["update_interval"] = "update interval must be positive"
	}
	if logLimit < 1 {
		problems["log_limit"] = "log limit must be at least 1"
	}
	return problems
}

// WorkloadConfig sizes the synthetic frame work driven for a logger.
type WorkloadConfig struct {
	UpdateIterations int `json:"update_iterations"`
	RenderBytes      int `json:"render_bytes"`
}

// LoggerConfig is one entry of an instance's "loggers" list.
type LoggerConfig struct {
	Name           string         `json:"name"`
	UpdateInterval *float64       `json:"update_interval,omitempty"`
	LogLimit       *int           `json:"log_limit,omitempty"`
	TargetFPS      float64        `json:"target_fps,omitempty"`
	LogVisible     bool           `json:"log_visible"`
	Workload       WorkloadConfig `json:"workload"`
	Sinks          []string       `json:"sinks"`
}

// Interval returns the configured update interval or the default.
func (c *LoggerConfig) Interval() time.Duration {
	if c.UpdateInterval == nil {
		return DefaultUpdateInterval
	}
	secs := *c.UpdateInterval
	if checkIntervalSeconds(secs) != "" {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

// Limit returns the configured log limit or the default.
func (c *LoggerConfig) Limit() int {
	if c.LogLimit == nil {
		return DefaultLogLimit
	}
	return *c.LogLimit
}

// FPS returns the target frame rate or the default.
func (c *LoggerConfig) FPS() float64 {
	if c.TargetFPS <= 0 {
		return DefaultTargetFPS
	}
	return c.TargetFPS
}

func (c *LoggerConfig) Valid(ctx context.Context) map[string]string {
	problems := ValidateSettings(DefaultUpdateInterval, c.Limit())
	if c.UpdateInterval != nil {
		if msg := checkIntervalSeconds(*c.UpdateInterval); msg != "" {
			problems["update_interval"] = msg
		}
	}

	if err := utils.CheckName(c.Name); err != nil {
		problems["name"] = err.Error()
	}
	if c.TargetFPS < 0 {
		problems["target_fps"] = "target fps cannot be negative"
	}
	if c.Workload.UpdateIterations < 0 || c.Workload.RenderBytes < 0 {
		problems["workload"] = "workload sizes cannot be negative"
	}
	for _, sink := range c.Sinks {
		if !slices.Contains(KnownSinks, sink) {
			problems["sinks"] = fmt.Sprintf("unknown sink %q", sink)
			break
		}
	}

	return problems
}
