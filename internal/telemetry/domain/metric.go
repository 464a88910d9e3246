package domain

import (
	"math"
	"strconv"
	"strings"
)

// Unit decides how a metric value is rendered for display.
type Unit string

const (
	UnitFramesPerSecond Unit = "fps"
	UnitNanoseconds     Unit = "ns"
	UnitBytes           Unit = "bytes"
)

// Metric names, in the order they appear on screen and in the log.
const (
	MetricFPS             = "fps"
	MetricCPUTime         = "cpu_time"
	MetricGPUTime         = "gpu_time"
	MetricRenderTime      = "render_time"
	MetricAllocatedMemory = "allocated_memory"
)

// UnavailableText is shown in place of a metric whose sensor could not be read.
const UnavailableText = "n/a"

// Metric is a single named reading. An unavailable reading holds NaN.
type Metric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func NewMetric(name string, value float64, unit Unit) Metric {
	return Metric{Name: name, Value: value, Unit: unit}
}

// UnavailableMetric returns the sentinel reading for a sensor that failed.
func UnavailableMetric(name string, unit Unit) Metric {
	return Metric{Name: name, Value: math.NaN(), Unit: unit}
}

func (m Metric) Available() bool {
	return !math.IsNaN(m.Value)
}

// Text formats the value with its unit suffix. Memory is shown in whole
// mebibytes, durations in integer nanoseconds and FPS with two decimals.
func (m Metric) Text() string {
	if !m.Available() {
		return UnavailableText
	}
	switch m.Unit {
	case UnitFramesPerSecond:
		return strconv.FormatFloat(m.Value, 'f', 2, 64)
	case UnitNanoseconds:
		return strconv.FormatInt(int64(m.Value), 10) + " ns"
	case UnitBytes:
		return strconv.FormatInt(int64(m.Value)/1024/1024, 10) + " MB"
	default:
		return strconv.FormatFloat(m.Value, 'f', -1, 64)
	}
}

// LogFieldSeparator separates values within one log line.
const LogFieldSeparator = " , "

// Sample is one sampling pass: FPS, CPU, GPU, render-thread and memory, in
// that order.
type Sample []Metric

// Line renders the sample as a single log line without terminator.
func (s Sample) Line() string {
	texts := make([]string, len(s))
	for i, m := range s {
		texts[i] = m.Text()
	}
	return strings.Join(texts, LogFieldSeparator)
}

// Get returns the metric with the given name.
func (s Sample) Get(name string) (Metric, bool) {
	for _, m := range s {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}
