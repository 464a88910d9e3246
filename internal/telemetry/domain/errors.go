package domain

import "errors"

// ErrLoggerNotFound is returned when no running logger has the requested name.
var ErrLoggerNotFound = errors.New("telemetry logger not found")
