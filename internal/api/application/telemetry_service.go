package application

import (
	"errors"

	telemetryapp "framestat/internal/telemetry/application"
)

// ErrLogHidden is returned when the log of a logger whose log view is
// hidden is requested.
var ErrLogHidden = errors.New("log view is hidden")

// TelemetryService handles telemetry logger queries and commands
type TelemetryService struct {
	service *telemetryapp.Service
}

// NewTelemetryService creates a new telemetry service
func NewTelemetryService(service *telemetryapp.Service) *TelemetryService {
	return &TelemetryService{
		service: service,
	}
}

// ListLoggers returns every running logger
func (s *TelemetryService) ListLoggers() []LoggerResponse {
	snapshots := s.service.List()
	responses := make([]LoggerResponse, len(snapshots))
	for i, snap := range snapshots {
		responses[i] = ToLoggerResponse(snap)
	}
	return responses
}

// GetLogger returns a logger by name
func (s *TelemetryService) GetLogger(name string) (*LoggerResponse, error) {
	snap, err := s.service.Get(name)
	if err != nil {
		return nil, err
	}
	response := ToLoggerResponse(snap)
	return &response, nil
}

// GetLog returns the log text of a logger whose log view is visible
func (s *TelemetryService) GetLog(name string) (string, error) {
	text, visible, err := s.service.Log(name)
	if err != nil {
		return "", err
	}
	if !visible {
		return "", ErrLogHidden
	}
	return text, nil
}

// ToggleVisibility flips a logger's log view
func (s *TelemetryService) ToggleVisibility(name string) (VisibilityResponse, error) {
	visible, err := s.service.ToggleVisibility(name)
	if err != nil {
		return VisibilityResponse{}, err
	}
	return VisibilityResponse{Visible: visible}, nil
}

// Reset clears a logger's log and sampling state
func (s *TelemetryService) Reset(name string) error {
	return s.service.Reset(name)
}
