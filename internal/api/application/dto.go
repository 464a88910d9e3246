package application

import (
	"encoding/json"
	"time"

	entitydomain "framestat/internal/shared/entity/domain"
	telemetryapp "framestat/internal/telemetry/application"
	telemetrydomain "framestat/internal/telemetry/domain"
)

// EntityResponse represents an entity in API responses
type EntityResponse struct {
	ID          int64             `json:"id"`
	CanonicalID string            `json:"canonical_id"`
	Kind        string            `json:"kind"`
	Labels      map[string]string `json:"labels"`
	CreatedAt   time.Time         `json:"created_at"`
}

// MetricResponse is one reading. Value is null when the sensor was unavailable.
type MetricResponse struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
	Unit  string   `json:"unit"`
	Text  string   `json:"text"`
}

// DisplayValuesResponse mirrors what a logger currently shows on screen
type DisplayValuesResponse struct {
	FPS     string           `json:"fps"`
	CPU     string           `json:"cpu"`
	GPU     string           `json:"gpu"`
	Render  string           `json:"render"`
	Memory  string           `json:"memory"`
	Metrics []MetricResponse `json:"metrics"`
}

// LoggerResponse represents a telemetry logger in API responses
type LoggerResponse struct {
	Name           string                `json:"name"`
	EntityID       string                `json:"entity_id"`
	Session        string                `json:"session"`
	StartedAt      time.Time             `json:"started_at"`
	Visible        bool                  `json:"visible"`
	LineCount      int                   `json:"line_count"`
	LogLimit       int                   `json:"log_limit"`
	UpdateInterval float64               `json:"update_interval"`
	Rollovers      int                   `json:"rollovers"`
	Values         DisplayValuesResponse `json:"values"`
}

// VisibilityResponse is returned after toggling a logger's log view
type VisibilityResponse struct {
	Visible bool `json:"visible"`
}

// LoadConfigRequest represents the configuration payload
type LoadConfigRequest struct {
	Config json.RawMessage `json:"config"`
}

// LoadConfigResponse reports the instance config that was applied
type LoadConfigResponse struct {
	Status   string `json:"status"`
	Instance string `json:"instance"`
	Loggers  int    `json:"loggers"`
}

// ErrorResponse represents an error in API responses
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToEntityResponse converts a domain entity to an API response
func ToEntityResponse(e entitydomain.Entity) EntityResponse {
	id := e.EntityID()
	return EntityResponse{
		ID:          e.ID,
		CanonicalID: e.CanonicalID,
		Kind:        id.Kind,
		Labels:      id.Labels,
		CreatedAt:   e.CreatedAt,
	}
}

// ToMetricResponse converts a metric, mapping the unavailable sentinel to null
func ToMetricResponse(m telemetrydomain.Metric) MetricResponse {
	resp := MetricResponse{
		Name: m.Name,
		Unit: string(m.Unit),
		Text: m.Text(),
	}
	if m.Available() {
		v := m.Value
		resp.Value = &v
	}
	return resp
}

// ToLoggerResponse converts a logger snapshot to an API response
func ToLoggerResponse(s telemetryapp.Snapshot) LoggerResponse {
	metrics := make([]MetricResponse, len(s.Values.Metrics))
	for i, m := range s.Values.Metrics {
		metrics[i] = ToMetricResponse(m)
	}

	return LoggerResponse{
		Name:           s.Name,
		EntityID:       s.ID.Canonical(),
		Session:        s.Session.String(),
		StartedAt:      s.StartedAt,
		Visible:        s.Visible,
		LineCount:      s.LineCount,
		LogLimit:       s.LogLimit,
		UpdateInterval: s.UpdateInterval.Seconds(),
		Rollovers:      s.Rollovers,
		Values: DisplayValuesResponse{
			FPS:     s.Values.FPSText,
			CPU:     s.Values.CPUText,
			GPU:     s.Values.GPUText,
			Render:  s.Values.RenderText,
			Memory:  s.Values.MemoryText,
			Metrics: metrics,
		},
	}
}
