package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	api "framestat/internal/api/application"
	telemetryapp "framestat/internal/telemetry/application"
	telemetrydomain "framestat/internal/telemetry/domain"
)

func setupTestTelemetryHandler(t *testing.T) (*TelemetryHandler, *telemetryapp.Service) {
	service := newTestTelemetryService(t)
	raws := []json.RawMessage{
		json.RawMessage(`{"name": "main", "log_limit": 5}`),
		json.RawMessage(`{"name": "overlay", "log_visible": true}`),
	}
	if err := service.Load(context.Background(), "rig", raws); err != nil {
		t.Fatalf("failed to load loggers: %v", err)
	}
	for i := 0; i < 3; i++ {
		now := time.Unix(0, 0).Add(time.Duration(i) * 100 * time.Millisecond)
		service.Step("main", now)
		service.Step("overlay", now)
	}
	return NewTelemetryHandler(api.NewTelemetryService(service)), service
}

func TestTelemetryHandler_ListLoggers(t *testing.T) {
	handler, _ := setupTestTelemetryHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/loggers", nil)
	w := httptest.NewRecorder()
	handler.ListLoggers(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var loggers []api.LoggerResponse
	if err := json.NewDecoder(w.Body).Decode(&loggers); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(loggers) != 2 || loggers[0].Name != "main" {
		t.Fatalf("unexpected loggers %+v", loggers)
	}
	if loggers[0].LineCount != 3 || loggers[0].Values.CPU != "1200 ns" || loggers[0].Values.Memory != "5 MB" {
		t.Errorf("unexpected logger values %+v", loggers[0])
	}
}

func TestTelemetryHandler_GetLogger(t *testing.T) {
	tests := []struct {
		name           string
		logger         string
		expectedStatus int
	}{
		{"found", "main", http.StatusOK},
		{"not found", "missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := setupTestTelemetryHandler(t)

			req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/v1/loggers/x", nil), map[string]string{"name": tt.logger})
			w := httptest.NewRecorder()
			handler.GetLogger(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestTelemetryHandler_GetLog(t *testing.T) {
	tests := []struct {
		name           string
		logger         string
		expectedStatus int
	}{
		{"visible", "overlay", http.StatusOK},
		{"hidden", "main", http.StatusConflict},
		{"not found", "missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := setupTestTelemetryHandler(t)

			req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/v1/loggers/x/log", nil), map[string]string{"name": tt.logger})
			w := httptest.NewRecorder()
			handler.GetLog(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
				t.Errorf("expected text/plain, got %q", ct)
			}
			lines := strings.Split(strings.TrimSuffix(w.Body.String(), telemetrydomain.LineTerminator), telemetrydomain.LineTerminator)
			if len(lines) != 4 || lines[0] != telemetrydomain.LogHeader {
				t.Errorf("expected header and 3 lines, got %q", lines)
			}
		})
	}
}

func TestTelemetryHandler_ToggleVisibility(t *testing.T) {
	handler, service := setupTestTelemetryHandler(t)

	req := withURLParams(httptest.NewRequest(http.MethodPost, "/api/v1/loggers/main/visibility", nil), map[string]string{"name": "main"})
	w := httptest.NewRecorder()
	handler.ToggleVisibility(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp api.VisibilityResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Visible {
		t.Errorf("expected log to become visible")
	}
	if _, visible, _ := service.Log("main"); !visible {
		t.Errorf("service state not updated")
	}

	req = withURLParams(httptest.NewRequest(http.MethodPost, "/api/v1/loggers/missing/visibility", nil), map[string]string{"name": "missing"})
	w = httptest.NewRecorder()
	handler.ToggleVisibility(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestTelemetryHandler_Reset(t *testing.T) {
	handler, service := setupTestTelemetryHandler(t)

	req := withURLParams(httptest.NewRequest(http.MethodPost, "/api/v1/loggers/main/reset", nil), map[string]string{"name": "main"})
	w := httptest.NewRecorder()
	handler.Reset(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	snap, _ := service.Get("main")
	if snap.LineCount != 0 {
		t.Errorf("expected empty log after reset, got %d lines", snap.LineCount)
	}
}
