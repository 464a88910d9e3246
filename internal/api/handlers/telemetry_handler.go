package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	api "framestat/internal/api/application"
	telemetrydomain "framestat/internal/telemetry/domain"
)

// TelemetryHandler handles telemetry logger queries and commands
type TelemetryHandler struct {
	service *api.TelemetryService
}

// NewTelemetryHandler creates a new telemetry handler
func NewTelemetryHandler(service *api.TelemetryService) *TelemetryHandler {
	return &TelemetryHandler{
		service: service,
	}
}

// ListLoggers handles GET /api/v1/loggers
// @Summary      List telemetry loggers
// @Description  Get the current display values of every running logger
// @Tags         loggers
// @Produce      json
// @Success      200  {array}   application.LoggerResponse
// @Security     ApiKeyAuth
// @Router       /loggers [get]
func (h *TelemetryHandler) ListLoggers(w http.ResponseWriter, r *http.Request) {
	loggers := h.service.ListLoggers()
	getLogger(r).Debug("Listed loggers", "count", len(loggers))
	respondJSON(w, http.StatusOK, loggers)
}

// GetLogger handles GET /api/v1/loggers/{name}
// @Summary      Get telemetry logger
// @Tags         loggers
// @Produce      json
// @Param        name  path      string  true  "Logger name"
// @Success      200   {object}  application.LoggerResponse
// @Failure      404   {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /loggers/{name} [get]
func (h *TelemetryHandler) GetLogger(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	resp, err := h.service.GetLogger(name)
	if err != nil {
		h.respondError(w, r, name, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetLog handles GET /api/v1/loggers/{name}/log
// @Summary      Get logger log text
// @Description  Returns the rolling log as CSV-like text. Only available while the log view is visible.
// @Tags         loggers
// @Produce      plain
// @Param        name  path      string  true  "Logger name"
// @Success      200   {string}  string
// @Failure      404   {object}  application.ErrorResponse
// @Failure      409   {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /loggers/{name}/log [get]
func (h *TelemetryHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	text, err := h.service.GetLog(name)
	if err != nil {
		h.respondError(w, r, name, err)
		return
	}
	respondText(w, http.StatusOK, text)
}

// ToggleVisibility handles POST /api/v1/loggers/{name}/visibility
// @Summary      Toggle log visibility
// @Tags         loggers
// @Produce      json
// @Param        name  path      string  true  "Logger name"
// @Success      200   {object}  application.VisibilityResponse
// @Failure      404   {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /loggers/{name}/visibility [post]
func (h *TelemetryHandler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	resp, err := h.service.ToggleVisibility(name)
	if err != nil {
		h.respondError(w, r, name, err)
		return
	}
	getLogger(r).Info("Log visibility toggled", "logger", name, "visible", resp.Visible)
	respondJSON(w, http.StatusOK, resp)
}

// Reset handles POST /api/v1/loggers/{name}/reset
// @Summary      Reset logger
// @Description  Clears the log and the sampling state
// @Tags         loggers
// @Produce      json
// @Param        name  path      string  true  "Logger name"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /loggers/{name}/reset [post]
func (h *TelemetryHandler) Reset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.service.Reset(name); err != nil {
		h.respondError(w, r, name, err)
		return
	}
	getLogger(r).Info("Logger reset", "logger", name)
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *TelemetryHandler) respondError(w http.ResponseWriter, r *http.Request, name string, err error) {
	logger := getLogger(r)
	switch {
	case errors.Is(err, telemetrydomain.ErrLoggerNotFound):
		logger.Debug("Logger not found", "logger", name)
		respondJSONError(w, http.StatusNotFound, "Logger not found")
	case errors.Is(err, api.ErrLogHidden):
		respondJSONError(w, http.StatusConflict, "Log view is hidden, toggle visibility first")
	default:
		logger.Error("Logger request failed", "logger", name, "err", err)
		respondJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
