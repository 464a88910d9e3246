package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	api "framestat/internal/api/application"
	configapp "framestat/internal/config/application"
	configdomain "framestat/internal/config/domain"
	"framestat/internal/shared/validation"
)

// ConfigHandler applies instance configs to the telemetry loggers.
type ConfigHandler struct {
	configLoader *configapp.Loader
}

func NewConfigHandler(configLoader *configapp.Loader) *ConfigHandler {
	return &ConfigHandler{
		configLoader: configLoader,
	}
}

// LoadConfig handles POST /api/v1/config
// @Summary      Load configuration
// @Description  Load a new instance configuration and restart the loggers whose configuration changed
// @Tags         config
// @Accept       json
// @Produce      json
// @Param        config  body      application.LoadConfigRequest  true  "Instance configuration, bare or wrapped in {\"config\": ...}"
// @Success      200     {object}  application.LoadConfigResponse
// @Failure      400     {object}  application.ErrorResponse
// @Failure      422     {object}  application.ErrorResponse
// @Failure      500     {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /config [post]
func (h *ConfigHandler) LoadConfig(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body []byte
	if r.Body != nil {
		var err error
		if body, err = io.ReadAll(r.Body); err != nil {
			logger.Warn("Failed to read config body", "err", err)
			respondJSONError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}
	if len(body) == 0 {
		respondJSONError(w, http.StatusBadRequest, "Invalid request body: request body is required")
		return
	}

	raw, err := unwrapConfig(body)
	if err != nil {
		logger.Warn("Rejected config body", "err", err)
		respondJSONError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.configLoader.LoadConfig(r.Context(), raw); err != nil {
		status := loadErrorStatus(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to apply config", "err", err)
		} else {
			logger.Warn("Config rejected", "err", err)
		}
		respondJSONError(w, status, "Failed to load config: "+err.Error())
		return
	}

	var applied configdomain.InstanceConfig
	json.Unmarshal(raw, &applied)
	logger.Info("Config applied", "instance", applied.Name, "loggers", len(applied.Loggers))
	respondJSON(w, http.StatusOK, api.LoadConfigResponse{
		Status:   "ok",
		Instance: applied.Name,
		Loggers:  len(applied.Loggers),
	})
}

// unwrapConfig accepts either {"config": {...}} or the instance config itself.
func unwrapConfig(body []byte) (json.RawMessage, error) {
	var req api.LoadConfigRequest
	if err := json.Unmarshal(body, &req); err == nil && len(req.Config) > 0 {
		return req.Config, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, err
	}
	return body, nil
}

// loadErrorStatus maps config rejections to 4xx and everything else, such as
// a failing entity store, to 500.
func loadErrorStatus(err error) int {
	var (
		cfgErr    validation.ConfigError
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &cfgErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// GetConfig handles GET /api/v1/config
// @Summary      Get current configuration
// @Description  Return the instance configuration that is currently applied, as it was posted
// @Tags         config
// @Produce      json
// @Success      200     {object}  map[string]interface{}
// @Failure      404     {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /config [get]
func (h *ConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	config := h.configLoader.GetConfig()
	if len(config) == 0 {
		respondJSONError(w, http.StatusNotFound, "No configuration loaded")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(config)
}
