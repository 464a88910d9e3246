package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	api "framestat/internal/api/application"
	entitydomain "framestat/internal/shared/entity/domain"
)

// EntityHandler handles entity queries
type EntityHandler struct {
	service *api.EntityService
}

// NewEntityHandler creates a new entity handler
func NewEntityHandler(service *api.EntityService) *EntityHandler {
	return &EntityHandler{
		service: service,
	}
}

// ListEntities handles GET /api/v1/entities
// @Summary      List entities
// @Description  List registered logger identities, optionally filtered by kind and instance
// @Tags         entities
// @Produce      json
// @Param        kind      query     string  false  "Entity kind, e.g. logger"
// @Param        instance  query     string  false  "Instance name"
// @Success      200  {array}   application.EntityResponse
// @Failure      500  {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /entities [get]
func (h *EntityHandler) ListEntities(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	filter := api.EntityFilter{
		Kind:     r.URL.Query().Get("kind"),
		Instance: r.URL.Query().Get("instance"),
	}
	entities, err := h.service.ListEntities(r.Context(), filter)
	if err != nil {
		logger.Error("Failed to list entities", "err", err)
		respondJSONError(w, http.StatusInternalServerError, "Failed to list entities: "+err.Error())
		return
	}

	logger.Debug("Listed entities", "count", len(entities), "kind", filter.Kind, "instance", filter.Instance)
	respondJSON(w, http.StatusOK, entities)
}

// GetEntity handles GET /api/v1/entities/{id}
// @Summary      Get entity by ID
// @Description  Get a logger identity by its ID; labels may be given in any order
// @Tags         entities
// @Produce      json
// @Param        id   path      string  true  "Entity ID, e.g. kind=logger|instance=rig|name=main"
// @Success      200  {object}  application.EntityResponse
// @Failure      400  {object}  application.ErrorResponse
// @Failure      404  {object}  application.ErrorResponse
// @Failure      500  {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /entities/{id} [get]
func (h *EntityHandler) GetEntity(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	// Canonical IDs contain '|' and '=', so clients send them escaped
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil || id == "" {
		logger.Warn("Missing entity ID in request")
		respondJSONError(w, http.StatusBadRequest, "Missing entity ID")
		return
	}

	entity, err := h.service.GetEntity(r.Context(), id)
	if err != nil {
		if errors.Is(err, api.ErrInvalidEntityID) {
			respondJSONError(w, http.StatusBadRequest, "Invalid entity ID: "+err.Error())
			return
		}
		if errors.Is(err, entitydomain.ErrIDNotFound) {
			logger.Debug("Entity not found", "id", id)
			respondJSONError(w, http.StatusNotFound, "Entity not found")
			return
		}
		logger.Error("Failed to get entity", "id", id, "err", err)
		respondJSONError(w, http.StatusInternalServerError, "Failed to get entity: "+err.Error())
		return
	}

	logger.Debug("Retrieved entity", "id", id)
	respondJSON(w, http.StatusOK, entity)
}
