package application

import (
	"context"
	"errors"
	"sort"

	entitydomain "framestat/internal/shared/entity/domain"
	"framestat/pkg/utils"
)

// ErrInvalidEntityID is returned for IDs that carry no kind.
var ErrInvalidEntityID = errors.New("entity ID has no kind")

// EntityFilter narrows ListEntities. Empty fields match everything.
type EntityFilter struct {
	Kind     string
	Instance string
}

func (f EntityFilter) matches(id utils.EntityID) bool {
	if f.Kind != "" && id.Kind != f.Kind {
		return false
	}
	if f.Instance != "" && id.Labels["instance"] != f.Instance {
		return false
	}
	return true
}

// EntityService answers queries about registered logger identities.
type EntityService struct {
	repo entitydomain.Repository
}

func NewEntityService(repo entitydomain.Repository) *EntityService {
	return &EntityService{
		repo: repo,
	}
}

// ListEntities returns the entities matching filter, ordered by canonical ID.
func (s *EntityService) ListEntities(ctx context.Context, filter EntityFilter) ([]EntityResponse, error) {
	entities, err := s.repo.ListEntities(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]EntityResponse, 0, len(entities))
	for _, e := range entities {
		if !filter.matches(e.EntityID()) {
			continue
		}
		responses = append(responses, ToEntityResponse(e))
	}
	sort.Slice(responses, func(i, j int) bool {
		return responses[i].CanonicalID < responses[j].CanonicalID
	})
	return responses, nil
}

// GetEntity looks up an entity by ID. The labels may come in any order; they
// are put in canonical form before the lookup.
func (s *EntityService) GetEntity(ctx context.Context, id string) (*EntityResponse, error) {
	parsed := utils.ParseEntityID(id)
	if parsed.Kind == "" {
		return nil, ErrInvalidEntityID
	}

	entity, err := s.repo.GetEntity(ctx, parsed.Canonical())
	if err != nil {
		return nil, err
	}

	response := ToEntityResponse(*entity)
	return &response, nil
}
