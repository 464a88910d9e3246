package domain

import (
	"time"

	"framestat/pkg/utils"
)

// Entity is a registered identity, such as a telemetry logger
type Entity struct {
	ID          int64
	CanonicalID string
	CreatedAt   time.Time
}

// NewEntity creates a new entity with a canonical ID
func NewEntity(canonicalID string) *Entity {
	return &Entity{
		CanonicalID: canonicalID,
	}
}

// EntityID parses the canonical ID back into kind and labels
func (e *Entity) EntityID() utils.EntityID {
	return utils.ParseEntityID(e.CanonicalID)
}
