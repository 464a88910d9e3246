package infrastructure

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"framestat/internal/infrastructure/database"
	entitydomain "framestat/internal/shared/entity/domain"
)

func setupTestRepository(t *testing.T) *Repository {
	testDB, err := database.ConnectSQLite(filepath.Join(t.TempDir(), "entities.db"))
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { testDB.Close() })

	if err := database.Migrate(context.Background(), testDB); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}

	return NewRepository(testDB, testDB)
}

func TestRepository_InsertEntity(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	canonicalID := "instance=rig|kind=logger|name=main"
	id, err := repo.InsertEntity(ctx, canonicalID)
	if err != nil {
		t.Fatalf("unexpected error inserting entity: %v", err)
	}
	if id <= 0 {
		t.Errorf("expected positive ID, got %d", id)
	}

	entity, err := repo.GetEntity(ctx, canonicalID)
	if err != nil {
		t.Fatalf("unexpected error getting entity: %v", err)
	}
	if entity.ID != id || entity.CanonicalID != canonicalID {
		t.Errorf("unexpected entity %+v", entity)
	}
	if entity.CreatedAt.IsZero() {
		t.Errorf("expected created_at to be set")
	}

	if _, err := repo.InsertEntity(ctx, canonicalID); err == nil {
		t.Errorf("expected duplicate canonical ID to be rejected")
	}
}

func TestRepository_Lookups(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	first, _ := repo.InsertEntity(ctx, "kind=logger|name=a")
	second, _ := repo.InsertEntity(ctx, "kind=logger|name=b")

	id, err := repo.GetID(ctx, "kind=logger|name=b")
	if err != nil || id != second {
		t.Errorf("expected id %d, got %d (%v)", second, id, err)
	}

	canon, err := repo.GetCanonicalID(ctx, first)
	if err != nil || canon != "kind=logger|name=a" {
		t.Errorf("expected canonical ID of first entity, got %q (%v)", canon, err)
	}

	entities, err := repo.ListEntities(ctx)
	if err != nil {
		t.Fatalf("unexpected error listing entities: %v", err)
	}
	if len(entities) != 2 || entities[0].ID != first || entities[1].ID != second {
		t.Errorf("unexpected entity list %+v", entities)
	}
}

func TestRepository_NotFound(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	if _, err := repo.GetID(ctx, "kind=missing"); !errors.Is(err, entitydomain.ErrIDNotFound) {
		t.Errorf("expected ErrIDNotFound, got %v", err)
	}
	if _, err := repo.GetCanonicalID(ctx, 42); !errors.Is(err, entitydomain.ErrIDNotFound) {
		t.Errorf("expected ErrIDNotFound, got %v", err)
	}
	if _, err := repo.GetEntity(ctx, "kind=missing"); !errors.Is(err, entitydomain.ErrIDNotFound) {
		t.Errorf("expected ErrIDNotFound, got %v", err)
	}

	entities, err := repo.ListEntities(ctx)
	if err != nil || len(entities) != 0 {
		t.Errorf("expected empty list, got %v (%v)", entities, err)
	}
}
