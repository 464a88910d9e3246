package infrastructure

import (
	"context"
	"database/sql"
	"errors"

	entitydomain "framestat/internal/shared/entity/domain"
)

// Repository stores entities in SQLite. Reads and writes may use separate
// pools so that a single writer connection can be enforced.
type Repository struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func NewRepository(readDB *sql.DB, writeDB *sql.DB) *Repository {
	return &Repository{
		readDB:  readDB,
		writeDB: writeDB,
	}
}

func (r *Repository) GetID(ctx context.Context, canonID string) (int64, error) {
	var id int64
	err := r.readDB.QueryRowContext(ctx, `SELECT id FROM entities WHERE canonical_id = ?`, canonID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, entitydomain.ErrIDNotFound
	}
	return id, err
}

func (r *Repository) GetCanonicalID(ctx context.Context, id int64) (string, error) {
	var canon string
	err := r.readDB.QueryRowContext(ctx, `SELECT canonical_id FROM entities WHERE id = ?`, id).Scan(&canon)
	if errors.Is(err, sql.ErrNoRows) {
		return "", entitydomain.ErrIDNotFound
	}
	return canon, err
}

func (r *Repository) InsertEntity(ctx context.Context, canonID string) (int64, error) {
	res, err := r.writeDB.ExecContext(ctx, `INSERT INTO entities (canonical_id) VALUES (?)`, canonID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repository) ListEntities(ctx context.Context) ([]entitydomain.Entity, error) {
	rows, err := r.readDB.QueryContext(ctx, `SELECT id, canonical_id, created_at FROM entities ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []entitydomain.Entity{}
	for rows.Next() {
		var e entitydomain.Entity
		if err := rows.Scan(&e.ID, &e.CanonicalID, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *Repository) GetEntity(ctx context.Context, canonicalID string) (*entitydomain.Entity, error) {
	var e entitydomain.Entity
	err := r.readDB.QueryRowContext(ctx,
		`SELECT id, canonical_id, created_at FROM entities WHERE canonical_id = ?`, canonicalID,
	).Scan(&e.ID, &e.CanonicalID, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entitydomain.ErrIDNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
