// Package snapshots provides PostgreSQL-backed storage for save snapshot
// metadata.
package snapshots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/savekeeper/internal/common"
	"github.com/dmitrijs2005/savekeeper/internal/dbx"
	"github.com/dmitrijs2005/savekeeper/internal/server/models"
)

// PostgresRepository implements snapshot storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the snapshot metadata row.
func (r *PostgresRepository) Create(ctx context.Context, snapshot *models.Snapshot) (*models.Snapshot, error) {
	query := `
		INSERT INTO save_snapshots (id, save_id, storage_key, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, save_id, storage_key, created_by, created_at`

	var s models.Snapshot
	err := r.db.QueryRowContext(ctx, query, snapshot.ID, snapshot.SaveID, snapshot.StorageKey, snapshot.CreatedBy).
		Scan(&s.ID, &s.SaveID, &s.StorageKey, &s.CreatedBy, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &s, nil
}

// GetByID returns the snapshot or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Snapshot, error) {
	query := `SELECT id, save_id, storage_key, created_by, created_at FROM save_snapshots WHERE id = $1`

	var s models.Snapshot
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&s.ID, &s.SaveID, &s.StorageKey, &s.CreatedBy, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &s, nil
}

// ListBySave returns the snapshots of a save, newest first.
func (r *PostgresRepository) ListBySave(ctx context.Context, saveID string) ([]*models.Snapshot, error) {
	query := `SELECT id, save_id, storage_key, created_by, created_at FROM save_snapshots
		WHERE save_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, saveID)
	if err != nil {
		return nil, fmt.Errorf("failed to select snapshots: %w", err)
	}
	defer rows.Close()

	var result []*models.Snapshot
	for rows.Next() {
		var s models.Snapshot
		if err := rows.Scan(&s.ID, &s.SaveID, &s.StorageKey, &s.CreatedBy, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
