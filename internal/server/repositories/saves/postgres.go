// Package saves provides the PostgreSQL-backed document store for save rows,
// including the atomic lock-state transitions.
package saves

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/savekeeper/internal/common"
	"github.com/dmitrijs2005/savekeeper/internal/dbx"
	"github.com/dmitrijs2005/savekeeper/internal/server/models"
)

// PostgresRepository implements save storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const saveColumns = `id, name, description, data, tool_id, owner_id, locked_by_id, last_locked, last_opened, created_at, updated_at`

func scanSave(row interface{ Scan(...any) error }) (*models.Save, error) {
	var s models.Save
	// data is nullable; scan through *[]byte so NULL becomes a nil payload
	err := row.Scan(
		&s.ID, &s.Name, &s.Description, (*[]byte)(&s.Data), &s.ToolID, &s.OwnerID,
		&s.LockedByID, &s.LastLocked, &s.LastOpened, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts the save and returns it with database-assigned timestamps.
func (r *PostgresRepository) Create(ctx context.Context, save *models.Save) (*models.Save, error) {
	query := `
		INSERT INTO saves (id, name, description, data, tool_id, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + saveColumns

	row := r.db.QueryRowContext(ctx, query,
		save.ID, save.Name, save.Description, save.Data, save.ToolID, save.OwnerID)

	created, err := scanSave(row)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

// GetByID returns the save or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Save, error) {
	query := `SELECT ` + saveColumns + ` FROM saves WHERE id = $1`

	save, err := scanSave(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return save, nil
}

// List returns all saves ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Save, error) {
	query := `SELECT ` + saveColumns + ` FROM saves ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select saves: %w", err)
	}
	defer rows.Close()

	var result []*models.Save
	for rows.Next() {
		save, err := scanSave(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, save)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// TouchOpened sets last_opened to the current time.
func (r *PostgresRepository) TouchOpened(ctx context.Context, id string) error {
	query := `UPDATE saves SET last_opened = now() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowOr(res, common.ErrNotFound)
}

// Acquire is the lock-acquisition CAS. The WHERE clause encodes the full
// transition rule: unlocked, idempotent re-lock by the holder, or owner
// override. Zero rows affected means another user holds the lock.
func (r *PostgresRepository) Acquire(ctx context.Context, id, userID string) error {
	query := `
		UPDATE saves
		SET locked_by_id = $1, last_locked = now(), updated_at = now()
		WHERE id = $2
		  AND (locked_by_id IS NULL OR locked_by_id = $1 OR owner_id = $1)
	`

	res, err := r.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowOr(res, common.ErrLockConflict)
}

// Release is the lock-release CAS. Releasing an unlocked save is a no-op
// success; releasing someone else's lock affects zero rows.
func (r *PostgresRepository) Release(ctx context.Context, id, userID string) error {
	query := `
		UPDATE saves
		SET locked_by_id = NULL, updated_at = now()
		WHERE id = $2
		  AND (locked_by_id IS NULL OR locked_by_id = $1)
	`

	res, err := r.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowOr(res, common.ErrLockConflict)
}

// UpdateFields applies the patch in a single statement guarded by the lock
// holder check, so an edit can never interleave with a lock transition.
func (r *PostgresRepository) UpdateFields(ctx context.Context, id, userID string, patch FieldPatch) error {
	query := `
		UPDATE saves
		SET name = COALESCE($1, name),
		    description = COALESCE($2, description),
		    data = COALESCE($3, data),
		    updated_at = now()
		WHERE id = $4 AND locked_by_id = $5
	`

	res, err := r.db.ExecContext(ctx, query, patch.Name, patch.Description, patch.Data, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowOr(res, common.ErrNotLockHolder)
}

// Delete removes the save row. Grants and snapshots go with it via cascade.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM saves WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowOr(res, common.ErrNotFound)
}

// oneRowOr maps the rows-affected count of a single-row statement: exactly
// one row is success, zero rows yields miss, anything else is a bug.
func oneRowOr(res sql.Result, miss error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return miss
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
