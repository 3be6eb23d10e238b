// Package shares provides the PostgreSQL-backed share registry.
package shares

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/savekeeper/internal/common"
	"github.com/dmitrijs2005/savekeeper/internal/dbx"
	"github.com/dmitrijs2005/savekeeper/internal/server/models"
)

// PostgresRepository implements grant storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const grantColumns = `id, save_id, user_id, permission, accepted, created_at, updated_at`

func scanGrant(row interface{ Scan(...any) error }) (*models.ShareGrant, error) {
	var g models.ShareGrant
	err := row.Scan(&g.ID, &g.SaveID, &g.UserID, &g.Permission, &g.Accepted, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Create inserts a grant. New grants always start unaccepted.
func (r *PostgresRepository) Create(ctx context.Context, grant *models.ShareGrant) (*models.ShareGrant, error) {
	query := `
		INSERT INTO shared_saves (id, save_id, user_id, permission)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + grantColumns

	row := r.db.QueryRowContext(ctx, query, grant.ID, grant.SaveID, grant.UserID, grant.Permission)

	created, err := scanGrant(row)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

// GetByID returns the grant or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.ShareGrant, error) {
	query := `SELECT ` + grantColumns + ` FROM shared_saves WHERE id = $1`

	grant, err := scanGrant(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return grant, nil
}

// GetBySaveAndUser returns the grant binding userID to saveID, or
// common.ErrNotFound. One grant per pair is expected; if several exist the
// oldest wins.
func (r *PostgresRepository) GetBySaveAndUser(ctx context.Context, saveID, userID string) (*models.ShareGrant, error) {
	query := `SELECT ` + grantColumns + ` FROM shared_saves
		WHERE save_id = $1 AND user_id = $2
		ORDER BY created_at LIMIT 1`

	grant, err := scanGrant(r.db.QueryRowContext(ctx, query, saveID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return grant, nil
}

// ListBySave returns all grants for a save.
func (r *PostgresRepository) ListBySave(ctx context.Context, saveID string) ([]*models.ShareGrant, error) {
	query := `SELECT ` + grantColumns + ` FROM shared_saves WHERE save_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, saveID)
	if err != nil {
		return nil, fmt.Errorf("failed to select grants: %w", err)
	}
	defer rows.Close()

	var result []*models.ShareGrant
	for rows.Next() {
		grant, err := scanGrant(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MarkAccepted flips accepted to true for the grant.
func (r *PostgresRepository) MarkAccepted(ctx context.Context, id string) error {
	query := `UPDATE shared_saves SET accepted = true, updated_at = now() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete removes the grant row.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM shared_saves WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
