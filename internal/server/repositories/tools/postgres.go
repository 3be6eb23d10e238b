// Package tools provides the PostgreSQL-backed tool registry.
package tools

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/savekeeper/internal/common"
	"github.com/dmitrijs2005/savekeeper/internal/dbx"
	"github.com/dmitrijs2005/savekeeper/internal/server/models"
)

// PostgresRepository implements tool storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the tool and returns it with database-assigned timestamps.
func (r *PostgresRepository) Create(ctx context.Context, tool *models.Tool) (*models.Tool, error) {
	query := `
		INSERT INTO tools (id, name)
		VALUES ($1, $2)
		RETURNING id, name, created_at, updated_at`

	var t models.Tool
	err := r.db.QueryRowContext(ctx, query, tool.ID, tool.Name).
		Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &t, nil
}

// GetByID returns the tool or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Tool, error) {
	query := `SELECT id, name, created_at, updated_at FROM tools WHERE id = $1`

	var t models.Tool
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &t, nil
}

// List returns all tools ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Tool, error) {
	query := `SELECT id, name, created_at, updated_at FROM tools ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select tools: %w", err)
	}
	defer rows.Close()

	var result []*models.Tool
	for rows.Next() {
		var t models.Tool
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
