package repository

import (
	"context"
	"database/sql"
	"errors"

	"online-shop/backend/internal/category/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a category repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the category. The category must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, c *domain.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, updated_at) VALUES ($1, $2, CURRENT_TIMESTAMP)`,
		c.ID, c.Name)
	return err
}

// GetByID returns the category for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, updated_at FROM categories WHERE id = $1`, id)
	return scanCategory(row)
}

// List returns categories paged 1-based.
func (r *PostgresRepository) List(ctx context.Context, page, size int) ([]*domain.Category, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, updated_at FROM categories ORDER BY name LIMIT $1 OFFSET $2`,
		size, (page-1)*size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// Delete removes the category and returns the deleted row, or nil if absent.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (*domain.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`DELETE FROM categories WHERE id = $1 RETURNING id, name, updated_at`, id)
	return scanCategory(row)
}

func scanCategory(row *sql.Row) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.Name, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
