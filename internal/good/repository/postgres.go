package repository

import (
	"context"
	"database/sql"
	"errors"

	"online-shop/backend/internal/good/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a good repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the good and returns it joined with its category in one
// round trip.
func (r *PostgresRepository) Create(ctx context.Context, g *domain.Good) (*domain.Good, error) {
	row := r.db.QueryRowContext(ctx, `
		WITH inserted AS (
			INSERT INTO goods (id, name, price, category_id, updated_at)
			VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
			RETURNING id, name, price, category_id
		)
		SELECT i.id, i.name, i.price, c.id, c.name
		FROM inserted i
		JOIN categories c ON i.category_id = c.id`,
		g.ID, g.Name, g.Price, g.Category.ID)
	return scanGood(row)
}

// GetByID returns the good joined with its category, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Good, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT g.id, g.name, g.price, c.id, c.name
		FROM goods g
		JOIN categories c ON g.category_id = c.id
		WHERE g.id = $1`, id)
	return scanGood(row)
}

func scanGood(row *sql.Row) (*domain.Good, error) {
	var g domain.Good
	err := row.Scan(&g.ID, &g.Name, &g.Price, &g.Category.ID, &g.Category.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}
