package repository

import (
	"context"
	"database/sql"
	"errors"

	"online-shop/backend/internal/session/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const sessionColumns = "id, device, refresh_token, user_id, updated_at"

// upsertSession is a single-statement create-or-replace keyed on the
// (device, user_id) uniqueness constraint, so two concurrent logins from the
// same device cannot leave two live sessions. The existing row keeps its id.
const upsertSession = `
	INSERT INTO user_sessions (id, device, refresh_token, user_id, updated_at)
	VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
	ON CONFLICT (device, user_id)
	DO UPDATE SET refresh_token = EXCLUDED.refresh_token, updated_at = CURRENT_TIMESTAMP
	RETURNING ` + sessionColumns

// Create inserts the session, replacing any prior session for the same
// (device, user) pair in the same statement. Returns the persisted row.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx, upsertSession, s.ID, s.Device, s.RefreshToken, s.UserID)
	return scanSession(row)
}

// GetByDeviceAndUser returns the active session for the pair, or nil if none.
func (r *PostgresRepository) GetByDeviceAndUser(ctx context.Context, device, userID string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM user_sessions WHERE device = $1 AND user_id = $2`,
		device, userID)
	return scanSession(row)
}

// GetByRefreshToken returns the session holding the given refresh token value,
// or nil if none.
func (r *PostgresRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM user_sessions WHERE refresh_token = $1`,
		refreshToken)
	return scanSession(row)
}

// DeleteByID removes the session and returns the deleted row, or nil if the
// id was already absent. The DELETE…RETURNING makes this usable as an atomic
// arbiter between concurrent rotations of the same token.
func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`DELETE FROM user_sessions WHERE id = $1 RETURNING `+sessionColumns, id)
	return scanSession(row)
}

// Rotate deletes the session oldID and inserts s in one transaction, so a
// crash cannot separate the retirement of the old refresh token from the
// persistence of the new one. Returns nil if oldID was already gone; in that
// case nothing is inserted.
func (r *PostgresRepository) Rotate(ctx context.Context, oldID string, s *domain.Session) (*domain.Session, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM user_sessions WHERE id = $1`, oldID)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	row := tx.QueryRowContext(ctx, upsertSession, s.ID, s.Device, s.RefreshToken, s.UserID)
	created, err := scanSession(row)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

func scanSession(row *sql.Row) (*domain.Session, error) {
	var s domain.Session
	err := row.Scan(&s.ID, &s.Device, &s.RefreshToken, &s.UserID, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
