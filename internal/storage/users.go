package storage

import (
	"context"
	"fmt"

	"github.com/meltforce/fitlog/internal/models"
)

const userColumns = `id, username, email, password_hash, created_at`

// CreateUser inserts a user and returns it with its ID and creation time.
// Returns ErrDuplicate if the username or email is taken.
func (db *DB) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	u := &models.User{}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		username, email, passwordHash,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting user: %w", pgError(err))
	}
	return u, nil
}

// GetUser returns the user with the given ID.
func (db *DB) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u := &models.User{}
	err := db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", pgError(err))
	}
	return u, nil
}

// FindUserByLogin returns the user whose username or email equals login.
func (db *DB) FindUserByLogin(ctx context.Context, login string) (*models.User, error) {
	u := &models.User{}
	err := db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $1 ORDER BY id LIMIT 1`, login,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying user by login: %w", pgError(err))
	}
	return u, nil
}

// UsernameExists reports whether a user with this username exists.
func (db *DB) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking username: %w", err)
	}
	return exists, nil
}

// EmailExists reports whether a user with this email exists.
func (db *DB) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking email: %w", err)
	}
	return exists, nil
}
