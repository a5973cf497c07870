package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/meltforce/fitlog/internal/models"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS workouts (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	exercise   TEXT NOT NULL,
	sets       INTEGER NOT NULL DEFAULT 1,
	reps       INTEGER NOT NULL DEFAULT 0,
	duration   INTEGER NOT NULL DEFAULT 0,
	completed  BOOLEAN NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_workouts_user_created ON workouts (user_id, created_at DESC);
`

// SQLite is a single-file store with the same repository methods as DB.
// Used for local development and tests.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path and ensures the schema
// exists. Pass ":memory:" for a throwaway database.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database dir: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// One connection: keeps :memory: databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLite{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// sqliteError translates driver errors into the package sentinels.
func sqliteError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicate
	}
	return err
}

// CreateUser inserts a user. Returns ErrDuplicate if the username or email is taken.
func (s *SQLite) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	created := s.now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		username, email, passwordHash, created)
	if err != nil {
		return nil, fmt.Errorf("inserting user: %w", sqliteError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading user id: %w", err)
	}
	return &models.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    created,
	}, nil
}

// GetUser returns the user with the given ID.
func (s *SQLite) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", sqliteError(err))
	}
	return u, nil
}

// FindUserByLogin returns the user whose username or email equals login.
func (s *SQLite) FindUserByLogin(ctx context.Context, login string) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?1 OR email = ?1 ORDER BY id LIMIT 1`, login,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying user by login: %w", sqliteError(err))
	}
	return u, nil
}

// UsernameExists reports whether a user with this username exists.
func (s *SQLite) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking username: %w", err)
	}
	return count > 0, nil
}

// EmailExists reports whether a user with this email exists.
func (s *SQLite) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking email: %w", err)
	}
	return count > 0, nil
}

// InsertWorkout inserts a workout row and returns it with ID and timestamp set.
func (s *SQLite) InsertWorkout(ctx context.Context, w models.Workout) (*models.Workout, error) {
	w.Timestamp = s.now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO workouts (user_id, exercise, sets, reps, duration, completed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.UserID, w.Exercise, w.Sets, w.Reps, w.Duration, w.Completed, w.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("inserting workout: %w", sqliteError(err))
	}
	w.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading workout id: %w", err)
	}
	return &w, nil
}

// ListWorkouts returns a user's workouts, most recent first.
// A limit of zero or less returns all of them.
func (s *SQLite) ListWorkouts(ctx context.Context, userID int64, limit int) ([]models.Workout, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+workoutColumns+` FROM workouts
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	return scanWorkoutRows(rows)
}

// SetWorkoutCompleted marks one of the user's workouts as completed.
func (s *SQLite) SetWorkoutCompleted(ctx context.Context, userID, workoutID int64) (*models.Workout, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE workouts SET completed = 1 WHERE id = ? AND user_id = ?`, workoutID, userID)
	if err != nil {
		return nil, fmt.Errorf("completing workout: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("completing workout: %w", err)
	} else if n == 0 {
		return nil, fmt.Errorf("completing workout: %w", ErrNotFound)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE id = ? AND user_id = ?`, workoutID, userID)
	w, err := scanWorkout(row)
	if err != nil {
		return nil, fmt.Errorf("querying workout: %w", sqliteError(err))
	}
	return w, nil
}

// DeleteWorkout removes one of the user's workouts.
func (s *SQLite) DeleteWorkout(ctx context.Context, userID, workoutID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM workouts WHERE id = ? AND user_id = ?`, workoutID, userID)
	if err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("deleting workout: %w", ErrNotFound)
	}
	return nil
}
