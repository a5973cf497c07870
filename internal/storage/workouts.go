package storage

import (
	"context"
	"fmt"

	"github.com/meltforce/fitlog/internal/models"
)

const workoutColumns = `id, user_id, exercise, sets, reps, duration, completed, created_at`

// InsertWorkout inserts a workout row and returns it with ID and timestamp set.
func (db *DB) InsertWorkout(ctx context.Context, w models.Workout) (*models.Workout, error) {
	row := db.Pool.QueryRow(ctx, `
		INSERT INTO workouts (user_id, exercise, sets, reps, duration, completed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+workoutColumns,
		w.UserID, w.Exercise, w.Sets, w.Reps, w.Duration, w.Completed)

	out, err := scanWorkout(row)
	if err != nil {
		return nil, fmt.Errorf("inserting workout: %w", pgError(err))
	}
	return out, nil
}

// ListWorkouts returns a user's workouts, most recent first.
// A limit of zero or less returns all of them.
func (db *DB) ListWorkouts(ctx context.Context, userID int64, limit int) ([]models.Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	return scanWorkoutRows(rows)
}

// SetWorkoutCompleted marks one of the user's workouts as completed.
func (db *DB) SetWorkoutCompleted(ctx context.Context, userID, workoutID int64) (*models.Workout, error) {
	row := db.Pool.QueryRow(ctx, `
		UPDATE workouts SET completed = TRUE
		WHERE id = $1 AND user_id = $2
		RETURNING `+workoutColumns,
		workoutID, userID)

	out, err := scanWorkout(row)
	if err != nil {
		return nil, fmt.Errorf("completing workout: %w", pgError(err))
	}
	return out, nil
}

// DeleteWorkout removes one of the user's workouts.
func (db *DB) DeleteWorkout(ctx context.Context, userID, workoutID int64) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM workouts WHERE id = $1 AND user_id = $2`, workoutID, userID)
	if err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deleting workout: %w", ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkout(row rowScanner) (*models.Workout, error) {
	var w models.Workout
	if err := row.Scan(&w.ID, &w.UserID, &w.Exercise, &w.Sets, &w.Reps, &w.Duration,
		&w.Completed, &w.Timestamp); err != nil {
		return nil, err
	}
	return &w, nil
}

func scanWorkoutRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]models.Workout, error) {
	result := []models.Workout{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, *w)
	}
	return result, rows.Err()
}
