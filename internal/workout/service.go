// Package workout implements logging workouts and suggesting the next one.
package workout

import (
	"context"
	"errors"
	"log/slog"

	"github.com/meltforce/fitlog/internal/models"
	"github.com/meltforce/fitlog/internal/storage"
	"github.com/meltforce/fitlog/internal/suggest"
)

// Store is the workout persistence the service needs.
type Store interface {
	InsertWorkout(ctx context.Context, w models.Workout) (*models.Workout, error)
	ListWorkouts(ctx context.Context, userID int64, limit int) ([]models.Workout, error)
	SetWorkoutCompleted(ctx context.Context, userID, workoutID int64) (*models.Workout, error)
	DeleteWorkout(ctx context.Context, userID, workoutID int64) error
}

var (
	_ Store = (*storage.DB)(nil)
	_ Store = (*storage.SQLite)(nil)
)

// Suggester resolves the next exercise. It must not fail.
type Suggester interface {
	Resolve(ctx context.Context, lastExercise string, history []suggest.HistoryEntry) suggest.Suggestion
}

var _ Suggester = (*suggest.Resolver)(nil)

// ErrNotFound indicates the workout does not exist or belongs to another user.
type ErrNotFound struct {
	ID int64
}

func (e *ErrNotFound) Error() string {
	return "Workout not found"
}

// Created is a newly logged workout and the suggestion that follows it.
type Created struct {
	Workout    *models.Workout    `json:"workout"`
	Suggestion suggest.Suggestion `json:"suggestion"`
}

type Service struct {
	store     Store
	suggester Suggester
	log       *slog.Logger
}

func NewService(store Store, suggester Suggester, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, suggester: suggester, log: log}
}

// Create validates and stores a workout, then resolves the next suggestion from
// the user's most recent workouts (the new one included).
func (s *Service) Create(ctx context.Context, userID int64, req models.CreateWorkoutRequest) (*Created, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	w, err := s.store.InsertWorkout(ctx, req.Workout(userID))
	if err != nil {
		return nil, err
	}

	recent, err := s.store.ListWorkouts(ctx, userID, suggest.HistoryLimit)
	if err != nil {
		return nil, err
	}

	sug := s.suggester.Resolve(ctx, w.Exercise, History(recent))
	s.log.Info("workout logged", "user_id", userID, "workout_id", w.ID,
		"exercise", w.Exercise, "next", sug.Exercise)

	return &Created{Workout: w, Suggestion: sug}, nil
}

// List returns the user's workouts, most recent first. A limit of zero or
// less returns all of them.
func (s *Service) List(ctx context.Context, userID int64, limit int) ([]models.Workout, error) {
	return s.store.ListWorkouts(ctx, userID, limit)
}

// Complete marks a workout as done.
func (s *Service) Complete(ctx context.Context, userID, workoutID int64) (*models.Workout, error) {
	w, err := s.store.SetWorkoutCompleted(ctx, userID, workoutID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &ErrNotFound{ID: workoutID}
	}
	return w, err
}

// Delete removes a workout.
func (s *Service) Delete(ctx context.Context, userID, workoutID int64) error {
	err := s.store.DeleteWorkout(ctx, userID, workoutID)
	if errors.Is(err, storage.ErrNotFound) {
		return &ErrNotFound{ID: workoutID}
	}
	return err
}

// LatestSuggestion suggests the next exercise without logging anything.
// Users with no workouts get the starter suggestion.
func (s *Service) LatestSuggestion(ctx context.Context, userID int64) (suggest.Suggestion, error) {
	recent, err := s.store.ListWorkouts(ctx, userID, suggest.HistoryLimit)
	if err != nil {
		return suggest.Suggestion{}, err
	}
	if len(recent) == 0 {
		return suggest.Starter(), nil
	}
	return s.suggester.Resolve(ctx, recent[0].Exercise, History(recent)), nil
}

// History converts stored workouts into resolver input, preserving order.
// The result is never nil.
func History(ws []models.Workout) []suggest.HistoryEntry {
	out := make([]suggest.HistoryEntry, 0, len(ws))
	for _, w := range ws {
		out = append(out, suggest.HistoryEntry{
			Exercise:  w.Exercise,
			Sets:      w.Sets,
			Reps:      w.Reps,
			Duration:  w.Duration,
			Completed: w.Completed,
			Timestamp: w.Timestamp,
		})
	}
	return out
}
