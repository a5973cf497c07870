package models

import "time"

// Workout is a logged exercise. Duration is in seconds.
type Workout struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Exercise  string    `json:"exercise"`
	Sets      int       `json:"sets"`
	Reps      int       `json:"reps"`
	Duration  int       `json:"duration"`
	Completed bool      `json:"completed"`
	Timestamp time.Time `json:"timestamp"`
}

// CreateWorkoutRequest is the body of POST /api/workouts.
// Omitted sets default to 1, omitted reps and duration to 0. Numbers must fit
// a 32-bit INTEGER column.
type CreateWorkoutRequest struct {
	Exercise string `json:"exercise" validate:"required,max=100"`
	Sets     *int   `json:"sets" validate:"omitempty,min=0,max=2147483647"`
	Reps     *int   `json:"reps" validate:"omitempty,min=0,max=2147483647"`
	Duration *int   `json:"duration" validate:"omitempty,min=0,max=2147483647"`
}

// Workout builds the row to insert, applying defaults.
func (r CreateWorkoutRequest) Workout(userID int64) Workout {
	w := Workout{UserID: userID, Exercise: r.Exercise, Sets: 1}
	if r.Sets != nil {
		w.Sets = *r.Sets
	}
	if r.Reps != nil {
		w.Reps = *r.Reps
	}
	if r.Duration != nil {
		w.Duration = *r.Duration
	}
	return w
}
