package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/meltforce/fitlog/internal/auth"
	"github.com/meltforce/fitlog/internal/models"
	"github.com/meltforce/fitlog/internal/workout"
)

// HTTPStatus returns the HTTP status code for a service error.
func HTTPStatus(err error) int {
	var (
		validation   *models.ValidationError
		userTaken    *auth.ErrUsernameTaken
		emailTaken   *auth.ErrEmailTaken
		badLogin     *auth.ErrInvalidCredentials
		unauthorized *auth.ErrUnauthorized
		noUser       *auth.ErrUserNotFound
		noWorkout    *workout.ErrNotFound
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &userTaken), errors.As(err, &emailTaken):
		return http.StatusBadRequest
	case errors.As(err, &badLogin), errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &noUser), errors.As(err, &noWorkout):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as {"error": ...}. Internal errors are logged and
// replaced with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, status, map[string]string{"error": "Internal server error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
