package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/fitlog/internal/auth"
	"github.com/meltforce/fitlog/internal/workout"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	auth     *auth.Service
	workouts *workout.Service
	log      *slog.Logger
	origins  []string
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(authSvc *auth.Service, workouts *workout.Service, corsOrigins []string, log *slog.Logger) *Server {
	s := &Server{
		auth:     authSvc,
		workouts: workouts,
		log:      log,
		origins:  corsOrigins,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS(s.origins))

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Endpoint not found"})
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	})

	s.router.Get("/api/health", s.handleHealth)

	s.router.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(JWTAuth(s.auth, s.log))
			r.Post("/logout", s.handleLogout)
			r.Get("/me", s.handleMe)
		})
	})

	s.router.Route("/api/workouts", func(r chi.Router) {
		r.Use(JWTAuth(s.auth, s.log))
		r.Post("/", s.handleCreateWorkout)
		r.Get("/", s.handleListWorkouts)
		r.Get("/suggestion", s.handleLatestSuggestion)
		r.Put("/{id}/complete", s.handleCompleteWorkout)
		r.Delete("/{id}", s.handleDeleteWorkout)
	})
}

// SetMCP mounts an MCP endpoint at /api/mcp behind bearer authentication.
func (s *Server) SetMCP(h http.Handler) {
	s.router.With(JWTAuth(s.auth, s.log)).Handle("/api/mcp", h)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "FitLog API is running",
	})
}
