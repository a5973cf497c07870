package mcp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
// Returns 0 when unset, which matches no user.
func UserIDFromContext(ctx context.Context) int64 {
	if id, ok := ctx.Value(userIDKey).(int64); ok {
		return id
	}
	return 0
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("FitLog", version,
		server.WithToolCapabilities(false),
		server.WithInstructions("FitLog workout log. Look up recent workouts and get the next suggested exercise. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolNextSuggestion, Handler: h.nextSuggestion},
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
	)

	return s
}

// NewHTTPHandler serves s over streamable HTTP. userID reads the caller's
// identity from the request, as set by the router's auth middleware.
func NewHTTPHandler(s *server.MCPServer, userID func(context.Context) (int64, bool)) http.Handler {
	return server.NewStreamableHTTPServer(s,
		server.WithStateLess(true),
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			if id, ok := userID(r.Context()); ok {
				return WithUserID(ctx, id)
			}
			return ctx
		}),
	)
}

// handlers holds dependencies for MCP tool handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}
