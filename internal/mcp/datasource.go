package mcp

import (
	"context"

	"github.com/meltforce/fitlog/internal/models"
	"github.com/meltforce/fitlog/internal/suggest"
	"github.com/meltforce/fitlog/internal/workout"
)

// DataSource abstracts the data layer for MCP tools. Both *workout.Service
// (local) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	List(ctx context.Context, userID int64, limit int) ([]models.Workout, error)
	LatestSuggestion(ctx context.Context, userID int64) (suggest.Suggestion, error)
}

// Compile-time check: *workout.Service satisfies DataSource.
var _ DataSource = (*workout.Service)(nil)
