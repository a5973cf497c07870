package mcp

import (
	"context"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
)

const defaultWorkoutLimit = 20

var toolNextSuggestion = mcp.NewTool("next_suggestion",
	mcp.WithDescription("Suggest the next exercise based on the most recent workouts. Returns exercise, reason, and optional sets, reps, and duration (seconds)."),
)

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("List logged workouts, most recent first. Each workout has exercise, sets, reps, duration (seconds), completed, and timestamp."),
	mcp.WithString("limit", mcp.Description("Maximum number of workouts to return. Defaults to 20; 0 returns all.")),
)

func (h *handlers) nextSuggestion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	s, err := h.ds.LatestSuggestion(ctx, uid)
	if err != nil {
		h.log.Error("mcp next_suggestion", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(s)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := defaultWorkoutLimit
	if l := req.GetString("limit", ""); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 0 {
			return mcp.NewToolResultError("limit must be a non-negative integer"), nil
		}
		limit = parsed
	}
	uid := UserIDFromContext(ctx)

	workouts, err := h.ds.List(ctx, uid, limit)
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"workouts": workouts})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
