package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/liftlog/internal/workout"
	"github.com/2beens/liftlog/internal/workout/store"
)

// --- Tool definitions ---

var toolGetWorkoutContext = mcp.NewTool("get_workout_context",
	mcp.WithDescription("Get the current workout context: active session with all logged sets, "+
		"current exercise, rest timer state and user preferences. Empty active session means no workout is running."),
)

var toolGetProgressOverview = mcp.NewTool("get_progress_overview",
	mcp.WithDescription("Get the full progress analytics: strength development per exercise, "+
		"per-session volume trend, training frequency/consistency and performance metrics."),
)

var toolGetPersonalRecords = mcp.NewTool("get_personal_records",
	mcp.WithDescription("List personal records, chronologically. Optionally filtered by exercise and record type."),
	mcp.WithString("exercise_id", mcp.Description("Filter by exercise id (e.g. 'bench-press')")),
	mcp.WithString("type", mcp.Description("Filter by record type"),
		mcp.Enum("max_weight", "max_reps", "max_session_volume")),
)

var toolGetSessions = mcp.NewTool("get_sessions_for_time_range",
	mcp.WithDescription("List workout sessions started within the given date range, oldest first."),
	mcp.WithString("from", mcp.Description("Start date (YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("to", mcp.Description("End date (YYYY-MM-DD), inclusive. Defaults to today.")),
)

// --- Tool handlers ---

func (h *handlers) getWorkoutContext(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snapshot := h.service.Snapshot()
	result, err := mcp.NewToolResultJSON(snapshot)
	if err != nil {
		return mcp.NewToolResultError("marshal workout context: " + err.Error()), nil
	}
	return result, nil
}

func (h *handlers) getProgressOverview(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	overview, err := h.analyzer.Overview(ctx)
	if err != nil {
		log.Errorf("mcp get_progress_overview: %s", err)
		return mcp.NewToolResultError("analytics failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(overview)
	if err != nil {
		return mcp.NewToolResultError("marshal overview: " + err.Error()), nil
	}
	return result, nil
}

func (h *handlers) getPersonalRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := store.RecordParams{
		ExerciseID: req.GetString("exercise_id", ""),
	}
	if typeParam := req.GetString("type", ""); typeParam != "" {
		recType := workout.RecordType(typeParam)
		if !recType.IsValid() {
			return mcp.NewToolResultError("invalid record type: " + typeParam), nil
		}
		params.Type = &recType
	}

	recs, err := h.records.List(ctx, params)
	if err != nil {
		log.Errorf("mcp get_personal_records: %s", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(recs)
	if err != nil {
		return mcp.NewToolResultError("marshal records: " + err.Error()), nil
	}
	return result, nil
}

func (h *handlers) getSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, to, err := timeRange(req.GetString("from", ""), req.GetString("to", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date: " + err.Error()), nil
	}

	sessions, err := h.service.Sessions(ctx, store.SessionParams{From: &from, To: &to})
	if err != nil {
		log.Errorf("mcp get_sessions_for_time_range: %s", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("marshal sessions: " + err.Error()), nil
	}
	return result, nil
}

// timeRange resolves the from/to bounds, defaulting to the last 30 days.
// The upper bound is stretched to cover the whole named day.
func timeRange(fromStr, toStr string) (time.Time, time.Time, error) {
	to := time.Now()
	if toStr != "" {
		parsed, err := time.Parse(time.DateOnly, toStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("to: %w", err)
		}
		to = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	from := to.AddDate(0, 0, -30)
	if fromStr != "" {
		parsed, err := time.Parse(time.DateOnly, fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("from: %w", err)
		}
		from = parsed
	}

	return from, to, nil
}
