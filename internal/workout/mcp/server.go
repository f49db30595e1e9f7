// Package mcp exposes the workout state and analytics to AI coaching
// assistants over the Model Context Protocol. All tools are read-only;
// mutations stay behind the HTTP API.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/2beens/liftlog/internal/workout"
	"github.com/2beens/liftlog/internal/workout/progress"
	"github.com/2beens/liftlog/internal/workout/store"
)

// snapshotProvider is the session service surface the tools consume.
type snapshotProvider interface {
	Snapshot() workout.Snapshot
	Sessions(ctx context.Context, params store.SessionParams) ([]*workout.Session, error)
}

type NewServerParams struct {
	Service  snapshotProvider
	Analyzer *progress.Analyzer
	Records  store.Records
	Version  string
}

// NewServer builds the MCP server with all coaching tools registered. The
// caller picks the transport: stdio for the local assistant binary,
// streamable HTTP when mounted into the main router.
func NewServer(params NewServerParams) *server.MCPServer {
	s := server.NewMCPServer("liftlog", params.Version,
		server.WithToolCapabilities(false),
		server.WithInstructions("Personal workout log server. Read the live workout context, "+
			"progress analytics, personal records and session history of a single user."),
	)

	h := &handlers{
		service:  params.Service,
		analyzer: params.Analyzer,
		records:  params.Records,
	}

	s.AddTools(
		server.ServerTool{Tool: toolGetWorkoutContext, Handler: h.getWorkoutContext},
		server.ServerTool{Tool: toolGetProgressOverview, Handler: h.getProgressOverview},
		server.ServerTool{Tool: toolGetPersonalRecords, Handler: h.getPersonalRecords},
		server.ServerTool{Tool: toolGetSessions, Handler: h.getSessions},
	)

	return s
}

// handlers holds the tool dependencies.
type handlers struct {
	service  snapshotProvider
	analyzer *progress.Analyzer
	records  store.Records
}
