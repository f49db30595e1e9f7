// Package main runs the liftlog MCP server over stdio (for local assistant
// use). The same MCP server is also mounted on the main backend at /mcp over
// HTTP, so you can use either: stdio (this cmd) or the backend URL. Note that
// this process has no live workout session of its own, the workout context
// tool only shows one when talking to the backend mount.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/2beens/liftlog/internal/catalog"
	"github.com/2beens/liftlog/internal/config"
	"github.com/2beens/liftlog/internal/db"
	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/workout"
	workoutmcp "github.com/2beens/liftlog/internal/workout/mcp"
	"github.com/2beens/liftlog/internal/workout/progress"
	"github.com/2beens/liftlog/internal/workout/records"
	"github.com/2beens/liftlog/internal/workout/session"
	"github.com/2beens/liftlog/internal/workout/store"
	"github.com/2beens/liftlog/internal/workout/timer"

	"github.com/mark3labs/mcp-go/server"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	sessionsStore := store.NewPostgresSessions(dbPool)
	recordsStore := store.NewPostgresRecords(dbPool)

	workoutService := session.NewService(session.NewServiceParams{
		Sessions: sessionsStore,
		Records:  recordsStore,
		Detector: records.NewDetector(recordsStore),
		Catalog:  catalog.New(),
		Timer:    timer.New(),
		Prefs: workout.Preferences{
			DefaultRestTimeSeconds: cfg.DefaultRestTimeSeconds,
			WeightUnit:             workout.WeightUnit(cfg.WeightUnit),
			AutoStartRestTimer:     cfg.AutoStartRestTimer,
		},
		Metrics: metrics.NewManager("liftlog", "mcp", prometheus.NewRegistry()),
	})
	defer workoutService.Close()

	mcpServer := workoutmcp.NewServer(workoutmcp.NewServerParams{
		Service:  workoutService,
		Analyzer: progress.NewAnalyzer(sessionsStore, recordsStore),
		Records:  recordsStore,
		Version:  "stdio",
	})

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatal(err)
	}
}
