package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"review_analyzer/internal/adapters/dataset"
	"review_analyzer/internal/adapters/observability"
	"review_analyzer/internal/app"
	"review_analyzer/internal/shared"
	mysqlrepo "review_analyzer/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	zerolog.DefaultContextLogger = &log.Logger

	path := cfg.DatasetPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	log.Info().
		Str("dataset", path).
		Int("workers", cfg.Workers).
		Int("batch_size", cfg.BatchSize).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	ing := app.NewIngestionService(dataset.NewSource(path), mysqlrepo.New(db), cfg.Workers, cfg.BatchSize)
	n, err := ing.Ingest(ctx)
	if err != nil {
		log.Error().Err(err).Int("rows", n).Msg("ingestion finished with errors")
		os.Exit(1)
	}
	log.Info().Int("rows", n).Msg("ingestion completed")
}
