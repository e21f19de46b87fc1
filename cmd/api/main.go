package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"review_analyzer/internal/adapters/dataset"
	server "review_analyzer/internal/adapters/http_server"
	"review_analyzer/internal/adapters/memcache"
	"review_analyzer/internal/adapters/observability"
	redisad "review_analyzer/internal/adapters/redis"
	"review_analyzer/internal/app"
	"review_analyzer/internal/domain"
	"review_analyzer/internal/sentiment"
	"review_analyzer/internal/shared"
	"review_analyzer/internal/storage/memory"
	mysqlrepo "review_analyzer/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	zerolog.DefaultContextLogger = &log.Logger

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed, err := loadSeed(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("seed_source", cfg.SeedSource).Msg("seed load failed")
	}
	store := memory.New(seed)
	log.Info().Int("reviews", store.Len()).Str("seed_source", cfg.SeedSource).Msg("store seeded")

	cache, closeCache := newCache(ctx, cfg)
	defer closeCache()

	clock := clockwork.NewRealClock()
	allow := domain.NewAllowlist(domain.DefaultLocations)
	scorer := app.NewCachedScorer(sentiment.NewAnalyzer(), cache, cfg.CacheTTL)

	srv := server.New(cfg.RequestTimeout)
	srv.MountHandlers(&server.Handlers{
		Q:            app.NewQueryService(store, scorer, allow),
		C:            app.NewSubmitService(store, allow, clock),
		MaxBodyBytes: cfg.MaxBodyBytes,
		WriteRPS:     cfg.WriteRPS,
		WriteBurst:   cfg.WriteBurst,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func loadSeed(ctx context.Context, cfg shared.Config) ([]domain.Review, error) {
	switch cfg.SeedSource {
	case shared.SeedNone:
		return nil, nil
	case shared.SeedMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return nil, err
		}
		log.Info().Msg("database connection ok")
		return mysqlrepo.New(db).LoadReviews(ctx)
	default:
		return dataset.NewSource(cfg.DatasetPath).LoadReviews(ctx)
	}
}

// newCache returns the score cache: Redis when configured, otherwise an
// in-process map. A zero TTL disables caching.
func newCache(ctx context.Context, cfg shared.Config) (domain.Cache, func()) {
	if cfg.CacheTTL <= 0 {
		return nil, func() {}
	}
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; using in-process cache")
			_ = rc.Close()
		} else {
			log.Info().Str("addr", cfg.RedisAddr).Msg("redis cache ok")
			return rc, func() { _ = rc.Close() }
		}
	}
	mc := memcache.New(clockwork.NewRealClock())
	return mc, mc.StartEvictionTimer(time.Minute)
}
