// Package main is the entry point for the reading log API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without a zoneinfo database

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/pkordes/readinglog/internal/config"
	"github.com/pkordes/readinglog/internal/handler"
	"github.com/pkordes/readinglog/internal/middleware"
	"github.com/pkordes/readinglog/internal/repo"
	"github.com/pkordes/readinglog/internal/repo/memstore"
	"github.com/pkordes/readinglog/internal/service"
	"github.com/pkordes/readinglog/internal/telemetry"
	"github.com/pkordes/readinglog/migrations"
	"github.com/pkordes/readinglog/spec"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// stores bundles the three repos so main can switch backends in one place.
type stores struct {
	books repo.BookRepo
	logs  repo.ReadingLogRepo
	goals repo.GoalRepo
	close func()
}

func main() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env file", "error", err)
	}

	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Default text logger; the JSON logger needs the config first.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Telemetry --------------------------------------------------------
	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, version)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}

	// --- Storage ----------------------------------------------------------
	st, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "store", cfg.Store, "error", err)
		os.Exit(1)
	}
	defer st.close()

	// --- Services ---------------------------------------------------------
	clock := service.SystemClock(cfg.Location)
	srv := handler.NewServer(
		service.NewBookService(st.books, clock),
		service.NewReadingLogService(st.books, st.logs, clock),
		service.NewGoalService(st.goals, st.books, st.logs, clock),
		service.NewExportService(st.books, st.logs),
	).WithOpenAPI(spec.OpenAPI)

	// --- Router -----------------------------------------------------------
	// Order: RequestID → RealIP → logger → Recoverer → CORS → rate limit → body limit.
	// Recoverer sits inside the logger so a panic is still logged as a 500.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr, "store", cfg.Store,
			"timezone", cfg.Location.String(), "version", version)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("tracing shutdown error", "error", err)
	}
	slog.Info("server stopped")
}

// openStores returns the repos for the configured backend. For Postgres it
// verifies connectivity and applies migrations when MigrateOnStart is set.
func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	if cfg.Store == config.StoreMemory {
		slog.Warn("using in-memory store; data is lost on exit")
		m := memstore.New()
		return stores{books: m.Books(), logs: m.ReadingLogs(), goals: m.Goals(), close: func() {}}, nil
	}

	// pgxpool.New does not open connections immediately; the ping does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return stores{}, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return stores{}, fmt.Errorf("connect: %w", err)
	}
	slog.Info("database connection established")

	if cfg.MigrateOnStart {
		// goose needs database/sql. This handle keeps no idle connections of
		// its own; the pool owns them and is closed with the stores.
		if err := migrations.Up(ctx, stdlib.OpenDBFromPool(pool)); err != nil {
			pool.Close()
			return stores{}, err
		}
	}

	return stores{
		books: repo.NewBookRepo(pool),
		logs:  repo.NewReadingLogRepo(pool),
		goals: repo.NewGoalRepo(pool),
		close: pool.Close,
	}, nil
}
