package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/relief-supply/internal/config"
	"github.com/msomdec/relief-supply/internal/domain"
	"github.com/msomdec/relief-supply/internal/handler"
	"github.com/msomdec/relief-supply/internal/repository/postgres"
	"github.com/msomdec/relief-supply/internal/repository/sqlite"
	"github.com/msomdec/relief-supply/internal/service"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	db, err := openDatabase(context.Background(), cfg.Database)
	if err != nil {
		slog.Error("failed to open database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied", "driver", cfg.Database.Driver)

	tokens := service.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(db.Users(), tokens, cfg.Auth.BcryptCost)
	supplyService := service.NewResourceService(domain.CollectionSupply, db.Collection(domain.CollectionSupply))
	goodsService := service.NewResourceService(domain.CollectionGoods, db.Collection(domain.CollectionGoods))

	deps := handler.Deps{
		Auth:        authService,
		Supply:      supplyService,
		Goods:       goodsService,
		DB:          db,
		RequireAuth: cfg.Auth.RequireAuth,
	}
	if n := cfg.HTTP.LoginRateLimitPerMin; n > 0 {
		limiter := service.NewPerMinute(n)
		defer limiter.Stop()
		deps.LoginLimiter = limiter
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.Chain(mux, cfg.HTTP.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "require_auth", cfg.Auth.RequireAuth)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func openDatabase(ctx context.Context, cfg config.Database) (domain.Database, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.New(cfg.DSN)
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
