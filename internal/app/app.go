// Package app wires configuration, storage, services, and transport into a
// running HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/libris-backend/internal/adapter/postgres"
	"github.com/heartmarshall/libris-backend/internal/adapter/postgres/book"
	"github.com/heartmarshall/libris-backend/internal/adapter/postgres/loan"
	"github.com/heartmarshall/libris-backend/internal/auth"
	"github.com/heartmarshall/libris-backend/internal/config"
	"github.com/heartmarshall/libris-backend/internal/service/catalog"
	"github.com/heartmarshall/libris-backend/internal/service/lending"
	"github.com/heartmarshall/libris-backend/internal/transport/middleware"
	"github.com/heartmarshall/libris-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, applies pending migrations, assembles the service and
// transport layers, and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	txManager := postgres.NewTxManager(pool)
	bookRepo := book.New(pool)
	loanRepo := loan.New(pool)

	catalogSvc := catalog.NewService(logger, bookRepo, cfg.Catalog)
	lendingSvc := lending.NewService(logger, bookRepo, loanRepo, txManager, cfg.Catalog)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	defer rateLimiter.Stop()

	router := rest.NewRouter(rest.RouterDeps{
		Logger:    logger,
		CORS:      cfg.CORS,
		Validator: jwtManager,
		Books:     rest.NewBookHandler(catalogSvc, logger),
		Loans:     rest.NewLoanHandler(lendingSvc, logger),
		Health:    rest.NewHealthHandler(pool, BuildVersion()),

		RateLimiter:        rateLimiter,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("stopped")
	return nil
}
