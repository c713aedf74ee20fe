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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/fluxo/internal/auth"
	authStore "github.com/MrJamesThe3rd/fluxo/internal/auth/store"
	"github.com/MrJamesThe3rd/fluxo/internal/config"
	"github.com/MrJamesThe3rd/fluxo/internal/database"
	fluxoHttp "github.com/MrJamesThe3rd/fluxo/internal/http"
	authHandler "github.com/MrJamesThe3rd/fluxo/internal/http/auth"
	importHandler "github.com/MrJamesThe3rd/fluxo/internal/http/importcsv"
	reportHandler "github.com/MrJamesThe3rd/fluxo/internal/http/report"
	txHandler "github.com/MrJamesThe3rd/fluxo/internal/http/transaction"
	"github.com/MrJamesThe3rd/fluxo/internal/importer"
	"github.com/MrJamesThe3rd/fluxo/internal/money"
	"github.com/MrJamesThe3rd/fluxo/internal/transaction"
	txStore "github.com/MrJamesThe3rd/fluxo/internal/transaction/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})))

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	format, err := money.NewFormatter(cfg.Locale.Tag, cfg.Locale.Symbol)
	if err != nil {
		slog.Error("failed to build currency formatter", "error", err)
		os.Exit(1)
	}

	var (
		authService        = auth.NewService(authStore.New(db), cfg.Auth.Secret, cfg.Auth.TokenTTL)
		transactionService = transaction.NewService(txStore.New(db))
		importService      = importer.NewService(transactionService)
	)

	router := fluxoHttp.New(cfg.App.AllowedOrigins, authService, fluxoHttp.Handlers{
		Auth:         authHandler.NewHandler(authService),
		Transactions: txHandler.NewHandler(transactionService),
		Reports:      reportHandler.NewHandler(transactionService, format),
		Import:       importHandler.NewHandler(importService),
	})

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.App.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.Timeout,
		WriteTimeout:   cfg.Server.Timeout,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
