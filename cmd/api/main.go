package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dogenkigen/account-manager/internal/adapter/handler"
	"github.com/dogenkigen/account-manager/internal/adapter/storage"
	"github.com/dogenkigen/account-manager/internal/core/config"
	"github.com/dogenkigen/account-manager/internal/core/domain"
	"github.com/dogenkigen/account-manager/internal/core/engine"
)

func main() {
	cfg := config.LoadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ledger := engine.NewSerialized(storage.NewLedgerStore())
	app := handler.NewApp(ledger)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "env", cfg.Env, "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("Server forced to shutdown", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutting down server...")

	// Stop taking events before the final snapshot is read.
	if err := app.Shutdown(); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}

	if cfg.DatabaseURL != "" {
		if err := exportSnapshot(cfg.DatabaseURL, ledger.Accounts()); err != nil {
			slog.Error("Snapshot export failed", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server exited", "outcomes", ledger.Stats())
}

func exportSnapshot(databaseURL string, accounts []domain.Account) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := storage.ConnectDB(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := storage.NewSnapshotRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := repo.SaveAccounts(ctx, accounts); err != nil {
		return err
	}

	slog.Info("Snapshot exported", "accounts", len(accounts))
	return nil
}
