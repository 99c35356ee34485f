package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dogenkigen/account-manager/internal/adapter/csvio"
	"github.com/dogenkigen/account-manager/internal/adapter/storage"
	"github.com/dogenkigen/account-manager/internal/core/config"
	"github.com/dogenkigen/account-manager/internal/core/engine"
	"github.com/dogenkigen/account-manager/internal/core/worker"
)

var Version = "dev"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "ledger <transactions.csv>",
		Short: "Replay a ledger event log and print final account balances",
		Long: `Replay deposits, withdrawals, disputes, resolves and chargebacks from a CSV
file and write the final state of every client account to stdout as CSV.

Examples:
  ledger transactions.csv > accounts.csv
  ledger --log-level debug transactions.csv`,
		Version:       Version,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg := config.LoadConfig()
			level := cfg.LogLevel
			if cmd.Flags().Changed("log-level") {
				level = config.ParseLevel(logLevel)
			}
			logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

			return run(args[0], stdout, cfg.FlushEvery, logger)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	return cmd
}

func run(path string, stdout io.Writer, flushEvery int, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	src, err := csvio.NewReader(bufio.NewReader(f))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	store := storage.NewLedgerStore()
	if _, err := worker.Replay(src, engine.New(store), logger); err != nil {
		return err
	}

	if err := csvio.NewWriter(stdout, flushEvery).WriteAll(store.Accounts()); err != nil {
		return fmt.Errorf("failed to write accounts: %w", err)
	}
	return nil
}
