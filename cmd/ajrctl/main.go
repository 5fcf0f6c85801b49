package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ajr-erp/ajr/cmd/ajrctl/cli"
	"github.com/ajr-erp/ajr/internal/app"
	"github.com/ajr-erp/ajr/internal/platform/cache"
	"github.com/ajr-erp/ajr/internal/platform/db"
)

type exitError int

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "ajrctl",
		Short: "Operator tooling for the AJR ledger",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(importChartCmd(), integrityCmd(), enqueueCmd(), queueCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if code, ok := err.(exitError); ok {
			os.Exit(int(code))
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withLedger loads config, opens the database and builds the services.
func withLedger(ctx context.Context, fn func(*app.Ledger) int) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg)
	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("continuing without cache", slog.Any("error", err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	if code := fn(app.NewLedger(cfg, pool, redisClient, logger, nil)); code != 0 {
		return exitError(code)
	}
	return nil
}

func importChartCmd() *cobra.Command {
	var opts cli.ImportOptions
	cmd := &cobra.Command{
		Use:   "import-chart <file>",
		Short: "Import a chart of accounts from a trial-balance listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			opts.Stdout = cmd.OutOrStdout()
			opts.Stderr = cmd.ErrOrStderr()
			if opts.DryRun {
				if code := cli.NewLedgerOpsCLI(nil, nil).ImportCommand(cmd.Context(), opts); code != 0 {
					return exitError(code)
				}
				return nil
			}
			return withLedger(cmd.Context(), func(l *app.Ledger) int {
				return cli.NewLedgerOpsCLI(l.Importer, nil).ImportCommand(cmd.Context(), opts)
			})
		},
	}
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "parse only, write nothing")
	cmd.Flags().BoolVar(&opts.JSONOutput, "json", false, "print the import report as JSON")
	return cmd
}

func integrityCmd() *cobra.Command {
	var opts cli.IntegrityOptions
	cmd := &cobra.Command{
		Use:   "integrity",
		Short: "Recompute every entry's totals and report violations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Stdout = cmd.OutOrStdout()
			opts.Stderr = cmd.ErrOrStderr()
			return withLedger(cmd.Context(), func(l *app.Ledger) int {
				return cli.NewLedgerOpsCLI(nil, l.Entries).IntegrityCommand(cmd.Context(), opts)
			})
		},
	}
	cmd.Flags().BoolVar(&opts.JSONOutput, "json", false, "print the summary as JSON")
	return cmd
}

func jobsClient() (*cli.JobsCLI, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, err
	}
	return cli.NewJobsCLI(cfg.RedisAddr)
}

func enqueueCmd() *cobra.Command {
	var prefixes []string
	cmd := &cobra.Command{
		Use:       "enqueue <ledger:integrity|ledger:balance_warmup>",
		Short:     "Enqueue a background job",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"ledger:integrity", "ledger:balance_warmup"},
		RunE: func(cmd *cobra.Command, args []string) error {
			jobsCLI, err := jobsClient()
			if err != nil {
				return err
			}
			defer jobsCLI.Close()
			info, err := jobsCLI.Trigger(cmd.Context(), args[0], prefixes)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&prefixes, "prefix", nil, "subtree prefixes to warm (balance_warmup only)")
	return cmd
}

func queueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "Show default queue statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobsCLI, err := jobsClient()
			if err != nil {
				return err
			}
			defer jobsCLI.Close()
			stats, err := jobsCLI.InspectQueue(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s pending=%d active=%d scheduled=%d retry=%d\n",
				stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry)
			scheduled, err := jobsCLI.ListScheduled(cmd.Context(), 10)
			if err != nil {
				return err
			}
			for _, t := range scheduled {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s %s at %s\n", t.ID, t.Type, t.NextProcessAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}
