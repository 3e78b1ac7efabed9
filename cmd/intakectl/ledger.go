package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/db"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/ledger"
)

func newLedgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect and maintain the processing ledger",
	}
	cmd.AddCommand(
		newLedgerGetCmd(),
		newLedgerAttemptsCmd(),
		newLedgerPruneCmd(),
	)
	return cmd
}

func openLedger() (*ledger.GormLedger, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	conn, err := db.Init(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return ledger.NewGormLedger(conn, ledger.WithRetryPolicy(cfg.Database.TxRetries, cfg.Database.TxRetryBackoff)), closeFn, nil
}

func newLedgerGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <message-id>",
		Short: "Show the ledger record for a message id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, closeFn, err := openLedger()
			if err != nil {
				return err
			}
			defer closeFn()

			record, err := l.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), record)
		},
	}
}

func newLedgerAttemptsCmd() *cobra.Command {
	var filter ledger.AttemptFilter
	cmd := &cobra.Command{
		Use:   "attempts",
		Short: "List recorded processing attempts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, closeFn, err := openLedger()
			if err != nil {
				return err
			}
			defer closeFn()

			entries, total, err := l.ListAttempts(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"attempts": entries,
				"total":    total,
			})
		},
	}
	cmd.Flags().StringVar(&filter.MessageID, "message-id", "", "Only attempts for this message id")
	cmd.Flags().StringVar(&filter.Outcome, "outcome", "", "Only attempts with this outcome")
	cmd.Flags().IntVar(&filter.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&filter.Limit, "limit", 50, "Entries per page (max 100)")
	return cmd
}

func newLedgerPruneCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete processed records older than the given number of days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}
			l, closeFn, err := openLedger()
			if err != nil {
				return err
			}
			defer closeFn()

			cutoff := time.Now().AddDate(0, 0, -days)
			removed, err := l.PruneProcessed(cmd.Context(), cutoff)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d processed records older than %s\n", removed, cutoff.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "Retention window in days")
	return cmd
}
