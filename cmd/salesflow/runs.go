package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/salesflow/internal/cli"
	"github.com/Veraticus/salesflow/internal/common"
	"github.com/Veraticus/salesflow/internal/model"
	"github.com/Veraticus/salesflow/internal/storage"
	"github.com/spf13/cobra"
)

// Prefix lookups scan at most this many recent runs.
const runPrefixScan = 500

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded analysis runs",
		Long:  `List previous analyze runs and show their counters.`,
		Example: `  # Show the latest runs
  salesflow runs list

  # Show one run by ID or ID prefix
  salesflow runs show 3f2a9c1e`,
	}

	cmd.AddCommand(listRunsCmd())
	cmd.AddCommand(showRunCmd())

	return cmd
}

func listRunsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.ListRuns(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderRunsTable(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", storage.DefaultRunLimit, "Maximum number of runs to show")

	return cmd
}

func showRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			run, err := findRun(cmd, store, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderRunDetail(run, cfg.Report.Currency))
			return nil
		},
	}
}

// findRun resolves a full run ID, or a prefix matching exactly one run.
func findRun(cmd *cobra.Command, store *storage.SQLiteStorage, id string) (*model.RunRecord, error) {
	ctx := cmd.Context()

	run, err := store.GetRun(ctx, id)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	runs, err := store.ListRuns(ctx, runPrefixScan)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	var matches []model.RunRecord
	for _, r := range runs {
		if strings.HasPrefix(r.ID, id) {
			matches = append(matches, r)
		}
	}

	switch len(matches) {
	case 0:
		return nil, common.NewUserError(fmt.Sprintf("no run matches %q", id), common.ErrNotFound)
	case 1:
		return &matches[0], nil
	default:
		return nil, common.NewUserError(fmt.Sprintf("%q matches %d runs, use a longer prefix", id, len(matches)), nil)
	}
}
