package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Veraticus/salesflow/internal/pipeline"
	"github.com/Veraticus/salesflow/internal/tui"
	"github.com/Veraticus/salesflow/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Browse sales analytics interactively",
		Long: `Analyze a sales log and explore the results in a terminal table browser.

Nothing is written to disk, the product catalog is not consulted and the run
is not recorded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBrowse,
	}

	cmd.Flags().String("region", "", "Keep only transactions from this region")
	cmd.Flags().Float64("min-amount", 0, "Keep only transactions with amount at or above this value")
	cmd.Flags().Float64("max-amount", 0, "Keep only transactions with amount at or below this value")
	cmd.Flags().String("theme", "default", "Color theme (default, mocha)")

	_ = viper.BindPFlag("tui.theme", cmd.Flags().Lookup("theme"))

	return cmd
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if err := applyFilterFlags(cmd); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := inputPath(cfg, args)

	opts, err := pipelineOptions(cfg)
	if err != nil {
		return err
	}

	result, err := pipeline.New(opts, nil, nil, slog.Default()).Run(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	browser := tui.NewBrowser(result.Report,
		tui.WithTitle(fmt.Sprintf("Sales Analytics: %s", filepath.Base(path))),
		tui.WithCurrency(cfg.Report.Currency),
		tui.WithTheme(themes.ByName(viper.GetString("tui.theme"))),
	)
	return tui.Run(cmd.Context(), browser)
}
