package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Veraticus/salesflow/internal/cli"
	"github.com/Veraticus/salesflow/internal/common"
	"github.com/Veraticus/salesflow/internal/config"
	"github.com/Veraticus/salesflow/internal/pipeline"
	"github.com/Veraticus/salesflow/internal/report"
	"github.com/Veraticus/salesflow/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a sales log and write reports",
		Long: `Read a pipe-delimited sales log, clean and validate it, compute revenue
analytics, enrich transactions from the product catalog and write the
text report and enriched data file.

The file defaults to input.path (data/sales_data.txt).`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	// Flags
	cmd.Flags().String("region", "", "Keep only transactions from this region")
	cmd.Flags().Float64("min-amount", 0, "Keep only transactions with amount at or above this value")
	cmd.Flags().Float64("max-amount", 0, "Keep only transactions with amount at or below this value")
	cmd.Flags().StringP("output-dir", "o", "", "Directory for report files")
	cmd.Flags().String("xlsx", "", "Also write an Excel workbook with this file name")
	cmd.Flags().Bool("sheets", false, "Also export the analytics to Google Sheets")
	cmd.Flags().Bool("offline", false, "Use only the cached product catalog")
	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")

	// Bind to viper
	_ = viper.BindPFlag("output.dir", cmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("output.xlsx_file", cmd.Flags().Lookup("xlsx"))
	_ = viper.BindPFlag("sheets.enabled", cmd.Flags().Lookup("sheets"))

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := applyFilterFlags(cmd); err != nil {
		return err
	}
	offline, _ := cmd.Flags().GetBool("offline")
	if offline {
		viper.Set("catalog.enabled", false)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := slog.Default()
	path := inputPath(cfg, args)

	opts, err := pipelineOptions(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	p := pipeline.New(opts, newResolver(cfg, store, logger), store, logger)

	outputs, err := addWriters(cmd, p, cfg, logger)
	if err != nil {
		return err
	}

	noProgress, _ := cmd.Flags().GetBool("no-progress")
	if !noProgress {
		p.WithProgress(cli.NewProgressBar(cmd.ErrOrStderr()))
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx = handler.HandleInterrupts(ctx, true)

	logger.Info("Starting analysis", "file", path)
	result, err := p.Run(ctx, path)
	if err != nil {
		if handler.WasInterrupted() {
			return common.NewUserError("analysis interrupted", err)
		}
		if errors.Is(err, common.ErrNoInput) {
			return common.NewUserError(fmt.Sprintf("cannot read sales log %s", path), err)
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderRunSummary(result, cfg.Report.Currency, outputs))
	return nil
}

// applyFilterFlags copies only the filter flags the user set into viper, so
// unset bounds stay absent rather than becoming zero.
func applyFilterFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("region") {
		region, err := flags.GetString("region")
		if err != nil {
			return err
		}
		viper.Set("filter.region", region)
	}
	for flag, key := range map[string]string{
		"min-amount": "filter.min_amount",
		"max-amount": "filter.max_amount",
	} {
		if !flags.Changed(flag) {
			continue
		}
		value, err := flags.GetFloat64(flag)
		if err != nil {
			return err
		}
		viper.Set(key, value)
	}
	return nil
}

// addWriters registers the configured outputs and returns their locations.
func addWriters(cmd *cobra.Command, p *pipeline.Pipeline, cfg *config.Config, logger *slog.Logger) ([]string, error) {
	out := cfg.Output
	reportPath := filepath.Join(out.Dir, out.ReportFile)
	enrichedPath := filepath.Join(out.Dir, out.EnrichedFile)

	p.AddWriter(report.NewTextWriter(reportPath, cfg.Report.Currency, logger))
	p.AddWriter(report.NewEnrichedWriter(enrichedPath, logger))
	outputs := []string{reportPath, enrichedPath}

	if out.XLSXFile != "" {
		xlsxPath := filepath.Join(out.Dir, out.XLSXFile)
		p.AddWriter(report.NewXLSXWriter(xlsxPath, cfg.Report.Currency, logger))
		outputs = append(outputs, xlsxPath)
	}

	if cfg.Sheets.Enabled {
		sheetsCfg, err := cfg.SheetsWriterConfig()
		if err != nil {
			return nil, common.NewUserError("Google Sheets export is enabled but not configured", err)
		}
		writer, err := sheets.NewWriter(cmd.Context(), *sheetsCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets writer: %w", err)
		}
		p.AddWriter(writer)
		outputs = append(outputs, "Google Sheets: "+sheetsCfg.SpreadsheetName)
	}

	return outputs, nil
}
