package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/salesflow/internal/cli"
	"github.com/spf13/cobra"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the cached product catalog",
		Long: `Download and inspect the product catalog used to enrich transactions.

The cached copy is used whenever the remote catalog cannot be reached.`,
		Example: `  # Refresh the local cache
  salesflow catalog sync

  # Show cached products
  salesflow catalog list`,
	}

	cmd.AddCommand(catalogSyncCmd())
	cmd.AddCommand(catalogListCmd())

	return cmd
}

func catalogSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch the product catalog and cache it locally",
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

			products, err := newCatalogClient(cfg, slog.Default()).FetchProducts(ctx)
			if err != nil {
				return fmt.Errorf("catalog sync failed: %w", err)
			}
			if err := store.SaveProducts(ctx, products); err != nil {
				return fmt.Errorf("failed to cache catalog: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Cached %d products from %s", len(products), cfg.Catalog.URL)))
			return nil
		},
	}
}

func catalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached catalog products",
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

			products, err := store.GetProducts(ctx)
			if err != nil {
				return fmt.Errorf("failed to load cached catalog: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderProductsTable(products, cfg.Report.Currency))
			return nil
		},
	}
}
