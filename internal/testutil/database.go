// Package testutil provides shared test helpers: migrated in-memory stores
// seeded with catalog products and run history.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/salesflow/internal/model"
	"github.com/Veraticus/salesflow/internal/storage"
)

// TestDB represents a test database with the data it was seeded with.
type TestDB struct {
	Storage  *storage.SQLiteStorage
	t        *testing.T
	Products []model.Product
	Runs     []model.RunRecord
}

// SetupTestDB creates a migrated in-memory database with products cached.
// It automatically handles cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t, testutil.Product(101, "Laptop"))
func SetupTestDB(t *testing.T, products ...model.Product) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{Products: products})
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup    func(context.Context, *storage.SQLiteStorage) error
	Products       []model.Product
	Runs           []model.RunRecord
	SkipMigrations bool
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	// Create in-memory SQLite storage
	store, err := storage.NewSQLiteStorage(storage.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	ctx := context.Background()

	// Register cleanup
	t.Cleanup(func() {
		_ = store.Close()
	})

	// Run migrations unless skipped
	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	if len(opts.Products) > 0 {
		if err := store.SaveProducts(ctx, opts.Products); err != nil {
			t.Fatalf("failed to seed products: %v", err)
		}
	}

	for i := range opts.Runs {
		if err := store.SaveRun(ctx, &opts.Runs[i]); err != nil {
			t.Fatalf("failed to seed run %q: %v", opts.Runs[i].ID, err)
		}
	}

	// Run custom setup
	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return &TestDB{
		Storage:  store,
		Products: opts.Products,
		Runs:     opts.Runs,
		t:        t,
	}
}

// Product builds a catalog product with only the fields enrichment reads.
func Product(id int, title string) model.Product {
	rating := 4.5
	return model.Product{
		ID:       id,
		Title:    title,
		Category: "test",
		Brand:    "Acme",
		Price:    100,
		Rating:   &rating,
	}
}

// MustGetProducts returns the cached catalog or fails the test.
func (db *TestDB) MustGetProducts() []model.Product {
	db.t.Helper()
	products, err := db.Storage.GetProducts(context.Background())
	if err != nil {
		db.t.Fatalf("failed to load products: %v", err)
	}
	return products
}
