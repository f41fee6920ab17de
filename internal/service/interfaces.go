// Package service defines the interfaces shared between pipeline components.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/salesflow/internal/model"
)

// CatalogFetcher retrieves the external product catalog.
type CatalogFetcher interface {
	FetchProducts(ctx context.Context) ([]model.Product, error)
}

// CatalogCache persists the last successfully fetched catalog.
type CatalogCache interface {
	SaveProducts(ctx context.Context, products []model.Product) error
	GetProducts(ctx context.Context) ([]model.Product, error)
}

// RunHistory records pipeline runs.
type RunHistory interface {
	SaveRun(ctx context.Context, run *model.RunRecord) error
	ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error)
}

// Store is the full persistence contract.
type Store interface {
	CatalogCache
	RunHistory
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for external calls.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
