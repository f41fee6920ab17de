package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Veraticus/salesflow/internal/analysis"
	"github.com/Veraticus/salesflow/internal/catalog"
	"github.com/Veraticus/salesflow/internal/model"
	"github.com/Veraticus/salesflow/internal/pipeline"
	"github.com/Veraticus/salesflow/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderRunSummary(t *testing.T) {
	txns := []model.Transaction{
		{TransactionID: "T1", ProductID: "P1", ProductName: "Laptop", Quantity: 1, UnitPrice: 1500, Amount: 1500, CustomerID: "C1", Region: "North", Date: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)},
	}
	rep, err := analysis.Analyze(context.Background(), txns, analysis.Options{})
	require.NoError(t, err)

	result := &pipeline.Result{
		Report:   rep,
		Enriched: []model.EnrichedTransaction{{Transaction: txns[0]}},
		Validation: validation.Result{
			Accepted:    txns,
			Filtered:    txns,
			Regions:     []string{"North"},
			AmountRange: validation.AmountRange{Min: 1500, Max: 1500, Valid: true},
			Summary:     validation.Summary{Invalid: 2, FilteredByAmount: 1},
		},
		Stats: pipeline.Stats{LinesRead: 4, ParseDiscarded: 1, CatalogSource: catalog.SourceNone},
	}

	out := RenderRunSummary(result, "₹", []string{"output/sales_report.txt"})

	assert.Contains(t, out, "Read 4 records (1 malformed lines discarded)")
	assert.Contains(t, out, "Valid: 1 | Invalid: 2")
	assert.Contains(t, out, "Regions: North")
	assert.Contains(t, out, "Amount Range: ₹1,500.00 - ₹1,500.00")
	assert.Contains(t, out, "Filtered out 0 by region and 1 by amount")
	assert.Contains(t, out, "revenue ₹1,500.00")
	assert.Contains(t, out, "Enriched 0/1 transactions (0.0%) from none catalog")
	assert.Contains(t, out, "output/sales_report.txt")
}

func TestRenderRunsTable(t *testing.T) {
	assert.Contains(t, RenderRunsTable(nil), "No runs recorded yet.")

	out := RenderRunsTable([]model.RunRecord{{
		ID:           "0123456789abcdef",
		StartedAt:    time.Now(),
		SourceFile:   "sales.txt",
		FinalCount:   12,
		TotalRevenue: 123456.7,
	}})

	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789abcdef")
	assert.Contains(t, out, "sales.txt")
	assert.Contains(t, out, "all")
	assert.Contains(t, out, "123,456.70")
}

func TestRenderRunDetail(t *testing.T) {
	out := RenderRunDetail(&model.RunRecord{
		ID:               "0123456789abcdef",
		StartedAt:        time.Date(2024, 12, 1, 9, 30, 0, 0, time.UTC),
		SourceFile:       "sales.txt",
		Region:           "North",
		LinesRead:        10,
		Invalid:          2,
		FilteredByAmount: 3,
		FinalCount:       5,
		EnrichedMatches:  4,
		TotalRevenue:     1234.5,
	}, "$")

	assert.Contains(t, out, "Run 01234567")
	assert.Contains(t, out, "0123456789abcdef")
	assert.Contains(t, out, "Region filter:   North")
	assert.Contains(t, out, "Amount filtered: 3")
	assert.Contains(t, out, "Revenue:         $1,234.50")
}

func TestRenderProductsTable(t *testing.T) {
	assert.Contains(t, RenderProductsTable(nil, "$"), "catalog sync")

	rating := 4.25
	out := RenderProductsTable([]model.Product{
		{ID: 1, Title: "Widget", Category: "tools", Brand: "Acme", Price: 1999.5, Rating: &rating},
		{ID: 2, Title: "Gadget", Price: 5},
	}, "$")

	assert.Contains(t, out, "Widget")
	assert.Contains(t, out, "$1,999.50")
	assert.Contains(t, out, "4.25")
	assert.Contains(t, out, "Gadget")
}

func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf)

	// Steps before Start are ignored.
	bar.Step("early")
	assert.Zero(t, bar.Current())

	bar.Start(3)
	bar.Step("read")
	bar.Step("parse")
	assert.Equal(t, int64(2), bar.Current())

	bar.Finish()
	assert.Equal(t, int64(3), bar.Current())
}
