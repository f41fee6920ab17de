package analysis

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Veraticus/salesflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_MatchesSequential(t *testing.T) {
	txns := generateTransactions(500)

	var mu sync.Mutex
	stages := make(map[string]bool)
	report, err := Analyze(context.Background(), txns, Options{
		TopN:         3,
		LowThreshold: 20,
		ProgressFunc: func(stage string) {
			mu.Lock()
			defer mu.Unlock()
			stages[stage] = true
		},
	})
	require.NoError(t, err)

	assert.Equal(t, TotalRevenue(txns), report.TotalRevenue)
	assert.Equal(t, RegionStats(txns), report.Regions)
	assert.Equal(t, TopProducts(txns, 3), report.TopProducts)
	assert.Equal(t, CustomerAnalysis(txns), report.Customers)
	assert.Equal(t, DailyTrend(txns), report.Daily)
	assert.Equal(t, LowPerformers(txns, 20), report.LowPerformers)

	peak, ok := PeakSalesDay(txns)
	require.True(t, ok)
	require.NotNil(t, report.Peak)
	assert.Equal(t, peak, *report.Peak)

	assert.Equal(t, 500, report.Transactions)
	assert.Len(t, stages, 7)
}

func TestAnalyze_Defaults(t *testing.T) {
	report, err := Analyze(context.Background(), nil, Options{})
	require.NoError(t, err)

	assert.Equal(t, DefaultTopN, report.TopN)
	assert.Equal(t, DefaultLowThreshold, report.LowThreshold)
	assert.Nil(t, report.Peak)
	assert.Zero(t, report.TotalRevenue)
	assert.Empty(t, report.Regions)
}

func TestAnalyze_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Analyze(ctx, scenario(), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func generateTransactions(n int) []model.Transaction {
	regions := []string{"North", "South", "East", "West"}
	txns := make([]model.Transaction, 0, n)
	for i := range n {
		qty := i%13 + 1
		price := float64(i%7)*10.5 + 1
		txns = append(txns, model.Transaction{
			TransactionID: fmt.Sprintf("T%04d", i),
			Date:          day(i%28 + 1),
			ProductID:     fmt.Sprintf("P%03d", i%17),
			ProductName:   fmt.Sprintf("Product %d", i%17),
			Quantity:      qty,
			UnitPrice:     price,
			CustomerID:    fmt.Sprintf("C%03d", i%41),
			Region:        regions[i%len(regions)],
			Amount:        float64(qty) * price,
		})
	}
	return txns
}

func BenchmarkAnalyze(b *testing.B) {
	for _, size := range []int{1_000, 10_000} {
		txns := generateTransactions(size)
		b.Run(fmt.Sprintf("%d_transactions", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := Analyze(context.Background(), txns, Options{}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
