package analysis

import (
	"testing"
	"time"

	"github.com/Veraticus/salesflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func txn(id string, d int, product string, qty int, price float64, customer, region string) model.Transaction {
	return model.Transaction{
		TransactionID: id,
		Date:          day(d),
		ProductID:     "P" + id,
		ProductName:   product,
		Quantity:      qty,
		UnitPrice:     price,
		CustomerID:    customer,
		Region:        region,
		Amount:        float64(qty) * price,
	}
}

// scenario is the accepted set of the reference example: three valid lines,
// the fourth (X004) having been rejected upstream.
func scenario() []model.Transaction {
	return []model.Transaction{
		txn("T001", 5, "Widget", 10, 50.0, "C001", "North"),
		txn("T002", 5, "Gadget", 5, 20.0, "C002", "South"),
		txn("T003", 6, "Widget", 3, 50.0, "C001", "North"),
	}
}

func TestScenario(t *testing.T) {
	txns := scenario()

	assert.Equal(t, 750.0, TotalRevenue(txns))

	regions := RegionStats(txns)
	require.Len(t, regions, 2)
	assert.Equal(t, "North", regions[0].Region)
	assert.Equal(t, 650.0, regions[0].TotalSales)
	assert.Equal(t, 2, regions[0].TransactionCount)
	assert.InDelta(t, 86.67, regions[0].Percentage, 0.005)
	assert.Equal(t, "South", regions[1].Region)
	assert.Equal(t, 100.0, regions[1].TotalSales)
	assert.Equal(t, 1, regions[1].TransactionCount)
	assert.InDelta(t, 13.33, regions[1].Percentage, 0.005)

	assert.Equal(t, []ProductStat{
		{Name: "Widget", TotalQuantity: 13, TotalRevenue: 650},
		{Name: "Gadget", TotalQuantity: 5, TotalRevenue: 100},
	}, TopProducts(txns, 2))

	customers := CustomerAnalysis(txns)
	require.Len(t, customers, 2)
	assert.Equal(t, CustomerStat{
		CustomerID:    "C001",
		TotalSpent:    650,
		PurchaseCount: 2,
		AvgOrderValue: 325,
		Products:      []string{"Widget"},
	}, customers[0])

	assert.Equal(t, []DayStat{
		{Date: day(5), Revenue: 600, TransactionCount: 2, UniqueCustomers: 2},
		{Date: day(6), Revenue: 150, TransactionCount: 1, UniqueCustomers: 1},
	}, DailyTrend(txns))

	peak, ok := PeakSalesDay(txns)
	require.True(t, ok)
	assert.Equal(t, PeakDay{Date: day(5), Revenue: 600, TransactionCount: 2}, peak)

	assert.Equal(t, []ProductStat{
		{Name: "Gadget", TotalQuantity: 5, TotalRevenue: 100},
	}, LowPerformers(txns, DefaultLowThreshold))
}

func TestEmptyInput(t *testing.T) {
	assert.Zero(t, TotalRevenue(nil))
	assert.Empty(t, RegionStats(nil))
	assert.Empty(t, TopProducts(nil, 5))
	assert.Empty(t, CustomerAnalysis(nil))
	assert.Empty(t, DailyTrend(nil))
	assert.Empty(t, LowPerformers(nil, 10))

	_, ok := PeakSalesDay(nil)
	assert.False(t, ok)
}

func TestRegionStats_TiesKeepEncounterOrder(t *testing.T) {
	txns := []model.Transaction{
		txn("T1", 1, "A", 1, 10, "C1", "West"),
		txn("T2", 1, "A", 1, 10, "C1", "East"),
		txn("T3", 1, "A", 1, 30, "C1", "North"),
		txn("T4", 1, "A", 1, 10, "C1", "South"),
	}

	stats := RegionStats(txns)

	names := make([]string, 0, len(stats))
	total := 0.0
	for _, s := range stats {
		names = append(names, s.Region)
		total += s.Percentage
	}
	assert.Equal(t, []string{"North", "West", "East", "South"}, names)
	assert.InDelta(t, 100.0, total, 1e-9)
}

func TestRegionStats_PercentagesUseOwnTotal(t *testing.T) {
	all := []model.Transaction{
		txn("T1", 1, "A", 1, 300, "C1", "North"),
		txn("T2", 1, "A", 1, 100, "C1", "North"),
		txn("T3", 1, "A", 1, 600, "C1", "South"),
	}

	northOnly := RegionStats(all[:2])
	require.Len(t, northOnly, 1)
	assert.Equal(t, 100.0, northOnly[0].Percentage)
	assert.Equal(t, 200.0, northOnly[0].AverageTransaction())
}

func TestTopProducts(t *testing.T) {
	txns := []model.Transaction{
		txn("T1", 1, "Alpha", 4, 1, "C1", "N"),
		txn("T2", 1, "Beta", 9, 1, "C1", "N"),
		txn("T3", 1, "Gamma", 4, 1, "C1", "N"),
		txn("T4", 1, "Delta", 2, 1, "C1", "N"),
	}

	tests := []struct {
		name string
		want []string
		n    int
	}{
		{name: "all", n: 10, want: []string{"Beta", "Alpha", "Gamma", "Delta"}},
		{name: "truncated", n: 2, want: []string{"Beta", "Alpha"}},
		{name: "ties keep encounter order", n: 3, want: []string{"Beta", "Alpha", "Gamma"}},
		{name: "zero", n: 0, want: []string{}},
		{name: "negative", n: -1, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopProducts(txns, tt.n)
			names := make([]string, 0, len(got))
			for i, p := range got {
				names = append(names, p.Name)
				if i > 0 {
					assert.LessOrEqual(t, p.TotalQuantity, got[i-1].TotalQuantity)
				}
			}
			assert.Equal(t, tt.want, names)
			assert.LessOrEqual(t, len(got), max(tt.n, 0))
		})
	}
}

func TestCustomerAnalysis(t *testing.T) {
	txns := []model.Transaction{
		txn("T1", 1, "Mouse", 1, 20, "C2", "N"),
		txn("T2", 1, "Keyboard", 1, 50, "C1", "N"),
		txn("T3", 2, "Mouse", 2, 20, "C1", "N"),
		txn("T4", 2, "Mouse", 1, 20, "C1", "N"),
		txn("T5", 3, "Cable", 7, 10, "C3", "N"),
	}

	stats := CustomerAnalysis(txns)
	require.Len(t, stats, 3)

	assert.Equal(t, "C1", stats[0].CustomerID)
	assert.Equal(t, 110.0, stats[0].TotalSpent)
	assert.Equal(t, 3, stats[0].PurchaseCount)
	assert.InDelta(t, 110.0/3, stats[0].AvgOrderValue, 1e-9)
	assert.ElementsMatch(t, []string{"Keyboard", "Mouse"}, stats[0].Products)

	// C3 spent 70, C2 spent 20.
	assert.Equal(t, "C3", stats[1].CustomerID)
	assert.Equal(t, "C2", stats[2].CustomerID)

	for _, s := range stats {
		sum := 0.0
		for _, tx := range txns {
			if tx.CustomerID == s.CustomerID {
				sum += tx.Amount
			}
		}
		assert.Equal(t, sum, s.TotalSpent)
		assert.Equal(t, s.TotalSpent/float64(s.PurchaseCount), s.AvgOrderValue)
	}
}

func TestDailyTrend_ChronologicalAndPeakTies(t *testing.T) {
	txns := []model.Transaction{
		txn("T1", 9, "A", 1, 100, "C1", "N"),
		txn("T2", 3, "A", 1, 100, "C1", "N"),
		txn("T3", 3, "A", 1, 50, "C1", "N"),
		txn("T4", 7, "A", 1, 150, "C2", "N"),
	}

	days := DailyTrend(txns)
	require.Len(t, days, 3)
	for i := 1; i < len(days); i++ {
		assert.True(t, days[i-1].Date.Before(days[i].Date))
	}
	assert.Equal(t, 2, days[0].TransactionCount)
	assert.Equal(t, 1, days[0].UniqueCustomers)

	// Jan 3 and Jan 7 both reach 150; the earlier day wins.
	peak, ok := PeakSalesDay(txns)
	require.True(t, ok)
	assert.Equal(t, day(3), peak.Date)
	assert.Equal(t, 150.0, peak.Revenue)
	assert.Equal(t, 2, peak.TransactionCount)
}

func TestLowPerformers(t *testing.T) {
	txns := []model.Transaction{
		txn("T1", 1, "Exact", 10, 1, "C1", "N"),
		txn("T2", 1, "Nine", 9, 1, "C1", "N"),
		txn("T3", 1, "Two", 2, 1, "C1", "N"),
		txn("T4", 1, "AlsoTwo", 2, 1, "C1", "N"),
		txn("T5", 1, "Big", 50, 1, "C1", "N"),
	}

	low := LowPerformers(txns, 10)

	names := make([]string, 0, len(low))
	for _, p := range low {
		names = append(names, p.Name)
		assert.Less(t, p.TotalQuantity, 10)
	}
	assert.Equal(t, []string{"Two", "AlsoTwo", "Nine"}, names)
}

func TestReductionsAreIdempotent(t *testing.T) {
	txns := scenario()
	snapshot := append([]model.Transaction(nil), txns...)

	assert.Equal(t, RegionStats(txns), RegionStats(txns))
	assert.Equal(t, TopProducts(txns, 5), TopProducts(txns, 5))
	assert.Equal(t, CustomerAnalysis(txns), CustomerAnalysis(txns))
	assert.Equal(t, DailyTrend(txns), DailyTrend(txns))
	assert.Equal(t, LowPerformers(txns, 10), LowPerformers(txns, 10))
	assert.Equal(t, snapshot, txns)
}

func TestRevenueMatchesRegionTotals(t *testing.T) {
	txns := []model.Transaction{
		txn("T1", 1, "A", 3, 19.99, "C1", "North"),
		txn("T2", 2, "B", 7, 4.25, "C2", "South"),
		txn("T3", 3, "C", 1, 1299.5, "C1", "East"),
		txn("T4", 3, "A", 2, 19.99, "C3", "North"),
	}

	sum := 0.0
	for _, r := range RegionStats(txns) {
		sum += r.TotalSales
	}
	assert.InDelta(t, TotalRevenue(txns), sum, 1e-9)
}

func TestPercentageAndSafeDivide(t *testing.T) {
	assert.Zero(t, Percentage(5, 0))
	assert.Equal(t, 50.0, Percentage(5, 10))
	assert.Zero(t, SafeDivide(5, 0))
	assert.Equal(t, 2.5, SafeDivide(5, 2))
}
