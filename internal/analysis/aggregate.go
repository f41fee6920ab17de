package analysis

import (
	"github.com/Veraticus/salesflow/internal/model"
)

// Default parameters used by the report.
const (
	DefaultTopN         = 5
	DefaultLowThreshold = 10
)

func newSalesAcc() salesAcc     { return salesAcc{} }
func newProductAcc() productAcc { return productAcc{} }

func byRegion(tx model.Transaction) string   { return tx.Region }
func byProduct(tx model.Transaction) string  { return tx.ProductName }
func byCustomer(tx model.Transaction) string { return tx.CustomerID }
func byDay(tx model.Transaction) string      { return tx.DateKey() }

// TotalRevenue returns the sum of Amount over txns.
func TotalRevenue(txns []model.Transaction) float64 {
	total := 0.0
	for _, tx := range txns {
		total += tx.Amount
	}
	return total
}

// RegionStats groups sales by region, ordered by total sales descending.
// Percentages are relative to the total of txns itself.
func RegionStats(txns []model.Transaction) []RegionStat {
	g := groupBy(txns, byRegion, newSalesAcc, addSale)

	grandTotal := 0.0
	g.each(func(_ string, acc salesAcc) {
		grandTotal += acc.total
	})

	stats := make([]RegionStat, 0, g.len())
	g.each(func(region string, acc salesAcc) {
		stats = append(stats, RegionStat{
			Region:           region,
			TotalSales:       acc.total,
			TransactionCount: acc.count,
			Percentage:       Percentage(acc.total, grandTotal),
		})
	})

	return sortByMetric(stats, func(s RegionStat) float64 { return s.TotalSales }, true)
}

// productStats returns per-product totals in first-encountered order.
func productStats(txns []model.Transaction) []ProductStat {
	g := groupBy(txns, byProduct, newProductAcc, addProduct)

	stats := make([]ProductStat, 0, g.len())
	g.each(func(name string, acc productAcc) {
		stats = append(stats, ProductStat{
			Name:          name,
			TotalQuantity: acc.quantity,
			TotalRevenue:  acc.revenue,
		})
	})
	return stats
}

func byQuantity(s ProductStat) int { return s.TotalQuantity }

// TopProducts returns at most n products ordered by quantity sold descending.
func TopProducts(txns []model.Transaction, n int) []ProductStat {
	if n <= 0 {
		return []ProductStat{}
	}
	sorted := sortByMetric(productStats(txns), byQuantity, true)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// CustomerAnalysis groups purchases by customer, ordered by total spent descending.
func CustomerAnalysis(txns []model.Transaction) []CustomerStat {
	g := groupBy(txns, byCustomer, newCustomerAcc, addPurchase)

	stats := make([]CustomerStat, 0, g.len())
	g.each(func(id string, acc customerAcc) {
		stats = append(stats, CustomerStat{
			CustomerID:    id,
			TotalSpent:    acc.spent,
			PurchaseCount: acc.count,
			AvgOrderValue: SafeDivide(acc.spent, float64(acc.count)),
			Products:      acc.productNames(),
		})
	})

	return sortByMetric(stats, func(s CustomerStat) float64 { return s.TotalSpent }, true)
}

// DailyTrend groups sales by calendar day in ascending date order.
func DailyTrend(txns []model.Transaction) []DayStat {
	g := groupBy(txns, byDay, newDayAcc, addDaySale)

	stats := make([]DayStat, 0, g.len())
	g.each(func(_ string, acc dayAcc) {
		stats = append(stats, DayStat{
			Date:             acc.date,
			Revenue:          acc.revenue,
			TransactionCount: acc.count,
			UniqueCustomers:  len(acc.customers),
		})
	})

	return sortByMetric(stats, func(s DayStat) int64 { return s.Date.Unix() }, false)
}

// PeakSalesDay returns the day with the highest revenue. On ties the
// earliest day wins. The boolean is false when txns is empty.
func PeakSalesDay(txns []model.Transaction) (PeakDay, bool) {
	return peakOf(DailyTrend(txns))
}

func peakOf(days []DayStat) (PeakDay, bool) {
	if len(days) == 0 {
		return PeakDay{}, false
	}

	best := days[0]
	for _, d := range days[1:] {
		if d.Revenue > best.Revenue {
			best = d
		}
	}

	return PeakDay{
		Date:             best.Date,
		Revenue:          best.Revenue,
		TransactionCount: best.TransactionCount,
	}, true
}

// LowPerformers returns products whose total quantity is strictly below
// threshold, ordered by quantity ascending.
func LowPerformers(txns []model.Transaction, threshold int) []ProductStat {
	low := make([]ProductStat, 0)
	for _, s := range productStats(txns) {
		if s.TotalQuantity < threshold {
			low = append(low, s)
		}
	}
	return sortByMetric(low, byQuantity, false)
}
