// Package analysis computes sales analytics over validated transactions.
//
// Every reduction is a pure function of its input slice. None of them mutate
// the transactions or share accumulators, so they may run in any order or
// concurrently (see Analyze) and always produce the same result.
package analysis

import "time"

// RegionStat aggregates sales for one region.
type RegionStat struct {
	Region           string
	TotalSales       float64
	Percentage       float64 // share of the analysed set's own total, 0..100
	TransactionCount int
}

// AverageTransaction returns TotalSales / TransactionCount, or 0 without transactions.
func (r RegionStat) AverageTransaction() float64 {
	return SafeDivide(r.TotalSales, float64(r.TransactionCount))
}

// ProductStat aggregates sales for one product name.
type ProductStat struct {
	Name          string
	TotalRevenue  float64
	TotalQuantity int
}

// CustomerStat aggregates purchases for one customer.
type CustomerStat struct {
	CustomerID    string
	Products      []string // distinct product names, sorted
	TotalSpent    float64
	AvgOrderValue float64
	PurchaseCount int
}

// DayStat aggregates sales for one calendar day.
type DayStat struct {
	Date             time.Time
	Revenue          float64
	TransactionCount int
	UniqueCustomers  int
}

// PeakDay is the calendar day with the highest revenue.
type PeakDay struct {
	Date             time.Time
	Revenue          float64
	TransactionCount int
}

// Report bundles the results of all reductions.
type Report struct {
	Peak          *PeakDay // nil when there is no data
	Regions       []RegionStat
	TopProducts   []ProductStat
	Customers     []CustomerStat
	Daily         []DayStat
	LowPerformers []ProductStat
	TotalRevenue  float64
	Transactions  int
	TopN          int
	LowThreshold  int
}

// SafeDivide returns part/whole, or 0 when whole is 0.
func SafeDivide(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole
}

// Percentage returns 100 × part/whole, or 0 when whole is 0.
func Percentage(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return 100 * part / whole
}
