package analysis

import (
	"context"
	"fmt"

	"github.com/Veraticus/salesflow/internal/model"
	"golang.org/x/sync/errgroup"
)

// Options configures Analyze.
type Options struct {
	// ProgressFunc is called as each reduction finishes. It may be called
	// from several goroutines and must be safe for concurrent use.
	ProgressFunc func(stage string)
	TopN         int
	LowThreshold int
}

func (o Options) withDefaults() Options {
	if o.TopN <= 0 {
		o.TopN = DefaultTopN
	}
	if o.LowThreshold <= 0 {
		o.LowThreshold = DefaultLowThreshold
	}
	if o.ProgressFunc == nil {
		o.ProgressFunc = func(string) {}
	}
	return o
}

// Analyze runs every reduction over txns concurrently, one goroutine each.
// Each reduction writes only its own field of the report, so the result is
// identical to calling the functions one after another.
func Analyze(ctx context.Context, txns []model.Transaction, opts Options) (*Report, error) {
	opts = opts.withDefaults()

	report := &Report{
		Transactions: len(txns),
		TopN:         opts.TopN,
		LowThreshold: opts.LowThreshold,
	}

	g, ctx := errgroup.WithContext(ctx)

	run := func(stage string, fn func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%s: %w", stage, err)
			}
			fn()
			opts.ProgressFunc(stage)
			return nil
		})
	}

	run("total_revenue", func() { report.TotalRevenue = TotalRevenue(txns) })
	run("region_stats", func() { report.Regions = RegionStats(txns) })
	run("top_products", func() { report.TopProducts = TopProducts(txns, opts.TopN) })
	run("customer_analysis", func() { report.Customers = CustomerAnalysis(txns) })
	run("daily_trend", func() { report.Daily = DailyTrend(txns) })
	run("peak_sales_day", func() {
		if peak, ok := PeakSalesDay(txns); ok {
			report.Peak = &peak
		}
	})
	run("low_performers", func() { report.LowPerformers = LowPerformers(txns, opts.LowThreshold) })

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis aborted: %w", err)
	}

	return report, nil
}
