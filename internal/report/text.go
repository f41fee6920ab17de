package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/salesflow/internal/analysis"
	"github.com/Veraticus/salesflow/internal/model"
	"github.com/Veraticus/salesflow/internal/pipeline"
)

const (
	lineWidth       = 60
	timestampLayout = "2006-01-02 15:04:05"
)

// TextWriter writes the sectioned plain-text sales report.
type TextWriter struct {
	logger   *slog.Logger
	now      func() time.Time
	path     string
	currency string
}

// NewTextWriter creates a writer for the report at path.
func NewTextWriter(path, currency string, logger *slog.Logger) *TextWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TextWriter{
		path:     path,
		currency: currency,
		logger:   logger,
		now:      time.Now,
	}
}

// Name implements pipeline.ReportWriter.
func (w *TextWriter) Name() string { return "text report" }

// Path returns the output location.
func (w *TextWriter) Path() string { return w.path }

// Write renders result and writes it, creating the directory if needed.
func (w *TextWriter) Write(_ context.Context, result *pipeline.Result) error {
	content := Render(result, w.currency, w.now())

	if err := writeFile(w.path, []byte(content)); err != nil {
		return err
	}

	w.logger.Info("Sales report generated", "path", w.path)
	return nil
}

// Render builds the report text.
func Render(result *pipeline.Result, currency string, generated time.Time) string {
	r := &renderer{currency: currency}
	report := result.Report
	if report == nil {
		report = &analysis.Report{TopN: analysis.DefaultTopN, LowThreshold: analysis.DefaultLowThreshold}
	}

	r.header(report, generated)
	r.overall(report)
	r.regions(report)
	r.topProducts(report)
	r.topCustomers(report)
	r.daily(report)
	r.performance(report)
	r.enrichment(result.Enriched)

	return r.String()
}

type renderer struct {
	currency string
	strings.Builder
}

func (r *renderer) line(format string, args ...any) {
	fmt.Fprintf(r, format, args...)
	r.WriteByte('\n')
}

func (r *renderer) money(amount float64) string {
	return FormatCurrency(r.currency, amount)
}

func (r *renderer) section(title string) {
	r.line("%s", title)
	r.line("%s", strings.Repeat("-", lineWidth))
}

func (r *renderer) header(report *analysis.Report, generated time.Time) {
	rule := strings.Repeat("=", lineWidth)
	r.line("%s", rule)
	r.line("%s", center("SALES ANALYTICS REPORT", lineWidth))
	r.line("Generated: %s", center(generated.Format(timestampLayout), lineWidth))
	r.line("Records Processed: %s", center(fmt.Sprint(report.Transactions), lineWidth))
	r.line("%s", rule)
	r.line("")
}

func (r *renderer) overall(report *analysis.Report) {
	dateRange := "N/A"
	if n := len(report.Daily); n > 0 {
		dateRange = report.Daily[0].Date.Format(model.DateLayout) + " to " + report.Daily[n-1].Date.Format(model.DateLayout)
	}

	r.section("OVERALL SUMMARY")
	r.line("Total Revenue:\t\t%s", r.money(report.TotalRevenue))
	r.line("Total Transactions:\t%d", report.Transactions)
	r.line("Average Order Value:\t%s", r.money(analysis.SafeDivide(report.TotalRevenue, float64(report.Transactions))))
	r.line("Date Range:\t\t%s", dateRange)
	r.line("")
}

func (r *renderer) regions(report *analysis.Report) {
	r.section("REGION-WISE PERFORMANCE")
	r.line("%-10s%-20s%-15s%s", "Region", "Sales", "% of Total", "Transactions")
	for _, rs := range report.Regions {
		r.line("%-10s%-20s%s%-5s%d", rs.Region, r.money(rs.TotalSales), FormatPercent(rs.Percentage), "", rs.TransactionCount)
	}
	r.line("")
}

func (r *renderer) topProducts(report *analysis.Report) {
	r.section(fmt.Sprintf("TOP %d PRODUCTS", report.TopN))
	r.line("%-6s%-20s%-12s%s", "Rank", "Product", "Qty Sold", "Revenue")
	for i, p := range report.TopProducts {
		r.line("%-6d%-20s%-12d%s", i+1, p.Name, p.TotalQuantity, r.money(p.TotalRevenue))
	}
	r.line("")
}

func (r *renderer) topCustomers(report *analysis.Report) {
	r.section(fmt.Sprintf("TOP %d CUSTOMERS", report.TopN))
	r.line("%-6s%-12s%-18s%s", "Rank", "Customer", "Total Spent", "Orders")
	for i, c := range report.Customers[:min(report.TopN, len(report.Customers))] {
		r.line("%-6d%-12s%-18s%d", i+1, c.CustomerID, r.money(c.TotalSpent), c.PurchaseCount)
	}
	r.line("")
}

func (r *renderer) daily(report *analysis.Report) {
	r.section("DAILY SALES TREND")
	r.line("%-14s%-18s%-15s%s", "Date", "Revenue", "Transactions", "Unique Cust.")
	for _, d := range report.Daily {
		r.line("%-14s%-18s%-15d%d", d.Date.Format(model.DateLayout), r.money(d.Revenue), d.TransactionCount, d.UniqueCustomers)
	}
	r.line("")
}

func (r *renderer) performance(report *analysis.Report) {
	r.section("PRODUCT PERFORMANCE ANALYSIS")
	if report.Peak != nil {
		r.line("Best Selling Day: %s (Revenue: %s, Transactions: %d)",
			report.Peak.Date.Format(model.DateLayout), r.money(report.Peak.Revenue), report.Peak.TransactionCount)
	} else {
		r.line("Best Selling Day: N/A")
	}
	r.line("")

	if len(report.LowPerformers) > 0 {
		r.line("Low Performing Products (Qty < %d):", report.LowThreshold)
		r.line("%-20s%-10s%s", "Product", "Qty", "Revenue")
		for _, p := range report.LowPerformers {
			r.line("%-20s%-10d%s", p.Name, p.TotalQuantity, r.money(p.TotalRevenue))
		}
	} else {
		r.line("Low Performing Products: None")
	}
	r.line("")

	r.line("Average Transaction Value Per Region:")
	for _, rs := range report.Regions {
		r.line("  %s: %s", rs.Region, r.money(rs.AverageTransaction()))
	}
	r.line("")
}

func (r *renderer) enrichment(enriched []model.EnrichedTransaction) {
	total := len(enriched)
	var matched int
	var unmatched []string
	seen := make(map[string]bool)
	for _, et := range enriched {
		if et.Match {
			matched++
			continue
		}
		if !seen[et.ProductID] {
			seen[et.ProductID] = true
			unmatched = append(unmatched, et.ProductID)
		}
	}

	r.section("API ENRICHMENT SUMMARY")
	r.line("Total Enriched Records:\t%d", total)
	r.line("Successful Matches:\t%d", matched)
	r.line("Failed Matches:\t\t%d", total-matched)
	r.line("Success Rate:\t\t%s", FormatPercent(analysis.Percentage(float64(matched), float64(total))))
	r.line("")

	if len(unmatched) == 0 {
		r.line("All Products Successfully Enriched")
		return
	}
	r.line("Products Not Enriched:")
	for _, id := range unmatched {
		r.line("  - %s", id)
	}
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
