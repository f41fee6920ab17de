package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/salesflow/internal/analysis"
	"github.com/Veraticus/salesflow/internal/model"
	"github.com/Veraticus/salesflow/internal/pipeline"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetSummary   = "Summary"
	SheetRegions   = "Regions"
	SheetProducts  = "Top Products"
	SheetCustomers = "Customers"
	SheetDaily     = "Daily Trend"
	SheetLow       = "Low Performers"
	SheetEnriched  = "Enriched"
)

// XLSXWriter exports the analytics tables to an Excel workbook.
type XLSXWriter struct {
	logger   *slog.Logger
	path     string
	currency string
}

// NewXLSXWriter creates a workbook writer for path.
func NewXLSXWriter(path, currency string, logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{path: path, currency: currency, logger: logger}
}

// Name implements pipeline.ReportWriter.
func (w *XLSXWriter) Name() string { return "xlsx workbook" }

// Path returns the output location.
func (w *XLSXWriter) Path() string { return w.path }

// Write implements pipeline.ReportWriter.
func (w *XLSXWriter) Write(_ context.Context, result *pipeline.Result) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	tables := Tables(result)
	for i, table := range tables {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", table.Name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(table.Name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", table.Name, err)
		}
		if err := w.writeTable(f, table); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", table.Name, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("Workbook exported", "path", w.path, "sheets", len(tables))
	return nil
}

func (w *XLSXWriter) writeTable(f *excelize.File, table Table) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E0EBF5"}},
	})
	if err != nil {
		return err
	}
	moneyFormat := fmt.Sprintf(`"%s"#,##0.00`, w.currency)
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFormat})
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(table.Name, "A1", &table.Header); err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(len(table.Header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(table.Name, "A1", end, headerStyle); err != nil {
		return err
	}

	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(table.Name, cell, &row); err != nil {
			return err
		}
	}

	for _, col := range table.MoneyColumns {
		if len(table.Rows) == 0 {
			break
		}
		top, err := excelize.CoordinatesToCellName(col+1, 2)
		if err != nil {
			return err
		}
		bottom, err := excelize.CoordinatesToCellName(col+1, len(table.Rows)+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(table.Name, top, bottom, moneyStyle); err != nil {
			return err
		}
	}

	return f.SetPanes(table.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// Table is a named grid of values shared by the workbook and Sheets exports.
type Table struct {
	Name         string
	Header       []any
	Rows         [][]any
	MoneyColumns []int // zero-based
}

// Tables flattens a result into one table per analytics view.
func Tables(result *pipeline.Result) []Table {
	report := result.Report
	if report == nil {
		report = &analysis.Report{}
	}

	summary := Table{
		Name:   SheetSummary,
		Header: []any{"Metric", "Value"},
		Rows: [][]any{
			{"Run ID", result.RunID},
			{"Source File", result.SourceFile},
			{"Records Read", result.Stats.LinesRead},
			{"Discarded (malformed)", result.Stats.ParseDiscarded},
			{"Invalid", result.Validation.Summary.Invalid},
			{"Filtered by Region", result.Validation.Summary.FilteredByRegion},
			{"Filtered by Amount", result.Validation.Summary.FilteredByAmount},
			{"Transactions Analysed", report.Transactions},
			{"Total Revenue", report.TotalRevenue},
			{"Average Order Value", analysis.SafeDivide(report.TotalRevenue, float64(report.Transactions))},
			{"Catalog Matches", result.Stats.EnrichedMatches},
			{"Catalog Source", string(result.Stats.CatalogSource)},
		},
	}
	if report.Peak != nil {
		summary.Rows = append(summary.Rows,
			[]any{"Peak Day", report.Peak.Date.Format(model.DateLayout)},
			[]any{"Peak Day Revenue", report.Peak.Revenue},
		)
	}

	regions := Table{Name: SheetRegions, Header: []any{"Region", "Sales", "% of Total", "Transactions", "Avg Transaction"}, MoneyColumns: []int{1, 4}}
	for _, r := range report.Regions {
		regions.Rows = append(regions.Rows, []any{r.Region, r.TotalSales, r.Percentage, r.TransactionCount, r.AverageTransaction()})
	}

	products := Table{Name: SheetProducts, Header: []any{"Rank", "Product", "Qty Sold", "Revenue"}, MoneyColumns: []int{3}}
	for i, p := range report.TopProducts {
		products.Rows = append(products.Rows, []any{i + 1, p.Name, p.TotalQuantity, p.TotalRevenue})
	}

	customers := Table{Name: SheetCustomers, Header: []any{"Customer", "Total Spent", "Orders", "Avg Order", "Products"}, MoneyColumns: []int{1, 3}}
	for _, c := range report.Customers {
		customers.Rows = append(customers.Rows, []any{c.CustomerID, c.TotalSpent, c.PurchaseCount, c.AvgOrderValue, strings.Join(c.Products, ", ")})
	}

	daily := Table{Name: SheetDaily, Header: []any{"Date", "Revenue", "Transactions", "Unique Customers"}, MoneyColumns: []int{1}}
	for _, d := range report.Daily {
		daily.Rows = append(daily.Rows, []any{d.Date.Format(model.DateLayout), d.Revenue, d.TransactionCount, d.UniqueCustomers})
	}

	low := Table{Name: SheetLow, Header: []any{"Product", "Qty", "Revenue"}, MoneyColumns: []int{2}}
	for _, p := range report.LowPerformers {
		low.Rows = append(low.Rows, []any{p.Name, p.TotalQuantity, p.TotalRevenue})
	}

	enriched := Table{Name: SheetEnriched, MoneyColumns: []int{5}}
	for _, h := range EnrichedHeader {
		enriched.Header = append(enriched.Header, h)
	}
	for _, et := range result.Enriched {
		enriched.Rows = append(enriched.Rows, []any{
			et.TransactionID, et.DateKey(), et.ProductID, et.ProductName, et.Quantity, et.UnitPrice,
			et.CustomerID, et.Region, deref(et.Category), deref(et.Brand), ratingCell(et.Rating), et.Match,
		})
	}

	return []Table{summary, regions, products, customers, daily, low, enriched}
}

func ratingCell(r *float64) any {
	if r == nil {
		return ""
	}
	return *r
}
