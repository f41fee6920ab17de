package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/salesflow/internal/analysis"
	"github.com/Veraticus/salesflow/internal/model"
	"github.com/Veraticus/salesflow/internal/pipeline"
	"github.com/Veraticus/salesflow/internal/report"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// RenderRunSummary describes a finished analyze run: stage counters, the
// filter options discovered in the data, headline numbers and output files.
func RenderRunSummary(result *pipeline.Result, currency string, outputs []string) string {
	summary := result.Validation.Summary
	stats := result.Stats

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", FormatSuccess(fmt.Sprintf("Read %d records (%d malformed lines discarded)", stats.LinesRead, stats.ParseDiscarded)))
	fmt.Fprintf(&b, "%s\n", FormatSuccess(fmt.Sprintf("Valid: %d | Invalid: %d", len(result.Validation.Accepted), summary.Invalid)))

	if len(result.Validation.Regions) > 0 {
		fmt.Fprintf(&b, "%s\n", SubtleStyle.Render("Regions: "+strings.Join(result.Validation.Regions, ", ")))
	}
	if r := result.Validation.AmountRange; r.Valid {
		fmt.Fprintf(&b, "%s\n", SubtleStyle.Render(fmt.Sprintf("Amount Range: %s - %s",
			report.FormatCurrency(currency, r.Min), report.FormatCurrency(currency, r.Max))))
	}
	if summary.FilteredByRegion > 0 || summary.FilteredByAmount > 0 {
		fmt.Fprintf(&b, "%s\n", FormatInfo(fmt.Sprintf("Filtered out %d by region and %d by amount", summary.FilteredByRegion, summary.FilteredByAmount)))
	}

	if rep := result.Report; rep != nil {
		fmt.Fprintf(&b, "%s\n", FormatSuccess(fmt.Sprintf("Analyzed %d transactions, revenue %s", rep.Transactions, report.FormatCurrency(currency, rep.TotalRevenue))))
	}

	enriched := len(result.Enriched)
	rate := analysis.Percentage(float64(stats.EnrichedMatches), float64(enriched))
	line := fmt.Sprintf("Enriched %d/%d transactions (%.1f%%) from %s catalog", stats.EnrichedMatches, enriched, rate, stats.CatalogSource)
	if stats.EnrichedMatches == 0 && enriched > 0 {
		fmt.Fprintf(&b, "%s\n", FormatWarning(line))
	} else {
		fmt.Fprintf(&b, "%s\n", FormatSuccess(line))
	}

	if len(outputs) > 0 {
		b.WriteString("\n")
		for _, out := range outputs {
			fmt.Fprintf(&b, "  %s %s\n", FolderIcon, out)
		}
	}

	return RenderBox(FormatTitle("Sales Analytics"), strings.TrimRight(b.String(), "\n"))
}

// RenderRunsTable lists recorded runs, newest first.
func RenderRunsTable(runs []model.RunRecord) string {
	if len(runs) == 0 {
		return SubtleStyle.Render("No runs recorded yet.")
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		region := r.Region
		if region == "" {
			region = "all"
		}
		rows = append(rows, []string{
			shortID(r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.SourceFile,
			region,
			strconv.Itoa(r.Invalid),
			strconv.Itoa(r.FinalCount),
			strconv.Itoa(r.EnrichedMatches),
			report.FormatAmount(r.TotalRevenue, 2),
		})
	}

	return newTable("Run", "Started", "Source", "Region", "Invalid", "Final", "Matched", "Revenue").
		Rows(rows...).
		Render()
}

// RenderRunDetail shows every counter of one recorded run.
func RenderRunDetail(run *model.RunRecord, currency string) string {
	region := run.Region
	if region == "" {
		region = "all"
	}

	lines := []string{
		fmt.Sprintf("ID:              %s", run.ID),
		fmt.Sprintf("Started:         %s", run.StartedAt.Local().Format("2006-01-02 15:04:05")),
		fmt.Sprintf("Source:          %s", run.SourceFile),
		fmt.Sprintf("Region filter:   %s", region),
		fmt.Sprintf("Lines read:      %d", run.LinesRead),
		fmt.Sprintf("Malformed:       %d", run.ParseDiscarded),
		fmt.Sprintf("Parsed:          %d", run.Candidates),
		fmt.Sprintf("Invalid:         %d", run.Invalid),
		fmt.Sprintf("Region filtered: %d", run.FilteredByRegion),
		fmt.Sprintf("Amount filtered: %d", run.FilteredByAmount),
		fmt.Sprintf("Analyzed:        %d", run.FinalCount),
		fmt.Sprintf("Catalog matches: %d", run.EnrichedMatches),
		fmt.Sprintf("Revenue:         %s", report.FormatCurrency(currency, run.TotalRevenue)),
	}
	return RenderBox(FormatTitle("Run "+shortID(run.ID)), strings.Join(lines, "\n"))
}

// RenderProductsTable lists cached catalog products.
func RenderProductsTable(products []model.Product, currency string) string {
	if len(products) == 0 {
		return SubtleStyle.Render("The catalog cache is empty. Run 'salesflow catalog sync' first.")
	}

	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rating := "-"
		if p.Rating != nil {
			rating = strconv.FormatFloat(*p.Rating, 'f', 2, 64)
		}
		rows = append(rows, []string{
			strconv.Itoa(p.ID),
			p.Title,
			p.Category,
			p.Brand,
			report.FormatCurrency(currency, p.Price),
			rating,
		})
	}

	return newTable("ID", "Title", "Category", "Brand", "Price", "Rating").
		Rows(rows...).
		Render()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtleStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
