// Package tui provides an interactive terminal browser for a sales analysis
// report.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/salesflow/internal/analysis"
	"github.com/Veraticus/salesflow/internal/report"
	"github.com/Veraticus/salesflow/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultTableHeight = 20
	maxColumnWidth     = 40
	// Title, subtitle, tab bar, status line and help.
	chromeHeight = 8
)

// view is one tab of the browser.
type view struct {
	title   string
	columns []table.Column
	rows    []table.Row
}

// Browser is the bubbletea model for browsing a report.
type Browser struct {
	report   *analysis.Report
	theme    themes.Theme
	keys     KeyMap
	help     help.Model
	title    string
	currency string
	views    []view
	table    table.Model
	active   int
	width    int
	height   int
	showHelp bool
	quitting bool
}

// Option configures a Browser.
type Option func(*Browser)

// WithTheme sets the color theme.
func WithTheme(theme themes.Theme) Option {
	return func(b *Browser) {
		b.theme = theme
	}
}

// WithTitle sets the heading shown above the tabs.
func WithTitle(title string) Option {
	return func(b *Browser) {
		b.title = title
	}
}

// WithCurrency sets the currency symbol used for money columns.
func WithCurrency(symbol string) Option {
	return func(b *Browser) {
		b.currency = symbol
	}
}

// NewBrowser creates a browser over r.
func NewBrowser(r *analysis.Report, opts ...Option) Browser {
	if r == nil {
		r = &analysis.Report{}
	}
	b := Browser{
		report:   r,
		theme:    themes.Default,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		title:    "Sales Analytics",
		currency: "₹",
	}
	for _, opt := range opts {
		opt(&b)
	}

	b.views = buildViews(r, b.currency)

	styles := table.DefaultStyles()
	styles.Header = b.theme.TableHeader
	styles.Selected = b.theme.TableSelected
	b.table = table.New(
		table.WithFocused(true),
		table.WithHeight(defaultTableHeight),
		table.WithStyles(styles),
	)
	b.setView(0)
	return b
}

// Init implements tea.Model.
func (b Browser) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.help.Width = msg.Width
		b.table.SetHeight(max(msg.Height-chromeHeight, 3))
		return b, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, b.keys.Quit):
			b.quitting = true
			return b, tea.Quit
		case key.Matches(msg, b.keys.Help):
			b.showHelp = !b.showHelp
			b.help.ShowAll = b.showHelp
			return b, nil
		case key.Matches(msg, b.keys.NextTab):
			b.setView((b.active + 1) % len(b.views))
			return b, nil
		case key.Matches(msg, b.keys.PrevTab):
			b.setView((b.active - 1 + len(b.views)) % len(b.views))
			return b, nil
		}
	}

	var cmd tea.Cmd
	b.table, cmd = b.table.Update(msg)
	return b, cmd
}

// View implements tea.Model.
func (b Browser) View() string {
	if b.quitting {
		return ""
	}

	var s strings.Builder
	s.WriteString(b.theme.Title.Render(b.title))
	s.WriteString("\n")
	s.WriteString(b.theme.Subtitle.Render(b.subtitle()))
	s.WriteString("\n\n")
	s.WriteString(b.renderTabs())
	s.WriteString("\n")
	s.WriteString(b.table.View())
	s.WriteString("\n")

	current := b.views[b.active]
	status := fmt.Sprintf("%s: %d rows", current.title, len(current.rows))
	if len(current.rows) > 0 {
		status = fmt.Sprintf("%s: row %d of %d", current.title, b.table.Cursor()+1, len(current.rows))
	}
	s.WriteString(b.theme.StatusBar.Render(status))
	s.WriteString("\n")
	s.WriteString(b.help.View(b.keys))
	return s.String()
}

// ActiveView returns the title of the selected tab.
func (b Browser) ActiveView() string {
	return b.views[b.active].title
}

func (b *Browser) setView(i int) {
	b.active = i
	v := b.views[i]
	// Rows must be cleared before the column count changes.
	b.table.SetRows(nil)
	b.table.SetColumns(v.columns)
	b.table.SetRows(v.rows)
	b.table.GotoTop()
}

func (b Browser) subtitle() string {
	parts := []string{
		fmt.Sprintf("%d transactions", b.report.Transactions),
		"revenue " + report.FormatCurrency(b.currency, b.report.TotalRevenue),
	}
	if b.report.Peak != nil {
		parts = append(parts, fmt.Sprintf("best day %s", b.report.Peak.Date.Format("2006-01-02")))
	}
	return strings.Join(parts, " · ")
}

func (b Browser) renderTabs() string {
	tabs := make([]string, 0, len(b.views))
	for i, v := range b.views {
		style := b.theme.Tab
		if i == b.active {
			style = b.theme.ActiveTab
		}
		tabs = append(tabs, style.Render(v.title))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func buildViews(r *analysis.Report, currency string) []view {
	money := func(v float64) string { return report.FormatCurrency(currency, v) }

	regions := make([]table.Row, 0, len(r.Regions))
	for _, s := range r.Regions {
		regions = append(regions, table.Row{
			s.Region, money(s.TotalSales), report.FormatPercent(s.Percentage), strconv.Itoa(s.TransactionCount),
		})
	}

	products := make([]table.Row, 0, len(r.TopProducts))
	for i, p := range r.TopProducts {
		products = append(products, table.Row{
			strconv.Itoa(i + 1), p.Name, strconv.Itoa(p.TotalQuantity), money(p.TotalRevenue),
		})
	}

	customers := make([]table.Row, 0, len(r.Customers))
	for _, c := range r.Customers {
		customers = append(customers, table.Row{
			c.CustomerID, money(c.TotalSpent), strconv.Itoa(c.PurchaseCount),
			money(c.AvgOrderValue), strings.Join(c.Products, ", "),
		})
	}

	daily := make([]table.Row, 0, len(r.Daily))
	for _, d := range r.Daily {
		daily = append(daily, table.Row{
			d.Date.Format("2006-01-02"), money(d.Revenue),
			strconv.Itoa(d.TransactionCount), strconv.Itoa(d.UniqueCustomers),
		})
	}

	low := make([]table.Row, 0, len(r.LowPerformers))
	for _, p := range r.LowPerformers {
		low = append(low, table.Row{p.Name, strconv.Itoa(p.TotalQuantity), money(p.TotalRevenue)})
	}

	return []view{
		newView("Regions", []string{"Region", "Sales", "Share", "Transactions"}, regions),
		newView("Top Products", []string{"Rank", "Product", "Quantity", "Revenue"}, products),
		newView("Customers", []string{"Customer", "Spent", "Orders", "Avg Order", "Products"}, customers),
		newView("Daily Trend", []string{"Date", "Revenue", "Transactions", "Customers"}, daily),
		newView("Low Performers", []string{"Product", "Quantity", "Revenue"}, low),
	}
}

// newView sizes each column to its widest cell.
func newView(title string, headers []string, rows []table.Row) view {
	columns := make([]table.Column, len(headers))
	for i, h := range headers {
		width := lipgloss.Width(h)
		for _, row := range rows {
			width = max(width, lipgloss.Width(row[i]))
		}
		columns[i] = table.Column{Title: h, Width: min(width, maxColumnWidth)}
	}
	return view{title: title, columns: columns, rows: rows}
}
