package salesdata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Header is the column header line of a sales log.
const Header = "TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region"

// Row is one sales record. Fields are raw text so tests can produce
// malformed values such as "45,000" or an empty region.
type Row struct {
	ID          string
	Date        string
	ProductID   string
	ProductName string
	Quantity    string
	UnitPrice   string
	CustomerID  string
	Region      string
}

// Line renders the row in pipe-delimited form.
func (r Row) Line() string {
	return strings.Join([]string{
		r.ID, r.Date, r.ProductID, r.ProductName,
		r.Quantity, r.UnitPrice, r.CustomerID, r.Region,
	}, "|")
}

// Builder provides a fluent interface for constructing sales logs.
type Builder struct {
	t     *testing.T
	name  string
	lines []string
}

// NewBuilder creates an empty log builder.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t, name: "sales_data.txt"}
}

// Named sets the file name used by WriteFile.
func (b *Builder) Named(name string) *Builder {
	b.name = name
	return b
}

// WithHeader appends the column header line.
func (b *Builder) WithHeader() *Builder {
	b.lines = append(b.lines, Header)
	return b
}

// WithRow appends one record.
func (b *Builder) WithRow(r Row) *Builder {
	b.lines = append(b.lines, r.Line())
	return b
}

// WithRows appends several records.
func (b *Builder) WithRows(rows ...Row) *Builder {
	for _, r := range rows {
		b.WithRow(r)
	}
	return b
}

// WithLine appends a raw line verbatim.
func (b *Builder) WithLine(line string) *Builder {
	b.lines = append(b.lines, line)
	return b
}

// WithFixture appends every line of f.
func (b *Builder) WithFixture(f *Fixture) *Builder {
	b.lines = append(b.lines, f.lines...)
	return b
}

// Build returns the log content with a trailing newline.
func (b *Builder) Build() string {
	if len(b.lines) == 0 {
		return ""
	}
	return strings.Join(b.lines, "\n") + "\n"
}

// WriteFile writes the log into a fresh temp dir and returns its path.
func (b *Builder) WriteFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), b.name)
	if err := os.WriteFile(path, []byte(b.Build()), 0600); err != nil {
		t.Fatalf("failed to write sales log: %v", err)
	}
	return path
}
