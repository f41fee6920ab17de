package report

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Veraticus/salesflow/internal/model"
	"github.com/Veraticus/salesflow/internal/pipeline"
)

// EnrichedHeader is the first line of the enriched dump.
var EnrichedHeader = []string{
	"TransactionID", "Date", "ProductID", "ProductName", "Quantity", "UnitPrice",
	"CustomerID", "Region", "API_Category", "API_Brand", "API_Rating", "API_Match",
}

// WriteEnrichedDump writes one pipe-delimited line per enriched transaction
// under EnrichedHeader. Missing metadata is written as an empty field.
func WriteEnrichedDump(path string, enriched []model.EnrichedTransaction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(strings.Join(EnrichedHeader, "|") + "\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, et := range enriched {
		if _, err := w.WriteString(strings.Join(enrichedFields(et), "|") + "\n"); err != nil {
			return fmt.Errorf("failed to write %s: %w", et.TransactionID, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return f.Close()
}

func enrichedFields(et model.EnrichedTransaction) []string {
	return []string{
		et.TransactionID,
		et.DateKey(),
		et.ProductID,
		et.ProductName,
		strconv.Itoa(et.Quantity),
		strconv.FormatFloat(et.UnitPrice, 'f', -1, 64),
		et.CustomerID,
		et.Region,
		deref(et.Category),
		deref(et.Brand),
		formatRating(et.Rating),
		strconv.FormatBool(et.Match),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatRating(r *float64) string {
	if r == nil {
		return ""
	}
	return strconv.FormatFloat(*r, 'f', -1, 64)
}

// EnrichedWriter adapts WriteEnrichedDump to pipeline.ReportWriter.
type EnrichedWriter struct {
	logger *slog.Logger
	path   string
}

// NewEnrichedWriter creates a writer for the dump at path.
func NewEnrichedWriter(path string, logger *slog.Logger) *EnrichedWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnrichedWriter{path: path, logger: logger}
}

// Name implements pipeline.ReportWriter.
func (w *EnrichedWriter) Name() string { return "enriched dump" }

// Path returns the output location.
func (w *EnrichedWriter) Path() string { return w.path }

// Write implements pipeline.ReportWriter.
func (w *EnrichedWriter) Write(_ context.Context, result *pipeline.Result) error {
	if err := WriteEnrichedDump(w.path, result.Enriched); err != nil {
		return err
	}
	w.logger.Info("Enriched data saved", "path", w.path, "records", len(result.Enriched))
	return nil
}
