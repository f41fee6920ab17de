// Package pipeline wires the sales processing stages together:
// read, parse, validate and filter, analyze, enrich, write, record.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/salesflow/internal/analysis"
	"github.com/Veraticus/salesflow/internal/catalog"
	"github.com/Veraticus/salesflow/internal/fileio"
	"github.com/Veraticus/salesflow/internal/model"
	"github.com/Veraticus/salesflow/internal/parser"
	"github.com/Veraticus/salesflow/internal/service"
	"github.com/Veraticus/salesflow/internal/validation"
	"github.com/google/uuid"
	"golang.org/x/text/encoding"
)

// Stage names reported to Progress.
const (
	StageRead     = "read"
	StageParse    = "parse"
	StageValidate = "validate"
	StageEnrich   = "enrich"
	StageRecord   = "record"
)

// analysisStages is the number of reductions analysis.Analyze reports.
const analysisStages = 7

// ReportWriter renders a finished run somewhere.
type ReportWriter interface {
	Name() string
	Write(ctx context.Context, result *Result) error
}

// CatalogResolver supplies the product mapping used for enrichment.
type CatalogResolver interface {
	Resolve(ctx context.Context) (catalog.Mapping, catalog.Source)
}

// Progress receives stage notifications. Step may be called concurrently.
type Progress interface {
	Start(total int)
	Step(stage string)
	Finish()
}

// Options configures a Pipeline.
type Options struct {
	Encoding     encoding.Encoding // fallback for non-UTF-8 input, nil disables
	Filter       validation.Filter
	TopN         int
	LowThreshold int
}

// Stats counts records through the stages that run before validation.
type Stats struct {
	CatalogSource   catalog.Source
	LinesRead       int
	ParseDiscarded  int
	Candidates      int
	EnrichedMatches int
}

// Result is everything one run produced.
type Result struct {
	StartedAt  time.Time
	Report     *analysis.Report
	RunID      string
	SourceFile string
	Enriched   []model.EnrichedTransaction
	Filter     validation.Filter
	Validation validation.Result
	Stats      Stats
}

// Pipeline runs the full processing chain over one input file.
type Pipeline struct {
	resolver CatalogResolver
	history  service.RunHistory
	progress Progress
	logger   *slog.Logger
	now      func() time.Time
	writers  []ReportWriter
	opts     Options
}

// New creates a Pipeline. resolver and history may be nil, in which case
// enrichment yields no matches and runs are not recorded.
func New(opts Options, resolver CatalogResolver, history service.RunHistory, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		opts:     opts,
		resolver: resolver,
		history:  history,
		logger:   logger,
		progress: nopProgress{},
		now:      time.Now,
	}
}

// WithProgress sets the progress reporter.
func (p *Pipeline) WithProgress(progress Progress) *Pipeline {
	if progress != nil {
		p.progress = progress
	}
	return p
}

// AddWriter appends an output writer. Writers run in the order added.
func (p *Pipeline) AddWriter(w ReportWriter) {
	p.writers = append(p.writers, w)
}

// TotalSteps is the number of Step calls a full Run makes.
func (p *Pipeline) TotalSteps() int {
	return 3 + analysisStages + 1 + len(p.writers) + 1
}

// Run processes the file at path. Row-level problems are counted, never
// returned; errors come only from I/O, cancellation and writers.
func (p *Pipeline) Run(ctx context.Context, path string) (*Result, error) {
	result := &Result{
		RunID:      uuid.NewString(),
		SourceFile: path,
		StartedAt:  p.now(),
		Filter:     p.opts.Filter,
	}
	logger := p.logger.With("run_id", result.RunID)

	p.progress.Start(p.TotalSteps())
	defer p.progress.Finish()

	lines, err := fileio.ReadLines(path, p.opts.Encoding)
	if err != nil {
		return nil, err
	}
	result.Stats.LinesRead = len(lines)
	p.progress.Step(StageRead)
	logger.Info("Read sales data", "file", path, "lines", len(lines))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates, discarded := parser.ParseLines(lines)
	result.Stats.Candidates = len(candidates)
	result.Stats.ParseDiscarded = discarded
	p.progress.Step(StageParse)
	logger.Info("Parsed records", "candidates", len(candidates), "discarded", discarded)

	result.Validation = validation.ValidateAndFilter(candidates, p.opts.Filter)
	p.progress.Step(StageValidate)
	summary := result.Validation.Summary
	logger.Info("Validated transactions",
		"valid", len(result.Validation.Accepted),
		"invalid", summary.Invalid,
		"filtered_by_region", summary.FilteredByRegion,
		"filtered_by_amount", summary.FilteredByAmount,
		"final", summary.FinalCount)

	report, err := analysis.Analyze(ctx, result.Validation.Filtered, analysis.Options{
		TopN:         p.opts.TopN,
		LowThreshold: p.opts.LowThreshold,
		ProgressFunc: p.progress.Step,
	})
	if err != nil {
		return nil, err
	}
	result.Report = report
	logger.Info("Analysis complete", "revenue", report.TotalRevenue, "transactions", report.Transactions)

	mapping, source := catalog.Mapping{}, catalog.SourceNone
	if p.resolver != nil {
		mapping, source = p.resolver.Resolve(ctx)
	}
	result.Enriched = catalog.Enrich(result.Validation.Filtered, mapping)
	result.Stats.CatalogSource = source
	result.Stats.EnrichedMatches = catalog.MatchCount(result.Enriched)
	p.progress.Step(StageEnrich)
	logger.Info("Enriched transactions",
		"matched", result.Stats.EnrichedMatches,
		"total", len(result.Enriched),
		"catalog_source", source)

	for _, w := range p.writers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := w.Write(ctx, result); err != nil {
			return nil, fmt.Errorf("%s: %w", w.Name(), err)
		}
		p.progress.Step("write:" + w.Name())
	}

	p.record(ctx, logger, result)
	p.progress.Step(StageRecord)

	return result, nil
}

// record stores the run summary. History is best effort.
func (p *Pipeline) record(ctx context.Context, logger *slog.Logger, result *Result) {
	if p.history == nil {
		return
	}
	if err := p.history.SaveRun(ctx, result.RunRecord()); err != nil {
		logger.Warn("Failed to record run", "error", err)
	}
}

// RunRecord summarizes the result for run history.
func (r *Result) RunRecord() *model.RunRecord {
	summary := r.Validation.Summary
	record := &model.RunRecord{
		ID:               r.RunID,
		StartedAt:        r.StartedAt,
		SourceFile:       r.SourceFile,
		Region:           r.Filter.Region,
		LinesRead:        r.Stats.LinesRead,
		ParseDiscarded:   r.Stats.ParseDiscarded,
		Candidates:       r.Stats.Candidates,
		Invalid:          summary.Invalid,
		FilteredByRegion: summary.FilteredByRegion,
		FilteredByAmount: summary.FilteredByAmount,
		FinalCount:       summary.FinalCount,
		EnrichedMatches:  r.Stats.EnrichedMatches,
	}
	if r.Report != nil {
		record.TotalRevenue = r.Report.TotalRevenue
	}
	return record
}

type nopProgress struct{}

func (nopProgress) Start(int)   {}
func (nopProgress) Step(string) {}
func (nopProgress) Finish()     {}
