// Package service ties the analytics engine together: it builds the award
// report, analyzes classification runs on a worker pool and wraps both in a
// report envelope.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/kudos/internal/domain/compare"
	"github.com/okian/kudos/internal/domain/population"
	"github.com/okian/kudos/internal/domain/quality"
	"github.com/okian/kudos/internal/domain/record"
	"github.com/okian/kudos/internal/domain/stats"
	"github.com/okian/kudos/internal/domain/views"
	"github.com/okian/kudos/internal/worker"
	"github.com/okian/kudos/pkg/logger"
	"github.com/okian/kudos/pkg/metrics"
)

// Service runs the analytics pipelines. It holds configuration only and is
// safe for concurrent use.
type Service struct {
	workerCount    int
	topTitles      int
	topPairs       int
	messageSamples int
	previewLength  int
	batchSize      int
	multipliers    []float64

	now     func() time.Time
	metrics *metrics.Manager
	logger  logger.Logger
}

// AwardReport is the descriptive half of a report.
type AwardReport struct {
	Stats      stats.Report        `json:"stats"`
	Views      views.Views         `json:"views"`
	Population population.Estimate `json:"population"`
	Discarded  int                 `json:"discarded_rows"`
}

// RunInput is one classification run ready for analysis. A nil Taxonomy
// selects the default taxonomy.
type RunInput struct {
	Name            string
	Taxonomy        *quality.Taxonomy
	Classifications quality.ClassificationSet
	Summary         *quality.RunSummary
}

// RunResult is the analysis of one run.
type RunResult struct {
	Name     string                `json:"name"`
	Analysis quality.Analysis      `json:"analysis"`
	Score    compare.PipelineScore `json:"score"`
}

// RunsReport is the classification-quality half of a report.
type RunsReport struct {
	Runs       []RunResult         `json:"runs"`
	Comparison *compare.Comparison `json:"comparison,omitempty"`
}

// Inputs selects what Generate analyzes. Either half may be absent.
type Inputs struct {
	Awards io.Reader
	Runs   []RunInput
}

// Report is the envelope written by the CLI.
type Report struct {
	ID          string              `json:"id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Awards      *AwardReport        `json:"awards,omitempty"`
	Runs        []RunResult         `json:"runs,omitempty"`
	Comparison  *compare.Comparison `json:"comparison,omitempty"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU(),
		topTitles:      15,
		topPairs:       10,
		messageSamples: 5,
		previewLength:  110,
		batchSize:      50,
		multipliers:    population.DefaultMultipliers,
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}
	if s.metrics == nil {
		s.metrics = metrics.Default()
	}
	return s
}

// BuildAwardReport parses award records from in and derives statistics,
// views and the population estimate. Schema, empty-input and malformed
// input errors abort the build.
func (s *Service) BuildAwardReport(ctx context.Context, in io.Reader) (*AwardReport, error) {
	start := time.Now()
	parsed, err := record.Parse(in)
	s.metrics.ObserveStage(metrics.StageParse, time.Since(start))
	if err != nil {
		s.metrics.RecordErrorByComponent("parser", parseErrorKind(err))
		s.logger.Error(ctx, "parse award records failed", logger.Error(err))
		return nil, fmt.Errorf("parse award records: %w", err)
	}
	s.metrics.RecordParse(len(parsed.Records), parsed.Discarded)
	s.logger.Info(ctx, "award records parsed",
		logger.Int("records", len(parsed.Records)),
		logger.Int("discarded", parsed.Discarded),
	)

	start = time.Now()
	rep := stats.Aggregate(parsed.Records,
		stats.WithTopTitles(s.topTitles),
		stats.WithTopPairs(s.topPairs),
		stats.WithSampleSize(s.messageSamples),
		stats.WithPreviewLength(s.previewLength),
	)
	s.metrics.ObserveStage(metrics.StageAggregate, time.Since(start))
	s.metrics.UpdateUniqueTitles("award", rep.UniqueAwardTitles)
	s.metrics.UpdateUniqueTitles("recipient", rep.UniqueRecipientTitles)
	s.metrics.UpdateUniqueTitles("nominator", rep.UniqueNominatorTitles)

	start = time.Now()
	v := views.Build(rep)
	s.metrics.ObserveStage(metrics.StageViews, time.Since(start))

	start = time.Now()
	est := population.FromReport(rep, population.WithMultipliers(s.multipliers))
	s.metrics.ObserveStage(metrics.StagePopulation, time.Since(start))
	s.metrics.UpdatePopulationEstimate(est.PointEstimate)
	s.logger.Info(ctx, "population estimated",
		logger.Int("n1", est.N1),
		logger.Int("n2", est.N2),
		logger.Int("m", est.M),
		logger.Int("estimate", est.PointEstimate),
	)

	return &AwardReport{Stats: rep, Views: v, Population: est, Discarded: parsed.Discarded}, nil
}

// AnalyzeRuns analyzes every run on the worker pool and, once all are done,
// compares them when there are at least two.
func (s *Service) AnalyzeRuns(ctx context.Context, runs []RunInput) (*RunsReport, error) {
	seen := make(map[string]struct{}, len(runs))
	for _, r := range runs {
		if r.Name == "" {
			return nil, fmt.Errorf("%w: run name must not be empty", ErrRunInput)
		}
		if _, dup := seen[r.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate run name %q", ErrRunInput, r.Name)
		}
		seen[r.Name] = struct{}{}
	}

	pool := worker.NewPool(s.workerCount,
		worker.WithName("runs"),
		worker.WithLogger(s.logger.Named("runs")),
		worker.WithMetrics(s.metrics),
	)
	tasks := make([]worker.Task[compare.RunAnalysis], len(runs))
	for i, r := range runs {
		tasks[i] = func(ctx context.Context) (compare.RunAnalysis, error) {
			return s.analyzeRun(ctx, r), nil
		}
	}
	analyses, err := worker.Run(ctx, pool, tasks)
	if err != nil {
		return nil, err
	}

	out := &RunsReport{Runs: make([]RunResult, len(analyses))}
	for i, a := range analyses {
		out.Runs[i] = RunResult{Name: a.Name, Analysis: a.Analysis, Score: compare.Score(a.Name, a.Analysis, a.Summary)}
	}
	if len(analyses) < 2 {
		return out, nil
	}

	start := time.Now()
	cmp, err := compare.Compare(analyses)
	s.metrics.ObserveStage(metrics.StageCompare, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("compare runs: %w", err)
	}
	s.metrics.RecordComparison()
	out.Comparison = &cmp
	return out, nil
}

func (s *Service) analyzeRun(ctx context.Context, r RunInput) compare.RunAnalysis {
	start := time.Now()
	a := quality.Analyze(r.Taxonomy, r.Classifications,
		quality.WithRun(r.Name),
		quality.WithDefaultBatchSize(s.batchSize),
	)
	s.metrics.ObserveStage(metrics.StageAnalyze, time.Since(start))

	fallback := a.TaxonomySource == quality.SourceDefault
	s.metrics.RecordRunAnalyzed(r.Name, a.ValidCount, a.MalformedCount, a.SuccessRate, a.MalformedRate, fallback)
	for _, f := range a.SubcategoryFormats {
		s.metrics.RecordSubcategoryFormat(f.Format, f.Count)
	}
	for _, w := range a.Warnings {
		s.logger.Warn(ctx, "run analysis warning", logger.String("run", r.Name), logger.String("warning", w))
	}
	s.logger.Info(ctx, "run analyzed",
		logger.String("run", r.Name),
		logger.Int("classifications", a.Classifications),
		logger.Float64("malformed_rate", a.MalformedRate),
		logger.Bool("default_taxonomy", fallback),
	)

	tax, _, _ := quality.ResolveTaxonomy(r.Name, r.Taxonomy)
	return compare.RunAnalysis{Name: r.Name, Taxonomy: tax, Analysis: a, Summary: r.Summary}
}

// Generate builds both halves concurrently and wraps them in a Report.
func (s *Service) Generate(ctx context.Context, in Inputs) (*Report, error) {
	if in.Awards == nil && len(in.Runs) == 0 {
		return nil, ErrNoInput
	}

	var (
		awards *AwardReport
		runs   *RunsReport
	)
	g, gctx := errgroup.WithContext(ctx)
	if in.Awards != nil {
		g.Go(func() error {
			var err error
			awards, err = s.BuildAwardReport(gctx, in.Awards)
			return err
		})
	}
	if len(in.Runs) > 0 {
		g.Go(func() error {
			var err error
			runs, err = s.AnalyzeRuns(gctx, in.Runs)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &Report{
		ID:          uuid.NewString(),
		GeneratedAt: s.now().UTC(),
		Awards:      awards,
	}
	if awards != nil && awards.Discarded > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d blank award rows discarded", awards.Discarded))
	}
	if runs != nil {
		rep.Runs = runs.Runs
		rep.Comparison = runs.Comparison
		for _, r := range runs.Runs {
			rep.Warnings = append(rep.Warnings, r.Analysis.Warnings...)
		}
	}
	s.logger.Info(ctx, "report generated", logger.String("id", rep.ID), logger.Int("warnings", len(rep.Warnings)))
	return rep, nil
}

func parseErrorKind(err error) string {
	switch {
	case errors.Is(err, record.ErrSchema):
		return "schema"
	case errors.Is(err, record.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, record.ErrMalformedRecord):
		return "malformed_record"
	default:
		return "read"
	}
}
