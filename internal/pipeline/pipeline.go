package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/climate-stats-etl/internal/domain"
	"github.com/couchcryptid/climate-stats-etl/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoFiles ends a run when discovery finds no CSV files.
	ErrNoFiles = errors.New("no CSV files found")
	// ErrNoRecords ends a run when no file yields a station record.
	ErrNoRecords = errors.New("no valid records loaded")
)

// IsEmptyRun reports whether err means a run found nothing to report on.
// Such runs end cleanly and have already been logged.
func IsEmptyRun(err error) bool {
	return errors.Is(err, ErrNoFiles) || errors.Is(err, ErrNoRecords)
}

// Discoverer lists the input files under a root directory.
type Discoverer interface {
	Discover(root string) domain.Discovery
}

// RecordLoader parses one input file.
type RecordLoader interface {
	Load(ctx context.Context, path string) (domain.LoadedFile, error)
}

// ReportSink persists or publishes one formatted report.
type ReportSink interface {
	Name() string
	WriteReport(ctx context.Context, run domain.RunInfo, report domain.Report) error
}

// Exporter renders a whole run into an extra artifact (workbook, chart).
type Exporter interface {
	Name() string
	Export(ctx context.Context, out domain.RunOutput) error
}

// Options tune a Pipeline.
type Options struct {
	DataDir     string
	LoadWorkers int
}

// Pipeline runs discovery, loading, reshaping, aggregation and reporting.
type Pipeline struct {
	discoverer Discoverer
	loader     RecordLoader
	sinks      []ReportSink
	exporters  []Exporter
	logger     *slog.Logger
	metrics    *observability.Metrics
	opts       Options
	latest     atomic.Pointer[domain.RunOutput]
}

// New creates a Pipeline with the given stages and observability.
func New(d Discoverer, l RecordLoader, sinks []ReportSink, exporters []Exporter, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if opts.LoadWorkers < 1 {
		opts.LoadWorkers = 1
	}
	return &Pipeline{
		discoverer: d,
		loader:     l,
		sinks:      sinks,
		exporters:  exporters,
		logger:     logger,
		metrics:    metrics,
		opts:       opts,
	}
}

// CheckReadiness returns nil once a run has completed successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.latest.Load() == nil {
		return errors.New("pipeline has not completed a run yet")
	}
	return nil
}

// Latest returns the output of the most recent successful run.
func (p *Pipeline) Latest() (domain.RunOutput, bool) {
	out := p.latest.Load()
	if out == nil {
		return domain.RunOutput{}, false
	}
	return *out, true
}

// Run executes one pass over the data directory. It returns ErrNoFiles or
// ErrNoRecords when there is nothing to report on; in that case no reports
// are written. Per-file and per-report failures are logged and counted but
// do not fail the run.
func (p *Pipeline) Run(ctx context.Context) (domain.RunOutput, error) {
	start := time.Now()
	run := domain.RunInfo{ID: uuid.NewString(), GeneratedAt: domain.Now()}
	logger := p.logger.With("run_id", run.ID)

	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	out, err := p.run(ctx, logger, run)
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		p.metrics.RunsTotal.WithLabelValues("success").Inc()
		p.metrics.LastSuccessSeconds.Set(float64(run.GeneratedAt.Unix()))
		p.latest.Store(&out)
		logger.Info("run complete",
			"files", out.Files,
			"records", out.Records,
			"observations", out.Observations,
			"duration", time.Since(start),
		)
	case errors.Is(err, ErrNoFiles):
		p.metrics.RunsTotal.WithLabelValues("no_files").Inc()
	case errors.Is(err, ErrNoRecords):
		p.metrics.RunsTotal.WithLabelValues("no_records").Inc()
	default:
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
	}
	return out, err
}

func (p *Pipeline) run(ctx context.Context, logger *slog.Logger, run domain.RunInfo) (domain.RunOutput, error) {
	logger.Info("run started", "data_dir", p.opts.DataDir)

	disc := p.discoverer.Discover(p.opts.DataDir)
	for _, s := range disc.Skipped {
		logger.Warn("skipping unreadable directory", "path", s.Path, "error", s.Err)
		p.metrics.DirectoriesSkipped.Inc()
	}
	p.metrics.FilesDiscovered.Add(float64(len(disc.Files)))
	if len(disc.Files) == 0 {
		logger.Warn("no CSV files found", "data_dir", p.opts.DataDir)
		return domain.RunOutput{}, fmt.Errorf("%s: %w", p.opts.DataDir, ErrNoFiles)
	}
	logger.Info("files discovered", "count", len(disc.Files))

	results, err := p.loadAll(ctx, disc.Files)
	if err != nil {
		return domain.RunOutput{}, err
	}

	var records []domain.StationRecord
	files := 0
	for i, r := range results {
		path := disc.Files[i]
		if r.err != nil {
			p.logRejected(logger, path, r.err)
			continue
		}
		files++
		records = append(records, r.file.Records...)
		p.metrics.RecordsLoaded.Add(float64(len(r.file.Records)))
		p.metrics.CellsMissing.Add(float64(r.file.MissingCells))
		logger.Debug("file loaded", "path", path, "records", len(r.file.Records), "missing_cells", r.file.MissingCells)
	}
	if len(records) == 0 {
		logger.Warn("no valid records loaded", "files", len(disc.Files))
		return domain.RunOutput{}, ErrNoRecords
	}

	obs := domain.Reshape(records)
	p.metrics.Observations.Add(float64(len(obs)))
	if len(obs) == 0 {
		logger.Warn("records contain no valid temperature cells", "records", len(records))
	}

	res := domain.Aggregate(obs)
	out := domain.RunOutput{
		Run:          run,
		Files:        files,
		Records:      len(records),
		Observations: len(obs),
		Results:      res,
		Reports:      domain.BuildReports(res),
	}

	p.publish(ctx, logger, out)
	return out, nil
}

type loadResult struct {
	file domain.LoadedFile
	err  error
}

// loadAll parses files on a bounded pool. Results keep discovery order.
func (p *Pipeline) loadAll(ctx context.Context, paths []string) ([]loadResult, error) {
	results := make([]loadResult, len(paths))

	var g errgroup.Group
	g.SetLimit(p.opts.LoadWorkers)
	for i, path := range paths {
		g.Go(func() error {
			f, err := p.loader.Load(ctx, path)
			results[i] = loadResult{file: f, err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load files: %w", err)
	}
	return results, nil
}

func (p *Pipeline) logRejected(logger *slog.Logger, path string, err error) {
	var mce *domain.MissingColumnsError
	if errors.As(err, &mce) {
		p.metrics.FilesRejected.WithLabelValues("missing_columns").Inc()
		logger.Warn("skipping file with missing columns", "path", path, "missing_columns", mce.Columns)
		return
	}
	p.metrics.FilesRejected.WithLabelValues("unreadable").Inc()
	logger.Warn("skipping unreadable file", "path", path, "error", err)
}

// publish hands every report to every sink, then runs the exporters.
// Each failure is isolated to its own output.
func (p *Pipeline) publish(ctx context.Context, logger *slog.Logger, out domain.RunOutput) {
	for _, sink := range p.sinks {
		for _, r := range out.Reports {
			if err := sink.WriteReport(ctx, out.Run, r); err != nil {
				p.metrics.ReportWriteErrors.WithLabelValues(string(r.Kind), sink.Name()).Inc()
				logger.Error("write report failed", "report", r.Kind, "sink", sink.Name(), "error", err)
				continue
			}
			p.metrics.ReportsWritten.WithLabelValues(string(r.Kind), sink.Name()).Inc()
		}
	}

	for _, e := range p.exporters {
		if err := e.Export(ctx, out); err != nil {
			p.metrics.ExportErrors.WithLabelValues(e.Name()).Inc()
			logger.Error("export failed", "exporter", e.Name(), "error", err)
		}
	}
}

// RunEvery runs the pipeline immediately and then once per interval until
// the context is cancelled. Run errors are logged and the schedule continues.
func (p *Pipeline) RunEvery(ctx context.Context, clk clockwork.Clock, interval time.Duration) {
	p.logger.Info("scheduler started", "interval", interval)
	ticker := clk.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := p.Run(ctx); err != nil && !IsEmptyRun(err) && ctx.Err() == nil {
			p.logger.Error("run failed", "error", err)
		}

		select {
		case <-ctx.Done():
			p.logger.Info("scheduler stopping", "reason", ctx.Err())
			return
		case <-ticker.Chan():
		}
	}
}
