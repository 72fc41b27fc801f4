package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/couchcryptid/climate-stats-etl/internal/adapter/csvfs"
	"github.com/couchcryptid/climate-stats-etl/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/climate-stats-etl/internal/adapter/kafka"
	"github.com/couchcryptid/climate-stats-etl/internal/adapter/report"
	"github.com/couchcryptid/climate-stats-etl/internal/config"
	"github.com/couchcryptid/climate-stats-etl/internal/domain"
	"github.com/couchcryptid/climate-stats-etl/internal/observability"
	"github.com/couchcryptid/climate-stats-etl/internal/pipeline"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Scheduled runs reuse parsed files that have not changed.
	var loader pipeline.RecordLoader = csvfs.NewLoader()
	if cfg.ServiceMode() {
		loader = csvfs.NewCachedLoader(csvfs.NewLoader(), cfg.FileCacheSize, metrics)
		logger.Info("file cache enabled", "cache_size", cfg.FileCacheSize)
	}

	sinks := []pipeline.ReportSink{
		report.NewFileSink(cfg.OutputDir, map[domain.ReportKind]string{
			domain.ReportSeasonal:  cfg.SeasonalReportFile,
			domain.ReportRange:     cfg.RangeReportFile,
			domain.ReportStability: cfg.StabilityReportFile,
		}),
	}

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sinks = append(sinks, writer)
		logger.Info("kafka report publishing enabled", "topic", cfg.KafkaReportTopic, "brokers", cfg.KafkaBrokers)
	}

	var exporters []pipeline.Exporter
	if cfg.WorkbookFile != "" {
		exporters = append(exporters, report.NewWorkbookExporter(outputPath(cfg, cfg.WorkbookFile)))
	}
	if cfg.ChartFile != "" {
		exporters = append(exporters, report.NewChartExporter(outputPath(cfg, cfg.ChartFile)))
	}

	p := pipeline.New(csvfs.NewDiscoverer(), loader, sinks, exporters, logger, metrics, pipeline.Options{
		DataDir:     cfg.DataDir,
		LoadWorkers: cfg.LoadWorkers,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.ServiceMode() {
		serve(ctx, cfg, p, logger)
	} else if _, err := p.Run(ctx); err != nil && !pipeline.IsEmptyRun(err) {
		logger.Error("run failed", "error", err)
	}

	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	logger.Info("shutdown complete")
}

// serve runs the pipeline on an interval behind the HTTP server until ctx is done.
func serve(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, logger *slog.Logger) {
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.RunEvery(ctx, clockwork.NewRealClock(), cfg.RunInterval)
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}
}

func outputPath(cfg *config.Config, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(cfg.OutputDir, name)
}
