// Package report persists formatted reports and renders run summaries as
// workbooks and charts.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/climate-stats-etl/internal/domain"
)

// FileSink writes each report to its own text file under one directory.
// It implements pipeline.ReportSink.
type FileSink struct {
	dir   string
	names map[domain.ReportKind]string
}

// NewFileSink creates a FileSink. names maps each report kind to a file name
// relative to dir.
func NewFileSink(dir string, names map[domain.ReportKind]string) *FileSink {
	return &FileSink{dir: dir, names: names}
}

func (s *FileSink) Name() string { return "file" }

// Path returns where the given report is written.
func (s *FileSink) Path(kind domain.ReportKind) (string, bool) {
	name, ok := s.names[kind]
	if !ok {
		return "", false
	}
	return filepath.Join(s.dir, name), true
}

// WriteReport replaces the report file with the report body.
func (s *FileSink) WriteReport(_ context.Context, _ domain.RunInfo, r domain.Report) error {
	path, ok := s.Path(r.Kind)
	if !ok {
		return fmt.Errorf("no output file configured for %s report", r.Kind)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir for %s report: %w", r.Kind, err)
	}
	if err := os.WriteFile(path, []byte(r.Body()), 0o644); err != nil {
		return fmt.Errorf("write %s report: %w", r.Kind, err)
	}
	return nil
}
