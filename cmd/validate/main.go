// Command validate is a dry run over a station data tree. It discovers and
// parses every CSV file without writing any report, prints a PASS/FAIL line
// per file and per phase, and previews the reports a real run would produce.
// It exits 1 when no file is usable.
//
// Usage:
//
//	go run ./cmd/validate -data-dir temperatures
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/couchcryptid/climate-stats-etl/internal/adapter/csvfs"
	"github.com/couchcryptid/climate-stats-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// fileResult is the outcome of parsing one discovered file.
type fileResult struct {
	path    string
	records int
	missing int
	err     error
}

func main() {
	dataDir := flag.String("data-dir", "temperatures", "root directory of station CSV files")
	quiet := flag.Bool("quiet", false, "omit the report preview")
	flag.Parse()

	os.Exit(run(*dataDir, !*quiet))
}

func run(dataDir string, preview bool) int {
	fmt.Println("=== Station Data Validation ===")
	fmt.Printf("Data directory: %s\n\n", dataDir)

	discovery := &phase{name: "Discovery"}
	disc := csvfs.NewDiscoverer().Discover(dataDir)
	for _, s := range disc.Skipped {
		discovery.errorf("unreadable directory %s: %v", s.Path, s.Err)
	}
	if len(disc.Files) == 0 {
		discovery.errorf("no CSV files found under %s", dataDir)
	}

	loading := &phase{name: "Loading"}
	results, records := loadFiles(disc.Files)
	for _, r := range results {
		status := "PASS"
		detail := fmt.Sprintf("%d records, %d missing cells", r.records, r.missing)
		if r.err != nil {
			status = "FAIL"
			detail = describe(r.err)
			loading.errorf("%s: %s", r.path, detail)
		}
		fmt.Printf("  %-4s %-50s %s\n", status, r.path, detail)
	}

	aggregation := &phase{name: "Aggregation"}
	var reports []domain.Report
	if len(records) == 0 {
		aggregation.errorf("no valid records loaded")
	} else {
		obs := domain.Reshape(records)
		if len(obs) == 0 {
			aggregation.errorf("records contain no valid temperature cells")
		}
		reports = domain.BuildReports(domain.Aggregate(obs))
	}

	phases := []*phase{discovery, loading, aggregation}
	fmt.Println()
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	usable := 0
	for _, r := range results {
		if r.err == nil {
			usable++
		}
	}
	fmt.Printf("\nFiles: %d discovered, %d usable, %d rejected; %d station records\n",
		len(disc.Files), usable, len(disc.Files)-usable, len(records))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if preview && len(reports) > 0 {
		for _, r := range reports {
			fmt.Printf("\n--- %s report preview ---\n", r.Kind)
			fmt.Print(indent(r.Body()))
		}
	}

	if usable == 0 || len(records) == 0 {
		fmt.Println("\nValidation FAILED: no usable data.")
		return 1
	}
	fmt.Println("\nValidation complete.")
	return 0
}

func loadFiles(paths []string) ([]fileResult, []domain.StationRecord) {
	loader := csvfs.NewLoader()
	results := make([]fileResult, 0, len(paths))
	var records []domain.StationRecord

	for _, path := range paths {
		f, err := loader.Load(context.Background(), path)
		results = append(results, fileResult{path: path, records: len(f.Records), missing: f.MissingCells, err: err})
		if err == nil {
			records = append(records, f.Records...)
		}
	}
	return results, records
}

func describe(err error) string {
	var mce *domain.MissingColumnsError
	if errors.As(err, &mce) {
		return "missing columns: " + strings.Join(mce.Columns, ", ")
	}
	return err.Error()
}

func indent(body string) string {
	if body == "" {
		return "  (empty)\n"
	}
	lines := strings.Split(strings.TrimSuffix(body, "\n"), "\n")
	return "  " + strings.Join(lines, "\n  ") + "\n"
}
