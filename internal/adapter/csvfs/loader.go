package csvfs

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/couchcryptid/climate-stats-etl/internal/domain"
)

// ErrEmptyFile is returned for a file without a header row.
var ErrEmptyFile = errors.New("no header row")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader reads station records from CSV files.
// It implements pipeline.RecordLoader.
type Loader struct{}

// NewLoader creates a Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses one CSV file. Any failure (unreadable file, invalid UTF-8,
// malformed CSV, missing columns) is returned as an error and the file
// contributes no records.
func (l *Loader) Load(ctx context.Context, path string) (domain.LoadedFile, error) {
	if err := ctx.Err(); err != nil {
		return domain.LoadedFile{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.LoadedFile{}, fmt.Errorf("read %s: %w", path, err)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (domain.LoadedFile, error) {
	if !utf8.Valid(data) {
		return domain.LoadedFile{}, fmt.Errorf("decode %s: invalid UTF-8", path)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return domain.LoadedFile{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(all) == 0 {
		return domain.LoadedFile{}, fmt.Errorf("parse %s: %w", path, ErrEmptyFile)
	}

	records, missing, err := domain.ParseStationRows(path, all[0], all[1:])
	if err != nil {
		return domain.LoadedFile{}, fmt.Errorf("%s: %w", path, err)
	}
	return domain.LoadedFile{Path: path, Records: records, MissingCells: missing}, nil
}
