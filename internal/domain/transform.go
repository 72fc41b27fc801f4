package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// nonNumericRe matches every character that cannot be part of a plain decimal number.
var nonNumericRe = regexp.MustCompile(`[^0-9.\-]`)

// CleanNumeric strips everything except digits, '.' and '-' from a raw cell
// and parses the remainder. The second return value is false when nothing
// parseable is left, e.g. "abc", "" or "1.2.3".
func CleanNumeric(raw string) (float64, bool) {
	cleaned := nonNumericRe.ReplaceAllString(raw, "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// MissingColumns returns the required columns absent from header, in
// canonical order. Header names are trimmed before comparison.
func MissingColumns(header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = struct{}{}
	}

	var missing []string
	for _, col := range RequiredColumns() {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// ParseStationRows converts a header and its data rows into station records.
// It returns a *MissingColumnsError when the header is incomplete, in which
// case no records are produced. Rows shorter than the header read the absent
// cells as empty. The int result counts month cells that cleaned to missing.
func ParseStationRows(source string, header []string, rows [][]string) ([]StationRecord, int, error) {
	if missing := MissingColumns(header); len(missing) > 0 {
		return nil, 0, &MissingColumnsError{Columns: missing}
	}

	// First occurrence wins when a header name is duplicated.
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	cell := func(row []string, col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	records := make([]StationRecord, 0, len(rows))
	missingCells := 0
	for _, row := range rows {
		rec := StationRecord{
			Name:   cell(row, ColumnStationName),
			ID:     cell(row, ColumnStationID),
			Lat:    cell(row, ColumnLat),
			Lon:    cell(row, ColumnLon),
			Source: source,
		}
		for _, m := range Months() {
			v, ok := CleanNumeric(cell(row, m.String()))
			if !ok {
				missingCells++
			}
			rec.Readings[m-1] = Reading{Celsius: v, Valid: ok}
		}
		records = append(records, rec)
	}
	return records, missingCells, nil
}

// Reshape converts wide station records into long-format observations, one
// per (record, month) with a valid reading. Missing readings are dropped.
func Reshape(records []StationRecord) []Observation {
	obs := make([]Observation, 0, len(records)*12)
	for _, rec := range records {
		for _, m := range Months() {
			r := rec.Reading(m)
			if !r.Valid {
				continue
			}
			obs = append(obs, Observation{
				Station: rec.Name,
				Month:   m,
				Season:  SeasonOf(m),
				Celsius: r.Celsius,
			})
		}
	}
	return obs
}
