package domain

import (
	"fmt"
	"strings"
	"time"
)

// Identity column names.
const (
	ColumnStationName = "STATION_NAME"
	ColumnStationID   = "STN_ID"
	ColumnLat         = "LAT"
	ColumnLon         = "LON"
)

// identityColumns lists the identity columns in canonical order.
var identityColumns = []string{ColumnStationName, ColumnStationID, ColumnLat, ColumnLon}

// Season is one of the four southern hemisphere meteorological seasons.
type Season string

const (
	Summer Season = "Summer"
	Autumn Season = "Autumn"
	Winter Season = "Winter"
	Spring Season = "Spring"
)

// Seasons returns the seasons in report order.
func Seasons() []Season {
	return []Season{Summer, Autumn, Winter, Spring}
}

// monthSeasons is indexed by time.Month-1.
var monthSeasons = [12]Season{
	Summer, Summer, // January, February
	Autumn, Autumn, Autumn,
	Winter, Winter, Winter,
	Spring, Spring, Spring,
	Summer, // December
}

// SeasonOf returns the season a calendar month belongs to.
func SeasonOf(m time.Month) Season {
	return monthSeasons[m-1]
}

// Months returns January through December.
func Months() []time.Month {
	months := make([]time.Month, 12)
	for i := range months {
		months[i] = time.Month(i + 1)
	}
	return months
}

// RequiredColumns returns every column a station file must carry, identity
// columns first and then the twelve month columns.
func RequiredColumns() []string {
	cols := make([]string, 0, len(identityColumns)+12)
	cols = append(cols, identityColumns...)
	for _, m := range Months() {
		cols = append(cols, m.String())
	}
	return cols
}

// Reading is one monthly mean temperature. Valid is false when the source
// cell was empty or could not be parsed.
type Reading struct {
	Celsius float64
	Valid   bool
}

// StationRecord is one station row from one input file.
type StationRecord struct {
	Name string
	ID   string
	Lat  string
	Lon  string

	// Readings is indexed by time.Month-1.
	Readings [12]Reading

	// Source is the file the row was read from.
	Source string
}

// Reading returns the reading for the given month.
func (r StationRecord) Reading(m time.Month) Reading {
	return r.Readings[m-1]
}

// Observation is a single (station, month) temperature in long format.
type Observation struct {
	Station string
	Month   time.Month
	Season  Season
	Celsius float64
}

// LoadedFile is the outcome of parsing one input file.
type LoadedFile struct {
	Path         string
	Records      []StationRecord
	MissingCells int
}

// SkippedDir is a directory that could not be listed during discovery.
type SkippedDir struct {
	Path string
	Err  error
}

// Discovery lists the CSV files found under a root, in traversal order.
type Discovery struct {
	Files   []string
	Skipped []SkippedDir
}

// MissingColumnsError reports a file whose header lacks required columns.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}
