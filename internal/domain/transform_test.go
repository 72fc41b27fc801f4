package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSource  = "temperatures/2020/stations.csv"
	testStation = "ADELAIDE"
)

func testHeader() []string {
	return RequiredColumns()
}

// testRow builds a row in RequiredColumns order.
func testRow(name string, months [12]string) []string {
	row := []string{name, "23000", "-34.92", "138.62"}
	return append(row, months[:]...)
}

func TestCleanNumeric(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  float64
		valid bool
	}{
		{"plain", "21.4", 21.4, true},
		{"negative", "-3.5", -3.5, true},
		{"degree suffix", "21.4°C", 21.4, true},
		{"annotation", "18.2*", 18.2, true},
		{"surrounding space", "  7 ", 7, true},
		{"leading dot", ".5", 0.5, true},
		{"letters only", "abc", 0, false},
		{"empty", "", 0, false},
		{"two dots", "1.2.3", 0, false},
		{"bare minus", "-", 0, false},
		{"embedded minus", "12-3", 0, false},
		{"nan text", "nan", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CleanNumeric(tt.raw)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestSeasonOf(t *testing.T) {
	want := map[time.Month]Season{
		time.December: Summer, time.January: Summer, time.February: Summer,
		time.March: Autumn, time.April: Autumn, time.May: Autumn,
		time.June: Winter, time.July: Winter, time.August: Winter,
		time.September: Spring, time.October: Spring, time.November: Spring,
	}

	require.Len(t, Months(), 12)
	for _, m := range Months() {
		assert.Equal(t, want[m], SeasonOf(m), m.String())
	}
}

func TestRequiredColumns(t *testing.T) {
	cols := RequiredColumns()
	require.Len(t, cols, 16)
	assert.Equal(t, []string{"STATION_NAME", "STN_ID", "LAT", "LON"}, cols[:4])
	assert.Equal(t, "January", cols[4])
	assert.Equal(t, "December", cols[15])
}

func TestMissingColumns(t *testing.T) {
	t.Run("complete header", func(t *testing.T) {
		assert.Empty(t, MissingColumns(testHeader()))
	})

	t.Run("names are trimmed", func(t *testing.T) {
		header := testHeader()
		for i := range header {
			header[i] = "  " + header[i] + "\t"
		}
		assert.Empty(t, MissingColumns(header))
	})

	t.Run("case sensitive", func(t *testing.T) {
		header := testHeader()
		header[4] = "january"
		assert.Equal(t, []string{"January"}, MissingColumns(header))
	})

	t.Run("reports in canonical order", func(t *testing.T) {
		header := []string{"LON", "STATION_NAME"}
		missing := MissingColumns(header)
		require.Len(t, missing, 14)
		assert.Equal(t, "STN_ID", missing[0])
		assert.Equal(t, "LAT", missing[1])
		assert.Equal(t, "January", missing[2])
	})
}

func TestParseStationRows(t *testing.T) {
	full := [12]string{"30", "28", "20", "15", "10", "5", "0", "3", "8", "14", "20", "25"}

	t.Run("valid rows", func(t *testing.T) {
		rows := [][]string{testRow(testStation, full), testRow("DARWIN", full)}
		recs, missing, err := ParseStationRows(testSource, testHeader(), rows)

		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Zero(t, missing)
		assert.Equal(t, testStation, recs[0].Name)
		assert.Equal(t, "23000", recs[0].ID)
		assert.Equal(t, "-34.92", recs[0].Lat)
		assert.Equal(t, "138.62", recs[0].Lon)
		assert.Equal(t, testSource, recs[0].Source)
		assert.Equal(t, Reading{Celsius: 30, Valid: true}, recs[0].Reading(time.January))
		assert.Equal(t, Reading{Celsius: 25, Valid: true}, recs[0].Reading(time.December))
	})

	t.Run("column order is free", func(t *testing.T) {
		header := testHeader()
		row := testRow(testStation, full)
		// swap STATION_NAME and December
		header[0], header[15] = header[15], header[0]
		row[0], row[15] = row[15], row[0]

		recs, _, err := ParseStationRows(testSource, header, [][]string{row})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, testStation, recs[0].Name)
		assert.Equal(t, 25.0, recs[0].Reading(time.December).Celsius)
	})

	t.Run("non numeric cell is missing", func(t *testing.T) {
		months := full
		months[3] = "abc"
		recs, missing, err := ParseStationRows(testSource, testHeader(), [][]string{testRow(testStation, months)})

		require.NoError(t, err)
		assert.Equal(t, 1, missing)
		assert.False(t, recs[0].Reading(time.April).Valid)
		assert.Len(t, Reshape(recs), 11)
	})

	t.Run("identity passes through unchanged", func(t *testing.T) {
		row := testRow(" Alice Springs ", full)
		recs, _, err := ParseStationRows(testSource, testHeader(), [][]string{row})
		require.NoError(t, err)
		assert.Equal(t, " Alice Springs ", recs[0].Name)
	})

	t.Run("short row reads empty cells", func(t *testing.T) {
		row := testRow(testStation, full)[:10]
		recs, missing, err := ParseStationRows(testSource, testHeader(), [][]string{row})

		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, 6, missing)
		assert.True(t, recs[0].Reading(time.June).Valid)
		assert.False(t, recs[0].Reading(time.July).Valid)
	})

	t.Run("missing month column rejects file", func(t *testing.T) {
		header := testHeader()[:15] // drop December
		rows := [][]string{testRow(testStation, full)[:15]}
		recs, _, err := ParseStationRows(testSource, header, rows)

		require.Error(t, err)
		assert.Nil(t, recs)
		var mce *MissingColumnsError
		require.True(t, errors.As(err, &mce))
		assert.Equal(t, []string{"December"}, mce.Columns)
		assert.Contains(t, err.Error(), "December")
	})

	t.Run("header only", func(t *testing.T) {
		recs, missing, err := ParseStationRows(testSource, testHeader(), nil)
		require.NoError(t, err)
		assert.Empty(t, recs)
		assert.Zero(t, missing)
	})
}

func TestReshape(t *testing.T) {
	rec := StationRecord{Name: testStation}
	rec.Readings[time.January-1] = Reading{Celsius: 29.5, Valid: true}
	rec.Readings[time.July-1] = Reading{Celsius: 11.2, Valid: true}
	rec.Readings[time.October-1] = Reading{Celsius: 0, Valid: true}

	obs := Reshape([]StationRecord{rec})

	assert.Equal(t, []Observation{
		{Station: testStation, Month: time.January, Season: Summer, Celsius: 29.5},
		{Station: testStation, Month: time.July, Season: Winter, Celsius: 11.2},
		{Station: testStation, Month: time.October, Season: Spring, Celsius: 0},
	}, obs)
}

func TestReshape_Empty(t *testing.T) {
	assert.Empty(t, Reshape(nil))
	assert.Empty(t, Reshape([]StationRecord{{Name: testStation}}))
}
