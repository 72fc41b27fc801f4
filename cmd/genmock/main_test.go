package main

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/climate-stats-etl/internal/adapter/csvfs"
	"github.com/couchcryptid/climate-stats-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV_LoadsBack(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	path := filepath.Join(t.TempDir(), "2020", "stations_2020.csv")
	rows := [][]string{stationRow(rng, stations[0]), stationRow(rng, stations[4])}

	require.NoError(t, writeCSV(path, domain.RequiredColumns(), rows))

	f, err := csvfs.NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, f.Records, 2)
	assert.Equal(t, "ADELAIDE", f.Records[0].Name)
	assert.Equal(t, "DARWIN", f.Records[1].Name)
}

func TestWriteCSV_MissingDirectoryIsCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c.csv")
	require.NoError(t, writeCSV(path, []string{"STATION_NAME"}, nil))
	assert.FileExists(t, path)
}

func TestWriteCSV_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeRaw(filepath.Join(dir, "file"), "x"))

	err := writeCSV(filepath.Join(dir, "file", "nested.csv"), []string{"STATION_NAME"}, nil)
	assert.Error(t, err)
}

func TestStationRow_SouthernSeasons(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	s := station{name: "X", id: "1", mean: 15, amplitude: 10}
	row := stationRow(rng, s)
	require.Len(t, row, len(domain.RequiredColumns()))

	jan, okJan := domain.CleanNumeric(row[4])
	jul, okJul := domain.CleanNumeric(row[4+int(time.July)-1])
	if okJan && okJul {
		assert.Greater(t, jan, jul)
	}
}
