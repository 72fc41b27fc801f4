// Command genmock writes a deterministic mock station temperature tree for
// demos and manual runs. Every file uses the same header layout the loader
// expects; a few cells carry annotations or blanks so the cleaning rules are
// exercised, and two extra files are deliberately broken (one malformed, one
// missing a month column).
//
// Usage:
//
//	go run ./cmd/genmock -out temperatures -years 3 -stations 8
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/climate-stats-etl/internal/domain"
)

type station struct {
	name      string
	id        string
	lat, lon  float64
	mean      float64 // annual mean °C
	amplitude float64 // half the summer/winter swing
}

var stations = []station{
	{name: "ADELAIDE", id: "23000", lat: -34.92, lon: 138.62, mean: 17.0, amplitude: 6.5},
	{name: "ALICE SPRINGS", id: "15590", lat: -23.80, lon: 133.89, mean: 21.0, amplitude: 9.5},
	{name: "BRISBANE", id: "40913", lat: -27.48, lon: 153.04, mean: 21.5, amplitude: 4.5},
	{name: "CANBERRA", id: "70351", lat: -35.31, lon: 149.20, mean: 13.2, amplitude: 7.5},
	{name: "DARWIN", id: "14015", lat: -12.42, lon: 130.89, mean: 27.6, amplitude: 1.8},
	{name: "HOBART", id: "94029", lat: -42.89, lon: 147.33, mean: 12.9, amplitude: 4.3},
	{name: "MELBOURNE", id: "86071", lat: -37.81, lon: 144.97, mean: 15.6, amplitude: 5.0},
	{name: "PERTH", id: "9021", lat: -31.93, lon: 115.98, mean: 18.7, amplitude: 5.8},
	{name: "SYDNEY", id: "66062", lat: -33.86, lon: 151.21, mean: 18.4, amplitude: 4.4},
	{name: "THREDBO", id: "71032", lat: -36.49, lon: 148.29, mean: 5.2, amplitude: 6.8},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "temperatures", "directory to write the mock tree into")
	years := flag.Int("years", 3, "number of year directories")
	perYear := flag.Int("stations", 6, "stations per year file")
	startYear := flag.Int("start-year", 2019, "first year")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	if *years < 1 || *perYear < 1 || *perYear > len(stations) {
		flag.Usage()
		return fmt.Errorf("-years must be >= 1 and -stations between 1 and %d", len(stations))
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x5eed))
	total := 0

	for y := range *years {
		year := *startYear + y
		dir := filepath.Join(*out, strconv.Itoa(year))
		// Rotate which stations report each year so groups span files.
		picked := make([]station, 0, *perYear)
		for i := range *perYear {
			picked = append(picked, stations[(y+i)%len(stations)])
		}

		rows := make([][]string, 0, len(picked))
		for _, s := range picked {
			rows = append(rows, stationRow(rng, s))
		}
		path := filepath.Join(dir, fmt.Sprintf("stations_%d.csv", year))
		if err := writeCSV(path, domain.RequiredColumns(), rows); err != nil {
			return err
		}
		log.Printf("%s: %d stations", path, len(rows))
		total += len(rows)
	}

	broken := filepath.Join(*out, "broken")
	if err := writeRaw(filepath.Join(broken, "malformed.csv"), "STATION_NAME,\"STN_ID\nunterminated"); err != nil {
		return err
	}
	header := domain.RequiredColumns()
	if err := writeCSV(filepath.Join(broken, "no_december.csv"), header[:len(header)-1],
		[][]string{stationRow(rng, stations[0])[:len(header)-1]}); err != nil {
		return err
	}
	if err := writeRaw(filepath.Join(*out, "README.txt"), "mock data generated by cmd/genmock\n"); err != nil {
		return err
	}

	log.Printf("total: %d station rows under %s (plus 2 broken files)", total, *out)
	return nil
}

// stationRow produces one row in RequiredColumns order. Seasons follow the
// southern hemisphere, so January is the warmest month.
func stationRow(rng *rand.Rand, s station) []string {
	row := []string{
		s.name,
		s.id,
		strconv.FormatFloat(s.lat, 'f', 2, 64),
		strconv.FormatFloat(s.lon, 'f', 2, 64),
	}
	for i := range 12 {
		v := s.mean + s.amplitude*math.Cos(2*math.Pi*float64(i)/12) + rng.NormFloat64()*0.8
		cell := strconv.FormatFloat(v, 'f', 1, 64)
		switch n := rng.IntN(40); {
		case n == 0:
			cell = ""
		case n == 1:
			cell += "*"
		case n == 2:
			cell += "°C"
		}
		row = append(row, cell)
	}
	return row
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	werr := w.Write(header)
	if werr == nil {
		werr = w.WriteAll(rows) // flushes
	}
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("write %s: %w", path, werr)
	}
	return cerr
}

func writeRaw(path, body string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(body), 0o644)
}
