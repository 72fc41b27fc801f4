package domain

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SeasonalAverage is the mean temperature of one season. Mean is NaN when
// the season has no observations.
type SeasonalAverage struct {
	Season Season
	Mean   float64
}

// StationRange is the spread between a station's coldest and warmest month.
type StationRange struct {
	Station string
	Min     float64
	Max     float64
	Range   float64
}

// StationStability is the population standard deviation of a station's readings.
type StationStability struct {
	Station string
	StdDev  float64
}

// StabilityExtremes holds every station tied at the lowest and highest
// standard deviation.
type StabilityExtremes struct {
	MostStable   []StationStability
	MostVariable []StationStability
}

// Results bundles the three aggregates computed for one run.
type Results struct {
	Seasonal     []SeasonalAverage
	LargestRange []StationRange
	Stability    StabilityExtremes
}

// Aggregate computes all report aggregates over the observations.
func Aggregate(obs []Observation) Results {
	return Results{
		Seasonal:     SeasonalAverages(obs),
		LargestRange: LargestRanges(obs),
		Stability:    Stability(obs),
	}
}

// SeasonalAverages returns the mean temperature per season in report order.
func SeasonalAverages(obs []Observation) []SeasonalAverage {
	bySeason := make(map[Season][]float64, 4)
	for _, o := range obs {
		bySeason[o.Season] = append(bySeason[o.Season], o.Celsius)
	}

	out := make([]SeasonalAverage, 0, 4)
	for _, s := range Seasons() {
		values := bySeason[s]
		mean := math.NaN()
		if len(values) > 0 {
			mean = stat.Mean(values, nil)
		}
		out = append(out, SeasonalAverage{Season: s, Mean: mean})
	}
	return out
}

// StationRanges returns the min, max and range of every station, ordered by name.
func StationRanges(obs []Observation) []StationRange {
	names, groups := groupByStation(obs)
	out := make([]StationRange, 0, len(names))
	for _, name := range names {
		values := groups[name]
		lo, hi := floats.Min(values), floats.Max(values)
		out = append(out, StationRange{Station: name, Min: lo, Max: hi, Range: hi - lo})
	}
	return out
}

// LargestRanges returns every station whose range equals the largest range
// in the dataset. The result is empty when there are no observations.
func LargestRanges(obs []Observation) []StationRange {
	ranges := StationRanges(obs)
	if len(ranges) == 0 {
		return nil
	}

	best := ranges[0].Range
	for _, r := range ranges[1:] {
		best = math.Max(best, r.Range)
	}

	var out []StationRange
	for _, r := range ranges {
		if r.Range == best {
			out = append(out, r)
		}
	}
	return out
}

// StationStabilities returns the population standard deviation of every
// station, ordered by name.
func StationStabilities(obs []Observation) []StationStability {
	names, groups := groupByStation(obs)
	out := make([]StationStability, 0, len(names))
	for _, name := range names {
		out = append(out, StationStability{Station: name, StdDev: popStdDev(groups[name])})
	}
	return out
}

// Stability returns the stations tied at the lowest and at the highest
// standard deviation.
func Stability(obs []Observation) StabilityExtremes {
	all := StationStabilities(obs)
	if len(all) == 0 {
		return StabilityExtremes{}
	}

	lo, hi := all[0].StdDev, all[0].StdDev
	for _, s := range all[1:] {
		lo = math.Min(lo, s.StdDev)
		hi = math.Max(hi, s.StdDev)
	}

	var ext StabilityExtremes
	for _, s := range all {
		if s.StdDev == lo {
			ext.MostStable = append(ext.MostStable, s)
		}
		if s.StdDev == hi {
			ext.MostVariable = append(ext.MostVariable, s)
		}
	}
	return ext
}

// popStdDev is the standard deviation with divisor n. Rounding in the
// compensated two-pass variance can leave a tiny negative value for
// near-constant input; that is clamped to zero.
func popStdDev(values []float64) float64 {
	sd := stat.PopStdDev(values, nil)
	if math.IsNaN(sd) {
		return 0
	}
	return sd
}

// groupByStation collects temperatures per station and returns the station
// names sorted ascending alongside the groups. Observations without a station
// name belong to no group; they still count toward the seasonal means.
func groupByStation(obs []Observation) ([]string, map[string][]float64) {
	groups := make(map[string][]float64)
	for _, o := range obs {
		if o.Station == "" {
			continue
		}
		groups[o.Station] = append(groups[o.Station], o.Celsius)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, groups
}
