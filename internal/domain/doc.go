// Package domain models per-station monthly mean temperature data and the
// statistics derived from it.
//
// # Data Source
//
// Input files are CSV exports with one row per weather station per year. The
// upstream files are organised in an arbitrary directory tree (typically one
// directory per year) under a single root, by default "temperatures".
//
// # Column Conventions
//
// Identity columns:
//
//	STATION_NAME, STN_ID, LAT, LON
//
// Month columns, one mean temperature in degrees Celsius each:
//
//	January, February, ..., December
//
// Column order is free. Header names are trimmed before matching and must
// otherwise match exactly; a file missing any of the sixteen columns is
// rejected as a whole. See [MissingColumns].
//
// # Cell Cleaning
//
// Month cells frequently carry units or annotations ("21.4°C", "18.2*").
// [CleanNumeric] removes every character other than digits, '.' and '-' and
// parses what remains. Anything that still fails to parse (including empty
// cells) is a missing reading, never zero.
//
// # Seasons
//
// Seasons follow the southern hemisphere meteorological calendar:
//
//	Summer: December, January, February
//	Autumn: March, April, May
//	Winter: June, July, August
//	Spring: September, October, November
//
// Reports always list seasons in the order Summer, Autumn, Winter, Spring.
//
// # Statistics
//
// Variability is the population standard deviation (divisor n). Aggregates
// over zero observations are NaN and render as "N/A". Ties at an extreme are
// all reported, ordered by station name.
package domain
