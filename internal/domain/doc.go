// Package domain models WRF surface shortwave radiation (SWDOWN) time series.
//
// # Data Source
//
// Inputs are WRF model output files, one per forecast run, named
//
//	wrfout_<domain>_<YYYY-MM-DD>_<HH>.nc  →  e.g. "wrfout_d02_2022-05-01_00.nc"
//
// Each file holds SWDOWN (W/m²) on a (Time, south_north, west_east) grid and the
// coordinate variables XLAT and XLONG, either per time step or as a single 2-D
// slice. Coordinates are assumed time-invariant; only the first slice is read.
//
// # Time Axis
//
// The file's internal Times variable is ignored. The origin is parsed from the
// file name and every subsequent step is assumed to be one hour later. An
// optional fixed offset in whole hours shifts the axis, e.g. -6 to express UTC
// file times as Mexico City standard time. Timestamps are kept as wall-clock
// values in UTC so calendar grouping follows the shifted clock.
//
// # Spatial Reduction
//
//	Area:   arithmetic mean over cells with lat in [LatMin, LatMax] and lon in
//	        [LonMin, LonMax]; NaN cells are ignored. Zero selected cells is
//	        [ErrEmptySelection], never a NaN result.
//	Point:  nearest grid cell by Manhattan distance |Δlat| + |Δlon|.
//	Domain: mean over the whole grid.
//
// # Daily Statistics
//
// Rows are grouped by calendar date. Standard deviation is the population
// standard deviation (divide by n), so a single-row day reports 0. Every
// statistic is rounded to two decimal places.
package domain
