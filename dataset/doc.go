// Package dataset arranges validated records into ranked datasets.
//
// A [Builder] accumulates records in encounter order. [Builder.Build] sorts
// them by start time (stable, so equal times keep their encounter order),
// ranks them 1..N, and derives the filtered dataset of records whose club,
// or name as a fallback, contains the marker. The filtered dataset is ranked
// on its own, so its first record always has rank 1.
package dataset
