package dataset

import (
	"sort"

	"github.com/tsawler/startlist/model"
)

// Builder accumulates records for one document.
type Builder struct {
	marker  string
	records []model.Record
}

// NewBuilder creates a builder whose filtered dataset selects records
// containing marker.
func NewBuilder(marker string) *Builder {
	return &Builder{marker: marker}
}

// Add appends a record in encounter order.
func (b *Builder) Add(rec model.Record) {
	b.records = append(b.records, rec)
}

// Len returns the number of records added so far.
func (b *Builder) Len() int {
	return len(b.records)
}

// Build returns the full dataset, sorted by start time and ranked, and the
// filtered dataset drawn from it and ranked independently. The builder's
// records are not modified.
func (b *Builder) Build() (full, filtered model.Dataset) {
	records := make([]model.Record, len(b.records))
	copy(records, b.records)

	SortByStartTime(records)
	Rank(records)

	full = model.Dataset{Kind: model.Full, Marker: b.marker, Records: records}
	filtered = Filter(full, b.marker)
	return full, filtered
}

// SortByStartTime stable-sorts records by their start time string. Start
// times are fixed-width HH:MM:SS, so lexical order is chronological order.
func SortByStartTime(records []model.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].StartTime < records[j].StartTime
	})
}

// Rank assigns dense 1-based ranks in slice order.
func Rank(records []model.Record) {
	for i := range records {
		records[i].Rank = i + 1
	}
}

// Filter selects, in order, the records of ds whose club or name contains
// marker case-insensitively, and ranks the selection from 1.
func Filter(ds model.Dataset, marker string) model.Dataset {
	var selected []model.Record
	for _, rec := range ds.Records {
		if Matches(rec, marker) {
			selected = append(selected, rec)
		}
	}
	Rank(selected)

	return model.Dataset{Kind: model.Filtered, Marker: marker, Records: selected}
}

// Matches reports whether rec belongs in the filtered dataset for marker.
func Matches(rec model.Record, marker string) bool {
	return rec.HasMarker(marker, false)
}
