package startlist

import (
	"github.com/tsawler/startlist/layout"
	"github.com/tsawler/startlist/parse"
)

// ConvertOptions holds configuration for a conversion.
type ConvertOptions struct {
	// Page selection (1-indexed)
	pages []int

	// Classification
	marker              string
	markerCaseSensitive bool
	singlePass          bool
	trackClasses        bool
	distanceUnit        string

	// PDF line detection; nil uses the layout defaults
	lineConfig *layout.LineConfig
}

// defaultOptions returns the default conversion options.
func defaultOptions() ConvertOptions {
	return ConvertOptions{
		pages:        nil, // nil means all pages
		marker:       parse.DefaultMarker,
		trackClasses: true,
		distanceUnit: parse.DefaultDistanceUnit,
	}
}

// clone creates a deep copy of ConvertOptions.
func (o ConvertOptions) clone() ConvertOptions {
	newOpts := o
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}
	if o.lineConfig != nil {
		cfg := *o.lineConfig
		newOpts.lineConfig = &cfg
	}
	return newOpts
}

// parseConfig returns the line classification settings.
func (o ConvertOptions) parseConfig() parse.Config {
	return parse.Config{
		Marker:              o.marker,
		MarkerCaseSensitive: o.markerCaseSensitive,
		RequireMarker:       o.singlePass,
		TrackClasses:        o.trackClasses,
		DistanceUnit:        o.distanceUnit,
	}
}
