// Package startlist provides a fluent API for turning race start list
// documents into ranked participant datasets.
//
// Basic usage:
//
//	result, warnings, err := startlist.Open("startliste.pdf").Convert(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", startlist.FormatWarnings(warnings))
//	}
//
// The result holds two datasets: every valid participant ordered by start
// time, and the participants whose club or name contains the organisation
// marker, ranked on their own.
//
// With options:
//
//	result, _, err := startlist.Open("startliste.pdf").
//	    Marker("NTG").
//	    Pages(1, 2).
//	    Convert(ctx)
//
// Lines that were already extracted by another tool can be converted
// directly:
//
//	result, _, err := startlist.FromLines(lines).Convert(ctx)
package startlist

import (
	"io"

	"github.com/tsawler/startlist/model"
	"github.com/tsawler/startlist/source"
)

// Open returns a Converter for a start list file. The format is detected
// from the extension, then from the content.
//
// Example:
//
//	result, warnings, err := startlist.Open("startliste.pdf").Convert(ctx)
func Open(filename string) *Converter {
	return &Converter{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromReader returns a Converter reading an already opened document, such
// as an upload. The name is only used for format detection and messages.
// The caller owns r.
func FromReader(r io.ReadSeeker, name string) *Converter {
	return &Converter{
		rs:       r,
		filename: name,
		options:  defaultOptions(),
	}
}

// FromLines returns a Converter over lines produced by an external
// extractor.
//
// Example:
//
//	lines := []model.RawLine{{Page: 1, Text: "101   Ola   Hamar IL NTG   10:00:00"}}
//	result, _, err := startlist.FromLines(lines).Convert(ctx)
func FromLines(lines []model.RawLine) *Converter {
	return &Converter{
		lines:    append([]model.RawLine(nil), lines...),
		hasLines: true,
		options:  defaultOptions(),
	}
}

// FromSource returns a Converter reading pages from src.
func FromSource(src source.Source) *Converter {
	return &Converter{
		src:     src,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustResult is a helper that wraps a call to Convert or Lines and panics
// if the error is non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	result := startlist.MustResult(startlist.Open("startliste.pdf").Convert(ctx))
func MustResult[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
