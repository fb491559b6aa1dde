package model

import (
	"strings"

	"golang.org/x/text/cases"
)

// ClassLabel identifies a competition category such as an age group, gender
// or distance.
type ClassLabel string

// UnknownClass is the class every processing pass starts with.
const UnknownClass ClassLabel = "unknown"

// String returns the label text.
func (c ClassLabel) String() string {
	return string(c)
}

// Record is a single participant in a start list.
type Record struct {
	Rank      int        `json:"rank"`
	Bib       int        `json:"bib"`
	Name      string     `json:"name"`
	Club      string     `json:"club"`
	Class     ClassLabel `json:"class,omitempty"`
	StartTime string     `json:"start_time"`

	// Page is the source page the record was read from.
	Page int `json:"page"`
}

// HasClass reports whether the record carries a tracked class.
func (r Record) HasClass() bool {
	return r.Class != ""
}

// HasMarker reports whether marker occurs in the club or, failing that, the
// name. Participants whose club ended up in the name column during
// extraction are still found through the name. When caseSensitive is false
// both sides are compared after Unicode case folding.
func (r Record) HasMarker(marker string, caseSensitive bool) bool {
	return containsMarker(r.Club, marker, caseSensitive) ||
		containsMarker(r.Name, marker, caseSensitive)
}

func containsMarker(s, marker string, caseSensitive bool) bool {
	if caseSensitive {
		return strings.Contains(s, marker)
	}
	fold := cases.Fold()
	return strings.Contains(fold.String(s), fold.String(marker))
}
