package parse

import (
	"strconv"
	"strings"

	"github.com/tsawler/startlist/model"
)

// Validator turns assembled candidates into records, rejecting candidates
// that fail the shape checks.
type Validator struct {
	marker        string
	caseSensitive bool
	requireMarker bool
}

// NewValidator creates a validator from the marker settings of cfg.
func NewValidator(cfg Config) *Validator {
	return &Validator{
		marker:        cfg.Marker,
		caseSensitive: cfg.MarkerCaseSensitive,
		requireMarker: cfg.RequireMarker,
	}
}

// Validate checks that the bib is a decimal number and the start time
// contains a colon. When the marker is required, the record must also carry
// it in the club or name. The returned record is only meaningful for
// OutcomeRecord.
func (v *Validator) Validate(c Candidate) (model.Record, Outcome) {
	if !isDecimal(c.Bib) {
		return model.Record{}, OutcomeBadBib
	}
	bib, err := strconv.Atoi(c.Bib)
	if err != nil {
		return model.Record{}, OutcomeBadBib
	}

	if !strings.Contains(c.StartTime, ":") {
		return model.Record{}, OutcomeBadTime
	}

	rec := model.Record{
		Bib:       bib,
		Name:      c.Name,
		Club:      c.Club,
		Class:     c.Class,
		StartTime: NormalizeClock(c.StartTime),
		Page:      c.Page,
	}

	if v.requireMarker && !rec.HasMarker(v.marker, v.caseSensitive) {
		return model.Record{}, OutcomeNoMarker
	}

	return rec, OutcomeRecord
}

// NormalizeClock zero-pads a single-digit hour ("9:05:30" -> "09:05:30") so
// start times keep sorting lexically. Anything else is returned unchanged.
func NormalizeClock(s string) string {
	if len(s) == 7 && s[1] == ':' && s[4] == ':' &&
		isDecimal(s[:1]) && isDecimal(s[2:4]) && isDecimal(s[5:]) {
		return "0" + s
	}
	return s
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
