package parse

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/startlist/model"
)

// DefaultMarker is the organisation marker used when none is configured.
const DefaultMarker = "NTG"

// Config controls how a Pass classifies lines.
type Config struct {
	// Marker is the substring identifying the organisation of interest.
	Marker string

	// MarkerCaseSensitive makes the validator's marker check case-sensitive.
	// The dataset builder always matches case-insensitively.
	MarkerCaseSensitive bool

	// RequireMarker drops participants without the marker while parsing
	// (single-pass mode). By default every valid participant is kept and
	// the marker is applied when the filtered dataset is built.
	RequireMarker bool

	// TrackClasses enables header detection and class tracking.
	TrackClasses bool

	// DistanceUnit is the unit that identifies header lines.
	DistanceUnit string
}

// DefaultConfig returns the two-pass configuration with class tracking.
func DefaultConfig() Config {
	return Config{
		Marker:       DefaultMarker,
		TrackClasses: true,
		DistanceUnit: DefaultDistanceUnit,
	}
}

// Pass classifies the lines of one document. It owns the current class,
// which starts at model.UnknownClass and is only changed by header lines.
// A Pass is not safe for concurrent use and must not be reused across
// documents.
type Pass struct {
	headers      *HeaderDetector
	validator    *Validator
	trackClasses bool

	class model.ClassLabel
	stats Stats
}

// NewPass creates a pass with a fresh class tracker.
func NewPass(cfg Config) *Pass {
	p := &Pass{
		headers:      NewHeaderDetector(cfg.DistanceUnit),
		validator:    NewValidator(cfg),
		trackClasses: cfg.TrackClasses,
	}
	if p.trackClasses {
		p.class = model.UnknownClass
	}
	return p
}

// Line classifies one line. The record is only meaningful when the outcome
// is OutcomeRecord; its class is the class current at this line and is never
// updated afterwards.
func (p *Pass) Line(line model.RawLine) (model.Record, Outcome) {
	rec, outcome := p.classify(line)
	p.stats.add(outcome)
	return rec, outcome
}

func (p *Pass) classify(line model.RawLine) (model.Record, Outcome) {
	text := NormalizeLine(line.Text)
	if strings.TrimSpace(text) == "" {
		return model.Record{}, OutcomeBlank
	}

	if p.trackClasses {
		if label, ok := p.headers.Detect(text); ok {
			p.class = label
			return model.Record{}, OutcomeHeader
		}
	}

	cand, ok := Assemble(Fields(text), p.class)
	if !ok {
		return model.Record{}, OutcomeTooFewFields
	}
	cand.Page = line.Page

	return p.validator.Validate(cand)
}

// Run classifies every line and returns the records in encounter order.
func (p *Pass) Run(lines []model.RawLine) []model.Record {
	var records []model.Record
	for _, line := range lines {
		if rec, outcome := p.Line(line); outcome == OutcomeRecord {
			records = append(records, rec)
		}
	}
	return records
}

// Class returns the current class.
func (p *Pass) Class() model.ClassLabel {
	return p.class
}

// Stats returns the outcome counts so far.
func (p *Pass) Stats() Stats {
	return p.stats
}

// nonBreakingSpaces are rendered as ordinary spaces by most extractors but
// survive in some; they must count towards column gaps.
var nonBreakingSpaces = strings.NewReplacer(
	"\u00a0", " ",
	"\u2007", " ",
	"\u202f", " ",
	"\r", "",
)

// NormalizeLine converts a line to Unicode NFC and maps non-breaking spaces
// to ordinary spaces. Decomposed letters (a + combining ring) from some
// PDF producers become the single code points users search for.
func NormalizeLine(s string) string {
	return norm.NFC.String(nonBreakingSpaces.Replace(s))
}
