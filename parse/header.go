package parse

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tsawler/startlist/model"
)

// DefaultDistanceUnit is the unit marker that identifies class headers.
const DefaultDistanceUnit = "km"

// HeaderDetector recognises lines that announce a new competition class,
// such as "J 15 år  5 km, fri" or "Menn senior, 15 km klassisk".
type HeaderDetector struct {
	unit     string
	distance *regexp.Regexp
}

// NewHeaderDetector creates a detector for the given distance unit. An empty
// unit selects DefaultDistanceUnit.
func NewHeaderDetector(unit string) *HeaderDetector {
	if unit == "" {
		unit = DefaultDistanceUnit
	}
	return &HeaderDetector{
		unit: unit,
		// whitespace, the distance (decimal comma or point allowed), an
		// optional space, then the unit
		distance: regexp.MustCompile(`\s+\d+(?:[.,]\d+)?\s?` + regexp.QuoteMeta(unit)),
	}
}

// Unit returns the distance unit the detector looks for.
func (d *HeaderDetector) Unit() string {
	return d.unit
}

// Detect returns the class label announced by line, or false if the line is
// not a header. A line is only considered when it contains the distance unit
// and does not start with a digit (participant lines start with a bib). The
// label is everything before the distance, without a trailing comma.
//
// If the distance pattern cannot be found the line is not a header, so a
// stray unit in ordinary text never overwrites the current class.
func (d *HeaderDetector) Detect(line string) (model.ClassLabel, bool) {
	line = strings.TrimSpace(line)
	if line == "" || !strings.Contains(line, d.unit) {
		return "", false
	}

	first, _ := utf8.DecodeRuneInString(line)
	if unicode.IsDigit(first) {
		return "", false
	}

	loc := d.distance.FindStringIndex(line)
	if loc == nil {
		return "", false
	}

	label := strings.TrimSpace(line[:loc[0]])
	label = strings.TrimSpace(strings.TrimSuffix(label, ","))
	if label == "" {
		return "", false
	}

	return model.ClassLabel(label), true
}
