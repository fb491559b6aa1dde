package parse

// Outcome names what happened to a single line.
type Outcome int

const (
	// OutcomeBlank is an empty or whitespace-only line.
	OutcomeBlank Outcome = iota
	// OutcomeHeader is a class header; the current class was updated.
	OutcomeHeader
	// OutcomeTooFewFields is a line with fewer than MinFields columns
	// (titles, page numbers, column captions).
	OutcomeTooFewFields
	// OutcomeBadBib is a line whose first column is not a decimal number.
	OutcomeBadBib
	// OutcomeBadTime is a line whose last column has no time separator.
	OutcomeBadTime
	// OutcomeNoMarker is a valid participant without the marker substring,
	// only reported when the marker is required.
	OutcomeNoMarker
	// OutcomeRecord is a line that produced a record.
	OutcomeRecord
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeBlank:
		return "blank"
	case OutcomeHeader:
		return "header"
	case OutcomeTooFewFields:
		return "too-few-fields"
	case OutcomeBadBib:
		return "bad-bib"
	case OutcomeBadTime:
		return "bad-time"
	case OutcomeNoMarker:
		return "no-marker"
	case OutcomeRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Stats counts line outcomes for one pass.
type Stats struct {
	Lines        int `json:"lines"`
	Blank        int `json:"blank"`
	Headers      int `json:"headers"`
	TooFewFields int `json:"too_few_fields"`
	BadBib       int `json:"bad_bib"`
	BadTime      int `json:"bad_time"`
	NoMarker     int `json:"no_marker"`
	Records      int `json:"records"`
}

func (s *Stats) add(o Outcome) {
	s.Lines++
	switch o {
	case OutcomeBlank:
		s.Blank++
	case OutcomeHeader:
		s.Headers++
	case OutcomeTooFewFields:
		s.TooFewFields++
	case OutcomeBadBib:
		s.BadBib++
	case OutcomeBadTime:
		s.BadTime++
	case OutcomeNoMarker:
		s.NoMarker++
	case OutcomeRecord:
		s.Records++
	}
}

// Discarded returns the number of non-blank, non-header lines that did not
// become records.
func (s Stats) Discarded() int {
	return s.TooFewFields + s.BadBib + s.BadTime + s.NoMarker
}
