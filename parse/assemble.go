package parse

import (
	"strings"

	"github.com/tsawler/startlist/model"
)

// MinFields is the smallest number of column candidates that can hold a
// participant: bib, name and start time.
const MinFields = 3

// Candidate is a participant line mapped onto record fields. Field content
// is unchecked until the Validator accepts it.
type Candidate struct {
	Bib       string
	Name      string
	Club      string
	StartTime string
	Class     model.ClassLabel
	Page      int
}

// Assemble maps column candidates onto record fields:
//
//	first            -> bib
//	between          -> name (joined with single spaces)
//	second-to-last   -> club
//	last             -> start time
//
// With exactly three candidates there is only one middle column. It is kept
// as the name and the club is left empty, since a missing club cannot be
// told apart from a missing name without column positions.
//
// It returns false when there are fewer than MinFields candidates.
func Assemble(fields []string, class model.ClassLabel) (Candidate, bool) {
	if len(fields) < MinFields {
		return Candidate{}, false
	}

	last := len(fields) - 1
	c := Candidate{
		Bib:       fields[0],
		Name:      strings.Join(fields[1:last-1], " "),
		Club:      fields[last-1],
		StartTime: fields[last],
		Class:     class,
	}

	if c.Name == "" {
		c.Name = c.Club
		c.Club = ""
	}

	return c, true
}
