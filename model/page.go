package model

// RawLine is a single line of extracted text in document order, tagged with
// the 1-based number of the page it came from.
type RawLine struct {
	Page int
	Text string
}

// Page is the text produced for one document page by an extraction
// collaborator.
type Page struct {
	Index int      // 1-based page number
	Lines []string // Lines in top-to-bottom order

	// Err is set when the collaborator could not produce text for the page.
	// Such a page contributes no lines.
	Err error
}

// RawLines tags every line of the page with the page index.
func (p Page) RawLines() []RawLine {
	lines := make([]RawLine, 0, len(p.Lines))
	for _, l := range p.Lines {
		lines = append(lines, RawLine{Page: p.Index, Text: l})
	}
	return lines
}

// Flatten concatenates the lines of all pages in page order.
func Flatten(pages []Page) []RawLine {
	var lines []RawLine
	for _, p := range pages {
		lines = append(lines, p.RawLines()...)
	}
	return lines
}
