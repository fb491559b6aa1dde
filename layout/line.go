package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/startlist/text"
)

// Line represents a single row of text on a page
type Line struct {
	// Fragments are the text fragments that make up this line (sorted left to right)
	Fragments []text.Fragment

	// Text is the assembled text content of the line
	Text string

	// Baseline is the Y coordinate of the first fragment's baseline
	Baseline float64

	// Height is the line height (max fragment font size)
	Height float64
}

// LineConfig holds configuration for line detection
type LineConfig struct {
	// LineHeightTolerance is the Y-distance tolerance for grouping fragments
	// into lines as a fraction of font size (default: 0.5)
	LineHeightTolerance float64

	// WordGap is the gap, in ems, above which a single space is inserted
	// between touching fragments (default: 0.15)
	WordGap float64

	// ColumnGap is the gap, in ems, at or above which the gap is treated as a
	// column boundary and rendered with at least two spaces (default: 0.9)
	ColumnGap float64
}

// DefaultLineConfig returns sensible default configuration
func DefaultLineConfig() LineConfig {
	return LineConfig{
		LineHeightTolerance: 0.5,
		WordGap:             0.15,
		ColumnGap:           0.9,
	}
}

// LineDetector detects text lines on a page
type LineDetector struct {
	config LineConfig
}

// NewLineDetector creates a new line detector with default configuration
func NewLineDetector() *LineDetector {
	return &LineDetector{config: DefaultLineConfig()}
}

// NewLineDetectorWithConfig creates a line detector with custom configuration
func NewLineDetectorWithConfig(config LineConfig) *LineDetector {
	return &LineDetector{config: config}
}

// Lines returns the text of each detected line, top to bottom.
func (d *LineDetector) Lines(fragments []text.Fragment) []string {
	detected := d.Detect(fragments)
	out := make([]string, len(detected))
	for i, l := range detected {
		out[i] = l.Text
	}
	return out
}

// Detect groups fragments into lines ordered top to bottom (descending Y in
// PDF coordinates).
func (d *LineDetector) Detect(fragments []text.Fragment) []Line {
	if len(fragments) == 0 {
		return nil
	}

	// Stable sort keeps stream order for fragments at the same height.
	sorted := make([]text.Fragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var groups [][]text.Fragment
	current := []text.Fragment{sorted[0]}
	anchor := sorted[0]

	for _, f := range sorted[1:] {
		if math.Abs(anchor.Y-f.Y) <= d.tolerance(anchor, f) {
			current = append(current, f)
			continue
		}
		groups = append(groups, current)
		current = []text.Fragment{f}
		anchor = f
	}
	groups = append(groups, current)

	lines := make([]Line, 0, len(groups))
	for _, g := range groups {
		lines = append(lines, d.buildLine(g))
	}
	return lines
}

func (d *LineDetector) tolerance(a, b text.Fragment) float64 {
	size := math.Max(a.FontSize, b.FontSize)
	if size <= 0 {
		size = 1
	}
	return size * d.config.LineHeightTolerance
}

func (d *LineDetector) buildLine(frags []text.Fragment) Line {
	sort.SliceStable(frags, func(i, j int) bool {
		return frags[i].X < frags[j].X
	})

	var height float64
	for _, f := range frags {
		height = math.Max(height, f.FontSize)
	}

	return Line{
		Fragments: frags,
		Text:      d.assembleText(frags),
		Baseline:  frags[0].Y,
		Height:    height,
	}
}

// assembleText joins fragments, converting horizontal gaps to spaces.
func (d *LineDetector) assembleText(frags []text.Fragment) string {
	var sb strings.Builder

	for i, f := range frags {
		if i > 0 {
			prev := frags[i-1]
			n := d.spacesForGap(f.X-prev.EndX(), math.Max(prev.FontSize, f.FontSize))

			// Spaces already present at the join count toward the gap.
			have := trailingSpaces(prev.Text) + leadingSpaces(f.Text)
			if n > have {
				sb.WriteString(strings.Repeat(" ", n-have))
			}
		}
		sb.WriteString(f.Text)
	}

	return strings.TrimRight(sb.String(), " ")
}

// spacesForGap returns how many spaces represent a horizontal gap.
func (d *LineDetector) spacesForGap(gap, fontSize float64) int {
	if fontSize <= 0 {
		fontSize = 1
	}
	em := gap / fontSize

	switch {
	case em < d.config.WordGap:
		return 0
	case em < d.config.ColumnGap:
		return 1
	default:
		n := int(math.Round(em / text.GlyphWidth))
		if n < 2 {
			n = 2
		}
		return n
	}
}

func trailingSpaces(s string) int {
	return len(s) - len(strings.TrimRight(s, " "))
}

func leadingSpaces(s string) int {
	return len(s) - len(strings.TrimLeft(s, " "))
}
