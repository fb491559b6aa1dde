package startlist

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/tsawler/startlist/dataset"
	"github.com/tsawler/startlist/format"
	"github.com/tsawler/startlist/layout"
	"github.com/tsawler/startlist/model"
	"github.com/tsawler/startlist/parse"
	"github.com/tsawler/startlist/source"
)

// Converter provides a fluent interface for converting start lists.
// Each configuration method returns a new Converter instance, making it
// safe for concurrent use and allowing method chaining.
type Converter struct {
	// Source (exactly one is set)
	filename string
	rs       io.ReadSeeker
	src      source.Source
	lines    []model.RawLine
	hasLines bool

	// Configuration
	options ConvertOptions
	logger  *slog.Logger

	// Accumulated error (fail-fast)
	err error
}

// Result is the outcome of a conversion.
type Result struct {
	Full     model.Dataset
	Filtered model.Dataset
	Stats    parse.Stats
}

// Empty reports whether no participant was found. An empty result is the
// "no data" outcome, not an error.
func (r *Result) Empty() bool {
	return r == nil || r.Full.IsEmpty()
}

// clone creates a shallow copy of the Converter with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (c *Converter) clone() *Converter {
	newConv := *c
	newConv.options = c.options.clone()
	return &newConv
}

// ============================================================================
// Configuration Methods (return new Converter instance)
// ============================================================================

// Marker sets the organisation marker used to build the filtered dataset.
// An empty marker selects every participant.
//
// Example:
//
//	result, _, err := startlist.Open("startliste.pdf").Marker("NTG").Convert(ctx)
func (c *Converter) Marker(marker string) *Converter {
	newConv := c.clone()
	newConv.options.marker = strings.TrimSpace(marker)
	return newConv
}

// CaseSensitiveMarker makes the single-pass marker check case-sensitive.
// The filtered dataset always matches case-insensitively.
func (c *Converter) CaseSensitiveMarker() *Converter {
	newConv := c.clone()
	newConv.options.markerCaseSensitive = true
	return newConv
}

// SinglePass drops participants without the marker while parsing, so the
// full dataset only holds marked participants.
func (c *Converter) SinglePass() *Converter {
	newConv := c.clone()
	newConv.options.singlePass = true
	return newConv
}

// WithoutClasses disables header detection. Records then carry no class.
func (c *Converter) WithoutClasses() *Converter {
	newConv := c.clone()
	newConv.options.trackClasses = false
	return newConv
}

// DistanceUnit sets the unit that identifies class header lines
// (default "km").
func (c *Converter) DistanceUnit(unit string) *Converter {
	newConv := c.clone()
	unit = strings.TrimSpace(unit)
	if unit == "" && newConv.err == nil {
		newConv.err = fmt.Errorf("distance unit must not be empty")
	}
	newConv.options.distanceUnit = unit
	return newConv
}

// Pages specifies which pages to convert (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	result, _, err := startlist.Open("startliste.pdf").Pages(1, 3).Convert(ctx)
func (c *Converter) Pages(pages ...int) *Converter {
	newConv := c.clone()
	newConv.options.pages = append(newConv.options.pages, pages...)
	return newConv
}

// PageRange specifies a range of pages to convert (1-indexed, inclusive).
func (c *Converter) PageRange(start, end int) *Converter {
	newConv := c.clone()
	if start > end && newConv.err == nil {
		newConv.err = fmt.Errorf("invalid page range %d-%d", start, end)
	}
	for i := start; i <= end; i++ {
		newConv.options.pages = append(newConv.options.pages, i)
	}
	return newConv
}

// LineConfig sets how PDF text fragments are grouped into lines and how
// wide a gap must be to count as a column boundary. Other formats ignore it.
func (c *Converter) LineConfig(cfg layout.LineConfig) *Converter {
	newConv := c.clone()
	switch {
	case newConv.err != nil:
	case cfg.LineHeightTolerance <= 0:
		newConv.err = fmt.Errorf("line height tolerance must be positive")
	case cfg.WordGap <= 0 || cfg.ColumnGap <= cfg.WordGap:
		newConv.err = fmt.Errorf("invalid gaps: need 0 < word gap (%g) < column gap (%g)", cfg.WordGap, cfg.ColumnGap)
	}
	newConv.options.lineConfig = &cfg
	return newConv
}

// WithLogger sets the logger used for per-document diagnostics. The
// default is slog.Default().
func (c *Converter) WithLogger(logger *slog.Logger) *Converter {
	newConv := c.clone()
	newConv.logger = logger
	return newConv
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Convert classifies every line of the document and builds the full and
// filtered datasets. A document without participants is not an error: the
// result is empty and a WarnNoRecords warning is returned.
//
// Example:
//
//	result, warnings, err := startlist.Open("startliste.pdf").Convert(ctx)
//	if result.Empty() {
//	    fmt.Println("no participants found")
//	}
func (c *Converter) Convert(ctx context.Context) (*Result, []Warning, error) {
	lines, warnings, err := c.Lines(ctx)
	if err != nil {
		return nil, warnings, err
	}

	log := c.log()
	pass := parse.NewPass(c.options.parseConfig())
	builder := dataset.NewBuilder(c.options.marker)

	for i, line := range lines {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, warnings, err
			}
		}

		rec, outcome := pass.Line(line)
		switch outcome {
		case parse.OutcomeRecord:
			builder.Add(rec)
		case parse.OutcomeHeader:
			log.Debug("class header", "page", line.Page, "class", string(pass.Class()))
		case parse.OutcomeBadBib, parse.OutcomeBadTime:
			log.Debug("line discarded", "page", line.Page, "reason", outcome.String(), "line", line.Text)
		}
	}

	full, filtered := builder.Build()
	result := &Result{Full: full, Filtered: filtered, Stats: pass.Stats()}

	if result.Empty() {
		warnings = append(warnings, Warning{
			Code:    WarnNoRecords,
			Message: NoRecordsMessage,
		})
	}

	log.Info("start list converted",
		"source", c.sourceName(),
		"lines", result.Stats.Lines,
		"records", len(full.Records),
		"filtered", len(filtered.Records),
		"marker", c.options.marker,
	)

	return result, warnings, nil
}

// Lines returns the raw lines of the selected pages in document order.
func (c *Converter) Lines(ctx context.Context) ([]model.RawLine, []Warning, error) {
	if c.err != nil {
		return nil, nil, c.err
	}

	if c.hasLines {
		lines, err := c.selectLines()
		return lines, nil, err
	}

	pages, err := c.readPages(ctx)
	if err != nil {
		return nil, nil, err
	}

	pages, err = c.selectPages(pages)
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	var lines []model.RawLine
	for _, p := range pages {
		if p.Err != nil {
			c.log().Warn("page unreadable", "page", p.Index, "error", p.Err)
			warnings = append(warnings, Warning{
				Code:    WarnPageUnreadable,
				Page:    p.Index,
				Message: p.Err.Error(),
			})
			continue
		}

		if ratio := layout.PrintableRatio(strings.Join(p.Lines, "\n")); ratio < layout.MinPrintableRatio {
			warnings = append(warnings, Warning{
				Code:    WarnUndecodableText,
				Page:    p.Index,
				Message: fmt.Sprintf("only %.0f%% of the text is printable", ratio*100),
			})
		}

		lines = append(lines, p.RawLines()...)
	}

	return lines, warnings, nil
}

// readPages reads every page from the configured source.
func (c *Converter) readPages(ctx context.Context) ([]model.Page, error) {
	if c.src != nil {
		return c.src.Pages(ctx)
	}

	rs := c.rs
	if rs == nil {
		if c.filename == "" {
			return nil, fmt.Errorf("no filename specified")
		}
		f, err := os.Open(c.filename)
		if err != nil {
			return nil, fmt.Errorf("opening file: %w", err)
		}
		defer f.Close()
		rs = f
	}

	src, err := c.sourceFor(rs)
	if err != nil {
		return nil, err
	}
	return src.Pages(ctx)
}

// sourceFor picks the source matching the document's format.
func (c *Converter) sourceFor(rs io.ReadSeeker) (source.Source, error) {
	f, err := format.Resolve(c.filename, rs)
	if err != nil {
		return nil, fmt.Errorf("detecting format: %w", err)
	}

	switch f {
	case format.PDF:
		pdf := source.NewPDF(rs)
		if c.options.lineConfig != nil {
			pdf = pdf.WithLineConfig(*c.options.lineConfig)
		}
		return pdf, nil
	case format.HTML:
		return source.NewHTML(rs), nil
	case format.Text:
		return source.NewText(rs), nil
	default:
		return nil, fmt.Errorf("unsupported file format: %s", c.filename)
	}
}

// resolvePages returns the selected page numbers in ascending order, or nil
// for all pages.
func (c *Converter) resolvePages(pageCount int) ([]int, error) {
	if len(c.options.pages) == 0 {
		return nil, nil
	}

	seen := make(map[int]bool)
	var selected []int
	for _, p := range c.options.pages {
		if p < 1 || p > pageCount {
			return nil, fmt.Errorf("page %d out of range (1-%d)", p, pageCount)
		}
		if !seen[p] {
			seen[p] = true
			selected = append(selected, p)
		}
	}

	sort.Ints(selected)
	return selected, nil
}

func (c *Converter) selectPages(pages []model.Page) ([]model.Page, error) {
	selected, err := c.resolvePages(len(pages))
	if err != nil || selected == nil {
		return pages, err
	}

	out := make([]model.Page, 0, len(selected))
	for _, n := range selected {
		out = append(out, pages[n-1])
	}
	return out, nil
}

func (c *Converter) selectLines() ([]model.RawLine, error) {
	var pageCount int
	for _, l := range c.lines {
		pageCount = max(pageCount, l.Page)
	}

	selected, err := c.resolvePages(pageCount)
	if err != nil || selected == nil {
		return c.lines, err
	}

	want := make(map[int]bool, len(selected))
	for _, p := range selected {
		want[p] = true
	}

	var out []model.RawLine
	for _, l := range c.lines {
		if want[l.Page] {
			out = append(out, l)
		}
	}
	return out, nil
}

func (c *Converter) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

func (c *Converter) sourceName() string {
	switch {
	case c.filename != "":
		return c.filename
	case c.hasLines:
		return "lines"
	default:
		return "source"
	}
}
