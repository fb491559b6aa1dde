// Package export writes ranked start list datasets as CSV, TSV, JSON or
// JSON Lines.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tsawler/startlist/model"
)

// Format defines the available export formats
type Format int

const (
	// FormatCSV exports as comma-separated values
	FormatCSV Format = iota
	// FormatTSV exports as tab-separated values
	FormatTSV
	// FormatJSON exports as a JSON array
	FormatJSON
	// FormatJSONL exports as JSON Lines (one JSON object per line)
	FormatJSONL
)

// String returns a human-readable representation of the export format
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	case FormatJSON:
		return "json"
	case FormatJSONL:
		return "jsonl"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format
func (f Format) FileExtension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatTSV:
		return ".tsv"
	case FormatJSON:
		return ".json"
	case FormatJSONL:
		return ".jsonl"
	default:
		return ".txt"
	}
}

// ContentType returns the MIME type for this format
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatTSV:
		return "text/tab-separated-values; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatJSONL:
		return "application/x-ndjson"
	default:
		return "text/plain; charset=utf-8"
	}
}

// ParseFormat parses a format name such as "csv" or ".json".
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "csv":
		return FormatCSV, nil
	case "tsv":
		return FormatTSV, nil
	case "json":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	default:
		return FormatCSV, fmt.Errorf("unknown export format %q", s)
	}
}

// Headers are the column captions of a tabular export.
type Headers struct {
	Rank      string `yaml:"rank"`
	Bib       string `yaml:"bib"`
	Name      string `yaml:"name"`
	Club      string `yaml:"club"`
	Class     string `yaml:"class"`
	StartTime string `yaml:"start_time"`
}

// EnglishHeaders returns the default column captions.
func EnglishHeaders() Headers {
	return Headers{
		Rank:      "Rank",
		Bib:       "Bib",
		Name:      "Name",
		Club:      "Club",
		Class:     "Class",
		StartTime: "Start time",
	}
}

// NorwegianHeaders returns the captions used on Norwegian start lists.
func NorwegianHeaders() Headers {
	return Headers{
		Rank:      "Nr.",
		Bib:       "Startnummer",
		Name:      "Navn",
		Club:      "Klubb/Team",
		Class:     "Klasse",
		StartTime: "Starttid",
	}
}

// Options holds configuration options for export
type Options struct {
	// Format specifies the export format
	Format Format

	// IncludeClass adds the class column
	IncludeClass bool

	// IncludeStartTime adds the start time column
	IncludeStartTime bool

	// IncludeHeader includes a header row in CSV/TSV exports
	IncludeHeader bool

	// BOM writes a UTF-8 byte order mark before CSV/TSV output so that
	// spreadsheet programs detect the encoding
	BOM bool

	// PrettyPrint enables pretty printing for JSON formats
	PrettyPrint bool

	// Headers are the CSV/TSV column captions
	Headers Headers
}

// DefaultOptions returns CSV with every column and English captions.
func DefaultOptions() Options {
	return Options{
		Format:           FormatCSV,
		IncludeClass:     true,
		IncludeStartTime: true,
		IncludeHeader:    true,
		Headers:          EnglishHeaders(),
	}
}

// Exporter writes datasets in one format
type Exporter struct {
	opts Options
}

// NewExporter creates a new exporter with default options
func NewExporter() *Exporter {
	return &Exporter{opts: DefaultOptions()}
}

// NewExporterWithOptions creates an exporter with custom options
func NewExporterWithOptions(opts Options) *Exporter {
	return &Exporter{opts: opts}
}

// ExportedRecord is a record prepared for JSON export
type ExportedRecord struct {
	Rank      int    `json:"rank"`
	Bib       int    `json:"bib"`
	Name      string `json:"name"`
	Club      string `json:"club"`
	Class     string `json:"class,omitempty"`
	StartTime string `json:"start_time,omitempty"`
}

// Export writes the dataset to w
func (e *Exporter) Export(ds model.Dataset, w io.Writer) error {
	switch e.opts.Format {
	case FormatCSV:
		return e.exportCSV(ds, w, ',')
	case FormatTSV:
		return e.exportCSV(ds, w, '\t')
	case FormatJSON:
		return e.exportJSON(ds, w)
	case FormatJSONL:
		return e.exportJSONL(ds, w)
	default:
		return fmt.Errorf("unsupported export format: %v", e.opts.Format)
	}
}

// ExportToFile writes the dataset to a new file
func (e *Exporter) ExportToFile(ds model.Dataset, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}

	if err := e.Export(ds, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ExportToString writes the dataset to a string
func (e *Exporter) ExportToString(ds model.Dataset) (string, error) {
	var buf bytes.Buffer
	if err := e.Export(ds, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Columns returns the captions of the exported columns in order.
func (e *Exporter) Columns() []string {
	h := e.opts.Headers
	cols := []string{h.Rank, h.Bib, h.Name, h.Club}
	if e.opts.IncludeClass {
		cols = append(cols, h.Class)
	}
	if e.opts.IncludeStartTime {
		cols = append(cols, h.StartTime)
	}
	return cols
}

func (e *Exporter) exportCSV(ds model.Dataset, w io.Writer, comma rune) error {
	if e.opts.BOM {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("writing BOM: %w", err)
		}
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = comma

	if e.opts.IncludeHeader {
		if err := csvWriter.Write(e.Columns()); err != nil {
			return fmt.Errorf("writing CSV header: %w", err)
		}
	}

	for i, rec := range ds.Records {
		if err := csvWriter.Write(e.row(rec)); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func (e *Exporter) row(rec model.Record) []string {
	row := []string{
		strconv.Itoa(rec.Rank),
		strconv.Itoa(rec.Bib),
		rec.Name,
		rec.Club,
	}
	if e.opts.IncludeClass {
		row = append(row, string(rec.Class))
	}
	if e.opts.IncludeStartTime {
		row = append(row, rec.StartTime)
	}
	return row
}

func (e *Exporter) prepare(rec model.Record) ExportedRecord {
	out := ExportedRecord{
		Rank: rec.Rank,
		Bib:  rec.Bib,
		Name: rec.Name,
		Club: rec.Club,
	}
	if e.opts.IncludeClass {
		out.Class = string(rec.Class)
	}
	if e.opts.IncludeStartTime {
		out.StartTime = rec.StartTime
	}
	return out
}

func (e *Exporter) exportJSON(ds model.Dataset, w io.Writer) error {
	exported := make([]ExportedRecord, len(ds.Records))
	for i, rec := range ds.Records {
		exported[i] = e.prepare(rec)
	}

	encoder := json.NewEncoder(w)
	if e.opts.PrettyPrint {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(exported)
}

func (e *Exporter) exportJSONL(ds model.Dataset, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for i, rec := range ds.Records {
		if err := encoder.Encode(e.prepare(rec)); err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
	}
	return nil
}

// WriteCSV writes ds as CSV using opts, whatever opts.Format says.
func WriteCSV(w io.Writer, ds model.Dataset, opts Options) error {
	opts.Format = FormatCSV
	return NewExporterWithOptions(opts).Export(ds, w)
}

// WriteJSON writes ds as a JSON array using opts.
func WriteJSON(w io.Writer, ds model.Dataset, opts Options) error {
	opts.Format = FormatJSON
	return NewExporterWithOptions(opts).Export(ds, w)
}
