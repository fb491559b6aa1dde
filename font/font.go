package font

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DefaultWidth is the glyph width, in thousandths of an em, used when
// nothing better is known.
const DefaultWidth = 500.0

// Font represents a PDF font
type Font struct {
	Name     string // resource name, e.g. "F1"
	BaseFont string
	Subtype  string
	Encoding string

	// FirstChar and Widths come from a simple font's dictionary.
	FirstChar int
	Widths    []float64

	// MissingWidth is the font descriptor's width for codes outside Widths.
	MissingWidth float64

	// W and DW are the glyph widths of a composite font's descendant.
	W  []WidthRange
	DW float64

	// ToUnicode maps character codes to text.
	ToUnicode *CMap

	metrics metrics
}

// WidthRange is one entry of a composite font's /W array: either one width
// per code starting at First, or a single Width for First through Last.
type WidthRange struct {
	First, Last int
	Widths      []float64
	Width       float64
}

// Glyph is one character code shown with a font.
type Glyph struct {
	Code  int
	Text  string
	Width float64 // thousandths of an em
	Space bool    // single-byte code 32, which receives word spacing
}

// NewFont creates a font and loads the metrics of the standard font its
// base name refers to. Unknown fonts get Helvetica metrics.
func NewFont(name, baseFont, subtype string) *Font {
	f := &Font{
		Name:     name,
		BaseFont: baseFont,
		Subtype:  subtype,
		Encoding: "WinAnsiEncoding",
		DW:       1000,
	}
	f.metrics = standardMetrics(baseFont)
	return f
}

// IsComposite reports whether the font uses two-byte character codes.
func (f *Font) IsComposite() bool {
	return f.Subtype == "Type0"
}

// IsStandardFont returns true if this is one of the standard 14 fonts or a
// common alias of one.
func (f *Font) IsStandardFont() bool {
	_, ok := standardFonts[standardName(f.BaseFont)]
	return ok
}

// SetWidths installs a simple font's /FirstChar and /Widths.
func (f *Font) SetWidths(firstChar int, widths []float64) {
	f.FirstChar = firstChar
	f.Widths = widths
}

// GetWidth returns the standard metric width of a character (in 1000ths
// of em). Accented letters without their own entry use the base letter.
func (f *Font) GetWidth(r rune) float64 {
	if w, ok := f.metrics.widths[r]; ok {
		return w
	}
	if base := baseLetter(r); base != r {
		if w, ok := f.metrics.widths[base]; ok {
			return w
		}
	}
	return f.metrics.fallback
}

// GetStringWidth calculates the total metric width of a string
func (f *Font) GetStringWidth(s string) float64 {
	total := 0.0
	for _, r := range s {
		total += f.GetWidth(r)
	}
	return total
}

// CodeWidth returns the width of a character code, preferring the widths
// stored in the document over the standard metrics of r.
func (f *Font) CodeWidth(code int, r rune) float64 {
	if f.IsComposite() {
		return f.cidWidth(code)
	}

	if i := code - f.FirstChar; i >= 0 && i < len(f.Widths) && f.Widths[i] > 0 {
		return f.Widths[i]
	}
	if len(f.Widths) > 0 && f.MissingWidth > 0 {
		return f.MissingWidth
	}
	return f.GetWidth(r)
}

func (f *Font) cidWidth(code int) float64 {
	for _, wr := range f.W {
		if code < wr.First || code > wr.Last {
			continue
		}
		if wr.Widths != nil {
			return wr.Widths[code-wr.First]
		}
		return wr.Width
	}
	return f.DW
}

// Glyphs splits a shown string into character codes with their text and
// width. Composite fonts read two bytes per code, simple fonts one.
func (f *Font) Glyphs(data []byte) []Glyph {
	if f.IsComposite() {
		glyphs := make([]Glyph, 0, len(data)/2)
		for i := 0; i+1 < len(data); i += 2 {
			code := int(data[i])<<8 | int(data[i+1])
			s, ok := f.ToUnicode.Lookup(uint32(code))
			if !ok {
				s = string(utf8.RuneError)
			}
			glyphs = append(glyphs, Glyph{Code: code, Text: s, Width: f.cidWidth(code)})
		}
		return glyphs
	}

	enc := GetEncoding(f.Encoding)
	glyphs := make([]Glyph, len(data))
	for i, b := range data {
		code := int(b)
		s, ok := f.ToUnicode.Lookup(uint32(code))
		if !ok {
			s = string(enc.Decode(b))
		}
		r, _ := utf8.DecodeRuneInString(s)
		glyphs[i] = Glyph{
			Code:  code,
			Text:  s,
			Width: f.CodeWidth(code, r),
			Space: code == ' ',
		}
	}
	return glyphs
}

// DecodeString decodes a string of character codes to Unicode
func (f *Font) DecodeString(data []byte) string {
	var sb strings.Builder
	for _, g := range f.Glyphs(data) {
		sb.WriteString(g.Text)
	}
	return sb.String()
}

// ParseW reads a /W array whose numbers have already been resolved:
// float64 for a code or width, []float64 for a list of widths.
//
//	[1 [500 600] 10 20 250] -> codes 1-2 widths 500, 600; codes 10-20 width 250
func ParseW(items []any) []WidthRange {
	var ranges []WidthRange
	for i := 0; i+1 < len(items); {
		first, ok := items[i].(float64)
		if !ok {
			break
		}

		if widths, ok := items[i+1].([]float64); ok {
			ranges = append(ranges, WidthRange{
				First:  int(first),
				Last:   int(first) + len(widths) - 1,
				Widths: widths,
			})
			i += 2
			continue
		}

		if i+2 >= len(items) {
			break
		}
		last, ok1 := items[i+1].(float64)
		width, ok2 := items[i+2].(float64)
		if !ok1 || !ok2 {
			break
		}
		ranges = append(ranges, WidthRange{First: int(first), Last: int(last), Width: width})
		i += 3
	}
	return ranges
}

// baseLetter strips diacritics: 'é' -> 'e', 'Å' -> 'A'.
func baseLetter(r rune) rune {
	d := norm.NFD.String(string(r))
	base, _ := utf8.DecodeRuneInString(d)
	return base
}
