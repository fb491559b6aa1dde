package text

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"

	"github.com/tsawler/startlist/contentstream"
	"github.com/tsawler/startlist/font"
)

// GlyphWidth is the assumed advance of one glyph, in ems, for text shown
// with a font the page resources do not describe.
const GlyphWidth = 0.5

// Fragment is a piece of extracted text with position.
type Fragment struct {
	Text     string
	X, Y     float64 // Baseline origin in user space
	Width    float64
	FontName string
	FontSize float64 // Effective size after text and transformation matrices
}

// EndX returns the X coordinate where the fragment ends.
func (f Fragment) EndX() float64 {
	return f.X + f.Width
}

// state is the part of the graphics state saved by q and restored by Q.
type state struct {
	ctm         matrix
	font        string
	size        float64
	charSpacing float64
	wordSpacing float64
	scale       float64 // horizontal scaling as a fraction
	leading     float64
	rise        float64
}

// Extractor extracts positioned text from content streams.
type Extractor struct {
	st    state
	stack []state

	tm  matrix // text matrix
	tlm matrix // text line matrix

	fonts     map[string]*font.Font
	decode    func([]byte) string
	fragments []Fragment
}

// NewExtractor creates a new text extractor that decodes strings with
// DecodeString.
func NewExtractor() *Extractor {
	return NewExtractorWithDecoder(DecodeString)
}

// NewExtractorWithDecoder creates a text extractor with a custom string
// decoder.
func NewExtractorWithDecoder(decode func([]byte) string) *Extractor {
	return &Extractor{
		st:     state{ctm: identity, scale: 1},
		tm:     identity,
		tlm:    identity,
		decode: decode,
	}
}

// NewExtractorWithFonts creates a text extractor that measures and decodes
// strings with the page's fonts, keyed by resource name. Strings shown with
// a font missing from the map fall back to DecodeString and GlyphWidth.
func NewExtractorWithFonts(fonts map[string]*font.Font) *Extractor {
	e := NewExtractor()
	e.fonts = fonts
	return e
}

// ExtractFromBytes parses and extracts text from raw content stream data
func (e *Extractor) ExtractFromBytes(data []byte) ([]Fragment, error) {
	ops, err := contentstream.NewParser(data).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse content stream: %w", err)
	}
	return e.Extract(ops), nil
}

// Extract interprets content stream operations and returns the text
// fragments in stream order.
func (e *Extractor) Extract(ops []contentstream.Operation) []Fragment {
	e.fragments = nil
	for _, op := range ops {
		e.processOperation(op)
	}
	return e.fragments
}

// processOperation processes a single content stream operation. Operations
// with malformed operands are ignored.
func (e *Extractor) processOperation(op contentstream.Operation) {
	args := op.Operands

	switch op.Operator {
	// Graphics state
	case "q":
		e.stack = append(e.stack, e.st)
	case "Q":
		if n := len(e.stack); n > 0 {
			e.st = e.stack[n-1]
			e.stack = e.stack[:n-1]
		}
	case "cm":
		if m, ok := toMatrix(args); ok {
			e.st.ctm = m.multiply(e.st.ctm)
		}

	// Text object
	case "BT":
		e.tm = identity
		e.tlm = identity
	case "ET":

	// Text state
	case "Tf":
		if len(args) == 2 {
			if name, ok := args[0].(contentstream.Name); ok {
				e.st.font = string(name)
			}
			if size, ok := contentstream.Float(args[1]); ok {
				e.st.size = size
			}
		}
	case "Tc":
		e.setFloat(args, &e.st.charSpacing)
	case "Tw":
		e.setFloat(args, &e.st.wordSpacing)
	case "Tz":
		var pct float64
		if e.setFloat(args, &pct) {
			e.st.scale = pct / 100
		}
	case "TL":
		e.setFloat(args, &e.st.leading)
	case "Ts":
		e.setFloat(args, &e.st.rise)

	// Text positioning
	case "Tm":
		if m, ok := toMatrix(args); ok {
			e.tm = m
			e.tlm = m
		}
	case "Td", "TD":
		if len(args) == 2 {
			tx, okx := contentstream.Float(args[0])
			ty, oky := contentstream.Float(args[1])
			if okx && oky {
				if op.Operator == "TD" {
					e.st.leading = -ty
				}
				e.moveLine(tx, ty)
			}
		}
	case "T*":
		e.moveLine(0, -e.st.leading)

	// Text showing
	case "Tj":
		if len(args) == 1 {
			if s, ok := args[0].(contentstream.String); ok {
				e.showText([]byte(s))
			}
		}
	case "TJ":
		if len(args) == 1 {
			if arr, ok := args[0].(contentstream.Array); ok {
				e.showTextArray(arr)
			}
		}
	case "'":
		e.moveLine(0, -e.st.leading)
		if len(args) == 1 {
			if s, ok := args[0].(contentstream.String); ok {
				e.showText([]byte(s))
			}
		}
	case "\"":
		if len(args) == 3 {
			if aw, ok := contentstream.Float(args[0]); ok {
				e.st.wordSpacing = aw
			}
			if ac, ok := contentstream.Float(args[1]); ok {
				e.st.charSpacing = ac
			}
			e.moveLine(0, -e.st.leading)
			if s, ok := args[2].(contentstream.String); ok {
				e.showText([]byte(s))
			}
		}
	}
}

func (e *Extractor) setFloat(args []contentstream.Object, dst *float64) bool {
	if len(args) != 1 {
		return false
	}
	v, ok := contentstream.Float(args[0])
	if ok {
		*dst = v
	}
	return ok
}

// moveLine starts a new line offset from the start of the current one.
func (e *Extractor) moveLine(tx, ty float64) {
	e.tlm = translate(tx, ty).multiply(e.tlm)
	e.tm = e.tlm
}

// showText emits a fragment for a string and advances the text matrix.
func (e *Extractor) showText(data []byte) {
	glyphs := e.glyphs(data)
	trm := e.tm.multiply(e.st.ctm)
	x, y := trm.apply(0, e.st.rise)

	var sb strings.Builder
	var advance float64
	for _, g := range glyphs {
		w := g.Width/1000*e.st.size + e.st.charSpacing
		if g.Space {
			w += e.st.wordSpacing
		}
		advance += w * e.st.scale
		sb.WriteString(g.Text)
	}
	e.tm = translate(advance, 0).multiply(e.tm)
	decoded := sb.String()

	endX, _ := e.tm.multiply(e.st.ctm).apply(0, e.st.rise)

	if isBlank(decoded) {
		return
	}

	e.fragments = append(e.fragments, Fragment{
		Text:     decoded,
		X:        x,
		Y:        y,
		Width:    endX - x,
		FontName: e.st.font,
		FontSize: e.st.size * trm.verticalScale(),
	})
}

// glyphs splits a string into glyphs using the current font, or decodes it
// and assumes GlyphWidth per rune when the font is unknown.
func (e *Extractor) glyphs(data []byte) []font.Glyph {
	if f, ok := e.fonts[e.st.font]; ok {
		return f.Glyphs(data)
	}

	decoded := e.decode(data)
	glyphs := make([]font.Glyph, 0, len(decoded))
	for _, r := range decoded {
		glyphs = append(glyphs, font.Glyph{
			Code:  int(r),
			Text:  string(r),
			Width: GlyphWidth * 1000,
			Space: r == ' ',
		})
	}
	return glyphs
}

// showTextArray handles TJ: strings interleaved with position adjustments
// in thousandths of an em.
func (e *Extractor) showTextArray(arr contentstream.Array) {
	for _, item := range arr {
		if s, ok := item.(contentstream.String); ok {
			e.showText([]byte(s))
			continue
		}
		if adj, ok := contentstream.Float(item); ok {
			tx := -adj / 1000 * e.st.size * e.st.scale
			e.tm = translate(tx, 0).multiply(e.tm)
		}
	}
}

// DecodeString decodes a PDF string to UTF-8: UTF-16BE when it starts with
// a byte order mark, Windows-1252 otherwise.
func DecodeString(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		out, err := xunicode.UTF16(xunicode.BigEndian, xunicode.ExpectBOM).NewDecoder().Bytes(b)
		if err == nil {
			return string(out)
		}
	}

	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

func isBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func toMatrix(args []contentstream.Object) (matrix, bool) {
	var m matrix
	if len(args) != 6 {
		return m, false
	}
	for i, a := range args {
		v, ok := contentstream.Float(a)
		if !ok {
			return m, false
		}
		m[i] = v
	}
	return m, true
}
