package text

import (
	"math"
	"testing"

	"github.com/tsawler/startlist/contentstream"
	"github.com/tsawler/startlist/font"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestExtractor_SimpleText(t *testing.T) {
	ex := NewExtractor()

	ops := []contentstream.Operation{
		{Operator: "BT"},
		{Operator: "Tf", Operands: []contentstream.Object{contentstream.Name("F1"), contentstream.Int(12)}},
		{Operator: "Td", Operands: []contentstream.Object{contentstream.Int(100), contentstream.Int(700)}},
		{Operator: "Tj", Operands: []contentstream.Object{contentstream.String("Hello")}},
		{Operator: "ET"},
	}

	fragments := ex.Extract(ops)
	if len(fragments) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(fragments))
	}

	f := fragments[0]
	if f.Text != "Hello" {
		t.Errorf("Text = %q, want %q", f.Text, "Hello")
	}
	if !approx(f.X, 100) || !approx(f.Y, 700) {
		t.Errorf("position = (%v, %v), want (100, 700)", f.X, f.Y)
	}
	if !approx(f.FontSize, 12) {
		t.Errorf("FontSize = %v, want 12", f.FontSize)
	}
	if f.FontName != "F1" {
		t.Errorf("FontName = %q, want F1", f.FontName)
	}
	// 5 glyphs at half an em each
	if !approx(f.Width, 30) {
		t.Errorf("Width = %v, want 30", f.Width)
	}
}

func TestExtractor_AdvanceBetweenShows(t *testing.T) {
	ex := NewExtractor()

	ops := []contentstream.Operation{
		{Operator: "BT"},
		{Operator: "Tf", Operands: []contentstream.Object{contentstream.Name("F1"), contentstream.Int(10)}},
		{Operator: "Tj", Operands: []contentstream.Object{contentstream.String("ab")}},
		{Operator: "Tj", Operands: []contentstream.Object{contentstream.String("cd")}},
		{Operator: "ET"},
	}

	fragments := ex.Extract(ops)
	if len(fragments) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(fragments))
	}
	if !approx(fragments[1].X, fragments[0].EndX()) {
		t.Errorf("second fragment X = %v, want %v", fragments[1].X, fragments[0].EndX())
	}
}

func TestExtractor_TJAdjustment(t *testing.T) {
	ex := NewExtractor()

	ops := []contentstream.Operation{
		{Operator: "BT"},
		{Operator: "Tf", Operands: []contentstream.Object{contentstream.Name("F1"), contentstream.Int(10)}},
		{Operator: "TJ", Operands: []contentstream.Object{contentstream.Array{
			contentstream.String("A"),
			contentstream.Int(-2000),
			contentstream.String("B"),
		}}},
		{Operator: "ET"},
	}

	fragments := ex.Extract(ops)
	if len(fragments) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(fragments))
	}
	// "A" advances 5, then -2000 moves right by 20
	if !approx(fragments[1].X, 25) {
		t.Errorf("B.X = %v, want 25", fragments[1].X)
	}
}

func TestExtractor_LeadingAndNextLine(t *testing.T) {
	ex := NewExtractor()

	ops := []contentstream.Operation{
		{Operator: "BT"},
		{Operator: "Tf", Operands: []contentstream.Object{contentstream.Name("F1"), contentstream.Int(10)}},
		{Operator: "TD", Operands: []contentstream.Object{contentstream.Int(50), contentstream.Int(-14)}},
		{Operator: "Tj", Operands: []contentstream.Object{contentstream.String("one")}},
		{Operator: "T*"},
		{Operator: "Tj", Operands: []contentstream.Object{contentstream.String("two")}},
		{Operator: "'", Operands: []contentstream.Object{contentstream.String("three")}},
		{Operator: "ET"},
	}

	fragments := ex.Extract(ops)
	if len(fragments) != 3 {
		t.Fatalf("expected 3 fragments, got %d", len(fragments))
	}

	wantY := []float64{-14, -28, -42}
	for i, f := range fragments {
		if !approx(f.X, 50) {
			t.Errorf("fragment %d X = %v, want 50", i, f.X)
		}
		if !approx(f.Y, wantY[i]) {
			t.Errorf("fragment %d Y = %v, want %v", i, f.Y, wantY[i])
		}
	}
}

func TestExtractor_TextMatrixScalesFont(t *testing.T) {
	ex := NewExtractor()

	ops := []contentstream.Operation{
		{Operator: "BT"},
		{Operator: "Tf", Operands: []contentstream.Object{contentstream.Name("F1"), contentstream.Int(1)}},
		{Operator: "Tm", Operands: []contentstream.Object{
			contentstream.Int(9), contentstream.Int(0), contentstream.Int(0), contentstream.Int(9),
			contentstream.Real(72), contentstream.Real(500),
		}},
		{Operator: "Tj", Operands: []contentstream.Object{contentstream.String("x")}},
		{Operator: "ET"},
	}

	fragments := ex.Extract(ops)
	if len(fragments) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(fragments))
	}
	if !approx(fragments[0].FontSize, 9) {
		t.Errorf("FontSize = %v, want 9", fragments[0].FontSize)
	}
	if !approx(fragments[0].X, 72) || !approx(fragments[0].Y, 500) {
		t.Errorf("position = (%v, %v), want (72, 500)", fragments[0].X, fragments[0].Y)
	}
}

func TestExtractor_SaveRestoreCTM(t *testing.T) {
	ex := NewExtractor()

	ops := []contentstream.Operation{
		{Operator: "q"},
		{Operator: "cm", Operands: []contentstream.Object{
			contentstream.Int(1), contentstream.Int(0), contentstream.Int(0), contentstream.Int(1),
			contentstream.Int(100), contentstream.Int(100),
		}},
		{Operator: "BT"},
		{Operator: "Tf", Operands: []contentstream.Object{contentstream.Name("F1"), contentstream.Int(10)}},
		{Operator: "Tj", Operands: []contentstream.Object{contentstream.String("in")}},
		{Operator: "ET"},
		{Operator: "Q"},
		{Operator: "BT"},
		{Operator: "Tj", Operands: []contentstream.Object{contentstream.String("out")}},
		{Operator: "ET"},
	}

	fragments := ex.Extract(ops)
	if len(fragments) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(fragments))
	}
	if !approx(fragments[0].X, 100) || !approx(fragments[0].Y, 100) {
		t.Errorf("inside q: (%v, %v), want (100, 100)", fragments[0].X, fragments[0].Y)
	}
	if !approx(fragments[1].X, 0) || !approx(fragments[1].Y, 0) {
		t.Errorf("after Q: (%v, %v), want (0, 0)", fragments[1].X, fragments[1].Y)
	}
	// Tf was set inside q and restored away
	if fragments[1].FontSize != 0 {
		t.Errorf("after Q FontSize = %v, want 0", fragments[1].FontSize)
	}
}

func TestExtractor_SkipsBlankAndMalformed(t *testing.T) {
	ex := NewExtractor()

	ops := []contentstream.Operation{
		{Operator: "BT"},
		{Operator: "Tf", Operands: []contentstream.Object{contentstream.Name("F1")}},
		{Operator: "Td", Operands: []contentstream.Object{contentstream.Name("bad"), contentstream.Int(1)}},
		{Operator: "Tj", Operands: []contentstream.Object{contentstream.String("   ")}},
		{Operator: "Tj", Operands: []contentstream.Object{contentstream.Int(3)}},
		{Operator: "Tj", Operands: []contentstream.Object{contentstream.String("ok")}},
		{Operator: "ET"},
	}

	fragments := ex.Extract(ops)
	if len(fragments) != 1 || fragments[0].Text != "ok" {
		t.Fatalf("fragments = %+v, want single \"ok\"", fragments)
	}
}

func TestExtractFromBytes(t *testing.T) {
	ex := NewExtractor()
	data := []byte("BT /F1 12 Tf 72 720 Td (42   Ola Nordmann) Tj ET")

	fragments, err := ex.ExtractFromBytes(data)
	if err != nil {
		t.Fatalf("ExtractFromBytes: %v", err)
	}
	if len(fragments) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(fragments))
	}
	if fragments[0].Text != "42   Ola Nordmann" {
		t.Errorf("Text = %q", fragments[0].Text)
	}
}

func TestExtractor_FontWidths(t *testing.T) {
	ex := NewExtractorWithFonts(map[string]*font.Font{
		"F1": font.NewFont("F1", "Helvetica", "Type1"),
	})
	data := []byte("BT /F1 10 Tf 80 700 Td (Lilli Litlilti) Tj 2 Tw (a b) Tj /F9 10 Tf (xy) Tj ET")

	fragments, err := ex.ExtractFromBytes(data)
	if err != nil {
		t.Fatalf("ExtractFromBytes: %v", err)
	}
	if len(fragments) != 3 {
		t.Fatalf("expected 3 fragments, got %d", len(fragments))
	}

	// Helvetica: L 556, i 222, l 222, t 278, space 278
	if !approx(fragments[0].Width, 39.44) {
		t.Errorf("Width = %v, want 39.44", fragments[0].Width)
	}
	// a 556 + space 278 + b 556 at 10pt, plus 2pt word spacing on the space
	if !approx(fragments[1].Width, 15.9) {
		t.Errorf("Width with word spacing = %v, want 15.9", fragments[1].Width)
	}
	// F9 is not a page font: half an em per glyph
	if !approx(fragments[2].Width, 10) {
		t.Errorf("unknown font Width = %v, want 10", fragments[2].Width)
	}
}

func TestExtractor_CompositeFont(t *testing.T) {
	cm, err := font.ParseCMap([]byte("beginbfchar\n<0001> <00D8> <0002> <0079> <0003> <0020>\nendbfchar"))
	if err != nil {
		t.Fatal(err)
	}
	f := font.NewFont("F2", "ABCDEF+Arial", "Type0")
	f.ToUnicode = cm
	f.W = font.ParseW([]any{1.0, []float64{778, 500, 278}})

	ex := NewExtractorWithFonts(map[string]*font.Font{"F2": f})
	fragments, err := ex.ExtractFromBytes([]byte("BT /F2 10 Tf 5 Tw 50 700 Td <000100020003> Tj ET"))
	if err != nil {
		t.Fatalf("ExtractFromBytes: %v", err)
	}
	if len(fragments) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(fragments))
	}
	if fragments[0].Text != "Øy " {
		t.Errorf("Text = %q, want %q", fragments[0].Text, "Øy ")
	}
	// Two-byte codes get no word spacing.
	if !approx(fragments[0].Width, 15.56) {
		t.Errorf("Width = %v, want 15.56", fragments[0].Width)
	}
}

func TestDecodeString(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"ascii", []byte("Hamar IL"), "Hamar IL"},
		{"win1252 letters", []byte{'B', 0xF8, 'e'}, "Bøe"},
		{"win1252 aring", []byte{0xC5, 's'}, "Ås"},
		{"utf16 bom", []byte{0xFE, 0xFF, 0x00, 'N', 0x00, 0xF8}, "Nø"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeString(tt.in); got != tt.want {
				t.Errorf("DecodeString(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
