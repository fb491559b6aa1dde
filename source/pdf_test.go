package source

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
)

const helvetica = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"

// buildPDF returns a minimal one-page PDF with the given content stream.
func buildPDF(stream string) []byte {
	return buildPDFWithFont(stream, helvetica)
}

// buildPDFWithFont returns a one-page PDF whose F1 resource is fontObj.
// Extra objects are numbered from 6 in order.
func buildPDFWithFont(stream, fontObj string, extra ...string) []byte {
	objects := append([]string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		streamObject(stream),
		fontObj,
	}, extra...)

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return []byte(b.String())
}

func streamObject(data string) string {
	return fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(data), data)
}

// row places each cell at its X position on one baseline.
func row(y int, cells map[int]string) string {
	var b strings.Builder
	for _, x := range []int{40, 80, 220, 360, 460} {
		if s, ok := cells[x]; ok {
			fmt.Fprintf(&b, "BT /F1 9 Tf 1 0 0 1 %d %d Tm (%s) Tj ET\n", x, y, s)
		}
	}
	return b.String()
}

func TestPDF_Pages(t *testing.T) {
	stream := row(720, map[int]string{40: "Menn 15 km"}) +
		row(700, map[int]string{40: "101", 80: "Ola Nordmann", 220: "Hamar IL NTG", 360: "0:01:30"}) +
		row(688, map[int]string{40: "102", 80: "Kari Nordmann", 220: "Lillehammer SK", 360: "0:02:00"})

	pages, err := NewPDF(bytes.NewReader(buildPDF(stream))).Pages(context.Background())
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	p := pages[0]
	if p.Err != nil {
		t.Fatalf("page error: %v", p.Err)
	}
	if p.Index != 1 {
		t.Errorf("Index = %d, want 1", p.Index)
	}
	if len(p.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(p.Lines), p.Lines)
	}
	if p.Lines[0] != "Menn 15 km" {
		t.Errorf("line 0 = %q", p.Lines[0])
	}
	if !strings.HasPrefix(p.Lines[1], "101  ") || !strings.Contains(p.Lines[1], "Hamar IL NTG  ") {
		t.Errorf("line 1 = %q, want column gaps between cells", p.Lines[1])
	}
}

func TestPDF_Invalid(t *testing.T) {
	_, err := NewPDF(bytes.NewReader([]byte("not a pdf"))).Pages(context.Background())
	if err == nil {
		t.Fatal("expected error for invalid PDF")
	}
}

func TestPDF_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPDF(bytes.NewReader(buildPDF(row(700, map[int]string{40: "x"})))).Pages(ctx)
	if err == nil {
		t.Fatal("expected context error")
	}
}

func TestPDF_CompositeFont(t *testing.T) {
	toUnicode := "/CIDInit /ProcSet findresource begin\n" +
		"begincmap\n" +
		"1 begincodespacerange\n<0000> <FFFF>\nendcodespacerange\n" +
		"3 beginbfchar\n<0001> <00D8>\n<0002> <0079>\n<0005> <0020>\nendbfchar\n" +
		"1 beginbfrange\n<0003> <0004> <0041>\nendbfrange\n" +
		"endcmap\nend"

	type0 := "<< /Type /Font /Subtype /Type0 /BaseFont /ABCDEF+Arial /Encoding /Identity-H " +
		"/DescendantFonts [6 0 R] /ToUnicode 7 0 R >>"
	cidFont := "<< /Type /Font /Subtype /CIDFontType2 /BaseFont /ABCDEF+Arial " +
		"/CIDSystemInfo << /Registry (Adobe) /Ordering (Identity) /Supplement 0 >> " +
		"/FontDescriptor 8 0 R /DW 1000 /W [1 [778 500] 5 [278]] >>"
	descriptor := "<< /Type /FontDescriptor /FontName /ABCDEF+Arial /Flags 32 " +
		"/FontBBox [0 0 1000 1000] /ItalicAngle 0 /Ascent 900 /Descent -200 /CapHeight 700 /StemV 80 >>"

	// "Øy A" then "B" one em past the end of the first string.
	stream := "BT /F1 10 Tf 1 0 0 1 50 700 Tm <0001000200050003> Tj ET\n" +
		"BT /F1 10 Tf 1 0 0 1 89.56 700 Tm <0004> Tj ET"

	doc := buildPDFWithFont(stream, type0, cidFont, streamObject(toUnicode), descriptor)
	pages, err := NewPDF(bytes.NewReader(doc)).Pages(context.Background())
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages) != 1 || pages[0].Err != nil {
		t.Fatalf("pages = %+v", pages)
	}
	if len(pages[0].Lines) != 1 {
		t.Fatalf("lines = %q", pages[0].Lines)
	}

	// The first string is 7.78 + 5 + 2.78 + 10 (DW) = 25.56pt wide, ending
	// at 75.56; "B" starts 14pt later, which is a column gap.
	line := pages[0].Lines[0]
	if !strings.HasPrefix(line, "Øy A") || !strings.HasSuffix(line, "  B") {
		t.Errorf("line = %q, want \"Øy A\" and \"B\" in separate columns", line)
	}
}
