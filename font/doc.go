// Package font measures and decodes the text of PDF fonts.
//
// Start lists are read column by column, so the extractor must know where
// each string ends. A [Font] answers that with the best width information
// the document offers:
//
//   - the /Widths array of a simple font, indexed from /FirstChar;
//   - the /W and /DW entries of a composite (Type0) font;
//   - the metrics of the standard 14 fonts when the document has none.
//
// Character codes become text through the font's ToUnicode [CMap] when
// present, otherwise through its base encoding (WinAnsi or MacRoman):
//
//	f := font.NewFont("F1", "Helvetica", "Type1")
//	for _, g := range f.Glyphs([]byte("Ola")) {
//	    fmt.Println(g.Text, g.Width) // width in thousandths of an em
//	}
package font
