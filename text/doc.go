// Package text interprets PDF content stream operations into positioned
// text fragments.
//
// # Text Extraction
//
// The [Extractor] follows the text state operators (BT/ET, Tf, Tm, Td, TD,
// T*, TL, Tc, Tw, Tz, Ts), the transformation matrix (cm, q/Q) and the text
// showing operators (Tj, TJ, ' and "):
//
//	ex := text.NewExtractor()
//	fragments, err := ex.ExtractFromBytes(contentData)
//
// Each [Fragment] carries its text, the user-space position of its baseline
// origin, an estimated width and the effective font size.
//
// # Decoding
//
// Strings are decoded with [DecodeString]: UTF-16BE when they start with a
// byte order mark, otherwise Windows-1252, which matches the WinAnsi
// encoding used by most generated start lists. Glyph widths are not read
// from the font; every glyph is assumed to be [GlyphWidth] ems wide.
package text
