package layout

import "unicode"

// MinPrintableRatio is the share of printable runes below which a page is
// considered undecodable.
const MinPrintableRatio = 0.85

// PrintableRatio returns the ratio of printable runes in s. Private use
// runes, U+FFFD and control characters other than tab and newline are not
// printable. An empty string has ratio 1.
func PrintableRatio(s string) float64 {
	total, printable := 0, 0
	for _, r := range s {
		total++
		if isGarbageRune(r) {
			continue
		}
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			printable++
		}
	}
	if total == 0 {
		return 1
	}
	return float64(printable) / float64(total)
}

func isGarbageRune(r rune) bool {
	switch {
	case r >= 0xE000 && r <= 0xF8FF:
		return true
	case r == unicode.ReplacementChar:
		return true
	case r < 0x20 && r != '\n' && r != '\r' && r != '\t':
		return true
	}
	return false
}
