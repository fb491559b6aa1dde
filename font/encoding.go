package font

import "golang.org/x/text/encoding/charmap"

// Encoding maps single-byte character codes to runes.
type Encoding struct {
	Name string
	cm   *charmap.Charmap
}

// Decode returns the rune for a character code.
func (e Encoding) Decode(b byte) rune {
	return e.cm.DecodeByte(b)
}

// DecodeString decodes a string of single-byte character codes.
func (e Encoding) DecodeString(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = e.cm.DecodeByte(b)
	}
	return string(runes)
}

// GetEncoding returns the encoding for a PDF base encoding name.
// StandardEncoding and unknown names decode as WinAnsi, which agrees with
// them on letters, digits and common punctuation.
func GetEncoding(name string) Encoding {
	switch name {
	case "MacRomanEncoding":
		return Encoding{Name: name, cm: charmap.Macintosh}
	case "WinAnsiEncoding":
		return Encoding{Name: name, cm: charmap.Windows1252}
	default:
		return Encoding{Name: "WinAnsiEncoding", cm: charmap.Windows1252}
	}
}
