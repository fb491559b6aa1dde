package font

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	xunicode "golang.org/x/text/encoding/unicode"
)

// CMap represents a character map that maps character codes to Unicode
type CMap struct {
	chars  map[uint32]string
	ranges []cmapRange
}

type cmapRange struct {
	first, last uint32
	start       string // text for first; the last rune increments per code
}

// NewCMap creates a new empty CMap
func NewCMap() *CMap {
	return &CMap{chars: make(map[uint32]string)}
}

// ParseCMap parses the content of a ToUnicode CMap stream.
func ParseCMap(data []byte) (*CMap, error) {
	cm, err := parseCMapData(data)
	if err != nil {
		return nil, err
	}
	if cm.Len() == 0 {
		return nil, fmt.Errorf("cmap has no bfchar or bfrange mappings")
	}
	return cm, nil
}

// cmapToken matches the hex strings and array brackets inside a mapping
// section. Everything else is ignored.
var cmapToken = regexp.MustCompile(`<[0-9A-Fa-f\s]*>|\[|\]`)

func parseCMapData(data []byte) (*CMap, error) {
	cm := NewCMap()
	content := string(data)

	for _, section := range sections(content, "beginbfchar", "endbfchar") {
		tokens := cmapToken.FindAllString(section, -1)
		for i := 0; i+1 < len(tokens); i += 2 {
			code, ok := hexCode(tokens[i])
			if !ok {
				continue
			}
			if s, ok := hexText(tokens[i+1]); ok {
				cm.chars[code] = s
			}
		}
	}

	for _, section := range sections(content, "beginbfrange", "endbfrange") {
		cm.parseRanges(cmapToken.FindAllString(section, -1))
	}

	return cm, nil
}

// parseRanges reads "<first> <last> <dst>" and "<first> <last> [<d1> <d2> ...]"
// entries.
func (cm *CMap) parseRanges(tokens []string) {
	for i := 0; i+2 < len(tokens); {
		first, ok1 := hexCode(tokens[i])
		last, ok2 := hexCode(tokens[i+1])
		if !ok1 || !ok2 || last < first {
			return
		}

		if tokens[i+2] != "[" {
			if s, ok := hexText(tokens[i+2]); ok && s != "" {
				cm.ranges = append(cm.ranges, cmapRange{first: first, last: last, start: s})
			}
			i += 3
			continue
		}

		j := i + 3
		code := first
		for ; j < len(tokens) && tokens[j] != "]"; j++ {
			if s, ok := hexText(tokens[j]); ok && code <= last {
				cm.chars[code] = s
			}
			code++
		}
		i = j + 1
	}
}

// Len returns the number of mapping entries.
func (cm *CMap) Len() int {
	if cm == nil {
		return 0
	}
	return len(cm.chars) + len(cm.ranges)
}

// Lookup returns the text for a character code. A nil CMap maps nothing.
func (cm *CMap) Lookup(code uint32) (string, bool) {
	if cm == nil {
		return "", false
	}
	if s, ok := cm.chars[code]; ok {
		return s, true
	}
	for _, r := range cm.ranges {
		if code < r.first || code > r.last {
			continue
		}
		last, size := utf8.DecodeLastRuneInString(r.start)
		return r.start[:len(r.start)-size] + string(last+rune(code-r.first)), true
	}
	return "", false
}

// sections returns the text between each begin and end keyword pair.
func sections(content, begin, end string) []string {
	var out []string
	for {
		i := strings.Index(content, begin)
		if i < 0 {
			return out
		}
		content = content[i+len(begin):]
		j := strings.Index(content, end)
		if j < 0 {
			return out
		}
		out = append(out, content[:j])
		content = content[j+len(end):]
	}
}

func hexBytes(token string) ([]byte, bool) {
	if len(token) < 2 || token[0] != '<' || token[len(token)-1] != '>' {
		return nil, false
	}
	digits := strings.Join(strings.Fields(token[1:len(token)-1]), "")
	if len(digits)%2 != 0 {
		digits += "0"
	}
	b, err := hex.DecodeString(digits)
	return b, err == nil
}

func hexCode(token string) (uint32, bool) {
	b, ok := hexBytes(token)
	if !ok || len(b) == 0 || len(b) > 4 {
		return 0, false
	}
	var code uint32
	for _, c := range b {
		code = code<<8 | uint32(c)
	}
	return code, true
}

// hexText decodes a destination string, which is UTF-16BE.
func hexText(token string) (string, bool) {
	b, ok := hexBytes(token)
	if !ok {
		return "", false
	}
	if len(b) == 1 {
		return string(rune(b[0])), true
	}
	out, err := xunicode.UTF16(xunicode.BigEndian, xunicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return "", false
	}
	return string(out), true
}
