package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/tsawler/startlist/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Text reads pages from plain text. Input that is not valid UTF-8 is
// decoded as Windows-1252.
type Text struct {
	r io.Reader
}

// NewText returns a plain text source reading from r.
func NewText(r io.Reader) *Text {
	return &Text{r: r}
}

// Pages splits the text into pages at form feeds and each page into lines.
func (t *Text) Pages(ctx context.Context) ([]model.Page, error) {
	data, err := io.ReadAll(t.r)
	if err != nil {
		return nil, fmt.Errorf("reading text: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	chunks := strings.Split(content, "\f")
	// A trailing form feed ends the last page rather than starting a new one.
	if len(chunks) > 1 && strings.TrimSpace(chunks[len(chunks)-1]) == "" {
		chunks = chunks[:len(chunks)-1]
	}

	pages := make([]model.Page, 0, len(chunks))
	for i, chunk := range chunks {
		pages = append(pages, model.Page{Index: i + 1, Lines: splitLines(chunk)})
	}
	return pages, nil
}

func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding text: %w", err)
	}
	return string(out), nil
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
