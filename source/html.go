package source

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/startlist/model"
)

// CellSeparator joins table cells so that each cell boundary reads as a
// column gap.
const CellSeparator = "   "

// HTML reads a single page from an HTML document.
type HTML struct {
	r io.Reader
}

// NewHTML returns an HTML source reading from r.
func NewHTML(r io.Reader) *HTML {
	return &HTML{r: r}
}

// Pages parses the document and returns its lines as one page.
func (h *HTML) Pages(ctx context.Context) ([]model.Page, error) {
	doc, err := html.Parse(h.r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body := findElement(doc, "body")
	if body == nil {
		body = doc
	}

	var lines []string
	collectLines(body, &lines)

	return []model.Page{{Index: 1, Lines: lines}}, nil
}

// collectLines walks the DOM in document order appending one entry per
// rendered line.
func collectLines(n *html.Node, lines *[]string) {
	switch n.Type {
	case html.TextNode:
		if s := collapseSpace(n.Data); s != "" {
			*lines = append(*lines, s)
		}
		return
	case html.ElementNode:
		if shouldSkipElement(n.Data) {
			return
		}

		switch n.Data {
		case "pre":
			raw := strings.TrimPrefix(rawText(n), "\n")
			*lines = append(*lines, splitLines(raw)...)
			return
		case "tr":
			if row := tableRow(n); row != "" {
				*lines = append(*lines, row)
			}
			return
		case "p", "li", "caption", "dt", "dd", "h1", "h2", "h3", "h4", "h5", "h6":
			appendBlock(n, lines)
			return
		case "div", "section", "article":
			if !isBlockContainer(n) {
				appendBlock(n, lines)
				return
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectLines(c, lines)
	}
}

// appendBlock appends the text of an inline-only block, one line per <br>.
func appendBlock(n *html.Node, lines *[]string) {
	var sb strings.Builder
	inlineText(n, &sb)
	for _, l := range strings.Split(sb.String(), "\n") {
		if s := collapseSpace(l); s != "" {
			*lines = append(*lines, s)
		}
	}
}

// tableRow renders a row as its non-empty cells joined by CellSeparator.
func tableRow(tr *html.Node) string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		var sb strings.Builder
		inlineText(c, &sb)
		if s := collapseSpace(sb.String()); s != "" {
			cells = append(cells, s)
		}
	}
	return strings.Join(cells, CellSeparator)
}

func inlineText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	if n.Type == html.ElementNode {
		if shouldSkipElement(n.Data) {
			return
		}
		if n.Data == "br" {
			sb.WriteString("\n")
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		inlineText(c, sb)
	}
	if n.Type == html.ElementNode && isBlockElement(n.Data) {
		sb.WriteString("\n")
	}
}

// rawText returns the text of a node with whitespace preserved.
func rawText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			sb.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// collapseSpace applies HTML whitespace collapsing to s.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func shouldSkipElement(tagName string) bool {
	switch tagName {
	case "script", "style", "noscript", "template", "svg", "math", "iframe", "object", "embed", "head":
		return true
	}
	return false
}

func isBlockElement(tagName string) bool {
	switch tagName {
	case "div", "p", "ul", "ol", "li", "table", "tr", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "pre", "article", "section":
		return true
	}
	return false
}

// isBlockContainer reports whether n has block-level children.
func isBlockContainer(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && isBlockElement(c.Data) {
			return true
		}
	}
	return false
}

func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, tagName); result != nil {
			return result
		}
	}
	return nil
}
