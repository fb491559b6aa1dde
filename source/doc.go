// Package source reads start list documents into pages of text lines.
//
// Every [Source] yields the same shape: a slice of [model.Page], each
// holding the page's lines in reading order with runs of whitespace kept
// intact, because column boundaries in a start list are only visible as
// wide gaps. Three sources exist:
//
//   - [PDF] uses pdfcpu to read the page content streams and rebuilds the
//     lines from positioned text with the contentstream, text and layout
//     packages.
//   - [HTML] reads preformatted blocks line by line and renders table rows
//     as cells separated by wide gaps.
//   - [Text] reads plain text such as the output of a layout-preserving
//     PDF converter; a form feed starts a new page.
package source

import (
	"context"

	"github.com/tsawler/startlist/model"
)

// Source produces the pages of one document.
type Source interface {
	Pages(ctx context.Context) ([]model.Page, error)
}
