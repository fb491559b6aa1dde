package source

import (
	"context"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/tsawler/startlist/layout"
	"github.com/tsawler/startlist/model"
	"github.com/tsawler/startlist/text"
)

// PDF reads pages from a PDF document.
type PDF struct {
	rs       io.ReadSeeker
	detector *layout.LineDetector
}

// NewPDF returns a PDF source reading from rs.
func NewPDF(rs io.ReadSeeker) *PDF {
	return &PDF{rs: rs, detector: layout.NewLineDetector()}
}

// WithLineConfig returns a copy of the source using a custom line
// detection configuration.
func (p *PDF) WithLineConfig(cfg layout.LineConfig) *PDF {
	c := *p
	c.detector = layout.NewLineDetectorWithConfig(cfg)
	return &c
}

// Pages reads and validates the document, then extracts every page. A page
// whose content cannot be read is returned with Err set; only a document
// that cannot be opened at all is an error.
func (p *PDF) Pages(ctx context.Context) ([]model.Page, error) {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	pc, err := api.ReadValidateAndOptimize(p.rs, conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	pages := make([]model.Page, 0, pc.PageCount)
	for pageNr := 1; pageNr <= pc.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		lines, err := p.pageLines(pc, pageNr)
		pages = append(pages, model.Page{Index: pageNr, Lines: lines, Err: err})
	}

	return pages, nil
}

func (p *PDF) pageLines(pc *pdfmodel.Context, pageNr int) ([]string, error) {
	r, err := pdfcpu.ExtractPageContent(pc, pageNr)
	if err != nil {
		return nil, fmt.Errorf("page %d content: %w", pageNr, err)
	}
	if r == nil {
		return nil, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("page %d content: %w", pageNr, err)
	}

	fragments, err := text.NewExtractorWithFonts(pageFonts(pc, pageNr)).ExtractFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", pageNr, err)
	}

	return p.detector.Lines(fragments), nil
}
