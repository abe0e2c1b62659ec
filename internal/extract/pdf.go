package extract

import (
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	"policyaudit/internal/model"
)

// DefaultMaxPages bounds the number of pages read from a single upload.
const DefaultMaxPages = 500

type pdfExtractor struct {
	maxPages int
}

// NewPDFExtractor returns a DocumentTextExtractor for PDF files.
// maxPages <= 0 falls back to DefaultMaxPages.
func NewPDFExtractor(maxPages int) DocumentTextExtractor {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &pdfExtractor{maxPages: maxPages}
}

// Extract reads every page. Pages without extractable text (scans, images,
// undecodable content streams) yield an empty string.
func (e *pdfExtractor) Extract(ctx context.Context, r io.ReaderAt, size int64) (pages []model.ExtractedPage, err error) {
	if r == nil || size <= 0 {
		return nil, &ExtractionError{Reason: "empty document"}
	}

	// The parser panics on some malformed object graphs.
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = &ExtractionError{Reason: "malformed pdf", Err: fmt.Errorf("%v", rec)}
		}
	}()

	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, &ExtractionError{Reason: "open pdf", Err: err}
	}

	n := doc.NumPage()
	if n > e.maxPages {
		return nil, &ExtractionError{Reason: fmt.Sprintf("pdf has %d pages, limit is %d", n, e.maxPages)}
	}

	// A page tree without pages is a valid, empty document.
	pages = make([]model.ExtractedPage, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages = append(pages, model.ExtractedPage{
			PageNumber: i,
			Content:    pageText(doc.Page(i)),
		})
	}
	return pages, nil
}

// pageText resolves fonts per page; font resource names are only unique within a page.
func pageText(p pdf.Page) string {
	if p.V.IsNull() {
		return ""
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}
