// Package extract turns uploaded documents into per-page text.
package extract

import (
	"context"
	"fmt"
	"io"

	"policyaudit/internal/model"
)

// DocumentTextExtractor converts a document into its pages' text, in order,
// starting at page 1.
type DocumentTextExtractor interface {
	Extract(ctx context.Context, r io.ReaderAt, size int64) ([]model.ExtractedPage, error)
}

// ExtractionError reports a document that could not be parsed.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract document: %s: %v", e.Reason, e.Err)
	}
	return "extract document: " + e.Reason
}

func (e *ExtractionError) Unwrap() error { return e.Err }
