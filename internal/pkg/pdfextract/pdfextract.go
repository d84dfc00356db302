package pdfextract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrTooManyPages marks a document over the configured page ceiling.
// Callers treat it as a skip, not a failure.
var ErrTooManyPages = errors.New("pdf exceeds page limit")

// Extractor pulls plain text out of PDF files, rejecting documents
// longer than maxPages. A maxPages of zero disables the ceiling.
type Extractor struct {
	maxPages int
}

func New(maxPages int) *Extractor {
	return &Extractor{maxPages: maxPages}
}

// Extract returns the concatenated text of every page in the PDF at path.
func (e *Extractor) Extract(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf failed: %w", err)
	}
	defer f.Close()

	if e.maxPages > 0 && r.NumPage() > e.maxPages {
		return "", fmt.Errorf("%w: %d pages (max %d)", ErrTooManyPages, r.NumPage(), e.maxPages)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d failed: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
