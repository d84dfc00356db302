package pdfextract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFixturePDF builds a minimal valid PDF with the given number of
// empty pages, tracking byte offsets so the xref table is correct.
func writeFixturePDF(t *testing.T, pages int) string {
	t.Helper()

	var buf bytes.Buffer
	offsets := []int{0}
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets)-1, body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, pages)
	for i := 0; i < pages; i++ {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))
	for i := 0; i < pages; i++ {
		writeObj(fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> /Contents %d 0 R >>",
			4+2*i,
		))
		writeObj("<< /Length 0 >>\nstream\nendstream")
	}

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets))
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets[1:] {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets), xrefPos)

	path := filepath.Join(t.TempDir(), fmt.Sprintf("fixture-%dp.pdf", pages))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture pdf: %v", err)
	}
	return path
}

func TestExtractPageLimitBoundary(t *testing.T) {
	extractor := New(3)

	if _, err := extractor.Extract(writeFixturePDF(t, 3)); err != nil {
		t.Fatalf("document at the page limit rejected: %v", err)
	}

	_, err := extractor.Extract(writeFixturePDF(t, 4))
	if !errors.Is(err, ErrTooManyPages) {
		t.Fatalf("document over the page limit err = %v, want ErrTooManyPages", err)
	}
}

func TestExtractNoLimitWhenZero(t *testing.T) {
	extractor := New(0)

	if _, err := extractor.Extract(writeFixturePDF(t, 4)); err != nil {
		t.Fatalf("unlimited extractor rejected document: %v", err)
	}
}

func TestExtractMissingFile(t *testing.T) {
	extractor := New(3)

	if _, err := extractor.Extract(filepath.Join(t.TempDir(), "absent.pdf")); err == nil {
		t.Fatal("missing file extracted without error")
	}
}
