package services

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PageText is the extracted plain text of one PDF page. Number is the
// 1-based page ordinal.
type PageText struct {
	Number int
	Text   string
}

// PageExtractor yields per-page plain text from raw PDF bytes.
type PageExtractor interface {
	ExtractPages(content []byte) ([]PageText, error)
}

// PDFExtractor extracts text page by page. A page whose content cannot
// be decoded (scanned or image-only pages) yields empty text rather
// than failing the document.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractPages parses the document and returns one entry per page, in
// page order. Only an unreadable document is an error; it can be
// called again on the same bytes.
func (e *PDFExtractor) ExtractPages(content []byte) ([]PageText, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	numPages := reader.NumPage()
	pages := make([]PageText, 0, numPages)

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, PageText{Number: i})
			continue
		}

		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			// No extractable content; the page still flows through
			// the pipeline with empty text.
			pages = append(pages, PageText{Number: i})
			continue
		}

		pages = append(pages, PageText{Number: i, Text: text})
	}

	return pages, nil
}
