// Package pdftext is the page text extraction collaborator: it pulls plain
// text out of statute PDFs page by page, leaving all cleaning to the
// normalizer.
package pdftext

import (
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// ExtractPages returns the plain text of every page in the PDF at path, in
// page order. Pages the library cannot render yield empty strings rather
// than failing the whole document.
func ExtractPages(path string) ([]string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// ExtractFile returns the whole document's text with pages joined by
// paragraph breaks, ready for the normalizer.
func ExtractFile(path string) (string, error) {
	pages, err := ExtractPages(path)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	for _, page := range pages {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(page)
	}
	return buf.String(), nil
}
