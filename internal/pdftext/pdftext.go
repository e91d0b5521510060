// Package pdftext pulls plain text out of uploaded PDF documents.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

var ErrNoText = errors.New("pdf contains no extractable text")

// Extract returns the text of every page in order, one page per paragraph. Pages that fail to
// decode are skipped.
func Extract(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if content = strings.TrimSpace(content); content != "" {
			pages = append(pages, content)
		}
	}

	if len(pages) == 0 {
		return "", ErrNoText
	}
	return strings.Join(pages, "\n\n"), nil
}
