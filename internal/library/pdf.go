package library

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDFText pulls the plain text out of a PDF file. The header is
// checked first so a mislabeled upload fails with a clear error instead of
// a parser panic deep inside the reader.
func ExtractPDFText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty file")
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return "", fmt.Errorf("not a PDF file")
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("reading PDF: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting PDF text: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("reading PDF text: %w", err)
	}

	text := collapseWhitespace(string(b))
	if text == "" {
		return "", fmt.Errorf("no text extracted from PDF")
	}
	return text, nil
}

func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}
