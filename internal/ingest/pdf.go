package ingest

import (
	"bytes"
	"strings"

	pdf "github.com/dslipak/pdf"
)

func extractTextFromPDF(path string) (string, error) {
	r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}

	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}

	buf := bytes.NewBuffer(nil)
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", err
	}

	return sanitizeUTF8(strings.TrimSpace(buf.String())), nil
}
