package document

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

func extractPDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: read pdf: %v", ErrCorruptDocument, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: read pdf: %w", ErrCorruptDocument, err)
	}

	total := reader.NumPage()
	units := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		units = append(units, pageText(reader.Page(i)))
	}

	return joinUnits(units), nil
}

func pageText(page pdf.Page) string {
	if page.V.IsNull() {
		return ""
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}

	return text
}
