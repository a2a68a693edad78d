package document

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// Format is the declared container type of an uploaded document.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	// ErrUnsupportedFormat is returned for format tags outside the supported set.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrCorruptDocument is returned when the container cannot be opened or parsed.
	ErrCorruptDocument = errors.New("corrupt document")
)

// Document is an uploaded file. Data must not be modified after construction.
type Document struct {
	Data   []byte
	Format Format
}

// SupportedFormats lists the formats Extract understands.
func SupportedFormats() []Format {
	return []Format{FormatPDF, FormatDOCX}
}

// ParseFormat resolves a file name, extension or MIME type into a Format.
func ParseFormat(name string) (Format, error) {
	raw := strings.ToLower(strings.TrimSpace(name))
	if raw == "" {
		return "", fmt.Errorf("%w: empty format", ErrUnsupportedFormat)
	}

	if strings.Contains(raw, "/") {
		mediaType, _, err := mime.ParseMediaType(raw)
		if err == nil {
			switch mediaType {
			case mimePDF:
				return FormatPDF, nil
			case mimeDOCX:
				return FormatDOCX, nil
			}
		}
	}

	ext := strings.TrimPrefix(filepath.Ext(raw), ".")
	if ext == "" {
		ext = raw
	}

	switch Format(ext) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatDOCX:
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// Extract converts the document into plain text. Every structural unit (page
// or paragraph) is followed by a single newline, in document order. Units
// without extractable text contribute an empty line instead of an error.
func Extract(doc Document) (string, error) {
	switch doc.Format {
	case FormatPDF:
		return extractPDF(doc.Data)
	case FormatDOCX:
		return extractDOCX(doc.Data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(doc.Format))
	}
}

func joinUnits(units []string) string {
	var builder strings.Builder
	for _, unit := range units {
		builder.WriteString(unit)
		builder.WriteString("\n")
	}
	return builder.String()
}
