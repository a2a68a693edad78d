package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spigell/resume-agent/internal/document"
)

// readResumeFile extracts text from a PDF or DOCX resume.
func readResumeFile(path string) (string, error) {
	format, err := document.ParseFormat(path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading resume: %w", err)
	}

	text, err := document.Extract(document.Document{Data: data, Format: format})
	if err != nil {
		return "", fmt.Errorf("extracting %s: %w", filepath.Base(path), err)
	}

	if text == "" {
		return "", errors.New("could not extract text from resume")
	}

	return text, nil
}

// readJobFile extracts text from a PDF or DOCX job description. Any other file
// is read as plain text.
func readJobFile(path string) (string, error) {
	format, err := document.ParseFormat(path)
	if errors.Is(err, document.ErrUnsupportedFormat) {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading job description: %w", err)
		}
		return string(data), nil
	}
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading job description: %w", err)
	}

	return document.Extract(document.Document{Data: data, Format: format})
}
