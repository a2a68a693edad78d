package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spigell/resume-agent/internal/document"
	"github.com/spigell/resume-agent/internal/document/documenttest"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadResumeFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "resume.docx", documenttest.DOCX(t, documenttest.DOCXBody("Go developer", "Docker")))

	text, err := readResumeFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Go developer\nDocker\n" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestReadResumeFileRejectsPlainText(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "resume.txt", []byte("Go developer"))

	if _, err := readResumeFile(path); !errors.Is(err, document.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
}

func TestReadResumeFileEmpty(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "resume.docx", documenttest.DOCX(t, ""))

	if _, err := readResumeFile(path); err == nil {
		t.Fatalf("expected error for resume without paragraphs")
	}

	blank := writeFile(t, "blank.docx", documenttest.DOCX(t, documenttest.DOCXBody("", "  ")))
	text, err := readResumeFile(blank)
	if err != nil {
		t.Fatalf("unexpected error for blank paragraphs: %v", err)
	}
	if text != "\n  \n" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestReadJobFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		file string
		data func(t *testing.T) []byte
		want string
	}{
		{
			name: "plain text",
			file: "job.txt",
			data: func(*testing.T) []byte { return []byte("We need Go and SQL") },
			want: "We need Go and SQL",
		},
		{
			name: "no extension",
			file: "job",
			data: func(*testing.T) []byte { return []byte("Kubernetes") },
			want: "Kubernetes",
		},
		{
			name: "pdf",
			file: "job.pdf",
			data: func(t *testing.T) []byte { return documenttest.PDF(t, "Terraform") },
			want: "Terraform",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := readJobFile(writeFile(t, tt.file, tt.data(t)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Fatalf("expected %q in %q", tt.want, got)
			}
		})
	}
}

func TestRedactedHidesAPIKey(t *testing.T) {
	t.Parallel()

	config := &Config{AI: &AIConfig{Gemini: &GeminiConfig{APIKey: "secret", Model: "m"}}}

	got := redacted(config)
	if got.AI.Gemini.APIKey != "***" {
		t.Fatalf("expected redacted key, got %q", got.AI.Gemini.APIKey)
	}
	if config.AI.Gemini.APIKey != "secret" {
		t.Fatalf("original config must not change")
	}
	if got.AI.Gemini.Model != "m" {
		t.Fatalf("expected model to be kept, got %q", got.AI.Gemini.Model)
	}
}

func TestNewFinderDisabled(t *testing.T) {
	t.Parallel()

	finder, err := newFinder(&JobsConfig{Enabled: false}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if finder != nil {
		t.Fatalf("expected no finder when jobs are disabled")
	}
}

func TestNewWriterDisabled(t *testing.T) {
	t.Parallel()

	if _, err := newWriter(t.Context(), &AIConfig{Enabled: false}, nil); !errors.Is(err, errAIDisabled) {
		t.Fatalf("expected errAIDisabled, got %v", err)
	}
}

func TestVersionCommandPrintsBuild(t *testing.T) {
	var out strings.Builder
	versionCmd.SetOut(&out)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	if err := versionCmd.RunE(versionCmd, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out.String(), app+" "+version) {
		t.Fatalf("unexpected version output: %q", out.String())
	}
}
