package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-agent/internal/ai"
	"github.com/spigell/resume-agent/internal/skills"
)

type stubGenerator struct {
	output   string
	err      error
	systems  []string
	messages []string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, message string) (string, error) {
	s.systems = append(s.systems, system)
	s.messages = append(s.messages, message)
	return s.output, s.err
}

func (s *stubGenerator) Model() string { return "stub" }

func TestSuggestionsWithoutMissingSkillsSkipsModel(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{output: "unused"}
	writer := NewWriter(gen, 0, nil)

	got, err := writer.Suggestions(context.Background(), ai.SuggestionRequest{ResumeText: "resume"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != NoMissingSkillsMessage {
		t.Fatalf("unexpected message: %q", got)
	}
	if len(gen.messages) != 0 {
		t.Fatalf("expected no model calls, got %d", len(gen.messages))
	}
}

func TestSuggestionsPrompt(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{output: "  - Built Docker images for services  \n"}
	writer := NewWriter(gen, 0, zap.NewNop())

	resume := strings.Repeat("r", resumeExcerptRunes) + "TAIL"
	got, err := writer.Suggestions(context.Background(), ai.SuggestionRequest{
		ResumeText:    resume,
		MissingSkills: []string{"docker", "kubernetes"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "- Built Docker images for services" {
		t.Fatalf("expected trimmed response, got %q", got)
	}

	prompt := gen.messages[0]
	if !strings.Contains(prompt, "docker, kubernetes") {
		t.Fatalf("expected missing skills in prompt, got %q", prompt)
	}
	if strings.Contains(prompt, "TAIL") {
		t.Fatalf("expected resume to be truncated")
	}
	if strings.Contains(prompt, "{{") {
		t.Fatalf("unfilled placeholder in prompt: %q", prompt)
	}
	if gen.systems[0] != systemPrompt {
		t.Fatalf("expected embedded system prompt")
	}
}

func TestCoverLetterPromptUsesEntities(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{output: "Dear hiring manager"}
	writer := NewWriter(gen, 0, nil)

	_, err := writer.CoverLetter(context.Background(), ai.CoverLetterRequest{
		ResumeText:     "Jane Doe, engineer at Acme Corp",
		JobDescription: "We need Go and Docker",
		MatchedSkills:  []string{"docker", "go"},
		Entities: skills.EntityGroup{
			"PERSON": {"Jane Doe", "John Roe"},
			"ORG":    {"Acme Corp", "Globex"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prompt := gen.messages[0]
	for _, want := range []string{"perspective of Jane Doe", "Acme Corp, Globex", "docker, go", "We need Go and Docker"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected prompt to contain %q, got %q", want, prompt)
		}
	}
}

func TestCoverLetterPromptFallbacks(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{output: "letter"}
	writer := NewWriter(gen, 0, nil)

	job := strings.Repeat("j", jobExcerptRunes) + "JOBTAIL"
	if _, err := writer.CoverLetter(context.Background(), ai.CoverLetterRequest{
		ResumeText:     "resume",
		JobDescription: job,
		MatchedSkills:  []string{"sql"},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prompt := gen.messages[0]
	if !strings.Contains(prompt, "perspective of the candidate") {
		t.Fatalf("expected person fallback, got %q", prompt)
	}
	if !strings.Contains(prompt, "organizations like previous roles") {
		t.Fatalf("expected organization fallback, got %q", prompt)
	}
	if strings.Contains(prompt, "JOBTAIL") {
		t.Fatalf("expected job description to be truncated")
	}
}

func TestWriterPropagatesGeneratorError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	writer := NewWriter(&stubGenerator{err: boom}, 0, nil)

	_, err := writer.Suggestions(context.Background(), ai.SuggestionRequest{MissingSkills: []string{"aws"}})
	if !errors.Is(err, boom) {
		t.Fatalf("expected generator error, got %v", err)
	}
}

func TestWriterLogsTruncatedPreview(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	writer := NewWriter(&stubGenerator{output: strings.Repeat("x", 50)}, 10, zap.New(core))

	if _, err := writer.CoverLetter(context.Background(), ai.CoverLetterRequest{MatchedSkills: []string{"go"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := logs.FilterMessage("gemini generate content response").All()
	if len(entries) != 1 {
		t.Fatalf("expected one response log entry, got %d", len(entries))
	}

	preview := entries[0].ContextMap()["response_preview"].(string)
	if len([]rune(preview)) > 13 {
		t.Fatalf("expected truncated preview, got %q", preview)
	}
}

func TestFillLeavesInjectedPlaceholders(t *testing.T) {
	t.Parallel()

	got := fill("{{A}} and {{B}}", map[string]string{"A": "{{B}}", "B": "b"})
	if got != "{{B}} and b" {
		t.Fatalf("unexpected fill result: %q", got)
	}
}
