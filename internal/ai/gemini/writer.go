package gemini

import (
	"context"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/resume-agent/internal/ai"
	"github.com/spigell/resume-agent/internal/utils"
)

// NoMissingSkillsMessage is returned by Suggestions without calling the model.
const NoMissingSkillsMessage = "No missing skills identified. The resume appears well-aligned."

const (
	defaultMaxLogLength = 200

	resumeExcerptRunes = 4000
	jobExcerptRunes    = 2000

	defaultPersonName    = "the candidate"
	defaultOrganizations = "previous roles"
)

var (
	//go:embed prompts/system.md
	systemPrompt string
	//go:embed prompts/suggestions.md
	suggestionsTemplate string
	//go:embed prompts/cover_letter.md
	coverLetterTemplate string
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Writer implements ai.Writer on top of a Gemini generator.
type Writer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Writer = (*Writer)(nil)

func NewWriter(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Writer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Writer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Suggestions asks the model to rework resume bullet points so they cover the
// missing skills.
func (w *Writer) Suggestions(ctx context.Context, req ai.SuggestionRequest) (string, error) {
	if len(req.MissingSkills) == 0 {
		return NoMissingSkillsMessage, nil
	}

	return w.generate(ctx, "suggestions", buildSuggestionsPrompt(req))
}

// CoverLetter asks the model for a cover letter highlighting the matched skills.
func (w *Writer) CoverLetter(ctx context.Context, req ai.CoverLetterRequest) (string, error) {
	return w.generate(ctx, "cover_letter", buildCoverLetterPrompt(req))
}

func (w *Writer) generate(ctx context.Context, kind, prompt string) (string, error) {
	w.logger.Debug("gemini generate content request",
		zap.String("kind", kind),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, w.maxLogLen)),
	)

	raw, err := w.generator.GenerateContent(ctx, systemPrompt, prompt)
	if err != nil {
		return "", err
	}

	w.logger.Debug("gemini generate content response",
		zap.String("kind", kind),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, w.maxLogLen)),
	)

	return strings.TrimSpace(raw), nil
}

func buildSuggestionsPrompt(req ai.SuggestionRequest) string {
	return fill(suggestionsTemplate, map[string]string{
		"MISSING_SKILLS": strings.Join(req.MissingSkills, ", "),
		"RESUME_TEXT":    utils.Head(req.ResumeText, resumeExcerptRunes),
	})
}

func buildCoverLetterPrompt(req ai.CoverLetterRequest) string {
	organizations := defaultOrganizations
	if orgs := req.Entities["ORG"]; len(orgs) > 0 {
		organizations = strings.Join(orgs, ", ")
	}

	return fill(coverLetterTemplate, map[string]string{
		"PERSON_NAME":     req.Entities.First("PERSON", defaultPersonName),
		"ORGANIZATIONS":   organizations,
		"MATCHED_SKILLS":  strings.Join(req.MatchedSkills, ", "),
		"JOB_DESCRIPTION": utils.Head(req.JobDescription, jobExcerptRunes),
		"RESUME_TEXT":     utils.Head(req.ResumeText, resumeExcerptRunes),
	})
}

// fill substitutes {{KEY}} placeholders in one pass, so values that happen to
// contain placeholder syntax are left alone.
func fill(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
