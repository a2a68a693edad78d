package ai

import (
	"context"

	"github.com/spigell/resume-agent/internal/skills"
)

// SuggestionRequest asks for resume bullet points covering missing skills.
type SuggestionRequest struct {
	ResumeText    string
	MissingSkills []string
}

// CoverLetterRequest asks for a cover letter built around the matched skills.
type CoverLetterRequest struct {
	ResumeText     string
	JobDescription string
	MatchedSkills  []string
	Entities       skills.EntityGroup
}

// Writer produces natural-language text from match results.
type Writer interface {
	Suggestions(ctx context.Context, req SuggestionRequest) (string, error)
	CoverLetter(ctx context.Context, req CoverLetterRequest) (string, error)
}
