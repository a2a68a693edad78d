package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spigell/resume-agent/internal/ai"
	"github.com/spigell/resume-agent/internal/document"
	"github.com/spigell/resume-agent/internal/headhunter"
	"github.com/spigell/resume-agent/internal/jobsearch"
	"github.com/spigell/resume-agent/internal/logger"
	"github.com/spigell/resume-agent/internal/matching"
)

const (
	resumeField   = "resume_file"
	jobField      = "job_description"
	queryField    = "search_query"
	locationField = "location"

	writerUnavailable = "Error: Gemini client not initialized."
	writerFailed      = "Error calling Gemini API: %v"
)

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type AnalyzeResponse struct {
	Score                  int      `json:"matching_score_percent"`
	EnhancementSuggestions string   `json:"enhancement_suggestions"`
	Matched                []string `json:"matched_skills"`
	Missing                []string `json:"missing_skills"`
}

type CoverLetterResponse struct {
	CoverLetter string `json:"cover_letter_text"`
}

type FindJobsResponse struct {
	SearchSource       string               `json:"search_source"`
	SearchTerms        []string             `json:"search_terms"`
	LocationSearched   string               `json:"location_searched"`
	JobCount           int                  `json:"job_count"`
	JobListings        []headhunter.Listing `json:"job_listings"`
	AllExtractedSkills []string             `json:"all_extracted_skills"`
}

func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Welcome to the Resume Improvement Agent API!"})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}

func (s *Server) handleAnalyze(c *fiber.Ctx) error {
	resumeText, err := s.readResume(c)
	if err != nil {
		return err
	}

	jobText, err := requiredValue(c, jobField)
	if err != nil {
		return err
	}

	resume := s.analyzer.Analyze(resumeText)
	result := matching.Match(resume, s.analyzer.Analyze(jobText))

	suggestions := writerUnavailable
	if s.writer != nil {
		suggestions, err = s.writer.Suggestions(c.UserContext(), ai.SuggestionRequest{
			ResumeText:    resumeText,
			MissingSkills: result.Missing,
		})
		if err != nil {
			s.requestLog(c).Warn("suggestions generation failed", zap.Error(err))
			suggestions = fmt.Sprintf(writerFailed, err)
		}
	}

	return c.JSON(AnalyzeResponse{
		Score:                  result.Score,
		EnhancementSuggestions: suggestions,
		Matched:                result.Matched,
		Missing:                result.Missing,
	})
}

func (s *Server) handleCoverLetter(c *fiber.Ctx) error {
	resumeText, err := s.readResume(c)
	if err != nil {
		return err
	}

	jobText, err := requiredValue(c, jobField)
	if err != nil {
		return err
	}

	resume := s.analyzer.Analyze(resumeText)
	result := matching.Match(resume, s.analyzer.Analyze(jobText))
	if len(result.Matched) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "No matching skills found to generate a compelling cover letter.")
	}

	letter := writerUnavailable
	if s.writer != nil {
		letter, err = s.writer.CoverLetter(c.UserContext(), ai.CoverLetterRequest{
			ResumeText:     resumeText,
			JobDescription: jobText,
			MatchedSkills:  result.Matched,
			Entities:       resume.Entities,
		})
		if err != nil {
			s.requestLog(c).Warn("cover letter generation failed", zap.Error(err))
			letter = fmt.Sprintf(writerFailed, err)
		}
	}

	return c.JSON(CoverLetterResponse{CoverLetter: letter})
}

func (s *Server) handleFindJobs(c *fiber.Ctx) error {
	if s.finder == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Job search is not configured.")
	}

	resumeText, err := s.readResume(c)
	if err != nil {
		return err
	}

	resume := s.analyzer.Analyze(resumeText)

	found, err := s.finder.Find(c.UserContext(), jobsearch.Request{
		Query:    c.FormValue(queryField),
		Location: c.FormValue(locationField, jobsearch.DefaultLocation),
		Resume:   resume,
	})
	if err != nil {
		return err
	}

	listings := found.Vacancies.Listings()

	return c.JSON(FindJobsResponse{
		SearchSource:       found.Source,
		SearchTerms:        found.Terms,
		LocationSearched:   found.Location,
		JobCount:           len(listings),
		JobListings:        listings,
		AllExtractedSkills: resume.Skills,
	})
}

// readResume extracts the text of the uploaded resume. The format comes from
// the file name and falls back to the part's content type.
func (s *Server) readResume(c *fiber.Ctx) (string, error) {
	file, err := c.FormFile(resumeField)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Field %q is required.", resumeField))
	}

	format, err := document.ParseFormat(file.Filename)
	if err != nil {
		if byType, typeErr := document.ParseFormat(file.Header.Get(fiber.HeaderContentType)); typeErr == nil {
			format, err = byType, nil
		}
	}
	if err != nil {
		return "", err
	}

	data, err := readFile(file)
	if err != nil {
		return "", err
	}

	text, err := document.Extract(document.Document{Data: data, Format: format})
	if err != nil {
		return "", fiber.NewError(errorStatus(err), fmt.Sprintf("Error processing %s: %v", strings.ToUpper(string(format)), err))
	}

	s.requestLog(c).Debug("resume extracted",
		zap.String(logger.FieldFormat, string(format)),
		zap.Int("size", len(data)),
		zap.Int("text_length", len(text)),
	)

	// Blank pages still count as extracted text; only a document without
	// any page or paragraph is rejected.
	if text == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "Could not extract text from resume.")
	}

	return text, nil
}

func readFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	return data, nil
}

func requiredValue(c *fiber.Ctx, field string) (string, error) {
	value := c.FormValue(field)
	if strings.TrimSpace(value) == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Field %q is required.", field))
	}
	return value, nil
}

