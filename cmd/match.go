package cmd

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-agent/internal/ai"
	"github.com/spigell/resume-agent/internal/api"
	"github.com/spigell/resume-agent/internal/matching"
	"github.com/spigell/resume-agent/internal/report"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Compare a resume with a job description",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("resume", "r", "", "resume file (pdf or docx)")
	matchCmd.Flags().StringP("job", "J", "", "job description file (pdf, docx or plain text). Asked interactively when unset.")
	matchCmd.Flags().StringP("export", "o", "", "write the comparison to an excel file")
	matchCmd.Flags().BoolP("suggest", "s", false, "ask the model for resume suggestions covering missing skills")

	matchCmd.MarkFlagRequired("resume")
}

func match(cmd *cobra.Command) error {
	// stdout carries the result, so logs go to stderr only.
	logger, err := newLogger(true)
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}

	resumePath, _ := cmd.Flags().GetString("resume")
	jobPath, _ := cmd.Flags().GetString("job")
	exportPath, _ := cmd.Flags().GetString("export")
	suggest, _ := cmd.Flags().GetBool("suggest")

	if jobPath == "" {
		jobPrompt := promptui.Prompt{
			Label: "Job description file",
			Validate: func(input string) error {
				if strings.TrimSpace(input) == "" {
					return errors.New("path is required")
				}
				return nil
			},
		}
		jobPath, err = jobPrompt.Run()
		if err != nil {
			return err
		}
		jobPath = strings.TrimSpace(jobPath)
	}

	resumeText, err := readResumeFile(resumePath)
	if err != nil {
		return err
	}

	jobText, err := readJobFile(jobPath)
	if err != nil {
		return err
	}

	analyzer, err := newAnalyzer(config, logger)
	if err != nil {
		return fmt.Errorf("building analyzer: %w", err)
	}

	resume := analyzer.Analyze(resumeText)
	result := matching.Match(resume, analyzer.Analyze(jobText))

	logger.Info("compared resume with job description",
		zap.Int("score", result.Score),
		zap.Int("matched", len(result.Matched)),
		zap.Int("missing", len(result.Missing)),
	)

	out := api.AnalyzeResponse{
		Score:   result.Score,
		Matched: result.Matched,
		Missing: result.Missing,
	}

	if suggest {
		out.EnhancementSuggestions = suggestions(cmd, config, logger, resumeText, result)
	}

	if exportPath != "" {
		filename, err := report.ExportMatch(exportPath, report.Summary{
			ResumeName:   filepath.Base(resumePath),
			JobName:      filepath.Base(jobPath),
			GeneratedAt:  time.Now(),
			ResumeSkills: resume.Skills,
			Result:       result,
		})
		if err != nil {
			return fmt.Errorf("exporting comparison: %w", err)
		}
		logger.Info("comparison exported", zap.String("filename", filename))
	}

	return printJSON(cmd, out)
}

func suggestions(cmd *cobra.Command, config *Config, logger *zap.Logger, resumeText string, result matching.Result) string {
	writer, err := newWriter(cmd.Context(), config.AI, logger)
	if err != nil {
		logger.Warn("suggestions skipped", zap.Error(err))
		return ""
	}

	text, err := writer.Suggestions(cmd.Context(), ai.SuggestionRequest{
		ResumeText:    resumeText,
		MissingSkills: result.Missing,
	})
	if err != nil {
		logger.Warn("suggestions generation failed", zap.Error(err))
		return ""
	}

	return text
}
