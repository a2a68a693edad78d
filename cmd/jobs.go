package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-agent/internal/api"
	"github.com/spigell/resume-agent/internal/headhunter"
	"github.com/spigell/resume-agent/internal/jobsearch"
	"github.com/spigell/resume-agent/internal/report"
)

const (
	PromptShowListings      = "Show listings"
	PromptReportByEmployers = "Report by employers"
	PromptExport            = "Export listings to excel"
	PromptExit              = "Exit"

	defaultExportFile = "vacancies.xlsx"
)

var errExit = errors.New("exit requested")

var jobsPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowListings, PromptReportByEmployers, PromptExport, PromptExit},
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Find vacancies matching a resume or a query",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return jobs(cmd)
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)

	jobsCmd.Flags().StringP("resume", "r", "", "resume file (pdf or docx)")
	jobsCmd.Flags().StringP("query", "q", "", "search query. Resume skills are used when unset.")
	jobsCmd.Flags().StringP("location", "l", "", "location to search in (default is remote)")
	jobsCmd.Flags().StringP("export", "o", "", "write listings to an excel file")
	jobsCmd.Flags().Bool("report", false, "print vacancies grouped by employer")
	jobsCmd.Flags().BoolP("interactive", "i", false, "choose what to do with the found vacancies")
}

func jobs(cmd *cobra.Command) error {
	ctx := cmd.Context()

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
	query, _ := cmd.Flags().GetString("query")
	location, _ := cmd.Flags().GetString("location")
	exportPath, _ := cmd.Flags().GetString("export")
	byEmployer, _ := cmd.Flags().GetBool("report")
	interactive, _ := cmd.Flags().GetBool("interactive")

	analyzer, err := newAnalyzer(config, logger)
	if err != nil {
		return fmt.Errorf("building analyzer: %w", err)
	}

	finder, err := newFinder(config.Jobs, analyzer.Vocabulary(), logger)
	if err != nil {
		return fmt.Errorf("building job search: %w", err)
	}
	if finder == nil {
		return errors.New("job search is disabled in config")
	}

	req := jobsearch.Request{Query: query, Location: location}
	if resumePath != "" {
		text, err := readResumeFile(resumePath)
		if err != nil {
			return err
		}
		req.Resume = analyzer.Analyze(text)
	}

	result, err := finder.Find(ctx, req)
	if err != nil {
		return err
	}

	response := api.FindJobsResponse{
		SearchSource:       result.Source,
		SearchTerms:        result.Terms,
		LocationSearched:   result.Location,
		JobCount:           result.Vacancies.Len(),
		JobListings:        result.Vacancies.Listings(),
		AllExtractedSkills: req.Resume.Skills,
	}
	if response.AllExtractedSkills == nil {
		response.AllExtractedSkills = []string{}
	}

	if !interactive {
		if exportPath != "" {
			if err := exportListings(logger, exportPath, response.JobListings); err != nil {
				return err
			}
		}
		if byEmployer {
			return printJSON(cmd, result.Vacancies.ReportByEmployer())
		}
		return printJSON(cmd, response)
	}

	if result.Vacancies.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no vacancies found"))
		return nil
	}

	if exportPath == "" {
		exportPath = defaultExportFile
	}

	for {
		_, action, err := jobsPrompt.Run()
		if err != nil {
			return err
		}

		if err := handleJobsAction(cmd, logger, action, exportPath, result.Vacancies, response); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			return err
		}
	}
}

func handleJobsAction(cmd *cobra.Command, logger *zap.Logger, action, exportPath string, vacancies *headhunter.Vacancies, response api.FindJobsResponse) error {
	switch action {
	case PromptShowListings:
		return printJSON(cmd, response)
	case PromptReportByEmployers:
		return printJSON(cmd, vacancies.ReportByEmployer())
	case PromptExport:
		return exportListings(logger, exportPath, response.JobListings)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func exportListings(logger *zap.Logger, path string, listings []headhunter.Listing) error {
	filename, err := report.ExportVacancies(path, listings)
	if err != nil {
		return fmt.Errorf("exporting vacancies: %w", err)
	}
	logger.Info("vacancies exported", zap.String("filename", filename), zap.Int("count", len(listings)))
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
	return err
}
