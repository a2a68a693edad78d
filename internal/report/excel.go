// Package report writes match and job search results to Excel workbooks.
package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/resume-agent/internal/headhunter"
	"github.com/spigell/resume-agent/internal/matching"
)

const (
	SummarySheet   = "Summary"
	SkillsSheet    = "Skills"
	VacanciesSheet = "Vacancies"

	StatusMatched = "matched"
	StatusMissing = "missing"
	StatusExtra   = "extra"

	defaultSheet = "Sheet1"
)

// Summary is everything needed to export one resume/job comparison.
type Summary struct {
	ResumeName   string
	JobName      string
	GeneratedAt  time.Time
	ResumeSkills []string
	Result       matching.Result
}

// ExportMatch writes the comparison to an .xlsx file at path and returns the
// final file name.
func ExportMatch(path string, summary Summary) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	path = xlsxPath(path)

	if err := f.SetSheetName(defaultSheet, SummarySheet); err != nil {
		return "", err
	}
	if _, err := f.NewSheet(SkillsSheet); err != nil {
		return "", err
	}

	styles, err := newStyles(f)
	if err != nil {
		return "", err
	}

	if err := writeSummarySheet(f, styles, summary); err != nil {
		return "", fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if err := writeSkillsSheet(f, styles, summary); err != nil {
		return "", fmt.Errorf("failed to create skills sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save excel file: %w", err)
	}

	return path, nil
}

// ExportVacancies writes ranked job listings to an .xlsx file at path and
// returns the final file name.
func ExportVacancies(path string, listings []headhunter.Listing) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	path = xlsxPath(path)

	if err := f.SetSheetName(defaultSheet, VacanciesSheet); err != nil {
		return "", err
	}

	styles, err := newStyles(f)
	if err != nil {
		return "", err
	}

	header := []interface{}{"Title", "Company", "Location", "Match (%)", "Matched skills", "Link"}
	if err := writeHeader(f, VacanciesSheet, styles.header, header); err != nil {
		return "", err
	}

	for i, listing := range listings {
		score := interface{}("")
		if listing.MatchScore != nil {
			score = *listing.MatchScore
		}

		row := []interface{}{
			listing.Title,
			listing.Company,
			listing.Location,
			score,
			strings.Join(listing.MatchedSkills, ", "),
			listing.Link,
		}
		if err := setRow(f, VacanciesSheet, i+2, row); err != nil {
			return "", err
		}

		if listing.Link != headhunter.NotAvailable {
			cell, _ := excelize.CoordinatesToCellName(6, i+2)
			if err := f.SetCellHyperLink(VacanciesSheet, cell, listing.Link, "External"); err != nil {
				return "", err
			}
			if err := f.SetCellStyle(VacanciesSheet, cell, cell, styles.link); err != nil {
				return "", err
			}
		}
	}

	for col, width := range map[string]float64{"A": 35, "B": 25, "C": 18, "D": 10, "E": 40, "F": 45} {
		if err := f.SetColWidth(VacanciesSheet, col, col, width); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save excel file: %w", err)
	}

	return path, nil
}

type styles struct {
	header int
	label  int
	link   int
	status map[string]int
}

func newStyles(f *excelize.File) (*styles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	label, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, err
	}

	link, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "0563C1", Underline: "single"},
	})
	if err != nil {
		return nil, err
	}

	s := &styles{header: header, label: label, link: link, status: map[string]int{}}
	for status, color := range map[string]string{
		StatusMatched: "C6EFCE",
		StatusMissing: "FFC7CE",
		StatusExtra:   "FFEB9C",
	} {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return nil, err
		}
		s.status[status] = id
	}

	return s, nil
}

func writeSummarySheet(f *excelize.File, s *styles, summary Summary) error {
	generated := summary.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	extra := extraSkills(summary.ResumeSkills, summary.Result)
	rows := [][]interface{}{
		{"Resume", summary.ResumeName},
		{"Job description", summary.JobName},
		{"Generated at", generated.UTC().Format(time.RFC3339)},
		{"Matching score (%)", summary.Result.Score},
		{"Matched skills", len(summary.Result.Matched)},
		{"Missing skills", len(summary.Result.Missing)},
		{"Extra resume skills", len(extra)},
	}

	for i, row := range rows {
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}

	last := fmt.Sprintf("A%d", len(rows))
	if err := f.SetCellStyle(SummarySheet, "A1", last, s.label); err != nil {
		return err
	}

	if err := f.SetColWidth(SummarySheet, "A", "A", 22); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "B", "B", 40)
}

func writeSkillsSheet(f *excelize.File, s *styles, summary Summary) error {
	if err := writeHeader(f, SkillsSheet, s.header, []interface{}{"Skill", "Status"}); err != nil {
		return err
	}

	row := 2
	write := func(skills []string, status string) error {
		for _, skill := range skills {
			if err := setRow(f, SkillsSheet, row, []interface{}{skill, status}); err != nil {
				return err
			}
			cell := fmt.Sprintf("B%d", row)
			if err := f.SetCellStyle(SkillsSheet, cell, cell, s.status[status]); err != nil {
				return err
			}
			row++
		}
		return nil
	}

	if err := write(summary.Result.Matched, StatusMatched); err != nil {
		return err
	}
	if err := write(summary.Result.Missing, StatusMissing); err != nil {
		return err
	}
	if err := write(extraSkills(summary.ResumeSkills, summary.Result), StatusExtra); err != nil {
		return err
	}

	return f.SetColWidth(SkillsSheet, "A", "B", 20)
}

func writeHeader(f *excelize.File, sheet string, style int, header []interface{}) error {
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", end, style)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// extraSkills returns resume skills the job does not ask for, sorted.
func extraSkills(resume []string, result matching.Result) []string {
	required := make(map[string]struct{}, len(result.Matched)+len(result.Missing))
	for _, skill := range result.Matched {
		required[skill] = struct{}{}
	}
	for _, skill := range result.Missing {
		required[skill] = struct{}{}
	}

	extra := make([]string, 0)
	seen := make(map[string]struct{})
	for _, skill := range resume {
		if _, ok := required[skill]; ok {
			continue
		}
		if _, ok := seen[skill]; ok {
			continue
		}
		seen[skill] = struct{}{}
		extra = append(extra, skill)
	}
	sort.Strings(extra)

	return extra
}

func xlsxPath(path string) string {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	return filepath.Clean(path)
}
