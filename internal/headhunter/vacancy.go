package headhunter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spigell/resume-agent/internal/matching"
)

const (
	VacancyIDField         = "ID"
	VacancyEmployerIDField = "EmployerID"

	// NotAvailable fills listing fields the API left empty.
	NotAvailable = "N/A"
)

var markupPattern = regexp.MustCompile(`<[^>]*>`)

type Vacancies struct {
	Items []*Vacancy
}

type Area struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

type Salary struct {
	From     int    `json:"from,omitempty"`
	To       int    `json:"to,omitempty"`
	Currency string `json:"currency,omitempty"`
	Gross    bool   `json:"gross,omitempty"`
}

type Employer struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name,omitempty"`
	URL          string `json:"url,omitempty"`
	AlternateURL string `json:"alternate_url,omitempty"`
	Trusted      bool   `json:"trusted,omitempty"`
}

type Schedule struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type Snippet struct {
	Requirement    string `json:"requirement,omitempty"`
	Responsibility string `json:"responsibility,omitempty"`
}

type KeySkill struct {
	Name string `json:"name,omitempty"`
}

type Vacancy struct {
	ID           string     `json:"id,omitempty"`
	Name         string     `json:"name,omitempty"`
	Area         Area       `json:"area,omitempty"`
	HasTest      bool       `json:"has_test,omitempty"`
	Salary       Salary     `json:"salary,omitempty"`
	Schedule     Schedule   `json:"schedule,omitempty"`
	Employer     Employer   `json:"employer,omitempty"`
	AlternateURL string     `json:"alternate_url,omitempty"`
	Description  string     `json:"description,omitempty"`
	KeySkills    []KeySkill `json:"key_skills,omitempty"`
	Archived     bool       `json:"archived,omitempty"`
	Snippet      Snippet    `json:"snippet,omitempty"`
	PublishedAt  string     `json:"published_at,omitempty"`

	// Match is filled by the skill_fit filter.
	Match *matching.Result `json:"match,omitempty"`
}

// Listing is the short, client-facing view of a vacancy.
type Listing struct {
	Title         string   `json:"title"`
	Company       string   `json:"company"`
	Location      string   `json:"location"`
	Link          string   `json:"link"`
	MatchScore    *int     `json:"matching_score_percent,omitempty"`
	MatchedSkills []string `json:"matched_skills,omitempty"`
}

func (va *Vacancy) GetStringField(name string) string {
	switch name {
	case VacancyIDField:
		return va.ID
	case VacancyEmployerIDField:
		return va.Employer.ID

	default:
		return ""
	}
}

// Text returns the plain text HeadHunter exposes about the vacancy: snippet,
// description and key skills. Highlight markup is stripped.
func (va *Vacancy) Text() string {
	parts := []string{va.Name, va.Snippet.Requirement, va.Snippet.Responsibility, va.Description}
	for _, skill := range va.KeySkills {
		parts = append(parts, skill.Name)
	}

	var b strings.Builder
	for _, part := range parts {
		part = strings.TrimSpace(markupPattern.ReplaceAllString(part, " "))
		if part == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(part)
	}

	return b.String()
}

func (va *Vacancy) Listing() Listing {
	listing := Listing{
		Title:    orNotAvailable(va.Name),
		Company:  orNotAvailable(va.Employer.Name),
		Location: orNotAvailable(va.Area.Name),
		Link:     orNotAvailable(va.AlternateURL),
	}

	if va.Match != nil {
		score := va.Match.Score
		listing.MatchScore = &score
		listing.MatchedSkills = va.Match.Matched
	}

	return listing
}

func orNotAvailable(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return NotAvailable
	}
	return s
}

func (v *Vacancies) Listings() []Listing {
	listings := make([]Listing, 0, v.Len())
	for _, vacancy := range v.Items {
		listings = append(listings, vacancy.Listing())
	}
	return listings
}

// Report by employer.
func (v *Vacancies) ReportByEmployer() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, vacancy := range v.Items {
		key := fmt.Sprintf("%s (%s)", vacancy.Employer.Name, vacancy.Employer.ID)
		entry := map[string]string{
			"name":                 vacancy.Name,
			"url":                  vacancy.AlternateURL,
			"area":                 vacancy.Area.Name,
			"salary":               fmt.Sprintf("%d-%d %s", vacancy.Salary.From, vacancy.Salary.To, vacancy.Salary.Currency),
			"brief requirement":    vacancy.Snippet.Requirement,
			"brief responsibility": vacancy.Snippet.Responsibility,
		}
		if vacancy.Match != nil {
			entry["match score"] = fmt.Sprintf("%d%%", vacancy.Match.Score)
			entry["matched skills"] = strings.Join(vacancy.Match.Matched, ", ")
			entry["missing skills"] = strings.Join(vacancy.Match.Missing, ", ")
		}
		report[key] = append(report[key], entry)
	}
	return report
}

func (v *Vacancies) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Items)
}

func (v *Vacancies) FindByID(id string) *Vacancy {
	for _, vacancy := range v.Items {
		if vacancy.ID == id {
			return vacancy
		}
	}
	return nil
}

// ExcludeWithTest drops vacancies that require a test before applying.
func (v *Vacancies) ExcludeWithTest() []string {
	return v.excludeWhere(func(vacancy *Vacancy) bool { return vacancy.HasTest })
}

// Exclude drops vacancies whose field equals one of targets. Order is preserved.
func (v *Vacancies) Exclude(name string, targets []string) []string {
	set := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		set[target] = struct{}{}
	}

	return v.excludeWhere(func(vacancy *Vacancy) bool {
		_, ok := set[vacancy.GetStringField(name)]
		return ok
	})
}

// ExcludeEmployers drops vacancies posted by any of employers. An entry
// matches the employer ID exactly or the employer name ignoring case.
func (v *Vacancies) ExcludeEmployers(employers []string) []string {
	ids := make(map[string]struct{}, len(employers))
	names := make(map[string]struct{}, len(employers))
	for _, employer := range employers {
		ids[employer] = struct{}{}
		names[strings.ToLower(employer)] = struct{}{}
	}

	return v.excludeWhere(func(vacancy *Vacancy) bool {
		if _, ok := ids[vacancy.Employer.ID]; ok && vacancy.Employer.ID != "" {
			return true
		}
		_, ok := names[strings.ToLower(strings.TrimSpace(vacancy.Employer.Name))]
		return ok && vacancy.Employer.Name != ""
	})
}

func (v *Vacancies) excludeWhere(drop func(*Vacancy) bool) []string {
	var excluded []string
	kept := v.Items[:0]
	for _, vacancy := range v.Items {
		if drop(vacancy) {
			excluded = append(excluded, vacancy.ID)
			continue
		}
		kept = append(kept, vacancy)
	}
	for i := len(kept); i < len(v.Items); i++ {
		v.Items[i] = nil
	}
	v.Items = kept
	return excluded
}
