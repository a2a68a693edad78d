// Package jobsearch finds vacancies for a resume and ranks them by skill match.
package jobsearch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-agent/internal/filtering"
	"github.com/spigell/resume-agent/internal/headhunter"
	"github.com/spigell/resume-agent/internal/skills"
)

const (
	// DefaultLocation is used when the request leaves the location empty.
	DefaultLocation   = "remote"
	defaultMaxResults = 10
)

// ErrNoSearchTerms is returned when neither a query nor resume skills are available.
var ErrNoSearchTerms = errors.New("no search query provided and no skills found in resume")

// Searcher is the vacancy source.
type Searcher interface {
	Search(ctx context.Context, params *headhunter.SearchParams, limit int) (*headhunter.Vacancies, error)
	AreaID(ctx context.Context, name string) (int, error)
}

type Config struct {
	// Search holds static search parameters such as experience or period.
	// Text, areas and schedules are set per request.
	Search          headhunter.SearchParams
	MaxResults      int
	IncludeWithTest bool
	Filter          filtering.Config
}

type Request struct {
	Query    string
	Location string
	Resume   skills.Profile
}

type Result struct {
	Source    string
	Terms     []string
	Location  string
	Vacancies *headhunter.Vacancies
}

type Finder struct {
	searcher   Searcher
	vocabulary *skills.Vocabulary
	cfg        Config
	logger     *zap.Logger
}

func NewFinder(searcher Searcher, vocabulary *skills.Vocabulary, cfg Config, logger *zap.Logger) *Finder {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if vocabulary == nil {
		vocabulary = skills.DefaultVocabulary()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Finder{
		searcher:   searcher,
		vocabulary: vocabulary,
		cfg:        cfg,
		logger:     logger,
	}
}

// Terms picks the search keywords: the words of query when given, the resume
// skills otherwise. The second value describes where the terms came from.
func Terms(query string, resume skills.Profile) ([]string, string, error) {
	if query = strings.TrimSpace(query); query != "" {
		return strings.Fields(query), fmt.Sprintf("user query: '%s'", query), nil
	}

	if len(resume.Skills) > 0 {
		terms := append([]string(nil), resume.Skills...)
		return terms, fmt.Sprintf("resume skills: %s", strings.Join(terms, ", ")), nil
	}

	return nil, "", ErrNoSearchTerms
}

// Find searches vacancies for the request and runs them through the filter
// pipeline. A failing vacancy source yields an empty result, not an error.
func (f *Finder) Find(ctx context.Context, req Request) (*Result, error) {
	terms, source, err := Terms(req.Query, req.Resume)
	if err != nil {
		return nil, err
	}

	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = DefaultLocation
	}

	result := &Result{
		Source:    source,
		Terms:     terms,
		Location:  location,
		Vacancies: &headhunter.Vacancies{Items: []*headhunter.Vacancy{}},
	}

	params := f.cfg.Search
	params.Text = headhunter.KeywordQuery(terms)
	params.Areas = nil
	params.Schedules = nil
	f.applyLocation(ctx, &params, location)

	f.logger.Info("searching vacancies",
		zap.String("query", params.Text),
		zap.String("location", location),
		zap.Int("max_results", f.cfg.MaxResults),
	)

	vacancies, err := f.searcher.Search(ctx, &params, f.cfg.MaxResults)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		f.logger.Error("vacancy search failed", zap.Error(err))
		return result, nil
	}

	steps := filtering.Default()
	if f.cfg.IncludeWithTest {
		filtering.DisableByName(steps, "with_test", "vacancies with tests are included by config")
	}

	filtered, err := filtering.Run(ctx, &f.cfg.Filter, filtering.Deps{
		Logger:     f.logger,
		Vocabulary: f.vocabulary,
		Resume:     req.Resume,
	}, steps, vacancies)
	if err != nil {
		return nil, fmt.Errorf("filter vacancies: %w", err)
	}

	result.Vacancies = filtered
	f.logger.Info("vacancies found", zap.Int("count", filtered.Len()))

	return result, nil
}

func (f *Finder) applyLocation(ctx context.Context, params *headhunter.SearchParams, location string) {
	if strings.EqualFold(location, DefaultLocation) {
		params.Schedules = []string{headhunter.RemoteSchedule}
		return
	}

	area, err := f.searcher.AreaID(ctx, location)
	switch {
	case err != nil:
		f.logger.Warn("cannot resolve location, searching everywhere", zap.String("location", location), zap.Error(err))
	case area == 0:
		f.logger.Warn("unknown location, searching everywhere", zap.String("location", location))
	default:
		params.Areas = []int{area}
	}
}
