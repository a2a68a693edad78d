package filtering

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/resume-agent/internal/headhunter"
	"github.com/spigell/resume-agent/internal/matching"
)

type skillFitFilter struct {
	toggle
	minimum int
}

// NewSkillFit creates a filter that scores every vacancy against the resume
// skills, drops the ones below the configured minimum and orders the rest by
// score.
func NewSkillFit() Filter {
	return &skillFitFilter{}
}

func (f *skillFitFilter) Name() string { return "skill_fit" }

func (f *skillFitFilter) Validate(cfg *Config) error {
	f.minimum = 0
	if cfg != nil {
		f.minimum = cfg.MinimumMatchScore
	}
	if f.minimum < 0 || f.minimum > 100 {
		return fmt.Errorf("minimum match score must be within 0..100, got %d", f.minimum)
	}
	return nil
}

func (f *skillFitFilter) Apply(_ context.Context, deps Deps, v *headhunter.Vacancies) (*headhunter.Vacancies, Step, error) {
	if deps.Vocabulary == nil {
		return v, Step{}, errors.New("skill vocabulary is required")
	}

	initial := v.Len()
	approved := make([]*headhunter.Vacancy, 0, initial)

	for _, vacancy := range v.Items {
		result := matching.MatchSkills(deps.Resume.Skills, deps.Vocabulary.Find(vacancy.Text()))
		vacancy.Match = &result

		if result.Score < f.minimum {
			deps.Logger.Debug("vacancy below minimum match score",
				zap.String("vacancy_id", vacancy.ID),
				zap.Int("score", result.Score),
				zap.Int("minimum", f.minimum),
			)
			continue
		}

		approved = append(approved, vacancy)
	}

	sort.SliceStable(approved, func(i, j int) bool {
		return approved[i].Match.Score > approved[j].Match.Score
	})

	v.Items = approved

	return v, Step{Initial: initial, Dropped: initial - len(approved), Left: len(approved)}, nil
}

func (f *skillFitFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"minimum_match_score": strconv.Itoa(f.minimum)},
	}
}
