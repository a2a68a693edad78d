package matching

import (
	"sort"

	"github.com/spigell/resume-agent/internal/skills"
)

// Result is the overlap between the skills a job requires and the skills a
// resume offers.
type Result struct {
	Matched []string `json:"matched_skills"`
	Missing []string `json:"missing_skills"`
	Score   int      `json:"matching_score_percent"`
}

// Match compares a resume profile against a job profile.
func Match(resume, job skills.Profile) Result {
	return MatchSkills(resume.Skills, job.Skills)
}

// MatchSkills computes matched = required ∩ available and
// missing = required − available. Both lists are sorted.
func MatchSkills(available, required []string) Result {
	have := make(map[string]struct{}, len(available))
	for _, s := range available {
		have[s] = struct{}{}
	}

	want := make(map[string]struct{}, len(required))
	matched := make([]string, 0)
	missing := make([]string, 0)

	for _, s := range required {
		if _, dup := want[s]; dup {
			continue
		}
		want[s] = struct{}{}

		if _, ok := have[s]; ok {
			matched = append(matched, s)
		} else {
			missing = append(missing, s)
		}
	}

	sort.Strings(matched)
	sort.Strings(missing)

	return Result{
		Matched: matched,
		Missing: missing,
		Score:   Score(len(matched), len(want)),
	}
}

// Score returns round(100 × matched / required), rounding halves up.
// It is 0 when nothing is required.
func Score(matched, required int) int {
	if required <= 0 || matched <= 0 {
		return 0
	}
	if matched > required {
		matched = required
	}
	return (200*matched + required) / (2 * required)
}
