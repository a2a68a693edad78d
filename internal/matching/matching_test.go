package matching

import (
	"reflect"
	"testing"

	"github.com/spigell/resume-agent/internal/skills"
)

func profile(s ...string) skills.Profile {
	return skills.Profile{Skills: s}
}

func TestMatchScenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		resume  skills.Profile
		job     skills.Profile
		matched []string
		missing []string
		score   int
	}{
		{
			name:    "partial overlap",
			resume:  profile("python", "sql"),
			job:     profile("python", "sql", "docker"),
			matched: []string{"python", "sql"},
			missing: []string{"docker"},
			score:   67,
		},
		{
			name:    "empty resume",
			resume:  profile(),
			job:     profile("react"),
			matched: []string{},
			missing: []string{"react"},
			score:   0,
		},
		{
			name:    "empty job",
			resume:  profile("go", "rust"),
			job:     profile(),
			matched: []string{},
			missing: []string{},
			score:   0,
		},
		{
			name:    "extra resume skills do not count",
			resume:  profile("aws", "azure", "gcp", "docker"),
			job:     profile("docker", "kubernetes", "terraform"),
			matched: []string{"docker"},
			missing: []string{"kubernetes", "terraform"},
			score:   33,
		},
		{
			name:    "both empty",
			resume:  skills.Profile{},
			job:     skills.Profile{},
			matched: []string{},
			missing: []string{},
			score:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Match(tt.resume, tt.job)
			if !reflect.DeepEqual(got.Matched, tt.matched) {
				t.Fatalf("matched: expected %v, got %v", tt.matched, got.Matched)
			}
			if !reflect.DeepEqual(got.Missing, tt.missing) {
				t.Fatalf("missing: expected %v, got %v", tt.missing, got.Missing)
			}
			if got.Score != tt.score {
				t.Fatalf("score: expected %d, got %d", tt.score, got.Score)
			}
		})
	}
}

func TestMatchSelf(t *testing.T) {
	t.Parallel()

	p := profile("docker", "go", "sql")
	got := Match(p, p)

	if !reflect.DeepEqual(got.Matched, p.Skills) {
		t.Fatalf("expected matched %v, got %v", p.Skills, got.Matched)
	}
	if len(got.Missing) != 0 {
		t.Fatalf("expected no missing skills, got %v", got.Missing)
	}
	if got.Score != 100 {
		t.Fatalf("expected score 100, got %d", got.Score)
	}
}

func TestMatchSortsAndDeduplicates(t *testing.T) {
	t.Parallel()

	got := MatchSkills([]string{"sql", "go"}, []string{"sql", "docker", "go", "docker", "aws"})

	if !reflect.DeepEqual(got.Matched, []string{"go", "sql"}) {
		t.Fatalf("unexpected matched: %v", got.Matched)
	}
	if !reflect.DeepEqual(got.Missing, []string{"aws", "docker"}) {
		t.Fatalf("unexpected missing: %v", got.Missing)
	}
	if got.Score != 50 {
		t.Fatalf("expected 50, got %d", got.Score)
	}
}

func TestScoreRounding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		matched, required, want int
	}{
		{0, 0, 0},
		{0, 5, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{3, 8, 38},
		{5, 8, 63},
		{1, 200, 1},
		{1, 201, 0},
		{1, 1, 100},
		{7, 7, 100},
	}

	for _, tt := range tests {
		if got := Score(tt.matched, tt.required); got != tt.want {
			t.Fatalf("Score(%d, %d): expected %d, got %d", tt.matched, tt.required, tt.want, got)
		}
	}
}

func TestScoreBounds(t *testing.T) {
	t.Parallel()

	for required := 1; required <= 50; required++ {
		for matched := 0; matched <= required; matched++ {
			score := Score(matched, required)
			if score < 0 || score > 100 {
				t.Fatalf("Score(%d, %d) = %d out of range", matched, required, score)
			}
		}
	}
}
