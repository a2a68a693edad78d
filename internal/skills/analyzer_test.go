package skills

import (
	"reflect"
	"sort"
	"strings"
	"sync"
	"testing"
)

type stubRecognizer struct {
	mu       sync.Mutex
	entities []Entity
	calls    int
}

func (s *stubRecognizer) Recognize(string) []Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	out := make([]Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

func TestAnalyzeFindsSkillsCaseInsensitively(t *testing.T) {
	t.Parallel()

	analyzer := NewAnalyzer(NewVocabulary([]string{"react", "node.js"}), nil)

	profile := analyzer.Analyze("I used React and Node.js at Acme Corp")

	expected := []string{"node.js", "react"}
	if !reflect.DeepEqual(profile.Skills, expected) {
		t.Fatalf("expected skills %v, got %v", expected, profile.Skills)
	}

	upper := analyzer.Analyze("I USED REACT AND NODE.JS AT ACME CORP")
	if !reflect.DeepEqual(upper.Skills, expected) {
		t.Fatalf("expected casing not to matter, got %v", upper.Skills)
	}
}

func TestAnalyzeVocabularyCasingIsIgnored(t *testing.T) {
	t.Parallel()

	analyzer := NewAnalyzer(NewVocabulary([]string{"  PostgreSQL ", "Machine Learning"}), nil)

	profile := analyzer.Analyze("machine LEARNING pipelines on postgresql")

	expected := []string{"machine learning", "postgresql"}
	if !reflect.DeepEqual(profile.Skills, expected) {
		t.Fatalf("expected %v, got %v", expected, profile.Skills)
	}
}

func TestAnalyzeKeepsSubstringSemantics(t *testing.T) {
	t.Parallel()

	analyzer := NewAnalyzer(NewVocabulary([]string{"c", "java", "sql"}), nil)

	// "c" is found inside "Acme" and "javascript" contains "java"; "mysql" contains "sql".
	profile := analyzer.Analyze("Acme javascript mysql")

	expected := []string{"c", "java", "sql"}
	if !reflect.DeepEqual(profile.Skills, expected) {
		t.Fatalf("expected %v, got %v", expected, profile.Skills)
	}
}

func TestAnalyzeEmptyText(t *testing.T) {
	t.Parallel()

	recognizer := &stubRecognizer{entities: []Entity{{Label: "PERSON", Text: "Jane"}}}
	analyzer := NewAnalyzer(nil, recognizer)

	profile := analyzer.Analyze("   ")

	if len(profile.Skills) != 0 {
		t.Fatalf("expected no skills, got %v", profile.Skills)
	}
	if profile.Skills == nil {
		t.Fatalf("expected empty, non-nil skills")
	}
	if len(profile.Entities) != 0 {
		t.Fatalf("expected no entity groups, got %v", profile.Entities)
	}
	if recognizer.calls != 0 {
		t.Fatalf("expected recognizer not to run on blank input, got %d calls", recognizer.calls)
	}
}

func TestAnalyzeGroupsEntities(t *testing.T) {
	t.Parallel()

	recognizer := &stubRecognizer{entities: []Entity{
		{Label: "ORG", Text: "Globex "},
		{Label: "PERSON", Text: "Jane Doe"},
		{Label: "ORG", Text: " Acme Corp"},
		{Label: "ORG", Text: "Globex"},
		{Label: "ORG", Text: "acme corp"},
		{Label: "GPE", Text: "   "},
	}}
	analyzer := NewAnalyzer(nil, recognizer)

	profile := analyzer.Analyze("Jane Doe worked at Acme Corp and Globex")

	expected := EntityGroup{
		"ORG":    {"Acme Corp", "Globex", "acme corp"},
		"PERSON": {"Jane Doe"},
	}
	if !reflect.DeepEqual(profile.Entities, expected) {
		t.Fatalf("expected %v, got %v", expected, profile.Entities)
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	t.Parallel()

	recognizer := &stubRecognizer{entities: []Entity{{Label: "ORG", Text: "Acme"}, {Label: "ORG", Text: "Acme"}}}
	analyzer := NewAnalyzer(DefaultVocabulary(), recognizer)
	text := "Python, SQL and Docker at Acme"

	first := analyzer.Analyze(text)
	second := analyzer.Analyze(text)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical profiles, got %+v and %+v", first, second)
	}
}

func TestAnalyzeConcurrentUse(t *testing.T) {
	t.Parallel()

	analyzer := NewAnalyzer(DefaultVocabulary(), &stubRecognizer{entities: []Entity{{Label: "ORG", Text: "Acme"}}})
	expected := analyzer.Analyze("kubernetes and terraform")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := analyzer.Analyze("kubernetes and terraform"); !reflect.DeepEqual(got, expected) {
				t.Errorf("unexpected profile: %+v", got)
			}
		}()
	}
	wg.Wait()
}

func TestVocabularyNormalization(t *testing.T) {
	t.Parallel()

	vocab := NewVocabulary([]string{"Go", " go ", "", "Rust"})

	if vocab.Len() != 2 {
		t.Fatalf("expected 2 terms, got %d: %v", vocab.Len(), vocab.Terms())
	}
	if !vocab.Contains("GO") || !vocab.Contains("rust") {
		t.Fatalf("expected case-insensitive membership")
	}

	terms := vocab.Terms()
	terms[0] = "mutated"
	if vocab.Terms()[0] != "go" {
		t.Fatalf("expected Terms to return a copy")
	}
}

func TestDefaultVocabularyIsLowerCase(t *testing.T) {
	t.Parallel()

	for _, term := range DefaultVocabulary().Terms() {
		if term != strings.ToLower(term) {
			t.Fatalf("expected lower-case term, got %q", term)
		}
	}
}

func TestEntityGroupFirst(t *testing.T) {
	t.Parallel()

	group := EntityGroup{"PERSON": {"Jane Doe"}}

	if got := group.First("PERSON", "the candidate"); got != "Jane Doe" {
		t.Fatalf("unexpected first person: %q", got)
	}
	if got := group.First("ORG", "previous roles"); got != "previous roles" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestProseRecognizerGroupsAreSortedAndUnique(t *testing.T) {
	recognizer, err := NewProseRecognizer("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	analyzer := NewAnalyzer(DefaultVocabulary(), recognizer)
	profile := analyzer.Analyze("Jane Doe joined Google in London. Jane Doe later moved to Microsoft in Seattle.")

	for label, items := range profile.Entities {
		if !sort.StringsAreSorted(items) {
			t.Fatalf("label %s is not sorted: %v", label, items)
		}
		seen := make(map[string]bool)
		for _, item := range items {
			if seen[item] {
				t.Fatalf("label %s has duplicate %q", label, item)
			}
			seen[item] = true
		}
	}
}

func TestNewProseRecognizerRejectsMissingModel(t *testing.T) {
	t.Parallel()

	if _, err := NewProseRecognizer(t.TempDir()+"/missing", nil); err == nil {
		t.Fatalf("expected error for missing model directory")
	}
}

func TestNewProseRecognizerLoadsBundledModelOnce(t *testing.T) {
	recognizer, err := NewProseRecognizer("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recognizer.model == nil {
		t.Fatalf("expected bundled model to be held after construction")
	}

	model := recognizer.model
	recognizer.Recognize("John Smith worked at Google.")
	if recognizer.model != model {
		t.Fatalf("expected model to be reused between calls")
	}
}

func TestNewProseRecognizerRejectsEmptyModelDirectory(t *testing.T) {
	t.Parallel()

	recognizer, err := NewProseRecognizer(t.TempDir(), nil)
	if err == nil {
		t.Fatalf("expected error for directory without model files")
	}
	if recognizer != nil {
		t.Fatalf("expected no recognizer on error")
	}
	if !strings.Contains(err.Error(), "ner model") {
		t.Fatalf("unexpected error: %v", err)
	}
}
