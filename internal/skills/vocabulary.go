package skills

import "strings"

// defaultTerms is the built-in skill vocabulary used when the configuration
// does not provide one.
var defaultTerms = []string{
	"python", "java", "c++", "c", "c#", "javascript", "typescript", "html", "css",
	"react", "angular", "vue.js", "next.js", "fastapi", "node.js", "django", "flask",
	"sql", "mysql", "postgresql", "mongodb", "redis",
	"aws", "azure", "google cloud", "gcp", "docker", "kubernetes", "terraform",
	"git", "github", "gitlab", "jira", "tailwind css",
	"machine learning", "deep learning", "tensorflow", "pytorch", "scikit-learn",
	"data analysis", "pandas", "numpy", "nlp", "computer vision",
	"project management", "agile", "scrum", "product management",
}

// Vocabulary is an ordered, immutable list of lower-case skill phrases.
type Vocabulary struct {
	terms []string
}

// NewVocabulary lower-cases and trims the given terms, dropping empty entries
// and repeats while keeping the first-seen order.
func NewVocabulary(terms []string) *Vocabulary {
	seen := make(map[string]struct{}, len(terms))
	normalized := make([]string, 0, len(terms))

	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		normalized = append(normalized, term)
	}

	return &Vocabulary{terms: normalized}
}

// DefaultVocabulary returns the built-in vocabulary.
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(defaultTerms)
}

// Terms returns a copy of the vocabulary terms.
func (v *Vocabulary) Terms() []string {
	if v == nil {
		return nil
	}
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Len returns the number of distinct terms. A nil vocabulary has none.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.terms)
}

// Contains reports whether term, compared case-insensitively, is part of the vocabulary.
func (v *Vocabulary) Contains(term string) bool {
	if v == nil {
		return false
	}
	term = strings.ToLower(strings.TrimSpace(term))
	for _, t := range v.terms {
		if t == term {
			return true
		}
	}
	return false
}

// Find returns every term occurring as a substring of text, sorted and
// deduplicated. Matching is a plain substring test on the lower-cased text, so
// short terms like "c" also match inside unrelated words.
func (v *Vocabulary) Find(text string) []string {
	found := make([]string, 0)
	if v == nil || text == "" {
		return found
	}

	lowered := strings.ToLower(text)
	for _, term := range v.terms {
		if strings.Contains(lowered, term) {
			found = append(found, term)
		}
	}

	return sortedUnique(found)
}
