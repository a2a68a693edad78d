package skills

import "strings"

// Profile is the skill and entity signal extracted from one text.
type Profile struct {
	Skills   []string    `json:"skills"`
	Entities EntityGroup `json:"entities"`
}

// Analyzer turns text into a Profile. It holds only read-only state and can be
// shared by concurrent requests.
type Analyzer struct {
	vocabulary *Vocabulary
	recognizer Recognizer
}

// NewAnalyzer creates an analyzer. A nil vocabulary falls back to the default
// list; a nil recognizer disables entity recognition.
func NewAnalyzer(vocabulary *Vocabulary, recognizer Recognizer) *Analyzer {
	if vocabulary == nil {
		vocabulary = DefaultVocabulary()
	}
	return &Analyzer{vocabulary: vocabulary, recognizer: recognizer}
}

// Vocabulary returns the skill list the analyzer searches for.
func (a *Analyzer) Vocabulary() *Vocabulary {
	return a.vocabulary
}

// Analyze extracts entity groups and vocabulary skills from text.
func (a *Analyzer) Analyze(text string) Profile {
	profile := Profile{
		Skills:   a.vocabulary.Find(text),
		Entities: EntityGroup{},
	}

	if a.recognizer == nil || strings.TrimSpace(text) == "" {
		return profile
	}

	profile.Entities = GroupEntities(a.recognizer.Recognize(text))
	return profile
}
