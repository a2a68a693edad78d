package skills

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jdkato/prose/v2"
	"go.uber.org/zap"
)

// Entity is a labelled span produced by a named-entity recognizer.
type Entity struct {
	Label string
	Text  string
}

// EntityGroup maps an entity label to its sorted, distinct entity texts.
type EntityGroup map[string][]string

// First returns the first entity of the label, or fallback when there is none.
func (g EntityGroup) First(label, fallback string) string {
	if items := g[label]; len(items) > 0 {
		return items[0]
	}
	return fallback
}

// Recognizer labels spans of text. Implementations must be safe for concurrent use.
type Recognizer interface {
	Recognize(text string) []Entity
}

// GroupEntities trims every span, drops empty ones, and groups the rest by
// label with duplicates removed and texts sorted.
func GroupEntities(entities []Entity) EntityGroup {
	grouped := make(map[string][]string)
	for _, entity := range entities {
		text := strings.TrimSpace(entity.Text)
		if text == "" {
			continue
		}
		grouped[entity.Label] = append(grouped[entity.Label], text)
	}

	group := make(EntityGroup, len(grouped))
	for label, items := range grouped {
		group[label] = sortedUnique(items)
	}
	return group
}

// ProseRecognizer runs the pretrained prose NER model.
type ProseRecognizer struct {
	model  *prose.Model
	logger *zap.Logger
}

// NewProseRecognizer builds a recognizer backed by the model bundled with
// prose, or by the model stored under modelPath when it is not empty. The
// model is loaded once here and only read afterwards.
func NewProseRecognizer(modelPath string, logger *zap.Logger) (*ProseRecognizer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	modelPath = strings.TrimSpace(modelPath)
	if modelPath == "" {
		model, err := bundledModel()
		if err != nil {
			return nil, fmt.Errorf("ner model: %w", err)
		}
		logger.Info("loaded bundled ner model")
		return &ProseRecognizer{model: model, logger: logger}, nil
	}

	info, err := os.Stat(modelPath)
	if err != nil {
		return nil, fmt.Errorf("ner model: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("ner model: %s is not a directory", modelPath)
	}

	model, err := modelFromDisk(modelPath)
	if err != nil {
		return nil, fmt.Errorf("ner model: %w", err)
	}
	logger.Info("loaded ner model", zap.String("path", modelPath), zap.String("name", model.Name))

	return &ProseRecognizer{model: model, logger: logger}, nil
}

// bundledModel builds the model shipped with prose. prose only exposes it
// through a parsed document.
func bundledModel() (*prose.Model, error) {
	doc, err := prose.NewDocument("", prose.WithSegmentation(false))
	if err != nil {
		return nil, err
	}
	if doc.Model == nil {
		return nil, errors.New("prose returned no model")
	}
	return doc.Model, nil
}

// modelFromDisk loads a model directory. prose panics on missing or broken
// model files.
func modelFromDisk(path string) (model *prose.Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			model = nil
			err = fmt.Errorf("load %s: %v", path, r)
		}
	}()

	return prose.ModelFromDisk(path), nil
}

func (r *ProseRecognizer) Recognize(text string) []Entity {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false), prose.UsingModel(r.model))
	if err != nil {
		r.logger.Warn("entity recognition failed", zap.Error(err))
		return nil
	}

	ents := doc.Entities()
	out := make([]Entity, 0, len(ents))
	for _, ent := range ents {
		out = append(out, Entity{Label: ent.Label, Text: ent.Text})
	}
	return out
}

func sortedUnique(items []string) []string {
	if len(items) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}

	sort.Strings(out)
	return out
}
