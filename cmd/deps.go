package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-agent/internal/ai"
	"github.com/spigell/resume-agent/internal/ai/gemini"
	"github.com/spigell/resume-agent/internal/filtering"
	"github.com/spigell/resume-agent/internal/headhunter"
	"github.com/spigell/resume-agent/internal/jobsearch"
	"github.com/spigell/resume-agent/internal/logger"
	"github.com/spigell/resume-agent/internal/secrets"
	"github.com/spigell/resume-agent/internal/skills"
)

const providerGemini = "gemini"

var errAIDisabled = errors.New("text generation is disabled in config")

func newLogger(quiet bool) (*zap.Logger, error) {
	return logger.New(logger.Options{
		JSON:  viper.GetBool("json"),
		Debug: viper.GetBool("debug"),
		Quiet: quiet,
	})
}

func newAnalyzer(config *Config, log *zap.Logger) (*skills.Analyzer, error) {
	var vocabulary *skills.Vocabulary
	if len(config.Skills.Vocabulary) > 0 {
		vocabulary = skills.NewVocabulary(config.Skills.Vocabulary)
		log.Info("using configured skill vocabulary", zap.Int("terms", vocabulary.Len()))
	}

	if config.NER.Disabled {
		log.Info("named entity recognition is disabled")
		return skills.NewAnalyzer(vocabulary, nil), nil
	}

	recognizer, err := skills.NewProseRecognizer(config.NER.ModelPath, logger.Component(log, "ner"))
	if err != nil {
		return nil, err
	}

	return skills.NewAnalyzer(vocabulary, recognizer), nil
}

func newWriter(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Writer, error) {
	if !cfg.Enabled {
		return nil, errAIDisabled
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != providerGemini {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	genLogger := logger.WithCommonFields(logger.Component(log, "gemini"), providerGemini, cfg.Gemini.Model).
		With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewWriter(generator, cfg.Gemini.MaxLogLength, genLogger), nil
}

func newFinder(cfg *JobsConfig, vocabulary *skills.Vocabulary, log *zap.Logger) (*jobsearch.Finder, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	// Vacancy search is public; a token only raises rate limits.
	var token string
	if strings.TrimSpace(cfg.TokenFile) != "" {
		loaded, err := secrets.Load(secrets.Source{Name: "headhunter token", File: cfg.TokenFile})
		if err != nil {
			return nil, err
		}
		token = loaded
	}

	hhLogger := logger.Component(log, "headhunter")
	hh := headhunter.New(hhLogger, token)
	if cfg.UserAgent != "" {
		hh.UserAgent = cfg.UserAgent
	}

	finderCfg := jobsearch.Config{
		MaxResults:      cfg.MaxResults,
		IncludeWithTest: cfg.IncludeWithTest,
		Filter: filtering.Config{
			MinimumMatchScore: cfg.MinimumMatchScore,
		},
	}
	if cfg.Search != nil {
		finderCfg.Search = *cfg.Search
	}
	if cfg.Exclude != nil {
		finderCfg.Filter.Employers = cfg.Exclude.Employers
	}

	return jobsearch.NewFinder(hh, vocabulary, finderCfg, hhLogger), nil
}
