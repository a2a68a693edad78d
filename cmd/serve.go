package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-agent/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := newLogger(false)
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}

	logger.Info("starting the resume-agent", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	analyzer, err := newAnalyzer(config, logger)
	if err != nil {
		return fmt.Errorf("building analyzer: %w", err)
	}

	deps := api.Deps{Analyzer: analyzer}

	writer, err := newWriter(ctx, config.AI, logger)
	switch {
	case errors.Is(err, errAIDisabled):
		logger.Info("text generation disabled")
	case err != nil:
		logger.Warn("text generation unavailable, continuing without it", zap.Error(err))
	default:
		deps.Writer = writer
	}

	finder, err := newFinder(config.Jobs, analyzer.Vocabulary(), logger)
	if err != nil {
		return fmt.Errorf("building job search: %w", err)
	}
	if finder != nil {
		deps.Finder = finder
	} else {
		logger.Info("job search disabled")
	}

	server := api.New(api.Config{
		Address:      config.Server.Address,
		AllowOrigins: config.Server.AllowOrigins,
		BodyLimit:    config.Server.BodyLimitMB << 20,
	}, deps, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return <-errCh
}

// redacted returns a copy of config that is safe to log.
func redacted(config *Config) *Config {
	out := *config
	if config.AI != nil && config.AI.Gemini != nil {
		ai := *config.AI
		gemini := *config.AI.Gemini
		if gemini.APIKey != "" {
			gemini.APIKey = "***"
		}
		ai.Gemini = &gemini
		out.AI = &ai
	}
	return &out
}
