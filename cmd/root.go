package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/resume-agent/internal/headhunter"
)

const (
	app = "resume-agent"
)

type Config struct {
	Server *ServerConfig `mapstructure:"server"`
	Skills *SkillsConfig `mapstructure:"skills"`
	NER    *NERConfig    `mapstructure:"ner"`
	AI     *AIConfig     `mapstructure:"ai"`
	Jobs   *JobsConfig   `mapstructure:"jobs"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	AllowOrigins    []string      `mapstructure:"allow-origins"`
	BodyLimitMB     int           `mapstructure:"body-limit-mb"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

type SkillsConfig struct {
	// Vocabulary replaces the built-in skill list when set.
	Vocabulary []string `mapstructure:"vocabulary"`
}

type NERConfig struct {
	Disabled  bool   `mapstructure:"disabled"`
	ModelPath string `mapstructure:"model-path"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type JobsConfig struct {
	Enabled           bool                     `mapstructure:"enabled"`
	Search            *headhunter.SearchParams `mapstructure:"search"`
	MaxResults        int                      `mapstructure:"max-results"`
	MinimumMatchScore int                      `mapstructure:"minimum-match-score"`
	IncludeWithTest   bool                     `mapstructure:"include-with-test"`
	UserAgent         string                   `mapstructure:"user-agent"`
	TokenFile         string                   `mapstructure:"token-file"`
	Exclude           *struct {
		Employers []string `mapstructure:"employers"`
	} `mapstructure:"exclude"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:               app,
		Short:             "resume-agent compares resumes with job descriptions and finds matching vacancies",
		SilenceUsage:      true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return initConfig() },
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-agent.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("server.address", ":8000")
	viper.SetDefault("server.allow-origins", []string{"http://localhost:3000"})
	viper.SetDefault("server.body-limit-mb", 10)
	viper.SetDefault("server.shutdown-timeout", 10*time.Second)

	viper.SetDefault("ai.enabled", true)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.gemini.max-log-length", 200)

	viper.SetDefault("jobs.enabled", true)
	viper.SetDefault("jobs.max-results", 10)
	viper.SetDefault("jobs.minimum-match-score", 0)
}

func bindEnv() error {
	bindings := map[string][]string{
		"ai.gemini.api-key":      {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
		"ai.gemini.api-key-file": {"GEMINI_API_KEY_FILE"},
		"server.address":         {"RESUME_AGENT_ADDRESS"},
		"jobs.token-file":        {"HH_TOKEN_FILE"},
	}

	for key, envs := range bindings {
		if err := viper.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("binding %v environment variables: %w", envs, err)
		}
	}

	return nil
}

// initConfig loads .env and the optional config file. A missing default
// config file is fine; an explicit --config must exist and parse.
func initConfig() error {
	// .env is optional.
	_ = godotenv.Load()

	if err := bindEnv(); err != nil {
		return err
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	return nil
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	if config.Skills == nil {
		config.Skills = &SkillsConfig{}
	}
	if config.NER == nil {
		config.NER = &NERConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.Jobs == nil {
		config.Jobs = &JobsConfig{}
	}

	return config, nil
}
