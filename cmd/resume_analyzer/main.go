// Package main provides the resume_analyzer CLI and HTTP API server.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "resume_analyzer",
	Short: "Resume scoring and parsing engine",
	Long: "resume_analyzer scores resumes for ATS readiness, optionally against a job description, " +
		"and parses them into structured fields. A remote oracle is used when configured; " +
		"the local heuristic pipeline answers otherwise.",
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

var (
	configPath     string
	logLevel       string
	logFormat      string
	oracleProvider string
	oracleEndpoint string
	oracleTimeout  time.Duration
	oracleTier     string
	patternsPath   string
	databaseURL    string
	redisURL       string
)

// Loaded by loadSettings before any subcommand runs.
var (
	cfg    *config.Config
	logger *zap.Logger
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to a YAML or JSON config file")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "", "Log format: console or json")
	flags.StringVar(&oracleProvider, "oracle", "", "Oracle provider: none, gemini, http")
	flags.StringVar(&oracleEndpoint, "oracle-endpoint", "", "Base URL of the HTTP oracle")
	flags.DurationVar(&oracleTimeout, "oracle-timeout", 0, "Deadline for one oracle call")
	flags.StringVar(&oracleTier, "oracle-tier", "", "Gemini model tier: lite, standard, advanced")
	flags.StringVar(&patternsPath, "patterns", "", "Path to a pattern library JSON file")
	flags.StringVar(&databaseURL, "db-url", "", "PostgreSQL URL for storing reports")
	flags.StringVar(&redisURL, "redis-url", "", "Redis URL for the result cache")
}

// loadSettings reads the config file and environment, then lets flags override them.
func loadSettings(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flagCfg := config.Config{
		Oracle: config.OracleConfig{
			Provider: oracleProvider,
			Endpoint: oracleEndpoint,
			Timeout:  oracleTimeout,
			Tier:     oracleTier,
		},
		Patterns: config.PatternsConfig{Path: patternsPath},
		Database: config.DatabaseConfig{URL: databaseURL},
		Cache:    config.CacheConfig{RedisURL: redisURL},
		Log:      config.LogConfig{Level: logLevel, Format: logFormat},
	}
	merged := flagCfg.MergeWithDefaults(*loaded)
	if merged.Oracle.Provider == config.ProviderGemini && merged.Oracle.APIKey == "" {
		merged.Oracle.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if err := merged.Validate(); err != nil {
		return err
	}
	cfg = &merged

	logger, err = logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	return nil
}

func main() {
	// Load .env file if it exists
	if _, err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
