package app

import (
	stderrors "errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/uispec/internal/config"
	"github.com/agentstation/uispec/pkg/errors"
	"github.com/agentstation/uispec/pkg/reconciler"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Engine configuration
	Weights          reconciler.Weights
	CacheTTL         time.Duration
	Provenance       bool
	SchemaValidation bool

	// Host configuration
	ServerAddr     string
	AllowedOrigins []string

	// Logging configuration
	LogLevel    string // --log-level flag
	EnvLogLevel string // LOG_LEVEL
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.uispec.yaml, ./.uispec.yaml or $CONFIG)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return LoadConfigFile(os.Getenv("CONFIG"))
}

// LoadConfigFile loads configuration like LoadConfig, reading the given
// config file instead of searching the standard locations.
func LoadConfigFile(file string) (*Config, error) {
	// .env files go first so Viper sees their variables
	loadEnvFiles()

	v := viper.New()
	config.SetDefaults(v)
	config.BindEnv(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".uispec")
	}

	if err := v.ReadInConfig(); err != nil {
		// a missing default file is fine, a missing explicit one is not
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !stderrors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "reading config file", err)
		}
	}

	weights, err := config.Weights(v)
	if err != nil {
		return nil, err
	}
	ttl, err := config.CacheTTL(v)
	if err != nil {
		return nil, err
	}

	return &Config{
		Format:     v.GetString("format"),
		ConfigFile: v.ConfigFileUsed(),

		Weights:          weights,
		CacheTTL:         ttl,
		Provenance:       v.GetBool(config.KeyProvenance),
		SchemaValidation: v.GetBool(config.KeySchemaValidation),

		ServerAddr:     v.GetString(config.KeyServerAddr),
		AllowedOrigins: v.GetStringSlice(config.KeyServerOrigins),

		EnvLogLevel: os.Getenv("LOG_LEVEL"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// Variables already set in the environment are never overridden.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
