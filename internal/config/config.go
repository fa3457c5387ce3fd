package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"

	apperrors "github.com/schemadrift/schemadrift/internal/errors"
)

// Config represents the application configuration
type Config struct {
	LLM       LLMConfig       `json:"llm"       envPrefix:"SCHEMADRIFT_"`
	Embedding EmbeddingConfig `json:"embedding" envPrefix:"SCHEMADRIFT_"`
	Corpus    CorpusConfig    `json:"corpus"    envPrefix:"SCHEMADRIFT_"`
	Warehouse WarehouseConfig `json:"warehouse" envPrefix:"SCHEMADRIFT_"`
	QueryLog  QueryLogConfig  `json:"query_log" envPrefix:"SCHEMADRIFT_"`
	Logging   LoggingConfig   `json:"logging"   envPrefix:"SCHEMADRIFT_"`
}

// LLMConfig configures the text-generation backend
type LLMConfig struct {
	Provider       string `json:"provider"        env:"LLM_PROVIDER"   envDefault:"ollama"` // ollama, remote
	Model          string `json:"model"           env:"LLM_MODEL"      envDefault:"llama3.1:8b"`
	OllamaHost     string `json:"ollama_host"     env:"OLLAMA_HOST"    envDefault:"http://localhost:11434"`
	Endpoint       string `json:"endpoint"        env:"LLM_ENDPOINT"   envDefault:""`
	APIKey         string `json:"-"` // resolved through the secret source, never persisted
	TimeoutSeconds int    `json:"timeout_seconds" env:"LLM_TIMEOUT_SECONDS" envDefault:"120"`
}

// EmbeddingConfig configures the embedding backend
type EmbeddingConfig struct {
	Provider   string `json:"provider"   env:"EMBEDDING_PROVIDER"   envDefault:"ollama"`
	Model      string `json:"model"      env:"EMBEDDING_MODEL"      envDefault:"nomic-embed-text"`
	Host       string `json:"host"       env:"EMBEDDING_HOST"       envDefault:"http://localhost:11434"`
	Dimensions int    `json:"dimensions" env:"EMBEDDING_DIMENSIONS" envDefault:"768"`
	Enabled    bool   `json:"enabled"    env:"EMBEDDING_ENABLED"    envDefault:"true"`
}

// CorpusConfig configures the local document corpus
type CorpusConfig struct {
	Directory string `json:"directory" env:"DOCS_DIR" envDefault:"./docs"`
}

// WarehouseConfig configures the live warehouse schema source
type WarehouseConfig struct {
	Path string `json:"path" env:"WAREHOUSE_PATH" envDefault:""` // DuckDB database file
}

// QueryLogConfig configures the append-only question log
type QueryLogConfig struct {
	Path    string `json:"path"    env:"QUERY_LOG_PATH" envDefault:"user_logs.csv"`
	User    string `json:"user"    env:"QUERY_LOG_USER" envDefault:"guest"`
	Enabled bool   `json:"enabled" env:"QUERY_LOG_ENABLED" envDefault:"true"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `json:"level"  env:"LOG_LEVEL"  envDefault:"info"`   // debug, info, warn, error
	Format string `json:"format" env:"LOG_FORMAT" envDefault:"text"`   // text, json
	Output string `json:"output" env:"LOG_OUTPUT" envDefault:"stderr"` // stdout, stderr, file
	File   string `json:"file"   env:"LOG_FILE"   envDefault:""`
}

// Load loads configuration by layering environment variables over the config
// file (if present) over the tag defaults, then resolves secrets through the
// given source and validates.
func Load(secrets SecretSource) (*Config, error) {
	config := &Config{}

	// Tag defaults first, with the real environment masked so set variables
	// do not apply before the file.
	if err := env.ParseWithOptions(config, env.Options{
		Environment: map[string]string{},
	}); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrTypeConfig,
			"failed to apply configuration defaults")
	}

	configPath := getConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		if err := loadFromFile(config, configPath); err != nil {
			return nil, err
		}
	}

	// Environment variables win over the file. Defaults are disabled on this
	// pass; otherwise an unset variable would resurrect its default and undo
	// any file value that happens to be a zero value, such as enabled: false.
	if err := env.ParseWithOptions(config, env.Options{
		DefaultValueTagName: "envNoDefault",
	}); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrTypeConfig,
			"failed to parse environment variables")
	}

	if secrets != nil {
		if key, ok := secrets.Get("LLM_API_KEY"); ok {
			config.LLM.APIKey = key
		}
	}

	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// loadFromFile overlays the JSON config file onto the defaults already in
// config. Decoding into the live struct touches only the keys present in the
// file, so an explicit false or empty string in the file survives the overlay.
func loadFromFile(config *Config, configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrTypeConfig, "failed to read config file")
	}

	if err := json.Unmarshal(data, config); err != nil {
		return apperrors.Wrap(err, apperrors.ErrTypeConfig, "failed to parse config file")
	}

	return nil
}

// validate rejects configurations the rest of the program cannot run with.
func validate(config *Config) error {
	switch config.LLM.Provider {
	case "ollama":
	case "remote":
		if config.LLM.Endpoint == "" {
			return apperrors.New(apperrors.ErrTypeConfig,
				"LLM endpoint is required for the remote provider")
		}
	default:
		return apperrors.Newf(apperrors.ErrTypeConfig,
			"invalid LLM provider: %s (must be ollama or remote)", config.LLM.Provider)
	}

	if config.LLM.TimeoutSeconds <= 0 {
		return apperrors.Newf(apperrors.ErrTypeConfig,
			"LLM timeout must be positive: %d", config.LLM.TimeoutSeconds)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(config.Logging.Level)] {
		return apperrors.Newf(apperrors.ErrTypeConfig,
			"invalid log level: %s (must be debug, info, warn, or error)", config.Logging.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(config.Logging.Format)] {
		return apperrors.Newf(apperrors.ErrTypeConfig,
			"invalid log format: %s (must be text or json)", config.Logging.Format)
	}

	validOutputs := map[string]bool{"stdout": true, "stderr": true, "file": true}
	if !validOutputs[strings.ToLower(config.Logging.Output)] {
		return apperrors.Newf(apperrors.ErrTypeConfig,
			"invalid log output: %s (must be stdout, stderr, or file)", config.Logging.Output)
	}

	if strings.ToLower(config.Logging.Output) == "file" && config.Logging.File == "" {
		return apperrors.New(apperrors.ErrTypeConfig,
			"log file path is required when output is file")
	}

	return nil
}

// getConfigPath returns the path to the configuration file
func getConfigPath() string {
	if configPath := os.Getenv("SCHEMADRIFT_CONFIG"); configPath != "" {
		return configPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}

	return filepath.Join(homeDir, ".config", "schemadrift", "config.json")
}

// GetConfigDir returns the configuration directory
func GetConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".config/schemadrift"
	}

	return filepath.Join(homeDir, ".config", "schemadrift")
}

// SessionPath returns where the conversation carryover is persisted.
func SessionPath() string {
	return filepath.Join(GetConfigDir(), "session.json")
}
