package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds process configuration. Values are resolved in precedence
// order: environment variables, then ~/.ainav/config.yaml, then defaults.
type Config struct {
	DBPath        string `yaml:"db_path"`
	Schedule      string `yaml:"schedule"`
	LLMProvider   string `yaml:"llm_provider"`
	LLMModel      string `yaml:"llm_model"`
	SourceWorkers int    `yaml:"source_workers"`
}

// Default configuration values.
const (
	DefaultDBPath        = "ainav.db"
	DefaultSchedule      = "0 */3 * * *"
	DefaultLLMProvider   = "gemini"
	DefaultSourceWorkers = 4
)

// fileConfig mirrors the structure of ~/.ainav/config.yaml.
type fileConfig struct {
	DBPath        string `yaml:"db_path"`
	Schedule      string `yaml:"schedule"`
	LLMProvider   string `yaml:"llm_provider"`
	LLMModel      string `yaml:"llm_model"`
	SourceWorkers int    `yaml:"source_workers"`
}

// Load resolves the process configuration. A missing config file is not an
// error; a file that exists but cannot be parsed is.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:        DefaultDBPath,
		Schedule:      DefaultSchedule,
		LLMProvider:   DefaultLLMProvider,
		SourceWorkers: DefaultSourceWorkers,
	}

	fc, err := loadConfigFile()
	if err != nil {
		return nil, err
	}
	if fc != nil {
		applyFile(cfg, fc)
	}

	applyEnv(cfg)
	return cfg, nil
}

// APIKey returns the API key for the configured LLM provider, read from the
// provider's conventional environment variable.
func (c *Config) APIKey() string {
	switch c.LLMProvider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	default:
		return os.Getenv("GEMINI_API_KEY")
	}
}

// loadConfigFile reads ~/.ainav/config.yaml. Returns nil if the file
// doesn't exist (not an error).
func loadConfigFile() (*fileConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, ".ainav", "config.yaml")
	return loadConfigFileFrom(configPath)
}

// loadConfigFileFrom reads a config file from an explicit path; split out
// so tests can point at a temp file.
func loadConfigFileFrom(configPath string) (*fileConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	return &fc, nil
}

func applyFile(cfg *Config, fc *fileConfig) {
	if fc.DBPath != "" {
		cfg.DBPath = fc.DBPath
	}
	if fc.Schedule != "" {
		cfg.Schedule = fc.Schedule
	}
	if fc.LLMProvider != "" {
		cfg.LLMProvider = fc.LLMProvider
	}
	if fc.LLMModel != "" {
		cfg.LLMModel = fc.LLMModel
	}
	if fc.SourceWorkers > 0 {
		cfg.SourceWorkers = fc.SourceWorkers
	}
}

func applyEnv(cfg *Config) {
	if val := os.Getenv("AINAV_DB_PATH"); val != "" {
		cfg.DBPath = val
	}
	if val := os.Getenv("AINAV_SCHEDULE"); val != "" {
		cfg.Schedule = val
	}
	if val := os.Getenv("AINAV_LLM_PROVIDER"); val != "" {
		cfg.LLMProvider = val
	}
	if val := os.Getenv("AINAV_LLM_MODEL"); val != "" {
		cfg.LLMModel = val
	}
	if val := os.Getenv("AINAV_SOURCE_WORKERS"); val != "" {
		if workers, err := strconv.Atoi(val); err == nil && workers > 0 {
			cfg.SourceWorkers = workers
		}
	}
}
