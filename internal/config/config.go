package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. ASYNCLOG_LOG_FILE.
const EnvPrefix = "ASYNCLOG"

// Config holds all the configuration for the application.
type Config struct {
	LogFile  string `yaml:"log_file" envconfig:"LOG_FILE"`
	Console  string `yaml:"console" envconfig:"CONSOLE"`     // "stdout", "stderr", "discard"
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"` // level for producer-side zap formatting

	Producers     int     `yaml:"producers" envconfig:"PRODUCERS"`
	Messages      int     `yaml:"messages" envconfig:"MESSAGES"` // per producer
	RatePerSecond float64 `yaml:"rate_per_second" envconfig:"RATE_PER_SECOND"`
	Burst         int     `yaml:"burst" envconfig:"BURST"`

	ArchiveType string `yaml:"archive_type" envconfig:"ARCHIVE_TYPE"` // "duckdb", "sqlite", "json", "csv"
	ArchivePath string `yaml:"archive_path" envconfig:"ARCHIVE_PATH"`
}

var (
	validConsoles     = []string{"stdout", "stderr", "discard"}
	validLevels       = []string{"debug", "info", "warn", "error"}
	validArchiveTypes = []string{"duckdb", "sqlite", "json", "csv"}
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s (%s): %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult holds all validation errors
type ValidationResult struct {
	Errors []ValidationError
}

func (r *ValidationResult) AddError(field, value, message string) {
	r.Errors = append(r.Errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	})
}

func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

func (r *ValidationResult) Error() string {
	if !r.HasErrors() {
		return ""
	}

	var messages []string
	for _, err := range r.Errors {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		LogFile:       "asynclog.log",
		Console:       "stdout",
		LogLevel:      "info",
		Producers:     4,
		Messages:      1000,
		RatePerSecond: 0,
		Burst:         1,
		ArchiveType:   "duckdb",
	}
}

// Load reads the configuration from a YAML file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	conf := Default()
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return conf, nil
}

// LoadWithEnv loads a .env file if present, then the YAML file if present,
// then applies ASYNCLOG_* environment overrides.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	conf, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		conf, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}

	if err := envconfig.Process(EnvPrefix, conf); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return conf, nil
}

// Save writes the configuration to a YAML file.
func Save(path string, conf *Config) error {
	data, err := yaml.Marshal(conf)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ValidateBasic performs basic validation of required fields and formats
func (c *Config) ValidateBasic() *ValidationResult {
	result := &ValidationResult{}

	if strings.TrimSpace(c.LogFile) == "" {
		result.AddError("log_file", "", "is required")
	}
	if !oneOf(c.Console, validConsoles) {
		result.AddError("console", c.Console, fmt.Sprintf("must be one of: %s", strings.Join(validConsoles, ", ")))
	}
	if !oneOf(c.LogLevel, validLevels) {
		result.AddError("log_level", c.LogLevel, fmt.Sprintf("must be one of: %s", strings.Join(validLevels, ", ")))
	}

	if c.Producers < 1 {
		result.AddError("producers", fmt.Sprint(c.Producers), "at least one producer is required")
	}
	if c.Messages < 0 {
		result.AddError("messages", fmt.Sprint(c.Messages), "must not be negative")
	}
	if c.RatePerSecond < 0 {
		result.AddError("rate_per_second", fmt.Sprint(c.RatePerSecond), "must not be negative (0 disables throttling)")
	}
	if c.RatePerSecond > 0 && c.Burst < 1 {
		result.AddError("burst", fmt.Sprint(c.Burst), "must be at least 1 when rate_per_second is set")
	}

	if c.ArchiveType != "" && !oneOf(c.ArchiveType, validArchiveTypes) {
		result.AddError("archive_type", c.ArchiveType, fmt.Sprintf("must be one of: %s", strings.Join(validArchiveTypes, ", ")))
	}

	return result
}

// ValidateStorage checks that the log file and archive locations are usable.
func (c *Config) ValidateStorage() *ValidationResult {
	result := &ValidationResult{}

	if c.LogFile != "" {
		logDir := filepath.Dir(c.LogFile)
		if logDir != "." {
			if err := os.MkdirAll(logDir, 0755); err != nil {
				result.AddError("log_file", c.LogFile, fmt.Sprintf("cannot create log directory: %v", err))
			}
		}
		if info, err := os.Stat(c.LogFile); err == nil {
			if info.IsDir() {
				result.AddError("log_file", c.LogFile, "is a directory")
			} else if f, err := os.OpenFile(c.LogFile, os.O_WRONLY|os.O_APPEND, 0); err != nil {
				result.AddError("log_file", c.LogFile, "file exists but is not writable")
			} else {
				f.Close()
			}
		}
	}

	// An empty archive path is resolved per archive type when archiving.
	if c.ArchivePath != "" {
		switch c.ArchiveType {
		case "json", "csv":
			if err := os.MkdirAll(c.ArchivePath, 0755); err != nil {
				result.AddError("archive_path", c.ArchivePath, fmt.Sprintf("cannot create directory: %v", err))
			}
		default:
			dir := filepath.Dir(c.ArchivePath)
			if dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					result.AddError("archive_path", c.ArchivePath, fmt.Sprintf("cannot create directory: %v", err))
				}
			}
		}
	}

	return result
}

// ValidateComplete performs comprehensive validation including basic and storage validation
func (c *Config) ValidateComplete() *ValidationResult {
	result := &ValidationResult{}

	basicResult := c.ValidateBasic()
	result.Errors = append(result.Errors, basicResult.Errors...)

	if !basicResult.HasErrors() {
		storageResult := c.ValidateStorage()
		result.Errors = append(result.Errors, storageResult.Errors...)
	}

	return result
}

func oneOf(v string, valid []string) bool {
	for _, s := range valid {
		if v == s {
			return true
		}
	}
	return false
}
