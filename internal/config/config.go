// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults applied by MergeWithDefaults when neither the file nor the flags set a value
const (
	DefaultPort         = 8080
	DefaultReportFormat = "markdown"
	DefaultConcurrency  = 4
	DefaultDatabaseURL  = "sqlite://data/assessor.db"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // postgres:// or sqlite:// URL

	// Server
	Port int `json:"port,omitempty"` // HTTP port for `serve`

	// Inputs
	CatalogPath string `json:"catalog_path,omitempty"` // YAML standards catalog; built-in when empty

	// Outputs
	ReportFormat string `json:"report_format,omitempty"` // markdown or csv
	OutputDir    string `json:"output_dir,omitempty"`    // Directory for score and report files

	// Behavior
	Verbose        bool `json:"verbose,omitempty"`         // Print detailed summaries
	SkipValidation bool `json:"skip_validation,omitempty"` // Skip JSON Schema validation of inputs
	Concurrency    int  `json:"concurrency,omitempty"`     // Projects scored in parallel by `score`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}

	switch c.ReportFormat {
	case "", "markdown", "md", "csv":
	default:
		return fmt.Errorf("config error: 'report_format' must be markdown or csv, got %q", c.ReportFormat)
	}

	if c.CatalogPath != "" {
		if _, err := os.Stat(c.CatalogPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: catalog file not found: %s", c.CatalogPath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults,
// then from the package defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.CatalogPath == "" {
		result.CatalogPath = defaults.CatalogPath
	}
	if result.ReportFormat == "" {
		result.ReportFormat = defaults.ReportFormat
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	if result.DatabaseURL == "" {
		result.DatabaseURL = DefaultDatabaseURL
	}
	if result.ReportFormat == "" {
		result.ReportFormat = DefaultReportFormat
	}
	if result.Port == 0 {
		result.Port = DefaultPort
	}
	if result.Concurrency == 0 {
		result.Concurrency = DefaultConcurrency
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
