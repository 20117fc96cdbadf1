package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/governance-assessor/internal/config"
	"github.com/jonathan/governance-assessor/internal/schemas"
	"github.com/jonathan/governance-assessor/internal/types"
)

// loadSettings loads the optional config file, applies explicitly set flags on top,
// then fills the remaining fields from the environment and defaults.
func loadSettings(cmd *cobra.Command, configPath string, overrides func(cfg *config.Config)) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	if overrides != nil {
		overrides(&cfg)
	}

	defaults := config.Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		CatalogPath: os.Getenv("ASSESSOR_CATALOG"),
	}
	cfg = cfg.MergeWithDefaults(defaults)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	if cfg.Verbose && configPath != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Loaded config from: %s\n", configPath)
	}
	return cfg, nil
}

// readProjectFile reads a Project JSON file, optionally checking it against the project schema first
func readProjectFile(path string, validateSchema bool) (*types.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file %s: %w", path, err)
	}

	if validateSchema {
		if err := schemas.ValidateProject(data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	var project types.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project JSON %s: %w", path, err)
	}
	if err := project.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project %s: %w", path, err)
	}
	return &project, nil
}

// writeOutput writes content to path, creating the parent directory, or to stdout when path is empty
func writeOutput(cmd *cobra.Command, path string, content []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(content)
		return err
	}

	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
