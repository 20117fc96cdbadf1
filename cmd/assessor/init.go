package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/governance-assessor/internal/catalog"
	"github.com/jonathan/governance-assessor/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an unanswered project from the standards catalog",
	Long:  "Builds a new Project JSON file from catalog standard templates. Without --standards every catalog standard is included.",
	RunE:  runInit,
}

var (
	initName        string
	initDescription string
	initStandards   string
	initCatalogPath string
	initOutput      string
	initForce       bool
)

func init() {
	initCmd.Flags().StringVarP(&initName, "name", "n", "", "Project name (required)")
	initCmd.Flags().StringVar(&initDescription, "description", "", "Project description")
	initCmd.Flags().StringVar(&initStandards, "standards", "", "Comma-separated standard ids to include")
	initCmd.Flags().StringVar(&initCatalogPath, "catalog", "", "Path to a YAML standards catalog (defaults to the built-in catalog)")
	initCmd.Flags().StringVarP(&initOutput, "out", "o", "", "Path to output Project JSON file (stdout when empty)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing output file")

	if err := initCmd.MarkFlagRequired("name"); err != nil {
		panic(fmt.Sprintf("failed to mark name flag as required: %v", err))
	}

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd, "", func(cfg *config.Config) {
		cfg.CatalogPath = initCatalogPath
	})
	if err != nil {
		return err
	}

	if initOutput != "" && !initForce && exists(initOutput) {
		return fmt.Errorf("output file %s already exists (use --force to overwrite)", initOutput)
	}

	content, count, err := buildProjectFromCatalog(cfg.CatalogPath, initName, initDescription, splitList(initStandards))
	if err != nil {
		return err
	}

	if err := writeOutput(cmd, initOutput, content); err != nil {
		return err
	}
	if initOutput != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created project %q with %d standards at %s\n", initName, count, initOutput)
	}
	return nil
}

// buildProjectFromCatalog returns the indented project JSON and its standard count
func buildProjectFromCatalog(catalogPath, name, description string, standardIDs []string) ([]byte, int, error) {
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return nil, 0, err
	}

	project, err := cat.NewProject(name, standardIDs)
	if err != nil {
		return nil, 0, err
	}
	project.Description = description

	content, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal project to JSON: %w", err)
	}
	return append(content, '\n'), len(project.Standards), nil
}

// splitList splits a comma-separated flag value, dropping blanks
func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
