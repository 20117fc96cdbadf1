package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/governance-assessor/internal/schemas"
	"github.com/jonathan/governance-assessor/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against a JSON Schema",
	Long: `Validates a JSON document against a JSON Schema file. Without --schema the document is
checked as a Project: against the built-in project schema and the project field rules.`,
	RunE: runValidate,
}

var (
	validateSchemaPath string
	validateJSONPath   string
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchemaPath, "schema", "s", "", "Path to JSON Schema file (defaults to the built-in project schema)")
	validateCmd.Flags().StringVarP(&validateJSONPath, "json", "j", "", "Path to JSON file to validate (required)")

	if err := validateCmd.MarkFlagRequired("json"); err != nil {
		panic(fmt.Sprintf("failed to mark json flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if err := validateFile(validateSchemaPath, validateJSONPath); err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Validation failed: %v\n", err)
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %s\n", validateJSONPath)
	return nil
}

// validateFile checks jsonPath against schemaPath, or as a Project when schemaPath is empty
func validateFile(schemaPath, jsonPath string) error {
	if schemaPath != "" {
		if resolved := schemas.ResolveSchemaPath(schemaPath); resolved != "" {
			schemaPath = resolved
		}
		return schemas.ValidateJSON(schemaPath, jsonPath)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", jsonPath, err)
	}
	if err := schemas.ValidateProject(data); err != nil {
		return err
	}

	project, err := readProjectFile(jsonPath, false)
	if err != nil {
		return err
	}
	return checkAnswerTypes(project)
}

// checkAnswerTypes reports questions with a type the scorer does not know
func checkAnswerTypes(project *types.Project) error {
	for _, s := range project.Standards {
		for _, q := range s.Questions {
			if !q.Type.IsKnown() {
				return fmt.Errorf("standard %q question %q: unknown question type %q", s.Name, q.Text, q.Type)
			}
		}
	}
	return nil
}
