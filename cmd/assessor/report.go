package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/governance-assessor/internal/config"
	"github.com/jonathan/governance-assessor/internal/report"
	"github.com/jonathan/governance-assessor/internal/scoring"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render an assessment report for a project",
	Long:  "Scores a Project JSON file and renders the result as a Markdown summary or a CSV table.",
	RunE:  runReport,
}

var (
	reportProject        string
	reportFormat         string
	reportOutput         string
	reportConfigPath     string
	reportSkipValidation bool
)

func init() {
	reportCmd.Flags().StringVarP(&reportProject, "project", "p", "", "Path to input Project JSON file (required)")
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "", "Report format: markdown or csv")
	reportCmd.Flags().StringVarP(&reportOutput, "out", "o", "", "Path to output report file (stdout when empty)")
	reportCmd.Flags().StringVar(&reportConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	reportCmd.Flags().BoolVar(&reportSkipValidation, "skip-validation", false, "Skip JSON Schema validation of the input")

	if err := reportCmd.MarkFlagRequired("project"); err != nil {
		panic(fmt.Sprintf("failed to mark project flag as required: %v", err))
	}

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd, reportConfigPath, func(cfg *config.Config) {
		if cmd.Flags().Changed("format") {
			cfg.ReportFormat = reportFormat
		}
		if cmd.Flags().Changed("skip-validation") {
			cfg.SkipValidation = reportSkipValidation
		}
	})
	if err != nil {
		return err
	}

	content, err := renderReport(reportProject, cfg.ReportFormat, !cfg.SkipValidation, time.Now().UTC())
	if err != nil {
		return err
	}

	if err := writeOutput(cmd, reportOutput, content); err != nil {
		return err
	}
	if reportOutput != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote report to %s\n", reportOutput)
	}
	return nil
}

// renderReport scores the project at path and renders it in the named format
func renderReport(path, formatName string, validateSchema bool, generatedAt time.Time) ([]byte, error) {
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	project, err := readProjectFile(path, validateSchema)
	if err != nil {
		return nil, err
	}

	return report.Render(format, project, scoring.ScoreProject(project), generatedAt)
}
