// Package main provides the entry point for the governance assessment CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "assessor",
	Short: "Power Platform governance assessment scoring",
	Long:  "Assessor scores Power Platform governance assessments: per-question sub-scores, weighted standard and project roll-ups, RAG status, risk profile and prioritised recommendations.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
