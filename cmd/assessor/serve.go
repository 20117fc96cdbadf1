package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/governance-assessor/internal/config"
	"github.com/jonathan/governance-assessor/internal/server"
)

var (
	serveConfigPath  string
	servePort        int
	serveDatabaseURL string
	serveCatalogPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for scoring, storing and versioning assessments.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port to listen on")
	serveCmd.Flags().StringVar(&serveDatabaseURL, "db-url", "", "postgres:// or sqlite:// URL (defaults to DATABASE_URL env var)")
	serveCmd.Flags().StringVar(&serveCatalogPath, "catalog", "", "Path to a YAML standards catalog (defaults to the built-in catalog)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd, serveConfigPath, func(cfg *config.Config) {
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		if cmd.Flags().Changed("db-url") {
			cfg.DatabaseURL = serveDatabaseURL
		}
		if cmd.Flags().Changed("catalog") {
			cfg.CatalogPath = serveCatalogPath
		}
	})
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Port:           cfg.Port,
		DatabaseURL:    cfg.DatabaseURL,
		CatalogPath:    cfg.CatalogPath,
		SkipValidation: cfg.SkipValidation,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
