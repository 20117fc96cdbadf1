package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/governance-assessor/internal/config"
	"github.com/jonathan/governance-assessor/internal/db"
	"github.com/jonathan/governance-assessor/internal/observability"
	"github.com/jonathan/governance-assessor/internal/schemas"
	"github.com/jonathan/governance-assessor/internal/scoring"
	"github.com/jonathan/governance-assessor/internal/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score <project.json>...",
	Short: "Score one or more assessment projects",
	Long: `Scores each Project JSON file and writes a ScoreResult JSON document per project.

With a single input and no --out-dir the result is printed to stdout. Multiple inputs are
scored concurrently and written to --out-dir as <name>.score.json.
Use --save to store each project and a scored version in the database.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScore,
}

var (
	scoreConfigPath     string
	scoreOutDir         string
	scoreVerbose        bool
	scoreSkipValidation bool
	scoreConcurrency    int
	scoreSave           bool
	scoreLabel          string
	scoreDatabaseURL    string
)

func init() {
	scoreCmd.Flags().StringVar(&scoreConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	scoreCmd.Flags().StringVarP(&scoreOutDir, "out-dir", "o", "", "Directory for ScoreResult JSON files")
	scoreCmd.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Print score summaries and recommendations")
	scoreCmd.Flags().BoolVar(&scoreSkipValidation, "skip-validation", false, "Skip JSON Schema validation of inputs")
	scoreCmd.Flags().IntVar(&scoreConcurrency, "concurrency", 0, "Number of projects scored in parallel")
	scoreCmd.Flags().BoolVar(&scoreSave, "save", false, "Store each project and a scored version in the database")
	scoreCmd.Flags().StringVar(&scoreLabel, "label", "", "Version label used with --save")
	scoreCmd.Flags().StringVar(&scoreDatabaseURL, "db-url", "", "postgres:// or sqlite:// URL (defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(scoreCmd)
}

// scoredProject is the outcome of scoring one input file
type scoredProject struct {
	Path    string
	Project *types.Project
	Result  *types.ScoreResult
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd, scoreConfigPath, func(cfg *config.Config) {
		if cmd.Flags().Changed("out-dir") {
			cfg.OutputDir = scoreOutDir
		}
		if cmd.Flags().Changed("verbose") {
			cfg.Verbose = scoreVerbose
		}
		if cmd.Flags().Changed("skip-validation") {
			cfg.SkipValidation = scoreSkipValidation
		}
		if cmd.Flags().Changed("concurrency") {
			cfg.Concurrency = scoreConcurrency
		}
		if cmd.Flags().Changed("db-url") {
			cfg.DatabaseURL = scoreDatabaseURL
		}
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	scored, err := scoreFiles(ctx, args, !cfg.SkipValidation, cfg.Concurrency)
	if err != nil {
		return err
	}

	if scoreSave {
		if err := saveScored(ctx, cfg.DatabaseURL, scoreLabel, scored); err != nil {
			return err
		}
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	for _, sp := range scored {
		output, err := json.MarshalIndent(sp.Result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal score result to JSON: %w", err)
		}

		// Output validation is a safety check, not a requirement
		if err := schemas.ValidateScoreResult(output); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Output validation failed for %s: %v\n", sp.Path, err)
		}

		outPath := ""
		if cfg.OutputDir != "" || len(scored) > 1 {
			outPath = filepath.Join(cfg.OutputDir, scoreFileName(sp.Path))
		}
		if err := writeOutput(cmd, outPath, append(output, '\n')); err != nil {
			return err
		}

		if cfg.Verbose {
			printer.PrintScoreSummary(sp.Project.Name, sp.Result)
			printer.PrintCriticalGaps(sp.Result.StandardScores)
			printer.PrintRecommendations(sp.Result.Recommendations)
		}
		if outPath != "" {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Scored %s: %.2f (%s) -> %s\n", sp.Project.Name, sp.Result.OverallScore, sp.Result.OverallRAG, outPath)
		}
	}

	return nil
}

// scoreFiles reads and scores the given project files with at most concurrency files in flight.
// Results keep the input order; the first failure cancels the remaining work.
func scoreFiles(ctx context.Context, paths []string, validateSchema bool, concurrency int) ([]scoredProject, error) {
	results := make([]scoredProject, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			project, err := readProjectFile(path, validateSchema)
			if err != nil {
				return err
			}
			results[i] = scoredProject{
				Path:    path,
				Project: project,
				Result:  scoring.ScoreProject(project),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// saveScored stores each project and a version holding its score
func saveScored(ctx context.Context, databaseURL, label string, scored []scoredProject) error {
	store, err := db.Open(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	for _, sp := range scored {
		record, err := store.CreateProject(ctx, sp.Project)
		if err != nil {
			return fmt.Errorf("failed to store %s: %w", sp.Path, err)
		}
		if _, err := store.SaveVersion(ctx, record.ID, label, &record.Project, sp.Result); err != nil {
			return fmt.Errorf("failed to store version for %s: %w", sp.Path, err)
		}
		sp.Project.ID = record.ID.String()
	}
	return nil
}

// scoreFileName maps contoso.json to contoso.score.json
func scoreFileName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".score.json"
}

// exists reports whether path exists
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
