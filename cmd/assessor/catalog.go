package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/governance-assessor/internal/catalog"
	"github.com/jonathan/governance-assessor/internal/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the standards available in the catalog",
	RunE:  runCatalog,
}

var catalogPath string

func init() {
	catalogCmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to a YAML standards catalog (defaults to the built-in catalog)")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return err
	}
	return printCatalog(cmd.OutOrStdout(), cat)
}

// printCatalog writes one row per standard template
func printCatalog(out io.Writer, cat *catalog.Catalog) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tWEIGHT\tQUESTIONS")
	for _, s := range cat.Standards {
		weight := types.DefaultStandardWeight
		if s.Weight != nil {
			weight = *s.Weight
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%d\n", s.ID, s.Name, s.Category, weight, len(s.Questions))
	}
	return tw.Flush()
}
