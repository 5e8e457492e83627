// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-corpus/internal/catalog"
	"github.com/pdiddy/arxiv-corpus/pkg/types"
)

const reportFile = "arxiv.csv"

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Build and query the corpus catalog (build, search, export)",
	Long: `Catalog manages the scan catalog built from extracted sources. Use
subcommands to scan the source tree into a CSV report and SQLite
database, query cataloged papers, or export search results.`,
}

// --- build subcommand ---

var catalogBuildCmd = &cobra.Command{
	Use:   "build [categories...]",
	Short: "Scan extracted sources into the CSV report and database",
	Long: `Build walks the extracted source tree, scans each single-.tex paper
for its abstract and document body, and records the results in
catalog/arxiv.csv and a SQLite database with full-text search over the
located abstracts. Re-running updates existing rows in place.`,
	RunE: runCatalogBuild,
}

func runCatalogBuild(cmd *cobra.Command, args []string) error {
	cfg := catalogConfig(cmd)
	cfg.RawDir = stringSetting(cmd, "raw-dir", "harvest.raw_dir")
	cfg.SourcesDir = stringSetting(cmd, "sources-dir", "extract.sources_dir")
	cfg.Jobs = intSetting(cmd, "jobs", "catalog.jobs")

	records, result, err := catalog.Build(context.Background(), cfg, args, os.Stdout)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.CatalogDir, 0o755); err != nil {
		return fmt.Errorf("creating catalog directory: %w", err)
	}
	csvPath := filepath.Join(cfg.CatalogDir, reportFile)
	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	if err := catalog.WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Wrote report to %s\n", csvPath)

	store, err := catalog.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Put(context.Background(), records); err != nil {
		return err
	}
	fmt.Printf("Indexed %d papers\n", len(records))

	if result.Errors > 0 {
		return fmt.Errorf("%d paper(s) failed scanning", result.Errors)
	}
	return nil
}

// --- search subcommand ---

var catalogSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Query the catalog with full-text search and filters",
	Long: `Search queries the catalog using FTS5 full-text search over located
abstracts, structured filters (category, abstract presence), or a
combination of both. Full-text matches are ranked by relevance.`,
	RunE: runCatalogSearch,
}

func runCatalogSearch(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := searchOptsFromFlags(cmd, args)
	rows, err := store.Search(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(rows, jsonOutput)
}

func formatSearchOutput(rows []catalog.Row, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-16s  %-10s  %-4s  %-4s  %s\n",
		"ID", "Cat", "Tex", "Abs", "Abstract")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))

	for _, r := range rows {
		abstract := r.AbstractText
		if len(abstract) > 50 {
			abstract = abstract[:47] + "..."
		}
		abs := "-"
		if r.Abstract {
			abs = "yes"
		}
		fmt.Fprintf(os.Stdout, "%-16s  %-10s  %-4d  %-4s  %s\n",
			r.ID, r.Category, r.NumTex, abs, abstract)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(rows))
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export cataloged papers to CSV",
	Long: `Export writes cataloged papers to CSV, filtered by the same flags as
search. Without --output the CSV goes to stdout.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := searchOptsFromFlags(cmd, args)

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		return store.ExportCSV(context.Background(), os.Stdout, opts)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := store.ExportCSV(context.Background(), f, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", output)
	return nil
}

// --- shared helpers ---

func catalogConfig(cmd *cobra.Command) types.CatalogConfig {
	return types.CatalogConfig{
		CatalogDir: stringSetting(cmd, "catalog-dir", "catalog.dir"),
		MaxResults: intSetting(cmd, "max-results", "catalog.max_results"),
	}
}

func searchOptsFromFlags(cmd *cobra.Command, args []string) catalog.SearchOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	category, _ := cmd.Flags().GetString("category")
	withAbstract, _ := cmd.Flags().GetBool("with-abstract")
	limit, _ := cmd.Flags().GetInt("limit")

	return catalog.SearchOptions{
		Query:        queryText,
		Category:     category,
		WithAbstract: withAbstract,
		MaxResults:   limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	catalogCmd.PersistentFlags().String("catalog-dir", "catalog", "directory holding arxiv.csv and corpus.db")
	catalogCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	// Build flags.
	catalogBuildCmd.Flags().String("raw-dir", "raw", "harvest output directory")
	catalogBuildCmd.Flags().String("sources-dir", "sources", "extracted source tree")
	catalogBuildCmd.Flags().Int("jobs", 0, "concurrent document scans (default 4)")

	// Search flags.
	catalogSearchCmd.Flags().String("query", "", "full-text search query over located abstracts")
	catalogSearchCmd.Flags().String("category", "", "filter by category")
	catalogSearchCmd.Flags().Bool("with-abstract", false, "only papers whose abstract was located")
	catalogSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogSearchCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	catalogExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	catalogExportCmd.Flags().String("category", "", "filter by category")
	catalogExportCmd.Flags().Bool("with-abstract", false, "only papers whose abstract was located")
	catalogExportCmd.Flags().Int("limit", 0, "maximum rows to export (0 = all)")
	catalogExportCmd.Flags().String("output", "", "write CSV to a file instead of stdout")

	// Wire subcommands.
	catalogCmd.AddCommand(catalogBuildCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
