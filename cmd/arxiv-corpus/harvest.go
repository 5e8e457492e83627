package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-corpus/internal/arxiv"
	"github.com/pdiddy/arxiv-corpus/internal/harvest"
	"github.com/pdiddy/arxiv-corpus/pkg/types"
)

const (
	defaultTimeout    = 60 * time.Second
	defaultUserAgent  = "arxiv-corpus/0.1"
	defaultPaperDelay = 500 * time.Millisecond
	defaultPageDelay  = 2 * time.Second
	defaultRetries    = 5
)

var harvestCmd = &cobra.Command{
	Use:   "harvest [categories...]",
	Short: "Download PDFs and LaTeX source bundles from arXiv",
	Long: `Harvest queries the arXiv API for the most recently updated papers in
each category and downloads their PDFs and source bundles into the raw
directory. A metadata sidecar is written next to each PDF. Papers
already on disk are skipped, so interrupted runs can be resumed.

With no arguments, all known categories are harvested.`,
	RunE: runHarvest,
}

var harvestRepairCmd = &cobra.Command{
	Use:   "repair [categories...]",
	Short: "Download source bundles missing for already-harvested PDFs",
	Long: `Repair walks the raw directory and downloads the source bundle for
every PDF that does not have one, without touching the arXiv API search
endpoint. Useful after a run interrupted mid-category.`,
	RunE: runRepair,
}

func init() {
	// Shared flags on the parent command, inherited by repair.
	harvestCmd.PersistentFlags().String("raw-dir", "raw", "base directory for downloads")
	harvestCmd.PersistentFlags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	harvestCmd.PersistentFlags().Duration("paper-delay", defaultPaperDelay, "pause between paper downloads")
	harvestCmd.PersistentFlags().Duration("page-delay", defaultPageDelay, "pause between API result pages")
	harvestCmd.PersistentFlags().String("contact", "", "contact mail address appended to the User-Agent")
	harvestCmd.PersistentFlags().Int("max-retries", defaultRetries, "retry budget for rate-limited requests")
	harvestCmd.PersistentFlags().Int("count", 0, "papers to fetch per category (default 500)")
	harvestCmd.PersistentFlags().Int("page-size", 0, "API results per request (default 1000)")

	harvestCmd.AddCommand(harvestRepairCmd)
	rootCmd.AddCommand(harvestCmd)
}

// categoriesFromArgs validates the requested categories, defaulting to
// the full known set when none are named.
func categoriesFromArgs(args []string) ([]string, error) {
	if len(args) == 0 {
		return arxiv.Categories, nil
	}
	for _, cat := range args {
		if !arxiv.ValidCategory(cat) {
			return nil, fmt.Errorf("unknown category %q (known: %v)", cat, arxiv.Categories)
		}
	}
	return args, nil
}

func harvestConfig(cmd *cobra.Command) types.HarvestConfig {
	return types.HarvestConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   durationSetting(cmd, "timeout", "harvest.timeout"),
			UserAgent: defaultUserAgent,
			Contact:   stringSetting(cmd, "contact", "harvest.contact"),
		},
		RawDir:            stringSetting(cmd, "raw-dir", "harvest.raw_dir"),
		PapersPerCategory: intSetting(cmd, "count", "harvest.count"),
		PageSize:          intSetting(cmd, "page-size", "harvest.page_size"),
		PaperDelay:        durationSetting(cmd, "paper-delay", "harvest.paper_delay"),
		PageDelay:         durationSetting(cmd, "page-delay", "harvest.page_delay"),
		MaxRetries:        intSetting(cmd, "max-retries", "harvest.max_retries"),
	}
}

func harvestClient(cfg types.HarvestConfig) *arxiv.Client {
	return &arxiv.Client{
		HTTP:       &http.Client{Timeout: cfg.Timeout},
		UserAgent:  cfg.UserAgentString(),
		MaxRetries: cfg.MaxRetries,
	}
}

func runHarvest(cmd *cobra.Command, args []string) error {
	cats, err := categoriesFromArgs(args)
	if err != nil {
		return err
	}

	cfg := harvestConfig(cmd)
	result, err := harvest.HarvestAll(context.Background(), harvestClient(cfg), cats, cfg, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d download(s) failed", result.Failed)
	}
	return nil
}

func runRepair(cmd *cobra.Command, args []string) error {
	cats, err := categoriesFromArgs(args)
	if err != nil {
		return err
	}

	cfg := harvestConfig(cmd)
	result, err := harvest.Repair(context.Background(), harvestClient(cfg), cats, cfg, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d download(s) failed", result.Failed)
	}
	return nil
}
