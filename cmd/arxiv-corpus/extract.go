package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-corpus/internal/extract"
	"github.com/pdiddy/arxiv-corpus/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [categories...]",
	Short: "Unpack downloaded source bundles into per-paper directories",
	Long: `Extract unpacks every source bundle under the raw directory into
sources/<category>/<id>/. Bundles are sniffed by content: most are
gzipped tarballs, some are a single gzipped .tex file, and some are a
bare PDF the author never uploaded sources for. Corrupt bundles and
PDF-only submissions are reported and skipped.

With no arguments, every category found under the raw directory is
extracted.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("raw-dir", "raw", "harvest output directory")
	extractCmd.Flags().String("sources-dir", "sources", "destination for unpacked source trees")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := types.ExtractConfig{
		RawDir:     stringSetting(cmd, "raw-dir", "harvest.raw_dir"),
		SourcesDir: stringSetting(cmd, "sources-dir", "extract.sources_dir"),
	}

	// Corrupt and PDF-only bundles are tallied, not fatal.
	_, err := extract.Tree(context.Background(), cfg, args, os.Stdout)
	return err
}
