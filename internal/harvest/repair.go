// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/arxiv-corpus/internal/arxiv"
	"github.com/pdiddy/arxiv-corpus/pkg/types"
)

// Repair downloads the source bundles missing for PDFs already on
// disk. Interrupted harvests leave such gaps; Repair closes them
// without touching the feed. The PDF filename only carries the bare
// stem, so old-style papers are fetched via the legacy URL fallback.
func Repair(ctx context.Context, client *arxiv.Client, cats []string, cfg types.HarvestConfig, w io.Writer) (Result, error) {
	var result Result
	for _, cat := range cats {
		pdfDir := filepath.Join(cfg.RawDir, cat)
		srcDir := filepath.Join(pdfDir, sourceDir)

		entries, err := os.ReadDir(pdfDir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return result, fmt.Errorf("reading %s: %w", pdfDir, err)
		}
		if err := os.MkdirAll(srcDir, 0o755); err != nil {
			return result, fmt.Errorf("creating directory %s: %w", srcDir, err)
		}

		for _, ent := range entries {
			if ent.IsDir() || filepath.Ext(ent.Name()) != ".pdf" {
				continue
			}
			stem := strings.TrimSuffix(ent.Name(), ".pdf")
			srcPath := filepath.Join(srcDir, stem)
			result.Papers++

			if _, err := os.Stat(srcPath); err == nil {
				result.Skipped++
				continue
			}

			fmt.Fprintf(w, "downloading: %s source\n", stem)
			if _, err := downloadSource(ctx, client, stem, cat, srcPath); err != nil {
				if ctx.Err() != nil {
					return result, err
				}
				fmt.Fprintf(w, "failed:  %s (%v)\n", stem, err)
				result.Failed++
				continue
			}
			result.Sources++

			if err := pause(ctx, cfg.PaperDelay); err != nil {
				return result, err
			}
		}
	}
	fmt.Fprintf(w, "\nRepair summary: %d papers, %d sources downloaded, %d skipped, %d failed\n",
		result.Papers, result.Sources, result.Skipped, result.Failed)
	return result, nil
}
