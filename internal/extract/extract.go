// Package extract unpacks harvested source bundles into per-paper
// directories of LaTeX sources.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/arxiv-corpus/pkg/types"
)

// bundleDir is the subdirectory of a harvested category that holds the
// downloaded source bundles.
const bundleDir = "source"

// Result holds the outcome of an extraction run.
type Result struct {
	Extracted int
	Skipped   int
	PDFOnly   int
	Corrupt   int
}

// Total returns the number of bundles processed.
func (r Result) Total() int {
	return r.Extracted + r.Skipped + r.PDFOnly + r.Corrupt
}

// Tree unpacks every bundle under cfg.RawDir into cfg.SourcesDir,
// mirroring the category layout: <raw>/<cat>/source/<id> becomes
// <sources>/<cat>/<id>/. An empty cats slice means every category
// present on disk. Papers already extracted are skipped. Bare-PDF and
// corrupt bundles are counted and left in place; they do not stop the
// run.
func Tree(ctx context.Context, cfg types.ExtractConfig, cats []string, w io.Writer) (Result, error) {
	if len(cats) == 0 {
		var err error
		cats, err = discoverCategories(cfg.RawDir)
		if err != nil {
			return Result{}, err
		}
	}

	var result Result
	for _, cat := range cats {
		srcDir := filepath.Join(cfg.RawDir, cat, bundleDir)
		entries, err := os.ReadDir(srcDir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return result, fmt.Errorf("reading %s: %w", srcDir, err)
		}

		for _, ent := range entries {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			if ent.IsDir() || strings.HasPrefix(ent.Name(), ".") {
				continue
			}

			stem := bundleStem(ent.Name())
			destDir := filepath.Join(cfg.SourcesDir, cat, stem)
			if _, err := os.Stat(destDir); err == nil {
				fmt.Fprintf(w, "skipped: %s/%s (already extracted)\n", cat, stem)
				result.Skipped++
				continue
			}

			err := Bundle(filepath.Join(srcDir, ent.Name()), destDir)
			switch {
			case err == nil:
				fmt.Fprintf(w, "extracted: %s/%s\n", cat, stem)
				result.Extracted++
			case errors.Is(err, ErrPDFOnly):
				fmt.Fprintf(w, "pdf only: %s/%s\n", cat, stem)
				result.PDFOnly++
			case errors.Is(err, ErrCorrupt):
				fmt.Fprintf(w, "corrupt: %s/%s (%v)\n", cat, stem, err)
				result.Corrupt++
			default:
				return result, fmt.Errorf("extracting %s/%s: %w", cat, stem, err)
			}
		}
	}

	fmt.Fprintf(w, "\nExtract summary: %d extracted, %d skipped, %d pdf-only, %d corrupt (total: %d)\n",
		result.Extracted, result.Skipped, result.PDFOnly, result.Corrupt, result.Total())
	return result, nil
}

// bundleStem strips a container extension when the bundle was saved
// with one. Harvested bundles are extensionless, but bundles copied in
// by hand often keep their .tar.gz or .gz names.
func bundleStem(name string) string {
	name = strings.TrimSuffix(name, ".tar.gz")
	name = strings.TrimSuffix(name, ".gz")
	return name
}

// discoverCategories lists the category directories present under the
// harvest output.
func discoverCategories(rawDir string) ([]string, error) {
	entries, err := os.ReadDir(rawDir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawDir, err)
	}
	var cats []string
	for _, ent := range entries {
		if ent.IsDir() {
			cats = append(cats, ent.Name())
		}
	}
	return cats, nil
}
