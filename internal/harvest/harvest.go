// Package harvest downloads PDFs and LaTeX source bundles for arXiv
// categories and writes YAML metadata sidecars next to the PDFs.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/arxiv-corpus/internal/arxiv"
	"github.com/pdiddy/arxiv-corpus/internal/httputil"
	"github.com/pdiddy/arxiv-corpus/pkg/types"
)

// sourceDir is the subdirectory of a category that holds its source
// bundles, keeping them apart from the PDFs.
const sourceDir = "source"

// errNotFound marks a 404 from the e-print endpoint so callers can
// retry with the legacy archive-prefixed URL.
var errNotFound = errors.New("not found")

// Result holds the outcome of a harvest run.
type Result struct {
	Papers  int // feed entries processed
	PDFs    int // PDFs downloaded
	Sources int // source bundles downloaded
	Skipped int // files already on disk
	Failed  int // papers with a failed download
}

// HasFailures reports whether any papers failed.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

func (r *Result) merge(o Result) {
	r.Papers += o.Papers
	r.PDFs += o.PDFs
	r.Sources += o.Sources
	r.Skipped += o.Skipped
	r.Failed += o.Failed
}

// HarvestCategory pages through one category's feed and downloads each
// paper's PDF and source bundle, skipping files already on disk. It
// continues after per-paper failures and stops once PapersPerCategory
// entries have been processed or the feed runs out.
func HarvestCategory(ctx context.Context, client *arxiv.Client, cat string, cfg types.HarvestConfig, w io.Writer) (Result, error) {
	pdfDir := filepath.Join(cfg.RawDir, cat)
	srcDir := filepath.Join(pdfDir, sourceDir)
	for _, dir := range []string{pdfDir, srcDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	target := cfg.PapersPerCategory
	if target <= 0 {
		target = 500
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 1000
	}

	var result Result
	for start := 0; result.Papers < target; start += pageSize {
		if start > 0 {
			if err := pause(ctx, cfg.PageDelay); err != nil {
				return result, err
			}
		}

		n := pageSize
		if remaining := target - result.Papers; remaining < n {
			n = remaining
		}
		feed, err := client.SearchCategory(ctx, cat, start, n)
		if err != nil {
			return result, fmt.Errorf("searching %s: %w", cat, err)
		}
		if len(feed.Entries) == 0 {
			break
		}

		for _, entry := range feed.Entries {
			res, err := harvestEntry(ctx, client, entry, cat, pdfDir, srcDir, w)
			result.merge(res)
			result.Papers++
			if err != nil {
				if ctx.Err() != nil {
					return result, err
				}
				fmt.Fprintf(w, "failed:  %s (%v)\n", entry.ID, err)
				result.Failed++
			}
			if err := pause(ctx, cfg.PaperDelay); err != nil {
				return result, err
			}
		}

		// A short page means the feed is exhausted.
		if len(feed.Entries) < n {
			break
		}
	}
	return result, nil
}

// HarvestAll harvests every category in cats sequentially, printing
// progress and a final summary. It continues after category-level
// failures so one bad archive does not abort the run.
func HarvestAll(ctx context.Context, client *arxiv.Client, cats []string, cfg types.HarvestConfig, w io.Writer) (Result, error) {
	var result Result
	for _, cat := range cats {
		fmt.Fprintf(w, "category: %s\n", cat)
		res, err := HarvestCategory(ctx, client, cat, cfg, w)
		result.merge(res)
		if err != nil {
			if ctx.Err() != nil {
				return result, err
			}
			fmt.Fprintf(w, "failed:  %s (%v)\n", cat, err)
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nHarvest summary: %d papers, %d PDFs, %d sources downloaded, %d skipped, %d failed\n",
		result.Papers, result.PDFs, result.Sources, result.Skipped, result.Failed)
	return result, nil
}

// harvestEntry downloads one paper's PDF and source bundle. The PDF's
// metadata sidecar is written right after a fresh PDF download so a
// later source failure never loses it.
func harvestEntry(ctx context.Context, client *arxiv.Client, entry arxiv.Entry, cat, pdfDir, srcDir string, w io.Writer) (Result, error) {
	var res Result

	id := arxiv.EntryID(entry.ID)
	if id == "" {
		return res, fmt.Errorf("entry %q has no usable identifier", entry.ID)
	}
	stem := arxiv.FileStem(id)
	pdfPath := filepath.Join(pdfDir, stem+".pdf")
	srcPath := filepath.Join(srcDir, stem)

	if _, err := os.Stat(pdfPath); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", stem)
		res.Skipped++
	} else {
		pdfURL := entry.PDFLink()
		if pdfURL == "" {
			pdfURL = arxiv.PDFURL(id)
		}
		fmt.Fprintf(w, "downloading: %s\n", stem)
		if err := downloadFile(ctx, client, pdfURL, pdfPath, "application/pdf"); err != nil {
			return res, fmt.Errorf("downloading PDF: %w", err)
		}
		res.PDFs++

		paper := paperFromEntry(entry, id, cat, pdfURL, pdfPath, srcPath)
		if err := writeMetadata(paper, filepath.Join(pdfDir, stem+".yaml")); err != nil {
			return res, fmt.Errorf("writing metadata: %w", err)
		}
	}

	if _, err := os.Stat(srcPath); err == nil {
		fmt.Fprintf(w, "skipped: %s source (already exists)\n", stem)
		res.Skipped++
	} else {
		fmt.Fprintf(w, "downloading: %s source\n", stem)
		if _, err := downloadSource(ctx, client, id, cat, srcPath); err != nil {
			return res, fmt.Errorf("downloading source: %w", err)
		}
		res.Sources++
	}
	return res, nil
}

// downloadSource fetches a paper's source bundle and returns the URL it
// was served from. When the canonical e-print path 404s for a bare stem
// the archive-prefixed legacy path is tried once; papers archived
// before 2007 only answer on that form.
func downloadSource(ctx context.Context, client *arxiv.Client, id, cat, destPath string) (string, error) {
	url := arxiv.SourceURL(id)
	err := downloadFile(ctx, client, url, destPath, "")
	if err == nil {
		return url, nil
	}
	if errors.Is(err, errNotFound) && !strings.Contains(id, "/") {
		legacy := arxiv.LegacySourceURL(cat, id)
		if lerr := downloadFile(ctx, client, legacy, destPath, ""); lerr == nil {
			return legacy, nil
		}
	}
	return "", err
}

// downloadFile fetches url to destPath using a temporary file so a
// partial download never lands at the final path.
func downloadFile(ctx context.Context, client *arxiv.Client, url, destPath, accept string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", client.UserAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := httputil.DoWithRetry(ctx, client.HTTP, req, client.MaxRetries)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("HTTP 404 from %s: %w", url, errNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".harvest-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// pause sleeps for d unless the context ends first. Politeness delays
// between requests keep the harvester inside arXiv's rate limits.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
