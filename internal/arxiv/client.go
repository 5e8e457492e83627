// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv talks to the arXiv export API and resolves the URLs
// for a paper's PDF and LaTeX source bundle.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/pdiddy/arxiv-corpus/internal/httputil"
)

// Base URLs for the arXiv endpoints. Declared as vars so tests can
// substitute httptest servers.
var (
	APIBase    = "https://export.arxiv.org/api/query"
	PDFBase    = "https://arxiv.org/pdf/"
	EPrintBase = "https://arxiv.org/e-print/"
)

// Categories is the default set of archives harvested into the corpus.
var Categories = []string{
	"astro-ph",
	"cond-mat",
	"gr-qc",
	"hep-ex",
	"hep-lat",
	"hep-ph",
	"hep-th",
	"math-ph",
	"nucl-ex",
	"nucl-th",
	"quant-ph",
	"cs.ai",
	"math.at",
}

// ValidCategory reports whether cat is one of the harvested categories.
func ValidCategory(cat string) bool {
	for _, c := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// Client queries the arXiv API with polite retry behaviour.
type Client struct {
	HTTP       *http.Client
	UserAgent  string
	MaxRetries int
}

// Search runs a raw search_query against the API, requesting maxResults
// entries starting at the given offset. Results are ordered newest
// update first so repeated harvests see fresh papers.
func (c *Client) Search(ctx context.Context, query string, start, maxResults int) (*Feed, error) {
	url := fmt.Sprintf("%s?search_query=%s&start=%d&max_results=%d&sortBy=lastUpdatedDate&sortOrder=descending",
		APIBase, query, start, maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed Feed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return &feed, nil
}

// SearchCategory searches within a single archive category.
func (c *Client) SearchCategory(ctx context.Context, cat string, start, maxResults int) (*Feed, error) {
	return c.Search(ctx, "cat:"+cat, start, maxResults)
}
