package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that talk to arxiv.org.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxiv-corpus/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// Contact is an optional mail address appended to the User-Agent,
	// per arXiv API etiquette for bulk clients.
	Contact string `json:"contact,omitempty" yaml:"contact,omitempty"`
}

// UserAgentString returns the User-Agent header value, including the
// contact address when one is configured.
func (c HTTPConfig) UserAgentString() string {
	if c.Contact == "" {
		return c.UserAgent
	}
	return c.UserAgent + " (mailto:" + c.Contact + ")"
}

// HarvestConfig holds settings for the harvest stage.
type HarvestConfig struct {
	HTTPConfig `yaml:",inline"`

	// RawDir is the base directory for downloads. PDFs land in
	// <raw>/<category>/ and source bundles in <raw>/<category>/source/.
	RawDir string `json:"raw_dir" yaml:"raw_dir"`

	// PapersPerCategory is how many papers to fetch per category.
	PapersPerCategory int `json:"papers_per_category" yaml:"papers_per_category"`

	// PageSize is the number of results requested per API call.
	// The API caps a single request at 1000 results.
	PageSize int `json:"page_size" yaml:"page_size"`

	// PaperDelay is the pause between consecutive paper downloads
	// (default 500ms).
	PaperDelay time.Duration `json:"paper_delay" yaml:"paper_delay"`

	// PageDelay is the pause between consecutive API result pages
	// (default 2s).
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`

	// MaxRetries is the retry budget for rate-limited requests.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ExtractConfig holds settings for the source extraction stage.
type ExtractConfig struct {
	// RawDir is the harvest output directory (contains <category>/source/).
	RawDir string `json:"raw_dir" yaml:"raw_dir"`

	// SourcesDir is the destination for unpacked source trees,
	// laid out as <category>/<id>/.
	SourcesDir string `json:"sources_dir" yaml:"sources_dir"`
}

// CatalogConfig holds settings for the catalog stage.
type CatalogConfig struct {
	// RawDir is the harvest output directory, used to locate each
	// paper's PDF.
	RawDir string `json:"raw_dir" yaml:"raw_dir"`

	// SourcesDir is the extracted source tree scanned for .tex files.
	SourcesDir string `json:"sources_dir" yaml:"sources_dir"`

	// CatalogDir is where arxiv.csv and corpus.db are written.
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`

	// Jobs is the number of concurrent document scans (default 4).
	Jobs int `json:"jobs" yaml:"jobs"`

	// MaxResults is the default maximum number of search results
	// (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Harvest HarvestConfig `json:"harvest" yaml:"harvest"`
	Extract ExtractConfig `json:"extract" yaml:"extract"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
}
