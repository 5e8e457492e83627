// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Paper holds metadata and file paths for a harvested paper. It is
// written as a YAML sidecar next to the downloaded PDF.
type Paper struct {
	// ID is the arXiv identifier (e.g. "2301.07041" or
	// "astro-ph/0701123" for old-style identifiers).
	ID string `json:"id" yaml:"id"`

	// Category is the harvest category the paper was fetched under.
	Category string `json:"category" yaml:"category"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in feed order.
	Authors []string `json:"authors" yaml:"authors"`

	// Published is the first-version publication date.
	Published time.Time `json:"published" yaml:"published"`

	// Updated is the latest revision date.
	Updated time.Time `json:"updated,omitempty" yaml:"updated,omitempty"`

	// Abstract is the abstract as reported by the API feed.
	Abstract string `json:"abstract" yaml:"abstract"`

	// PDFURL is the URL the PDF was downloaded from.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// SourceURL is the URL the source bundle was downloaded from.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`

	// PDFPath is the local path of the downloaded PDF.
	PDFPath string `json:"pdf_path" yaml:"pdf_path"`

	// SourcePath is the local path of the downloaded source bundle.
	SourcePath string `json:"source_path,omitempty" yaml:"source_path,omitempty"`
}
