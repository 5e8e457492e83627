// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-corpus/internal/arxiv"
	"github.com/pdiddy/arxiv-corpus/pkg/types"
)

// paperFromEntry builds the sidecar record for a downloaded paper.
func paperFromEntry(entry arxiv.Entry, id, cat, pdfURL, pdfPath, srcPath string) *types.Paper {
	p := &types.Paper{
		ID:         id,
		Category:   cat,
		Title:      strings.TrimSpace(entry.Title),
		Abstract:   strings.TrimSpace(entry.Summary),
		PDFURL:     pdfURL,
		SourceURL:  arxiv.SourceURL(id),
		PDFPath:    pdfPath,
		SourcePath: srcPath,
	}
	for _, a := range entry.Authors {
		p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
	}
	if t, err := time.Parse(time.RFC3339, entry.Published); err == nil {
		p.Published = t
	}
	if t, err := time.Parse(time.RFC3339, entry.Updated); err == nil {
		p.Updated = t
	}
	return p
}

// writeMetadata writes a Paper record to a YAML file.
func writeMetadata(paper *types.Paper, path string) error {
	data, err := yaml.Marshal(paper)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// readMetadata reads a Paper record from a YAML file.
func readMetadata(path string) (*types.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var paper types.Paper
	if err := yaml.Unmarshal(data, &paper); err != nil {
		return nil, err
	}
	return &paper, nil
}
