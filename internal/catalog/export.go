// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/arxiv-corpus/pkg/types"
)

const exportLimit = 100000

// ExportCSV writes the catalog rows matching opts to w in the report
// CSV schema. It supports the same filters as Search.
func (s *Store) ExportCSV(ctx context.Context, w io.Writer, opts SearchOptions) error {
	if opts.MaxResults <= 0 {
		opts.MaxResults = exportLimit
	}
	rows, err := s.Search(ctx, opts)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	records := make([]types.Record, len(rows))
	for i, row := range rows {
		records[i] = row.Record
	}
	return WriteCSV(w, records)
}
