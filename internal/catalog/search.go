// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/arxiv-corpus/pkg/types"
)

// SearchOptions holds parameters for catalog queries.
type SearchOptions struct {
	// Query is the FTS5 full-text search string matched against the
	// abstract text. Empty means no text filter.
	Query string

	// Category filters by harvest category.
	Category string

	// WithAbstract restricts results to papers whose abstract was
	// located.
	WithAbstract bool

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Row is a catalog Record joined with its paper identifier.
type Row struct {
	ID string
	types.Record
}

// Search queries the catalog with optional full-text search over
// abstracts and structured filters. Full-text matches come back in
// relevance order; structured-only queries sort by category and
// identifier.
func (s *Store) Search(ctx context.Context, opts SearchOptions) ([]Row, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT p.id, p.cat, p.source_dir, p.pdf_dir, p.num_tex,
				p.abstract, p.abs_start, p.abs_end, p.doc, p.doc_start, p.doc_end,
				p.num_bbl, p.num_folder, p.error, p.abstract_tex
			FROM papers_fts
			JOIN papers p ON p.rowid = papers_fts.rowid
			WHERE papers_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT p.id, p.cat, p.source_dir, p.pdf_dir, p.num_tex,
				p.abstract, p.abs_start, p.abs_end, p.doc, p.doc_start, p.doc_end,
				p.num_bbl, p.num_folder, p.error, p.abstract_tex
			FROM papers p
			WHERE 1=1`)
	}

	if opts.Category != "" {
		qb.WriteString(` AND p.cat = ?`)
		args = append(args, opts.Category)
	}
	if opts.WithAbstract {
		qb.WriteString(` AND p.abstract = 1`)
	}

	if useFTS {
		qb.WriteString(` ORDER BY papers_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY p.cat, p.id`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var results []Row
	for rows.Next() {
		var (
			row     Row
			errCol  sql.NullString
			absText sql.NullString
		)
		if err := rows.Scan(
			&row.ID, &row.Category, &row.SourceDir, &row.PDFDir, &row.NumTex,
			&row.Abstract, &row.AbsStart, &row.AbsEnd,
			&row.Document, &row.DocStart, &row.DocEnd,
			&row.NumBBL, &row.NumFolder, &errCol, &absText,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if errCol.Valid {
			row.Err = errCol.String
		}
		if absText.Valid {
			row.AbstractText = absText.String
		}
		results = append(results, row)
	}

	return results, rows.Err()
}
