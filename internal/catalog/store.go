// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/arxiv-corpus/pkg/types"
)

const dbFile = "corpus.db"

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the catalog database at
// cfg.CatalogDir/corpus.db. It creates the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.CatalogDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.CatalogDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL,
			cat TEXT NOT NULL,
			source_dir TEXT,
			pdf_dir TEXT,
			num_tex INTEGER,
			abstract INTEGER,
			abs_start INTEGER,
			abs_end INTEGER,
			doc INTEGER,
			doc_start INTEGER,
			doc_end INTEGER,
			num_bbl INTEGER,
			num_folder INTEGER,
			error TEXT,
			abstract_tex TEXT,
			UNIQUE(cat, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_cat ON papers(cat)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='papers_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE papers_fts USING fts5(abstract_tex, content=papers, content_rowid=rowid)`,
			`CREATE TRIGGER papers_ai AFTER INSERT ON papers BEGIN
				INSERT INTO papers_fts(rowid, abstract_tex) VALUES (new.rowid, new.abstract_tex);
			END`,
			`CREATE TRIGGER papers_ad AFTER DELETE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, abstract_tex) VALUES('delete', old.rowid, old.abstract_tex);
			END`,
			`CREATE TRIGGER papers_au AFTER UPDATE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, abstract_tex) VALUES('delete', old.rowid, old.abstract_tex);
				INSERT INTO papers_fts(rowid, abstract_tex) VALUES (new.rowid, new.abstract_tex);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Put upserts records into the papers table inside one transaction.
// The conflict clause updates in place, keeping each paper's rowid
// stable so the FTS triggers see an update rather than churn.
func (s *Store) Put(ctx context.Context, records []types.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (id, cat, source_dir, pdf_dir, num_tex,
			abstract, abs_start, abs_end, doc, doc_start, doc_end,
			num_bbl, num_folder, error, abstract_tex)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(cat, id) DO UPDATE SET
			source_dir=excluded.source_dir, pdf_dir=excluded.pdf_dir,
			num_tex=excluded.num_tex, abstract=excluded.abstract,
			abs_start=excluded.abs_start, abs_end=excluded.abs_end,
			doc=excluded.doc, doc_start=excluded.doc_start, doc_end=excluded.doc_end,
			num_bbl=excluded.num_bbl, num_folder=excluded.num_folder,
			error=excluded.error, abstract_tex=excluded.abstract_tex`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			paperID(rec), rec.Category, rec.SourceDir, rec.PDFDir, rec.NumTex,
			rec.Abstract, rec.AbsStart, rec.AbsEnd,
			rec.Document, rec.DocStart, rec.DocEnd,
			rec.NumBBL, rec.NumFolder, rec.Err, rec.AbstractText,
		)
		if err != nil {
			return fmt.Errorf("upserting %s: %w", rec.SourceDir, err)
		}
	}

	return tx.Commit()
}

// paperID derives the arXiv stem from the record's source directory.
func paperID(rec types.Record) string {
	return filepath.Base(rec.SourceDir)
}
