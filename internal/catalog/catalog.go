// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog scans extracted LaTeX sources for abstract and
// document-body markup, reports per-paper records, and maintains a
// SQLite index with full-text search over the located abstracts.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pdiddy/arxiv-corpus/internal/texscan"
	"github.com/pdiddy/arxiv-corpus/pkg/types"
)

// Result holds counts from a catalog build run.
type Result struct {
	Papers    int // paper directories cataloged
	Scanned   int // papers whose lone .tex file was scanned
	Abstracts int // scanned papers with an abstract located
	Errors    int // papers with an unreadable file
}

// job identifies one paper directory to catalog.
type job struct {
	idx int
	cat string
	dir string
}

// Build walks every extracted paper under cfg.SourcesDir and returns
// one Record per paper directory, ordered by category and identifier.
// An empty cats slice means every category present on disk. Papers are
// scanned by cfg.Jobs concurrent workers; each worker writes only its
// own record slots, so the slice needs no locking.
func Build(ctx context.Context, cfg types.CatalogConfig, cats []string, w io.Writer) ([]types.Record, Result, error) {
	if len(cats) == 0 {
		var err error
		cats, err = discoverCategories(cfg.SourcesDir)
		if err != nil {
			return nil, Result{}, err
		}
	}

	var jobs []job
	for _, cat := range cats {
		catDir := filepath.Join(cfg.SourcesDir, cat)
		entries, err := os.ReadDir(catDir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, Result{}, fmt.Errorf("reading %s: %w", catDir, err)
		}
		for _, ent := range entries {
			if !ent.IsDir() {
				continue
			}
			jobs = append(jobs, job{idx: len(jobs), cat: cat, dir: ent.Name()})
		}
	}

	workers := cfg.Jobs
	if workers <= 0 {
		workers = 4
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	records := make([]types.Record, len(jobs))
	abstracts := texscan.NewLocator(texscan.AbstractPatterns())
	documents := texscan.NewLocator(texscan.DocumentPatterns())

	var wg sync.WaitGroup
	jobCh := make(chan job)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for jb := range jobCh {
				records[jb.idx] = buildRecord(cfg, jb, abstracts, documents)
			}
		}()
	}

feed:
	for _, jb := range jobs {
		select {
		case <-ctx.Done():
			break feed
		case jobCh <- jb:
		}
	}
	close(jobCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, Result{}, err
	}

	var result Result
	result.Papers = len(records)
	for _, rec := range records {
		if rec.NumTex == 1 && rec.Err == "" {
			result.Scanned++
		}
		if rec.Abstract {
			result.Abstracts++
		}
		if rec.Err != "" {
			result.Errors++
		}
	}
	fmt.Fprintf(w, "cataloged %d papers: %d scanned, %d abstracts, %d errors\n",
		result.Papers, result.Scanned, result.Abstracts, result.Errors)
	return records, result, nil
}

// buildRecord catalogs one paper directory. Only papers with exactly
// one top-level .tex file are scanned; for the rest the counts alone
// say why not. A missing PDF is normal (some papers never had one
// downloaded), but a PDF that exists and cannot be opened is an error.
func buildRecord(cfg types.CatalogConfig, jb job, abstracts, documents *texscan.Locator) types.Record {
	rec := types.Record{
		SourceDir: filepath.Join(cfg.SourcesDir, jb.cat, jb.dir),
		PDFDir:    filepath.Join(cfg.RawDir, jb.cat, jb.dir+".pdf"),
		Category:  jb.cat,
		AbsStart:  -1,
		AbsEnd:    -1,
		DocStart:  -1,
		DocEnd:    -1,
	}

	entries, err := os.ReadDir(rec.SourceDir)
	if err != nil {
		rec.Err = err.Error()
		return rec
	}

	var texPath string
	for _, ent := range entries {
		if ent.IsDir() {
			rec.NumFolder++
			continue
		}
		switch filepath.Ext(ent.Name()) {
		case ".tex":
			rec.NumTex++
			texPath = filepath.Join(rec.SourceDir, ent.Name())
		case ".bbl":
			rec.NumBBL++
		}
	}

	if rec.NumTex == 1 {
		data, err := os.ReadFile(texPath)
		if err != nil {
			rec.Err = err.Error()
		} else {
			doc := string(data)
			abs := abstracts.Scan(doc)
			rec.Abstract, rec.AbsStart, rec.AbsEnd = abs.Found, abs.Start, abs.End
			if abs.Found {
				rec.AbstractText = texscan.Snippet(doc, abs)
			}
			body := documents.Scan(doc)
			rec.Document, rec.DocStart, rec.DocEnd = body.Found, body.Start, body.End
		}
	}

	if _, err := os.Stat(rec.PDFDir); err == nil {
		f, err := os.Open(rec.PDFDir)
		if err != nil {
			rec.Err = err.Error()
		} else {
			f.Close()
		}
	}

	return rec
}

// discoverCategories lists the category directories present under the
// extracted sources.
func discoverCategories(sourcesDir string) ([]string, error) {
	entries, err := os.ReadDir(sourcesDir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", sourcesDir, err)
	}
	var cats []string
	for _, ent := range entries {
		if ent.IsDir() {
			cats = append(cats, ent.Name())
		}
	}
	return cats, nil
}
