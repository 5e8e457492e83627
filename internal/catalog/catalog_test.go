package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/arxiv-corpus/pkg/types"
)

// --- test helpers ---

func testStoreSetup(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()

	cfg := types.CatalogConfig{
		CatalogDir: filepath.Join(tmpDir, "catalog"),
		MaxResults: 20,
	}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	return store, tmpDir
}

func writeSourceFile(t *testing.T, sourcesDir, cat, id, name, body string) {
	t.Helper()
	path := filepath.Join(sourcesDir, cat, id, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func sampleRecords() []types.Record {
	return []types.Record{
		{
			SourceDir: "sources/cs.ai/2301.07041",
			PDFDir:    "raw/cs.ai/2301.07041.pdf",
			Category:  "cs.ai",
			NumTex:    1,
			Abstract:  true, AbsStart: 24, AbsEnd: 90,
			Document: true, DocStart: 91, DocEnd: 130,
			AbstractText: `\begin{abstract}Transformers with sparse attention.\end{abstract}`,
		},
		{
			SourceDir: "sources/cs.ai/2302.00001",
			PDFDir:    "raw/cs.ai/2302.00001.pdf",
			Category:  "cs.ai",
			NumTex:    2,
			AbsStart:  -1, AbsEnd: -1, DocStart: -1, DocEnd: -1,
		},
		{
			SourceDir: "sources/quant-ph/2303.33333",
			PDFDir:    "raw/quant-ph/2303.33333.pdf",
			Category:  "quant-ph",
			NumTex:    1,
			Abstract:  true, AbsStart: 0, AbsEnd: 70,
			Document: true, DocStart: 71, DocEnd: 110,
			AbstractText: `\begin{abstract}Entanglement entropy in conformal field theory.\end{abstract}`,
		},
	}
}

// --- schema tests ---

func TestNewStoreCreatesSchema(t *testing.T) {
	store, _ := testStoreSetup(t)

	for _, table := range []string{"papers", "papers_fts"} {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type IN ('table','view') AND name = ?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestNewStoreCreatesDBFile(t *testing.T) {
	_, tmpDir := testStoreSetup(t)

	dbPath := filepath.Join(tmpDir, "catalog", dbFile)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file not created at %s", dbPath)
	}
}

// --- build tests ---

const scannableTex = `\documentclass{article}
\begin{abstract}Streaming scanners over LaTeX.\end{abstract}
\begin{document}Body text.\end{document}
`

func TestBuild(t *testing.T) {
	tmpDir := t.TempDir()
	sources := filepath.Join(tmpDir, "sources")
	raw := filepath.Join(tmpDir, "raw")

	// One scannable paper with a bibliography, a figure directory, and
	// a PDF on disk.
	writeSourceFile(t, sources, "cs.ai", "2301.07041", "main.tex", scannableTex)
	writeSourceFile(t, sources, "cs.ai", "2301.07041", "refs.bbl", `\bibitem{a}`)
	writeSourceFile(t, sources, "cs.ai", "2301.07041", "figures/plot.eps", "eps")
	if err := os.MkdirAll(filepath.Join(raw, "cs.ai"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(raw, "cs.ai", "2301.07041.pdf"), []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}

	// One paper with two .tex files: counted, never scanned.
	writeSourceFile(t, sources, "cs.ai", "2302.00001", "a.tex", scannableTex)
	writeSourceFile(t, sources, "cs.ai", "2302.00001", "b.tex", scannableTex)

	// One paper whose lone .tex has no abstract and no PDF on disk.
	writeSourceFile(t, sources, "hep-th", "9901001", "9901001.tex", `\begin{document}No abstract here.\end{document}`)

	cfg := types.CatalogConfig{RawDir: raw, SourcesDir: sources, Jobs: 2}
	var buf bytes.Buffer
	records, result, err := Build(context.Background(), cfg, nil, &buf)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if result.Papers != 3 {
		t.Fatalf("Papers = %d, want 3", result.Papers)
	}
	if result.Scanned != 2 {
		t.Errorf("Scanned = %d, want 2", result.Scanned)
	}
	if result.Abstracts != 1 {
		t.Errorf("Abstracts = %d, want 1", result.Abstracts)
	}
	if result.Errors != 0 {
		t.Errorf("Errors = %d, want 0; output: %s", result.Errors, buf.String())
	}

	// Categories and identifiers come back in directory order.
	scanned := records[0]
	if scanned.Category != "cs.ai" || filepath.Base(scanned.SourceDir) != "2301.07041" {
		t.Fatalf("records[0] = %s/%s, want cs.ai/2301.07041", scanned.Category, filepath.Base(scanned.SourceDir))
	}
	if scanned.NumTex != 1 || scanned.NumBBL != 1 || scanned.NumFolder != 1 {
		t.Errorf("counts = tex %d, bbl %d, folder %d; want 1, 1, 1",
			scanned.NumTex, scanned.NumBBL, scanned.NumFolder)
	}
	if !scanned.Abstract || scanned.AbsStart != 24 || scanned.AbsEnd != 84 {
		t.Errorf("abstract = %v [%d, %d), want true [24, 84)",
			scanned.Abstract, scanned.AbsStart, scanned.AbsEnd)
	}
	if !scanned.Document || scanned.DocStart != 85 || scanned.DocEnd != 125 {
		t.Errorf("document = %v [%d, %d), want true [85, 125)",
			scanned.Document, scanned.DocStart, scanned.DocEnd)
	}
	want := `\begin{abstract}Streaming scanners over LaTeX.\end{abstract}`
	if scanned.AbstractText != want {
		t.Errorf("AbstractText = %q, want %q", scanned.AbstractText, want)
	}
	if scanned.Err != "" {
		t.Errorf("Err = %q, want empty", scanned.Err)
	}

	multi := records[1]
	if multi.NumTex != 2 {
		t.Errorf("multi NumTex = %d, want 2", multi.NumTex)
	}
	if multi.Abstract || multi.AbsStart != -1 || multi.AbsEnd != -1 {
		t.Errorf("multi-tex paper must not be scanned: %+v", multi)
	}

	noAbs := records[2]
	if noAbs.Category != "hep-th" {
		t.Fatalf("records[2] category = %q, want hep-th", noAbs.Category)
	}
	if noAbs.Abstract || noAbs.AbsStart != -1 {
		t.Errorf("paper without abstract: got %v [%d, %d)", noAbs.Abstract, noAbs.AbsStart, noAbs.AbsEnd)
	}
	if !noAbs.Document {
		t.Errorf("document body should be located")
	}
	// The PDF never downloaded is not an error.
	if noAbs.Err != "" {
		t.Errorf("missing PDF should not be an error, got %q", noAbs.Err)
	}
}

func TestBuildManyPapersKeepOrder(t *testing.T) {
	tmpDir := t.TempDir()
	sources := filepath.Join(tmpDir, "sources")

	var ids []string
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("2301.%05d", i)
		ids = append(ids, id)
		writeSourceFile(t, sources, "gr-qc", id, "main.tex", scannableTex)
	}

	cfg := types.CatalogConfig{RawDir: filepath.Join(tmpDir, "raw"), SourcesDir: sources, Jobs: 8}
	var buf bytes.Buffer
	records, result, err := Build(context.Background(), cfg, []string{"gr-qc"}, &buf)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.Papers != 12 || result.Abstracts != 12 {
		t.Fatalf("Papers = %d, Abstracts = %d, want 12 and 12", result.Papers, result.Abstracts)
	}
	for i, rec := range records {
		if got := filepath.Base(rec.SourceDir); got != ids[i] {
			t.Fatalf("records[%d] = %s, want %s", i, got, ids[i])
		}
	}
}

func TestBuildMissingSources(t *testing.T) {
	cfg := types.CatalogConfig{
		RawDir:     filepath.Join(t.TempDir(), "raw"),
		SourcesDir: filepath.Join(t.TempDir(), "does-not-exist"),
	}
	var buf bytes.Buffer
	if _, _, err := Build(context.Background(), cfg, nil, &buf); err == nil {
		t.Fatal("expected error for missing sources directory")
	}

	// A named category that was never extracted is just empty.
	records, result, err := Build(context.Background(), cfg, []string{"cs.ai"}, &buf)
	if err != nil {
		t.Fatalf("Build with named category: %v", err)
	}
	if len(records) != 0 || result.Papers != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

// --- store tests ---

func TestPutAndSearch(t *testing.T) {
	store, _ := testStoreSetup(t)
	ctx := context.Background()

	if err := store.Put(ctx, sampleRecords()); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Structured query: all rows, sorted by category then identifier.
	rows, err := store.Search(ctx, SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0].ID != "2301.07041" || rows[1].ID != "2302.00001" || rows[2].ID != "2303.33333" {
		t.Errorf("row order = %s, %s, %s", rows[0].ID, rows[1].ID, rows[2].ID)
	}
	if rows[0].AbsStart != 24 || rows[0].AbsEnd != 90 {
		t.Errorf("offsets = [%d, %d), want [24, 90)", rows[0].AbsStart, rows[0].AbsEnd)
	}

	// Category filter.
	rows, err = store.Search(ctx, SearchOptions{Category: "quant-ph"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ID != "2303.33333" {
		t.Errorf("category filter returned %d rows", len(rows))
	}

	// Abstract filter.
	rows, err = store.Search(ctx, SearchOptions{WithAbstract: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Errorf("abstract filter returned %d rows, want 2", len(rows))
	}
}

func TestSearchFullText(t *testing.T) {
	store, _ := testStoreSetup(t)
	ctx := context.Background()

	if err := store.Put(ctx, sampleRecords()); err != nil {
		t.Fatal(err)
	}

	rows, err := store.Search(ctx, SearchOptions{Query: "entanglement"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].ID != "2303.33333" {
		t.Errorf("matched %s, want 2303.33333", rows[0].ID)
	}
	if !strings.Contains(rows[0].AbstractText, "Entanglement") {
		t.Errorf("AbstractText = %q", rows[0].AbstractText)
	}

	rows, err = store.Search(ctx, SearchOptions{Query: "nonexistent topic xyz123"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}

	// Full-text and category combined.
	rows, err = store.Search(ctx, SearchOptions{Query: "attention", Category: "cs.ai"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ID != "2301.07041" {
		t.Errorf("combined filter returned %d rows", len(rows))
	}
}

func TestSearchRespectsMaxResults(t *testing.T) {
	store, _ := testStoreSetup(t)
	ctx := context.Background()

	if err := store.Put(ctx, sampleRecords()); err != nil {
		t.Fatal(err)
	}

	rows, err := store.Search(ctx, SearchOptions{MaxResults: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Errorf("got %d rows, want 2", len(rows))
	}
}

func TestPutUpsert(t *testing.T) {
	store, _ := testStoreSetup(t)
	ctx := context.Background()

	recs := sampleRecords()[:1]
	if err := store.Put(ctx, recs); err != nil {
		t.Fatal(err)
	}

	// Re-catalog the same paper with a fresh abstract.
	recs[0].AbstractText = `\begin{abstract}Gamma-ray bursts revisited.\end{abstract}`
	recs[0].AbsEnd = 99
	if err := store.Put(ctx, recs); err != nil {
		t.Fatal(err)
	}

	var count int
	if err := store.db.QueryRow(`SELECT count(*) FROM papers`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("row count = %d, want 1 after upsert", count)
	}

	// The FTS index follows the update: old tokens gone, new ones live.
	rows, err := store.Search(ctx, SearchOptions{Query: "attention"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("stale FTS match after upsert: %d rows", len(rows))
	}
	rows, err = store.Search(ctx, SearchOptions{Query: "bursts"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].AbsEnd != 99 {
		t.Errorf("AbsEnd = %d, want 99", rows[0].AbsEnd)
	}
}

// --- report tests ---

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	r := csv.NewReader(&buf)
	lines, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parsing CSV: %v", err)
	}
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 records", len(lines))
	}

	wantHeader := "source_dir,pdf_dir,cat,num_tex,abstract,abs_start,abs_end,doc,doc_start,doc_end,num_bbl,num_folder,error"
	if got := strings.Join(lines[0], ","); got != wantHeader {
		t.Errorf("header = %q, want %q", got, wantHeader)
	}

	first := lines[1]
	if first[0] != "sources/cs.ai/2301.07041" {
		t.Errorf("source_dir = %q", first[0])
	}
	if first[4] != "true" || first[5] != "24" || first[6] != "90" {
		t.Errorf("abstract columns = %v", first[4:7])
	}

	second := lines[2]
	if second[3] != "2" || second[4] != "false" || second[5] != "-1" {
		t.Errorf("unscanned columns = %v", second[3:6])
	}
}

func TestExportCSV(t *testing.T) {
	store, _ := testStoreSetup(t)
	ctx := context.Background()

	if err := store.Put(ctx, sampleRecords()); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := store.ExportCSV(ctx, &buf, SearchOptions{Category: "cs.ai"}); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	r := csv.NewReader(&buf)
	lines, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 records", len(lines))
	}
	for _, line := range lines[1:] {
		if line[2] != "cs.ai" {
			t.Errorf("cat column = %q, want cs.ai", line[2])
		}
	}
}
