package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pdiddy/arxiv-corpus/pkg/types"
)

// csvHeader lists the report columns in their fixed order.
var csvHeader = []string{
	"source_dir", "pdf_dir", "cat", "num_tex",
	"abstract", "abs_start", "abs_end",
	"doc", "doc_start", "doc_end",
	"num_bbl", "num_folder", "error",
}

// WriteCSV writes records to w in the report schema. The abstract text
// itself stays out of the report; it lives in the catalog database.
func WriteCSV(w io.Writer, records []types.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(recordRow(rec)); err != nil {
			return fmt.Errorf("writing record for %s: %w", rec.SourceDir, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func recordRow(rec types.Record) []string {
	return []string{
		rec.SourceDir,
		rec.PDFDir,
		rec.Category,
		strconv.Itoa(rec.NumTex),
		strconv.FormatBool(rec.Abstract),
		strconv.Itoa(rec.AbsStart),
		strconv.Itoa(rec.AbsEnd),
		strconv.FormatBool(rec.Document),
		strconv.Itoa(rec.DocStart),
		strconv.Itoa(rec.DocEnd),
		strconv.Itoa(rec.NumBBL),
		strconv.Itoa(rec.NumFolder),
		rec.Err,
	}
}
