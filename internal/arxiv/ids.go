// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"strconv"
	"strings"
)

// EntryID pulls the arXiv ID from an entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041").
// Old-style identifiers keep their archive prefix
// ("http://arxiv.org/abs/hep-th/9901001v2" -> "hep-th/9901001").
func EntryID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	return stripVersion(idURL[idx+len(prefix):])
}

// stripVersion removes a trailing version suffix (e.g. "v1", "v2").
func stripVersion(id string) string {
	vIdx := strings.LastIndex(id, "v")
	if vIdx <= 0 {
		return id
	}
	if _, err := strconv.Atoi(id[vIdx+1:]); err != nil {
		return id
	}
	return id[:vIdx]
}

// FileStem returns the filesystem-safe stem for an arXiv ID: the part
// after the archive prefix for old-style IDs, the ID itself otherwise.
func FileStem(id string) string {
	if idx := strings.LastIndex(id, "/"); idx >= 0 {
		return id[idx+1:]
	}
	return id
}

// PDFURL returns the canonical PDF endpoint for an arXiv ID. Used when
// the feed entry carries no explicit PDF link.
func PDFURL(id string) string {
	return PDFBase + id + ".pdf"
}

// SourceURL returns the e-print endpoint serving the LaTeX source
// bundle for an arXiv ID.
func SourceURL(id string) string {
	return EPrintBase + id
}

// LegacySourceURL returns the e-print endpoint for papers archived
// before categories were folded into the identifier. The stem alone
// 404s for those papers; the archive must prefix the path.
func LegacySourceURL(cat, stem string) string {
	return EPrintBase + cat + "/" + stem
}
