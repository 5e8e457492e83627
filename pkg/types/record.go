// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Record is one catalog row: a single extracted paper source folder and
// the outcome of its structural scan. Offsets are rune offsets into the
// scanned document; -1 means the construct was not located. Folders
// holding more than one .tex file are never scanned, so their scan
// fields keep the -1 defaults.
type Record struct {
	// SourceDir is the extracted source folder.
	SourceDir string `json:"source_dir" yaml:"source_dir"`

	// PDFDir is the expected location of the matching PDF under the
	// raw download tree, whether or not the file exists.
	PDFDir string `json:"pdf_dir" yaml:"pdf_dir"`

	// Category is the arXiv category the paper was harvested under.
	Category string `json:"cat" yaml:"cat"`

	// NumTex is the number of .tex files directly in the folder.
	NumTex int `json:"num_tex" yaml:"num_tex"`

	// Abstract reports whether the scan found an abstract declaration;
	// AbsStart and AbsEnd are its offsets.
	Abstract bool `json:"abstract" yaml:"abstract"`
	AbsStart int  `json:"abs_start" yaml:"abs_start"`
	AbsEnd   int  `json:"abs_end" yaml:"abs_end"`

	// Document reports whether the scan found a document body;
	// DocStart and DocEnd are its offsets.
	Document bool `json:"doc" yaml:"doc"`
	DocStart int  `json:"doc_start" yaml:"doc_start"`
	DocEnd   int  `json:"doc_end" yaml:"doc_end"`

	// NumBBL is the number of .bbl files directly in the folder.
	NumBBL int `json:"num_bbl" yaml:"num_bbl"`

	// NumFolder is the number of subdirectories (figures and such).
	NumFolder int `json:"num_folder" yaml:"num_folder"`

	// Err records a per-paper failure (unreadable .tex or PDF);
	// empty when the row was produced cleanly.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`

	// AbstractText is the scanned abstract construct, sliced from the
	// document when the abstract scan succeeds. It feeds the catalog's
	// full-text index and is not part of the CSV report.
	AbstractText string `json:"abstract_text,omitempty" yaml:"abstract_text,omitempty"`
}
