// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrPDFOnly marks bundles that are a bare PDF with no LaTeX source.
	ErrPDFOnly = errors.New("bundle is a bare PDF")

	// ErrCorrupt marks bundles that cannot be unpacked.
	ErrCorrupt = errors.New("corrupt bundle")
)

// Bundle unpacks one downloaded e-print bundle into destDir. The
// e-print endpoint serves a gzipped tarball for multi-file submissions,
// a bare gzipped TeX file for single-file ones, and a PDF when no
// source exists; downloads carry no extension, so the container kind is
// sniffed from magic bytes.
func Bundle(srcPath, destDir string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("opening bundle: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	magic, err := br.Peek(4)
	if err != nil {
		return fmt.Errorf("%w: %s is too short", ErrCorrupt, filepath.Base(srcPath))
	}

	switch {
	case magic[0] == 0x1f && magic[1] == 0x8b:
		return unpackGzip(br, destDir)
	case bytes.HasPrefix(magic, []byte("%PDF")):
		return ErrPDFOnly
	default:
		// The endpoint occasionally serves an uncompressed tar.
		return unpackTar(br, destDir)
	}
}

// unpackGzip unwraps the gzip layer and unpacks the tar inside. Single
// file submissions carry no tar layer; their payload is written out as
// <stem>.tex, where stem is the paper identifier destDir is named for.
func unpackGzip(r io.Reader, destDir string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("%w: bad gzip header", ErrCorrupt)
	}
	defer gz.Close()

	br := bufio.NewReader(gz)
	if isTar(br) {
		return unpackTar(br, destDir)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", destDir, err)
	}
	stem := filepath.Base(destDir)
	out, err := os.Create(filepath.Join(destDir, stem+".tex"))
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if _, err := io.Copy(out, br); err != nil {
		out.Close()
		return fmt.Errorf("%w: truncated payload", ErrCorrupt)
	}
	return out.Close()
}

// isTar sniffs the "ustar" magic at offset 257 without consuming input.
func isTar(br *bufio.Reader) bool {
	header, err := br.Peek(262)
	if err != nil {
		return false
	}
	return string(header[257:262]) == "ustar"
}

// unpackTar writes each tar entry under destDir, refusing paths that
// escape it. Entry types other than files and directories are dropped;
// nothing in a LaTeX submission needs them.
func unpackTar(r io.Reader, destDir string) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: reading tar: %v", ErrCorrupt, err)
		}

		path, err := safePath(destDir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(path, 0o755); err != nil {
				return fmt.Errorf("creating directory %s: %w", path, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("creating directory %s: %w", filepath.Dir(path), err)
			}
			out, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating file: %w", err)
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return fmt.Errorf("%w: truncated entry %s", ErrCorrupt, hdr.Name)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("closing file: %w", err)
			}
		}
	}
}

// safePath joins name under destDir and rejects traversal outside it.
func safePath(destDir, name string) (string, error) {
	clean := filepath.Clean(destDir)
	path := filepath.Join(destDir, name)
	if path != clean && !strings.HasPrefix(path, clean+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: entry %q escapes bundle directory", ErrCorrupt, name)
	}
	return path, nil
}
