package catalog

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// DefaultReportPath is where ExportReport writes when the caller doesn't pick a path
const DefaultReportPath = "library_export.txt"

// ErrNothingToExport is returned by ExportReport for an empty library
var ErrNothingToExport = errors.New("library is empty, nothing to export")

var reportSeparator = strings.Repeat("-", 40)

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// WriteReport writes a plain-text block for each book:
//
//	Title: ...
//	Author: ...
//	Year: ...
//	Genre: ...
//	Read: Yes|No
//	----------------------------------------
func WriteReport(w io.Writer, books []Book) error {
	bw := bufio.NewWriter(w)
	for _, b := range books {
		fmt.Fprintf(bw, "Title: %s\n", b.Title)
		fmt.Fprintf(bw, "Author: %s\n", b.Author)
		fmt.Fprintf(bw, "Year: %s\n", b.Year)
		fmt.Fprintf(bw, "Genre: %s\n", b.Genre)
		fmt.Fprintf(bw, "Read: %s\n", yesNo(b.Read))
		bw.WriteString(reportSeparator)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// getErr returns first non-nil error
func getErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// newCompressedWriter picks compression based on extension of path.
// For unknown extensions it returns nil, meaning: write uncompressed.
func newCompressedWriter(path string, w io.Writer) (io.WriteCloser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".zst", ".zstd":
		// in my tests zstd.SpeedBestCompression is much slower and not much better
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case ".br":
		return brotli.NewWriterLevel(w, brotli.BestCompression), nil
	case ".gz":
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	}
	return nil, nil
}

// ExportReport writes a report of all books to dst, over-writing it.
// If dst ends with .zst, .br or .gz the report is compressed.
// Returns ErrNothingToExport without touching dst if library is empty.
func (l *Library) ExportReport(dst string) error {
	if l.IsEmpty() {
		return ErrNothingToExport
	}
	err := writeFileAtomically(dst, func(w io.Writer) error {
		cw, err := newCompressedWriter(dst, w)
		if err != nil {
			return err
		}
		if cw == nil {
			return WriteReport(w, l.Books)
		}
		err = WriteReport(cw, l.Books)
		err2 := cw.Close()
		return getErr(err, err2)
	})
	if err != nil {
		return fmt.Errorf("catalog.ExportReport: %w", err)
	}
	return nil
}
