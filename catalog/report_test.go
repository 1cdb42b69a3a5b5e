package catalog

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert"
	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/kjk/bookshelf/require"
)

const expReport = `Title: Dune
Author: Frank Herbert
Year: 1965
Genre: SciFi
Read: No
----------------------------------------
Title: Neuromancer
Author: William Gibson
Year: 1984
Genre: SciFi
Read: Yes
----------------------------------------
Title: Emma
Author: Jane Austen
Year: 1815
Genre: Novel
Read: Yes
----------------------------------------
`

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	err := WriteReport(&buf, testBooks())
	require.NoError(t, err)
	assert.Equal(t, expReport, buf.String())
}

func TestExportEmpty(t *testing.T) {
	lib := newTestLibrary(t)
	dst := filepath.Join(t.TempDir(), "library_export.txt")
	err := lib.ExportReport(dst)
	assert.True(t, errors.Is(err, ErrNothingToExport))
	assertFileNotExists(t, dst)
}

func TestExportOverwrites(t *testing.T) {
	lib := newTestLibrary(t, testBooks()...)
	dst := filepath.Join(t.TempDir(), "library_export.txt")
	err := os.WriteFile(dst, []byte(strings.Repeat("old content\n", 100)), 0644)
	require.NoError(t, err)

	require.NoError(t, lib.ExportReport(dst))
	d, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, expReport, string(d))
}

func readDecompressed(t *testing.T, path string) string {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	var r io.Reader
	switch filepath.Ext(path) {
	case ".zst":
		zr, err := zstd.NewReader(f)
		require.NoError(t, err)
		defer zr.Close()
		r = zr
	case ".br":
		r = brotli.NewReader(f)
	case ".gz":
		gr, err := gzip.NewReader(f)
		require.NoError(t, err)
		r = gr
	default:
		t.Fatalf("unexpected extension in '%s'", path)
	}
	d, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(d)
}

func TestExportCompressed(t *testing.T) {
	lib := newTestLibrary(t, testBooks()...)
	dir := t.TempDir()
	for _, name := range []string{"report.txt.zst", "report.txt.br", "report.txt.gz"} {
		dst := filepath.Join(dir, name)
		require.NoError(t, lib.ExportReport(dst))
		assert.Equal(t, expReport, readDecompressed(t, dst), name)
	}
}
