package backup

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alecthomas/assert"
	"github.com/kjk/bookshelf/catalog"
	"github.com/kjk/bookshelf/require"
)

// fakeS3 implements just enough of S3 API (path-style) for BucketExists,
// PutObject and GetObject of a single bucket
type fakeS3 struct {
	bucket string

	mu      sync.Mutex
	objects map[string][]byte
}

func (s *fakeS3) get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.objects[key]
	return d, ok
}

func (s *fakeS3) put(key string, d []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = d
}

func writeS3Error(w http.ResponseWriter, r *http.Request, code int, s3Code string) {
	if r.Method == http.MethodHead {
		w.WriteHeader(code)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(code)
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>%s</Code><Message>%s</Message><Resource>%s</Resource></Error>`, s3Code, s3Code, r.URL.Path)
}

// decodeAwsChunked decodes body sent with streaming signature:
// <hex size>[;chunk-signature=...]\r\n<data>\r\n ... 0[;...]\r\n[trailers]
func decodeAwsChunked(d []byte) ([]byte, error) {
	var res []byte
	r := bufio.NewReader(bytes.NewReader(d))
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		sizeHex, _, _ := strings.Cut(strings.TrimSpace(line), ";")
		n, err := strconv.ParseInt(sizeHex, 16, 64)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return res, nil
		}
		chunk := make([]byte, n)
		if _, err = io.ReadFull(r, chunk); err != nil {
			return nil, err
		}
		res = append(res, chunk...)
		// \r\n after chunk data
		if _, err = r.Discard(2); err != nil {
			return nil, err
		}
	}
}

func (s *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if bucket != s.bucket {
		writeS3Error(w, r, http.StatusNotFound, "NoSuchBucket")
		return
	}
	if key == "" {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		writeS3Error(w, r, http.StatusNotImplemented, "NotImplemented")
		return
	}

	switch r.Method {
	case http.MethodPut:
		d, err := io.ReadAll(r.Body)
		if err != nil {
			writeS3Error(w, r, http.StatusBadRequest, "IncompleteBody")
			return
		}
		isChunked := strings.HasPrefix(r.Header.Get("X-Amz-Content-Sha256"), "STREAMING") ||
			strings.Contains(r.Header.Get("Content-Encoding"), "aws-chunked")
		if isChunked {
			d, err = decodeAwsChunked(d)
			if err != nil {
				writeS3Error(w, r, http.StatusBadRequest, "InvalidRequest")
				return
			}
		}
		s.put(key, d)
		w.Header().Set("ETag", `"bookshelf-etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet, http.MethodHead:
		d, ok := s.get(key)
		if !ok {
			writeS3Error(w, r, http.StatusNotFound, "NoSuchKey")
			return
		}
		h := w.Header()
		h.Set("Content-Type", "application/json")
		h.Set("Content-Length", strconv.Itoa(len(d)))
		h.Set("ETag", `"bookshelf-etag"`)
		h.Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(d)
		}
	default:
		writeS3Error(w, r, http.StatusMethodNotAllowed, "MethodNotAllowed")
	}
}

func newTestConfig(t *testing.T, bucket string) (*Config, *fakeS3) {
	fake := &fakeS3{
		bucket:  "books",
		objects: map[string][]byte{},
	}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	config := &Config{
		Access:   "key",
		Secret:   "secret",
		Bucket:   bucket,
		Endpoint: u.Host,
		Region:   "us-east-1",
		Insecure: true,
	}
	return config, fake
}

func newTestClient(t *testing.T) (*Client, *fakeS3) {
	config, fake := newTestConfig(t, "books")
	c, err := New(config)
	require.NoError(t, err)
	assert.Equal(t, "books", c.Bucket)
	return c, fake
}

func TestNewMissingBucket(t *testing.T) {
	config, _ := newTestConfig(t, "no-such-bucket")
	_, err := New(config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "doesn't exist")
}

func TestUpload(t *testing.T) {
	c, fake := newTestClient(t)
	path := filepath.Join(t.TempDir(), "library.json")
	books := []catalog.Book{
		{Title: "Dune", Author: "Frank Herbert", Year: "1965", Genre: "SciFi"},
		{Title: "Emma", Author: "Jane Austen", Year: "1815", Genre: "Novel", Read: true},
	}
	require.NoError(t, catalog.Persist(path, books))

	remotePath, err := c.Upload(path)
	require.NoError(t, err)
	assert.Equal(t, "bookshelf/library.json.br", remotePath)

	d, ok := fake.get(remotePath)
	require.True(t, ok)
	got, err := decodeBackup(d)
	require.NoError(t, err)
	assert.Equal(t, books, got)
}

func TestUploadInvalidCatalog(t *testing.T) {
	c, fake := newTestClient(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "library.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err := c.Upload(path)
	assert.Error(t, err)

	// missing catalog is an empty catalog
	path = filepath.Join(dir, "other.json")
	remotePath, err := c.Upload(path)
	require.NoError(t, err)
	d, ok := fake.get(remotePath)
	require.True(t, ok)
	got, err := decodeBackup(d)
	require.NoError(t, err)
	assert.Len(t, got, 0)

	_, ok = fake.get(RemotePath("library.json"))
	assert.False(t, ok)
}

func TestRestore(t *testing.T) {
	c, fake := newTestClient(t)
	path := filepath.Join(t.TempDir(), "library.json")
	books := []catalog.Book{
		{Title: "Neuromancer", Author: "William Gibson", Year: "1984", Genre: "SciFi", Read: true},
	}
	d, err := catalog.Marshal(books)
	require.NoError(t, err)
	d, err = brotliCompress(d)
	require.NoError(t, err)
	fake.put(RemotePath(path), d)

	require.NoError(t, catalog.Persist(path, []catalog.Book{
		{Title: "Dune", Author: "Frank Herbert", Year: "1965", Genre: "SciFi"},
		{Title: "Emma", Author: "Jane Austen", Year: "1815", Genre: "Novel"},
	}))
	n, err := c.Restore(path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, err := catalog.Load(path)
	require.NoError(t, err)
	assert.Equal(t, books, got)
}

func TestRestoreFailureKeepsCatalog(t *testing.T) {
	c, fake := newTestClient(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "library.json")
	books := []catalog.Book{
		{Title: "Dune", Author: "Frank Herbert", Year: "1965", Genre: "SciFi"},
	}
	require.NoError(t, catalog.Persist(path, books))

	// nothing was backed up
	_, err := c.Restore(path)
	assert.Error(t, err)

	// backup is not brotli-compressed json
	fake.put(RemotePath(path), []byte("garbage"))
	_, err = c.Restore(path)
	assert.Error(t, err)

	got, err := catalog.Load(path)
	require.NoError(t, err)
	assert.Equal(t, books, got)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
