// Package backup uploads the catalog file to an S3-compatible bucket
// (S3, R2, minio, B2) and restores it from there
package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"

	"github.com/andybalholm/brotli"
	"github.com/kjk/bookshelf/catalog"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// RemoteDir is the prefix of all objects we create in the bucket
const RemoteDir = "bookshelf"

type Client struct {
	Client *minio.Client
	config *Config
	Bucket string
}

func ctx() context.Context {
	return context.Background()
}

// RemotePath returns the key under which the catalog at localPath is stored
// e.g. "library.json" => "bookshelf/library.json.br"
func RemotePath(localPath string) string {
	name := filepath.Base(localPath)
	return path.Join(RemoteDir, name+".br")
}

func New(config *Config) (*Client, error) {
	if config == nil {
		return nil, errors.New("must provide config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	c := config
	mc, err := minio.New(c.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.Access, c.Secret, ""),
		Region: c.Region,
		Secure: !c.Insecure,
	})
	if err != nil {
		return nil, err
	}
	found, err := mc.BucketExists(ctx(), c.Bucket)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("bucket '%s' doesn't exist", c.Bucket)
	}

	return &Client{
		Client: mc,
		config: config,
		Bucket: c.Bucket,
	}, nil
}

func brotliCompress(d []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, brotli.BestCompression)
	_, err := w.Write(d)
	if err != nil {
		return nil, err
	}
	err = w.Close()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func brotliDecompress(d []byte) ([]byte, error) {
	r := brotli.NewReader(bytes.NewReader(d))
	return io.ReadAll(r)
}

// Upload stores a brotli-compressed copy of the catalog at localPath.
// The catalog is loaded first so that we never upload a corrupted file.
func (c *Client) Upload(localPath string) (string, error) {
	books, err := catalog.Load(localPath)
	if err != nil {
		return "", err
	}
	d, err := catalog.Marshal(books)
	if err != nil {
		return "", err
	}
	d, err = brotliCompress(d)
	if err != nil {
		return "", err
	}
	remotePath := RemotePath(localPath)
	opts := minio.PutObjectOptions{
		ContentType:     "application/json",
		ContentEncoding: "br",
	}
	r := bytes.NewReader(d)
	_, err = c.Client.PutObject(ctx(), c.Bucket, remotePath, r, int64(len(d)), opts)
	if err != nil {
		return "", fmt.Errorf("upload of '%s' as '%s' failed with '%w'", localPath, remotePath, err)
	}
	return remotePath, nil
}

// Restore downloads the catalog backed up from dstPath and replaces dstPath with it.
// Returns number of restored books.
func (c *Client) Restore(dstPath string) (int, error) {
	remotePath := RemotePath(dstPath)
	obj, err := c.Client.GetObject(ctx(), c.Bucket, remotePath, minio.GetObjectOptions{})
	if err != nil {
		return 0, err
	}
	defer obj.Close()
	d, err := io.ReadAll(obj)
	if err != nil {
		return 0, fmt.Errorf("download of '%s' failed with '%w'", remotePath, err)
	}
	books, err := decodeBackup(d)
	if err != nil {
		return 0, fmt.Errorf("'%s' is not a valid backup: %w", remotePath, err)
	}
	// Persist replaces the file atomically
	if err = catalog.Persist(dstPath, books); err != nil {
		return 0, err
	}
	return len(books), nil
}

func decodeBackup(d []byte) ([]catalog.Book, error) {
	d, err := brotliDecompress(d)
	if err != nil {
		return nil, err
	}
	return catalog.Parse(d)
}
