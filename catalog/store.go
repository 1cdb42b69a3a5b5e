package catalog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/pretty"
)

// DefaultPath is the catalog file used when the caller doesn't pick one
const DefaultPath = "library.json"

var prettyOptions = &pretty.Options{
	Width:  80,
	Indent: "    ",
}

// Library is an ordered list of books backed by a JSON file at Path.
// Every mutating method re-writes the whole file before returning.
// Library is not safe for concurrent use.
type Library struct {
	Path  string
	Books []Book
}

// New returns an empty library that will be saved to path
func New(path string) *Library {
	return &Library{
		Path:  path,
		Books: []Book{},
	}
}

// Open loads library from path. Missing file is not an error,
// it gives an empty library.
func Open(path string) (*Library, error) {
	books, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Library{
		Path:  path,
		Books: books,
	}, nil
}

// Load reads books from path, returns empty slice if path doesn't exist
func Load(path string) ([]Book, error) {
	d, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Book{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog.Load: %w", err)
	}
	books, err := Parse(d)
	if err != nil {
		return nil, fmt.Errorf("catalog.Load: '%s': %w", path, err)
	}
	return books, nil
}

// Parse decodes JSON-serialized books. Records are not validated.
func Parse(d []byte) ([]Book, error) {
	var books []Book
	if err := jsoniter.ConfigFastest.Unmarshal(d, &books); err != nil {
		return nil, err
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// Marshal serializes books as a pretty-printed JSON array
func Marshal(books []Book) ([]byte, error) {
	if books == nil {
		// we want [] and not null
		books = []Book{}
	}
	d, err := jsoniter.ConfigFastest.Marshal(books)
	if err != nil {
		return nil, err
	}
	return pretty.PrettyOptions(d, prettyOptions), nil
}

// Persist over-writes path with books. The file is replaced atomically
// so a failed write leaves the previous version in place.
func Persist(path string, books []Book) error {
	d, err := Marshal(books)
	if err != nil {
		return err
	}
	err = writeFileAtomically(path, func(w io.Writer) error {
		_, err := w.Write(d)
		return err
	})
	if err != nil {
		return fmt.Errorf("catalog.Persist: %w", err)
	}
	return nil
}

// Save writes the library to l.Path
func (l *Library) Save() error {
	return Persist(l.Path, l.Books)
}
