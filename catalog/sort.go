package catalog

import (
	"errors"
	"slices"
	"strings"
)

// ErrInvalidSortKey is returned for sort keys other than title, year, read
var ErrInvalidSortKey = errors.New("invalid sort option")

type SortKey int

const (
	SortInvalid SortKey = iota
	SortByTitle
	SortByYear
	SortByRead
)

func (k SortKey) String() string {
	switch k {
	case SortByTitle:
		return "title"
	case SortByYear:
		return "year"
	case SortByRead:
		return "read"
	}
	return "invalid"
}

// ParseSortKey accepts menu numbers ("1", "2", "3") or
// key names ("title", "year", "read")
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "title":
		return SortByTitle, nil
	case "2", "year":
		return SortByYear, nil
	case "3", "read", "read-status", "status":
		return SortByRead, nil
	}
	return SortInvalid, ErrInvalidSortKey
}

// SortBooks returns a sorted copy of books. Sorting is stable:
// books that compare equal keep their relative order.
//
// Years are compared as text, not as numbers, so "999" sorts after "1965".
func SortBooks(books []Book, key SortKey) ([]Book, error) {
	var cmp func(a, b Book) int
	switch key {
	case SortByTitle:
		cmp = func(a, b Book) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	case SortByYear:
		cmp = func(a, b Book) int {
			return strings.Compare(a.Year, b.Year)
		}
	case SortByRead:
		// read before unread
		cmp = func(a, b Book) int {
			if a.Read == b.Read {
				return 0
			}
			if a.Read {
				return -1
			}
			return 1
		}
	default:
		return nil, ErrInvalidSortKey
	}
	res := slices.Clone(books)
	slices.SortStableFunc(res, cmp)
	return res, nil
}

// Sort returns books ordered by key. The library itself is not modified.
func (l *Library) Sort(key SortKey) ([]Book, error) {
	return SortBooks(l.Books, key)
}
