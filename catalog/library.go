package catalog

import (
	"slices"
)

// Stats summarizes read status of a library.
// Read + Unread is always Total.
type Stats struct {
	Total  int
	Read   int
	Unread int
}

func (l *Library) Len() int {
	return len(l.Books)
}

func (l *Library) IsEmpty() bool {
	return len(l.Books) == 0
}

// index returns position of the first book with a given title
// (case-insensitive) or -1
func (l *Library) index(title string) int {
	for i := range l.Books {
		if titleMatches(&l.Books[i], title) {
			return i
		}
	}
	return -1
}

// Add appends b and saves the library.
// Titles don't have to be unique.
func (l *Library) Add(b Book) error {
	if err := b.Validate(); err != nil {
		return err
	}
	l.Books = append(l.Books, b)
	return l.Save()
}

// Remove deletes the first book whose title matches (case-insensitive).
// Returns false if there's no such book, in which case nothing is written.
func (l *Library) Remove(title string) (Book, bool, error) {
	idx := l.index(title)
	if idx < 0 {
		return Book{}, false, nil
	}
	removed := l.Books[idx]
	l.Books = slices.Delete(l.Books, idx, idx+1)
	return removed, true, l.Save()
}

// Find returns the first book whose title matches (case-insensitive)
func (l *Library) Find(title string) (Book, bool) {
	idx := l.index(title)
	if idx < 0 {
		return Book{}, false
	}
	return l.Books[idx], true
}

// List returns a copy of all books in insertion order
func (l *Library) List() []Book {
	return slices.Clone(l.Books)
}

// ToggleRead flips read status of the first book matching title
// and saves the library. Returns the book after the change.
func (l *Library) ToggleRead(title string) (Book, bool, error) {
	idx := l.index(title)
	if idx < 0 {
		return Book{}, false, nil
	}
	b := &l.Books[idx]
	b.Read = !b.Read
	return *b, true, l.Save()
}

func (l *Library) Stats() Stats {
	var res Stats
	res.Total = len(l.Books)
	for _, b := range l.Books {
		if b.Read {
			res.Read++
		}
	}
	res.Unread = res.Total - res.Read
	return res
}
