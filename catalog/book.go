package catalog

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrEmptyField is returned by Validate when a required field is blank
	ErrEmptyField = errors.New("field cannot be empty")
	// ErrInvalidYear is returned by Validate when year has non-digit characters
	ErrInvalidYear = errors.New("year must contain only digits")
)

// Book is a single catalog entry.
// Year is kept as text, it's only checked to be all digits.
type Book struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   string `json:"year"`
	Genre  string `json:"genre"`
	Read   bool   `json:"read"`
}

// IsBlank returns true if s is empty or only has white space
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsYear returns true if s is non-empty and every character is a digit
func IsYear(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Validate checks the input contract: all text fields are non-blank
// and year is all digits
func (b *Book) Validate() error {
	fields := []struct {
		name string
		val  string
	}{
		{"title", b.Title},
		{"author", b.Author},
		{"year", b.Year},
		{"genre", b.Genre},
	}
	for _, f := range fields {
		if IsBlank(f.val) {
			return fmt.Errorf("%s: %w", f.name, ErrEmptyField)
		}
	}
	if !IsYear(b.Year) {
		return fmt.Errorf("year '%s': %w", b.Year, ErrInvalidYear)
	}
	return nil
}

// ReadStatus returns "Read" or "Not Read"
func (b *Book) ReadStatus() string {
	if b.Read {
		return "Read"
	}
	return "Not Read"
}

// Summary renders b as a single line:
// <title> by <author> (<year>) - <genre> - Read|Not Read
func Summary(b Book) string {
	return fmt.Sprintf("%s by %s (%s) - %s - %s", b.Title, b.Author, b.Year, b.Genre, b.ReadStatus())
}

func titleMatches(b *Book, title string) bool {
	return strings.EqualFold(b.Title, title)
}
