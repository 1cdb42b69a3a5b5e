// Package cli implements the interactive menu for managing a catalog.Library
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/kjk/bookshelf/catalog"
	"github.com/kjk/bookshelf/log"
)

const menu = `
Main Menu
1. Add a Book
2. Remove a Book
3. Search for a Book
4. List All Books
5. Mark Book as Read/Unread
6. Show Statistics
7. Sort Books
8. Export Library to TXT
9. Exit
`

// Session runs the menu loop over a single library.
// Errors from saving the library are returned from Run(),
// everything else is reported to the user and the loop continues.
type Session struct {
	Library *catalog.Library
	// where "Export" writes the report
	ExportPath string

	*Prompter
}

func NewSession(lib *catalog.Library, exportPath string, in io.Reader, out io.Writer) *Session {
	if exportPath == "" {
		exportPath = catalog.DefaultReportPath
	}
	return &Session{
		Library:    lib,
		ExportPath: exportPath,
		Prompter:   NewPrompter(in, out),
	}
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Session) successf(format string, args ...any) {
	s.printc("^2", "✅ "+format, args...)
}

func (s *Session) printHeader() {
	s.printc("^6", "╔════════════════════════════════════════════════╗\n")
	s.printc("^6", "║          Welcome to Personal Library!          ║\n")
	s.printc("^6", "╚════════════════════════════════════════════════╝\n")
}

// Run shows the menu until the user picks Exit or input ends.
// A non-nil error means the library couldn't be saved.
func (s *Session) Run() error {
	s.printHeader()
	for {
		s.printf("%s", menu)
		choice, err := s.Line("\nEnter your choice (1-9): ")
		if err != nil {
			return endOfInput(err)
		}
		if choice == "9" {
			s.printc("^6", "\nGoodbye! Happy Reading!\n")
			return nil
		}
		err = s.dispatch(choice)
		if err != nil {
			return endOfInput(err)
		}
	}
}

// io.EOF means the user closed stdin, which is like choosing Exit
func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Session) dispatch(choice string) error {
	switch choice {
	case "1":
		return s.addBook()
	case "2":
		return s.removeBook()
	case "3":
		return s.searchBook()
	case "4":
		s.listBooks()
	case "5":
		return s.toggleRead()
	case "6":
		s.showStatistics()
	case "7":
		return s.sortBooks()
	case "8":
		return s.exportReport()
	default:
		log.Verbosef("invalid menu choice: '%s'\n", choice)
		s.warnf("Invalid choice! Please enter a number from 1 to 9.\n")
	}
	return nil
}

func (s *Session) addBook() error {
	s.printf("\nAdd a New Book\n")
	var b catalog.Book
	var err error
	if b.Title, err = s.NonEmpty("Enter Book Title: "); err != nil {
		return err
	}
	if b.Author, err = s.NonEmpty("Enter Author Name: "); err != nil {
		return err
	}
	if b.Year, err = s.Year("Enter Publication Year: "); err != nil {
		return err
	}
	if b.Genre, err = s.NonEmpty("Enter Book Genre: "); err != nil {
		return err
	}
	if b.Read, err = s.YesNo("Have you read this book? (yes/no): "); err != nil {
		return err
	}
	if err = s.Library.Add(b); err != nil {
		return err
	}
	log.Event("book-added", "title", b.Title, "author", b.Author, "year", b.Year, "read", b.Read)
	s.successf("'%s' added successfully!\n", b.Title)
	return nil
}

func (s *Session) removeBook() error {
	s.printf("\nRemove a Book\n")
	title, err := s.NonEmpty("Enter the title to remove: ")
	if err != nil {
		return err
	}
	b, ok, err := s.Library.Remove(title)
	if err != nil {
		return err
	}
	if !ok {
		s.warnf("Book not found!\n")
		return nil
	}
	log.Event("book-removed", "title", b.Title)
	s.printc("^1", "❌ '%s' removed successfully!\n", title)
	return nil
}

func (s *Session) printBook(b catalog.Book) {
	s.printf("Title: %s\n", b.Title)
	s.printf("Author: %s\n", b.Author)
	s.printf("Year: %s\n", b.Year)
	s.printf("Genre: %s\n", b.Genre)
	s.printf("Read: %s\n", yesNo(b.Read))
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func (s *Session) searchBook() error {
	s.printf("\nSearch for a Book\n")
	title, err := s.NonEmpty("Enter the title to search for: ")
	if err != nil {
		return err
	}
	b, ok := s.Library.Find(title)
	if !ok {
		s.warnf("Book not found!\n")
		return nil
	}
	s.printf("\nBook Found:\n")
	s.printBook(b)
	return nil
}

func (s *Session) printNumbered(books []catalog.Book) {
	for i, b := range books {
		s.printf("%d. %s\n", i+1, catalog.Summary(b))
	}
}

func (s *Session) listBooks() {
	if s.Library.IsEmpty() {
		s.warnf("Your library is empty!\n")
		return
	}
	s.printf("\nYour Book Collection:\n")
	s.printNumbered(s.Library.List())
}

func (s *Session) toggleRead() error {
	s.printf("\nUpdate Read Status\n")
	title, err := s.NonEmpty("Enter the book title: ")
	if err != nil {
		return err
	}
	b, ok, err := s.Library.ToggleRead(title)
	if err != nil {
		return err
	}
	if !ok {
		s.warnf("Book not found!\n")
		return nil
	}
	log.Event("read-toggled", "title", b.Title, "read", b.Read)
	s.successf("'%s' marked as %s.\n", title, b.ReadStatus())
	return nil
}

func (s *Session) showStatistics() {
	st := s.Library.Stats()
	s.printf("\nLibrary Statistics:\n")
	s.printf("Total Books: %d\n", st.Total)
	s.printf("Books Read: %d\n", st.Read)
	s.printf("Books Unread: %d\n", st.Unread)
}

func (s *Session) sortBooks() error {
	s.printf("\nSort Books By:\n1. Title\n2. Year\n3. Read Status\n")
	choice, err := s.Line("Choose an option (1-3): ")
	if err != nil {
		return err
	}
	key, err := catalog.ParseSortKey(choice)
	if err != nil {
		s.warnf("Invalid option.\n")
		return nil
	}
	if s.Library.IsEmpty() {
		s.warnf("Your library is empty!\n")
		return nil
	}
	books, err := s.Library.Sort(key)
	if err != nil {
		s.warnf("Invalid option.\n")
		return nil
	}
	s.printf("\nSorted Book Collection (by %s):\n", key)
	s.printNumbered(books)
	return nil
}

func (s *Session) exportReport() error {
	err := s.Library.ExportReport(s.ExportPath)
	if errors.Is(err, catalog.ErrNothingToExport) {
		s.warnf("Library is empty. Nothing to export.\n")
		return nil
	}
	if err != nil {
		return err
	}
	log.Event("library-exported", "path", s.ExportPath, "books", s.Library.Len())
	s.successf("Library exported to %s successfully!\n", s.ExportPath)
	return nil
}
