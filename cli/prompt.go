package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/colour"
	"github.com/kjk/bookshelf/catalog"
)

// Prompter asks questions on out and reads trimmed answers from in,
// one line per answer
type Prompter struct {
	r   *bufio.Reader
	out io.Writer
	c   colour.Printer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		r:   bufio.NewReader(in),
		out: out,
		c:   colour.Colour(out),
	}
}

// printc writes s in a given colour, e.g. "^3" for yellow.
// s is written as-is so it can contain "^"
func (p *Prompter) printc(code string, format string, args ...any) {
	p.c.Print(code)
	fmt.Fprintf(p.out, format, args...)
	p.c.Print("^R")
}

func (p *Prompter) warnf(format string, args ...any) {
	p.printc("^3", "⚠ "+format, args...)
}

// Line prints prompt and returns the next line with surrounding white space removed.
// Returns io.EOF when there's no more input.
func (p *Prompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	s, err := p.r.ReadString('\n')
	if err == io.EOF && s != "" {
		// last line without a newline
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// NonEmpty asks until the answer is not blank
func (p *Prompter) NonEmpty(prompt string) (string, error) {
	for {
		s, err := p.Line(prompt)
		if err != nil {
			return "", err
		}
		if !catalog.IsBlank(s) {
			return s, nil
		}
		p.warnf("This field cannot be empty. Please enter again.\n")
	}
}

// Year asks until the answer is made of digits only
func (p *Prompter) Year(prompt string) (string, error) {
	for {
		s, err := p.Line(prompt)
		if err != nil {
			return "", err
		}
		if catalog.IsYear(s) {
			return s, nil
		}
		p.warnf("Please enter a valid year (numbers only).\n")
	}
}

// YesNo returns true only if the answer is "yes" (in any case).
// Everything else, including "y", is no.
func (p *Prompter) YesNo(prompt string) (bool, error) {
	s, err := p.Line(prompt)
	if err != nil {
		return false, err
	}
	return strings.ToLower(s) == "yes", nil
}
