package seed

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompter asks questions on out and reads answers from in, one line each.
// It is not safe for concurrent use.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a Prompter.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Ask prints prompt and returns the trimmed answer. When def is not empty
// it is shown in brackets and returned for a blank answer or at end of
// input.
func (p *Prompter) Ask(prompt, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", prompt, def)
	} else {
		fmt.Fprintf(p.out, "%s ", prompt)
	}

	line, err := p.readLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// Next prompts for a URL. It returns ErrQuit when the user enters q or Q or
// input ends. Blank answers are asked again.
func (p *Prompter) Next() (string, error) {
	for {
		fmt.Fprint(p.out, "Enter URL to scan (or 'q' to finish): ")

		line, err := p.readLine()
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		if strings.EqualFold(line, "q") {
			return "", ErrQuit
		}
		if line != "" {
			return line, nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return "", ErrQuit
		}
	}
}

// Confirm asks a yes/no question. A blank answer or end of input yields
// def; otherwise only y or yes (any case) count as yes.
func (p *Prompter) Confirm(prompt string, def bool) (bool, error) {
	d := "n"
	if def {
		d = "y"
	}

	answer, err := p.Ask(prompt+" (y/n)", d)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// readLine reads one line without its terminator and surrounding spaces.
// A final line without newline is returned together with io.EOF.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	return strings.TrimSpace(line), err
}
