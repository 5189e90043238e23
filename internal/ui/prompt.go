package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks line-oriented questions.
type Prompter struct {
	reader *bufio.Reader
	w      io.Writer
}

// NewPrompter reads answers from r and writes questions to w.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{reader: bufio.NewReader(r), w: w}
}

// Reader returns the buffered reader answers are read from. Subprocesses
// that take over input after prompting must read from it, not the
// underlying reader, so input the Prompter has buffered is not lost.
func (p *Prompter) Reader() io.Reader { return p.reader }

// Ask prints "label [def]: " and returns the trimmed answer, or def when the
// answer is empty. End of input is treated as an empty answer.
func (p *Prompter) Ask(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.w, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.w, "%s: ", label)
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	if err == io.EOF && line == "" {
		fmt.Fprintln(p.w)
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// AskValid repeats Ask until valid returns nil, printing each rejection.
// It gives up with the last rejection after attempts tries.
func (p *Prompter) AskValid(label, def string, attempts int, valid func(string) error) (string, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		answer, err := p.Ask(label, def)
		if err != nil {
			return "", err
		}
		if lastErr = valid(answer); lastErr == nil {
			return answer, nil
		}
		fmt.Fprintf(p.w, "  %v\n", lastErr)
	}
	return "", lastErr
}
