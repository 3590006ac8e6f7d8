// Package stream implements the presentation collaborator over plain text
// streams. It is the default front end for a pipe or a line-mode terminal
// and the harness tests drive sessions with.
package stream

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cory-johannsen/adventure/internal/game/session"
)

// Presenter renders session snapshots to a writer and reads player input
// line by line from a reader.
type Presenter struct {
	in      *bufio.Reader
	out     io.Writer
	lastSeq int
}

// New creates a Presenter over the given streams.
//
// Precondition: in and out must be non-nil.
func New(in io.Reader, out io.Writer) *Presenter {
	return &Presenter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Render prints the transcript messages appended since the previous
// render, followed by the input prompt. The snapshot sequence number
// tells how many of the retained messages are new; messages evicted
// before they were ever rendered are simply gone, matching the bounded
// transcript contract.
//
// Postcondition: Returns a non-nil error only on write failure.
func (p *Presenter) Render(snap session.Snapshot) error {
	newCount := snap.Seq - p.lastSeq
	if newCount > len(snap.Messages) {
		newCount = len(snap.Messages)
	}
	p.lastSeq = snap.Seq

	for _, msg := range snap.Messages[len(snap.Messages)-newCount:] {
		if _, err := fmt.Fprintln(p.out, msg); err != nil {
			return fmt.Errorf("writing transcript: %w", err)
		}
	}
	if _, err := fmt.Fprint(p.out, "> "); err != nil {
		return fmt.Errorf("writing prompt: %w", err)
	}
	return nil
}

// ReadLine blocks until one full line is available and returns it without
// the trailing newline. It returns io.EOF when the stream ends, which the
// session treats as quit.
func (p *Presenter) ReadLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			// A final unterminated line still counts as input.
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
