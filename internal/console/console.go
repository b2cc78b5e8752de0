// Package console is the terminal side of the workflow: multi-line text
// entry closed by a sentinel line and a strict yes/no prompt.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Sentinel ends a multi-line entry. It is matched trimmed and
// case-insensitively.
const Sentinel = "//done"

type line struct {
	text string
	err  error
}

// Console reads lines from in and writes prompts to out. A single reader
// goroutine feeds lines on demand so that a blocked read can be abandoned
// when the context is cancelled.
type Console struct {
	out io.Writer

	once    sync.Once
	scanner *bufio.Scanner
	want    chan struct{}
	lines   chan line
}

func New(in io.Reader, out io.Writer) *Console {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Console{
		out:     out,
		scanner: sc,
		want:    make(chan struct{}),
		lines:   make(chan line),
	}
}

func (c *Console) start() {
	go func() {
		for range c.want {
			if c.scanner.Scan() {
				c.lines <- line{text: c.scanner.Text()}
				continue
			}
			err := c.scanner.Err()
			if err == nil {
				err = io.EOF
			}
			c.lines <- line{err: err}
		}
	}()
}

// readLine blocks for the next input line or until ctx is done. After EOF
// every call returns io.EOF.
func (c *Console) readLine(ctx context.Context) (string, error) {
	c.once.Do(c.start)

	select {
	case c.want <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case l := <-c.lines:
		return l.text, l.err
	case <-ctx.Done():
		// discard the line in flight so the reader goroutine is not stuck
		go func() { <-c.lines }()
		return "", ctx.Err()
	}
}

// ReadMultiline prints prompt and collects lines until the sentinel. EOF
// before the sentinel returns what was entered so far when it is not empty.
func (c *Console) ReadMultiline(ctx context.Context, prompt string) (string, error) {
	fmt.Fprintln(c.out, prompt)
	fmt.Fprintln(c.out, "Enter your text below. You can use multiple lines.")
	fmt.Fprintf(c.out, "When you're done, enter '%s' on a new line.\n", Sentinel)

	var lines []string
	for {
		text, err := c.readLine(ctx)
		if err == io.EOF && len(lines) > 0 {
			break
		}
		if err != nil {
			return "", err
		}
		if strings.EqualFold(strings.TrimSpace(text), Sentinel) {
			break
		}
		lines = append(lines, text)
	}
	return strings.Join(lines, "\n"), nil
}

// Confirm asks question until the answer is yes or no.
func (c *Console) Confirm(ctx context.Context, question string) (bool, error) {
	for {
		fmt.Fprint(c.out, question)
		answer, err := c.readLine(ctx)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "yes":
			return true, nil
		case "no":
			return false, nil
		}
		fmt.Fprintln(c.out, "Please enter 'yes' or 'no'.")
	}
}

func (c *Console) Show(text string) {
	fmt.Fprintln(c.out, text)
}
