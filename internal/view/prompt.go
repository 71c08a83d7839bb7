package view

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter reads one answer per call. ReadPassword must not echo when the
// underlying input is a terminal.
type Prompter interface {
	ReadLine(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
}

// LinePrompter reads newline-terminated answers from a stream.
type LinePrompter struct {
	in       *bufio.Reader
	out      io.Writer
	password func() ([]byte, error)
}

type PrompterOption func(*LinePrompter)

// WithPasswordReader replaces the echoing line read used for passwords.
func WithPasswordReader(fn func() ([]byte, error)) PrompterOption {
	return func(p *LinePrompter) {
		p.password = fn
	}
}

func NewLinePrompter(in io.Reader, out io.Writer, opts ...PrompterOption) *LinePrompter {
	p := &LinePrompter{in: bufio.NewReader(in), out: out}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *LinePrompter) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *LinePrompter) ReadPassword(prompt string) (string, error) {
	if p.password == nil {
		return p.ReadLine(prompt)
	}
	fmt.Fprint(p.out, prompt)
	secret, err := p.password()
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}
