// Package parser reads label records.
//
// A record is one line of text: an opaque identifier token followed by zero
// or more base-10 label tokens, separated by whitespace.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultMaxLineBytes is the longest line the scanner accepts unless
// overridden with WithMaxLineBytes.
const DefaultMaxLineBytes = 64 << 20

// ErrMissingIdentifier is reported for a line that has no identifier token,
// i.e. an empty or whitespace-only line.
var ErrMissingIdentifier = errors.New("missing record identifier")

// ParseError describes a malformed record.
type ParseError struct {
	Line  int    // 1-based line number
	Token string // offending token, empty for a missing identifier
	Err   error
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: invalid label %q: %v", e.Line, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Record is a single parsed line. Labels holds the raw label tokens; they are
// converted on demand with Label so each pass parses independently.
type Record struct {
	Line   int
	ID     string
	Labels []string
}

// Label parses the i-th label token.
func (r Record) Label(i int) (uint32, error) {
	tok := r.Labels[i]
	v, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return 0, &ParseError{Line: r.Line, Token: tok, Err: err}
	}
	return uint32(v), nil
}

// Parser reads records from a stream.
type Parser struct {
	maxLineBytes int
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxLineBytes sets the scanner line limit. Non-positive values keep the
// default.
func WithMaxLineBytes(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxLineBytes = n
		}
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{maxLineBytes: DefaultMaxLineBytes}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseLine splits a single line into a Record.
func ParseLine(line string, lineNum int) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Record{}, &ParseError{Line: lineNum, Err: ErrMissingIdentifier}
	}
	return Record{Line: lineNum, ID: fields[0], Labels: fields[1:]}, nil
}

// Stream reads records from r and calls fn for each one, in input order.
// It stops at the first error returned by parsing or by fn. A final line
// without a trailing newline is still delivered.
func (p *Parser) Stream(r io.Reader, fn func(Record) error) error {
	scanner := bufio.NewScanner(r)
	initial := 64 * 1024
	if initial > p.maxLineBytes {
		initial = p.maxLineBytes
	}
	scanner.Buffer(make([]byte, initial), p.maxLineBytes)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		rec, err := ParseLine(scanner.Text(), lineNum)
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading line %d: %w", lineNum+1, err)
	}
	return nil
}
