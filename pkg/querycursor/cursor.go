// Package querycursor iterates the name/value pairs of a query string.
//
// A Cursor is a pull-based state machine meant to be driven row by row by a
// SQL engine (an SQLite virtual table cursor or a DuckDB table function):
//
//	Uninitialized --Open--> Positioned(0) --Next--> Positioned(n) --Next--> Exhausted
//
// Open positions the cursor on the first row straight away, or moves it to
// Exhausted when the source holds no segments. A cursor is owned by one
// iteration; restarting means calling Open again or creating a new cursor.
package querycursor

import (
	"errors"
	"iter"
	"strings"

	"github.com/leapstack-labs/leapurl/pkg/urlparse"
)

// State is the position of a Cursor in its lifecycle.
type State int

// Cursor states.
const (
	StateUninitialized State = iota
	StatePositioned
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StatePositioned:
		return "positioned"
	case StateExhausted:
		return "exhausted"
	}
	return "unknown"
}

// ErrNotPositioned is returned by Current when the cursor is not on a row.
var ErrNotPositioned = errors.New("querycursor: cursor is not positioned on a row")

// Pair is one decoded name/value pair.
type Pair struct {
	Name  string
	Value string
}

// Row is the pair the cursor is positioned on.
type Row struct {
	RowID int64
	Pair
	// Raw is the undecoded segment between '&' separators.
	Raw string
}

// EmptyPolicy decides what happens to empty segments ("a=1&&b=2").
type EmptyPolicy int

// Empty segment policies.
const (
	// KeepEmpty emits an empty name/value row for every empty segment.
	KeepEmpty EmptyPolicy = iota
	// SkipEmpty drops empty segments, as form decoding does.
	SkipEmpty
)

// Option configures a Cursor.
type Option func(*Cursor)

// WithEmptyPolicy sets the empty segment policy.
func WithEmptyPolicy(p EmptyPolicy) Option {
	return func(c *Cursor) {
		c.policy = p
	}
}

// WithSkipEmpty is WithEmptyPolicy(SkipEmpty).
func WithSkipEmpty() Option {
	return WithEmptyPolicy(SkipEmpty)
}

// Cursor walks the '&'-separated segments of a source string.
type Cursor struct {
	policy EmptyPolicy

	source  string
	offset  int
	rowID   int64
	current Row
	state   State
}

// New returns an uninitialized cursor.
func New(opts ...Option) *Cursor {
	c := &Cursor{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open starts a fresh iteration over source and positions the cursor on its
// first row. Any previous iteration is discarded.
func (c *Cursor) Open(source string) {
	c.source = source
	c.offset = 0
	c.rowID = -1
	c.current = Row{}
	c.state = StatePositioned
	c.advance()
}

// Next moves to the following row. It reports false once the cursor is
// exhausted, and on a cursor that was never opened.
func (c *Cursor) Next() bool {
	if c.state != StatePositioned {
		return false
	}
	c.advance()
	return c.state == StatePositioned
}

func (c *Cursor) advance() {
	for {
		// offset == len(source)+1 marks that the trailing segment was consumed
		if c.offset > len(c.source) || c.source == "" {
			c.state = StateExhausted
			c.current = Row{}
			return
		}

		seg := c.source[c.offset:]
		if i := strings.IndexByte(seg, '&'); i >= 0 {
			seg = seg[:i]
		}
		c.offset += len(seg) + 1

		if seg == "" && c.policy == SkipEmpty {
			continue
		}

		c.rowID++
		c.current = decodeSegment(c.rowID, seg)
		return
	}
}

// decodeSegment splits at the first '=' and form-decodes both halves.
func decodeSegment(rowID int64, seg string) Row {
	name, value, _ := strings.Cut(seg, "=")
	return Row{
		RowID: rowID,
		Pair: Pair{
			Name:  urlparse.DecodeForm(name),
			Value: urlparse.DecodeForm(value),
		},
		Raw: seg,
	}
}

// Current returns the row the cursor is positioned on.
func (c *Cursor) Current() (Row, error) {
	if c.state != StatePositioned {
		return Row{}, ErrNotPositioned
	}
	return c.current, nil
}

// Source returns the string passed to Open.
func (c *Cursor) Source() string { return c.source }

// State returns the cursor state.
func (c *Cursor) State() State { return c.state }

// Exhausted reports whether there are no more rows.
func (c *Cursor) Exhausted() bool { return c.state != StatePositioned }

// Close releases the source. Closing twice is harmless.
func (c *Cursor) Close() {
	c.source = ""
	c.offset = 0
	c.current = Row{}
	c.state = StateExhausted
}

// All yields (rowid, pair) for every pair of source in order.
func All(source string, opts ...Option) iter.Seq2[int64, Pair] {
	return func(yield func(int64, Pair) bool) {
		c := New(opts...)
		defer c.Close()
		for c.Open(source); !c.Exhausted(); c.Next() {
			if !yield(c.current.RowID, c.current.Pair) {
				return
			}
		}
	}
}

// Collect returns every row of source.
func Collect(source string, opts ...Option) []Row {
	var rows []Row
	c := New(opts...)
	defer c.Close()
	for c.Open(source); !c.Exhausted(); c.Next() {
		rows = append(rows, c.current)
	}
	return rows
}
