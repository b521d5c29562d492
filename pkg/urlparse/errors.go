package urlparse

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrMalformedInput marks structurally invalid arguments to a constructive
	// operation (Build, QueryString, Builder.Set).
	ErrMalformedInput = errors.New("malformed input")

	// ErrUnparsable marks input that does not match the URL grammar.
	ErrUnparsable = errors.New("unparsable url")
)

// MalformedInputError is returned by constructive operations when their
// arguments are structurally invalid.
type MalformedInputError struct {
	Op     string
	Reason string
	Err    error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// Is reports ErrMalformedInput as a match.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// UnparsableURLError is returned by Parse when the input does not match the
// grammar.
type UnparsableURLError struct {
	Input  string
	Reason string
}

func (e *UnparsableURLError) Error() string {
	return fmt.Sprintf("unparsable url %q: %s", e.Input, e.Reason)
}

// Is reports ErrUnparsable as a match.
func (e *UnparsableURLError) Is(target error) bool {
	return target == ErrUnparsable
}

func malformed(op, format string, args ...any) error {
	return &MalformedInputError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// Parse failure reasons.
const (
	reasonEmpty      = "empty input"
	reasonBadByte    = "contains whitespace or control characters"
	reasonNoScheme   = "missing scheme"
	reasonBadSlashes = "scheme must be followed by one to three slashes"
	reasonNoHost     = "missing host"
	reasonBadHost    = "invalid host name"
	reasonBadIPv6    = "invalid IPv6 address"
	reasonBadPort    = "invalid port number"
)
