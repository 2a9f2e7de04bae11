package jsonlines

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/arnodel/jsonlines/value"
)

var (
	// ErrReaderClosed is returned when reading from a closed Reader.
	ErrReaderClosed = errors.New("jsonlines: reader is closed")

	// ErrWriterClosed is returned when writing to a closed Writer.
	ErrWriterClosed = errors.New("jsonlines: writer is closed")

	// ErrNull is the cause of an InvalidLineError for a null value that was
	// not allowed.
	ErrNull = errors.New("line contains null value")

	// ErrInvalidUTF8 is the cause of an InvalidLineError for a line that is
	// not valid UTF-8.
	ErrInvalidUTF8 = errors.New("line is not valid UTF-8")

	// ErrMultiline is returned by Writer.Write when the encode function
	// produced a newline, which would break the JSON Lines framing.
	ErrMultiline = errors.New("jsonlines: encoded value contains a newline")
)

// An InvalidLineError is returned when a line does not contain valid JSON,
// or contains a value that does not satisfy the requested type.
type InvalidLineError struct {
	// Line is the 1-based number of the line in the source, counting blank
	// lines.
	Line int

	// Text is the line as read, without its line terminator.
	Text string

	// Err is the underlying cause.
	Err error
}

func (e *InvalidLineError) Error() string {
	return fmt.Sprintf("invalid line %d: %s", e.Line, e.Err)
}

func (e *InvalidLineError) Unwrap() error {
	return e.Err
}

// Cause implements the causer interface from github.com/pkg/errors.
func (e *InvalidLineError) Cause() error {
	return e.Err
}

// A TypeError is the cause of an InvalidLineError when the decoded value is
// not of the expected type.
type TypeError struct {
	Want Type
	Got  value.Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("line does not match requested type: want %s, got %s", e.Want, e.Got)
}

// An InvalidModeError is returned by the Open functions for a mode other
// than "r", "w", "a" or "x".
type InvalidModeError struct {
	Mode string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("jsonlines: invalid mode %q (must be one of r, w, a, x)", e.Mode)
}
