package jsonlines

import (
	"bufio"
	"bytes"
	"io"

	gojson "github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/arnodel/jsonlines/encoding/json"
	"github.com/arnodel/jsonlines/value"
)

// An EncodeFunc serializes a value to a single line, without the trailing
// newline.
type EncodeFunc func(v value.Value) ([]byte, error)

// WriterOptions configure a Writer.  They are fixed when the Writer is
// created.
type WriterOptions struct {
	// Compact removes the spaces after ',' and ':'.
	Compact bool

	// SortKeys writes object members sorted by key.
	SortKeys bool

	// Flush flushes the output after each value written.
	Flush bool

	// Encode replaces the default JSON encoder; Compact and SortKeys are
	// then ignored.
	Encode EncodeFunc
}

type flusher interface {
	Flush() error
}

// A Writer writes values as JSON Lines.  A Writer is not safe for
// concurrent use.
type Writer struct {
	w      io.Writer
	encode EncodeFunc
	flush  bool

	// Set when the Writer was created by OpenWriter
	buf   *bufio.Writer
	owned io.Closer

	closed bool
}

// NewWriter returns a Writer writing to w.  Closing the Writer does not
// close w.
func NewWriter(w io.Writer, opts WriterOptions) *Writer {
	encode := opts.Encode
	if encode == nil {
		format := json.Options{Compact: opts.Compact, SortKeys: opts.SortKeys}
		encode = func(v value.Value) ([]byte, error) {
			return json.Marshal(v, format)
		}
	}
	return &Writer{w: w, encode: encode, flush: opts.Flush}
}

// Write writes v followed by a newline and returns the number of bytes
// written.  If the value cannot be encoded nothing is written.
func (w *Writer) Write(v value.Value) (int, error) {
	if w.closed {
		return 0, ErrWriterClosed
	}
	line, err := w.encode(v)
	if err != nil {
		return 0, errors.Wrap(err, "jsonlines: encoding value")
	}
	if bytes.IndexByte(line, '\n') >= 0 {
		return 0, ErrMultiline
	}
	// The full slice expression makes append copy line, which may belong
	// to a custom encoder.
	n, err := w.w.Write(append(line[:len(line):len(line)], '\n'))
	if err != nil {
		return n, err
	}
	if w.flush {
		if err := w.flushOutput(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// WriteAny writes an arbitrary Go value.  Plain values (numbers, strings,
// slices, string keyed maps...) are converted with value.FromGo, so floats
// stay floats (2.0 is written "2.0").  Other values such as structs follow
// the rules of encoding/json.  The Writer's formatting options still apply.
func (w *Writer) WriteAny(x any) (int, error) {
	if w.closed {
		return 0, ErrWriterClosed
	}
	v, err := value.FromGo(x)
	if err == nil {
		return w.Write(v)
	}
	if !errors.Is(err, value.ErrUnsupportedType) {
		return 0, errors.Wrap(err, "jsonlines: encoding value")
	}
	data, err := gojson.Marshal(x)
	if err != nil {
		return 0, errors.Wrap(err, "jsonlines: encoding value")
	}
	v, err = json.Decode(data)
	if err != nil {
		return 0, errors.Wrap(err, "jsonlines: encoding value")
	}
	return w.Write(v)
}

// WriteAll writes each value in turn, stopping at the first error.
func (w *Writer) WriteAll(values []value.Value) error {
	for _, v := range values {
		if _, err := w.Write(v); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes buffered output, if any.
func (w *Writer) Flush() error {
	if w.closed {
		return ErrWriterClosed
	}
	return w.flushOutput()
}

func (w *Writer) flushOutput() error {
	if w.buf != nil {
		return w.buf.Flush()
	}
	if f, ok := w.w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// Close marks the Writer closed.  If the Writer was created by OpenWriter,
// buffered output is flushed and the file is closed; otherwise the
// underlying writer is left open.  Calling Close more than once is harmless.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	var err error
	if w.buf != nil {
		err = w.buf.Flush()
	}
	if w.owned != nil {
		if cerr := w.owned.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
