package jsonlines

import (
	"io"
	"strings"
	"unicode/utf8"

	gojson "github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/arnodel/jsonlines/encoding/json"
	"github.com/arnodel/jsonlines/value"
)

// A DecodeFunc parses a single line (without its terminator) into a value.
// It must return an error for malformed input.
type DecodeFunc func(line []byte) (value.Value, error)

// ReaderOptions configure a Reader.
type ReaderOptions struct {
	// Decode replaces the default JSON decoder.
	Decode DecodeFunc
}

// A Reader reads values from JSON Lines input.  Blank lines are skipped.
// A Reader is not safe for concurrent use.
type Reader struct {
	src    LineSource
	decode DecodeFunc

	// Number of physical lines consumed from src
	lineno int

	// Set when the Reader was created by OpenReader and must close the file
	owned io.Closer

	closed bool
}

// NewReader returns a Reader consuming lines from r.  Closing the Reader
// does not close r.
func NewReader(r io.Reader, opts ReaderOptions) *Reader {
	return NewSourceReader(NewLineSource(r), opts)
}

// NewSourceReader returns a Reader consuming lines from src.
func NewSourceReader(src LineSource, opts ReaderOptions) *Reader {
	decode := opts.Decode
	if decode == nil {
		decode = json.Decode
	}
	return &Reader{src: src, decode: decode}
}

// LineNumber returns the number of lines consumed so far, including blank
// and skipped lines.  After a successful Read it is the number of the line
// that was read.
func (r *Reader) LineNumber() int {
	return r.lineno
}

// Read returns the next value.  It returns io.EOF when the input is
// exhausted, and an *InvalidLineError if the line is not valid JSON or does
// not satisfy opts.  opts.SkipInvalid is ignored.
func (r *Reader) Read(opts ReadOptions) (value.Value, error) {
	v, _, err := r.next(opts)
	return v, err
}

func (r *Reader) next(opts ReadOptions) (value.Value, string, error) {
	if r.closed {
		return value.Value{}, "", ErrReaderClosed
	}
	line, err := r.nextLine()
	if err != nil {
		return value.Value{}, "", err
	}
	if !utf8.ValidString(line) {
		return value.Value{}, line, r.invalidLine(line, ErrInvalidUTF8)
	}
	v, err := r.decode([]byte(line))
	if err != nil {
		return value.Value{}, line, r.invalidLine(line, err)
	}
	if err := opts.check(v); err != nil {
		return value.Value{}, line, r.invalidLine(line, err)
	}
	return v, line, nil
}

const bom = "\ufeff"

// nextLine returns the next non-blank line, stripped of its terminator.
func (r *Reader) nextLine() (string, error) {
	for {
		line, err := r.src.ReadLine()
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		if err != nil {
			return "", errors.Wrapf(err, "jsonlines: reading line %d", r.lineno+1)
		}
		r.lineno++
		if r.lineno == 1 {
			line = strings.TrimPrefix(line, bom)
		}
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		if strings.Trim(line, " \t\r\n") == "" {
			continue
		}
		return line, nil
	}
}

func (r *Reader) invalidLine(line string, err error) *InvalidLineError {
	return &InvalidLineError{Line: r.lineno, Text: line, Err: err}
}

// ReadObject reads a line that must contain a JSON object.
func (r *Reader) ReadObject() (value.Value, error) {
	return r.Read(ReadOptions{Type: ObjectType, Null: NullRejected})
}

// ReadArray reads a line that must contain a JSON array.
func (r *Reader) ReadArray() (value.Value, error) {
	return r.Read(ReadOptions{Type: ArrayType, Null: NullRejected})
}

// ReadString reads a line that must contain a JSON string.
func (r *Reader) ReadString() (string, error) {
	v, err := r.Read(ReadOptions{Type: StringType, Null: NullRejected})
	if err != nil {
		return "", err
	}
	return v.ToString(), nil
}

// ReadInt reads a line that must contain an integer that fits in an int64.
func (r *Reader) ReadInt() (int64, error) {
	v, line, err := r.next(ReadOptions{Type: IntType, Null: NullRejected})
	if err != nil {
		return 0, err
	}
	n, err := v.Int()
	if err != nil {
		return 0, r.invalidLine(line, err)
	}
	return n, nil
}

// ReadFloat reads a line that must contain a number with a fraction or an
// exponent.
func (r *Reader) ReadFloat() (float64, error) {
	return r.readFloat(FloatType)
}

// ReadNumber reads a line that must contain a number, returned as a
// float64.  Use Read with NumberType to get the exact literal.
func (r *Reader) ReadNumber() (float64, error) {
	return r.readFloat(NumberType)
}

func (r *Reader) readFloat(t Type) (float64, error) {
	v, line, err := r.next(ReadOptions{Type: t, Null: NullRejected})
	if err != nil {
		return 0, err
	}
	f, err := v.Float()
	if err != nil {
		return 0, r.invalidLine(line, err)
	}
	return f, nil
}

// ReadBool reads a line that must contain true or false.
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.Read(ReadOptions{Type: BooleanType, Null: NullRejected})
	if err != nil {
		return false, err
	}
	return v.Bool(), nil
}

// ReadInto reads the next value and stores it in target, which must be a
// pointer, following the rules of encoding/json.  A value that cannot be
// stored in target is reported as an *InvalidLineError.
func (r *Reader) ReadInto(target any, opts ReadOptions) error {
	v, line, err := r.next(opts)
	if err != nil {
		return err
	}
	data, err := json.Marshal(v, json.Options{Compact: true})
	if err != nil {
		return r.invalidLine(line, err)
	}
	if err := gojson.Unmarshal(data, target); err != nil {
		return r.invalidLine(line, err)
	}
	return nil
}

// ReadAll reads all remaining values.  With opts.SkipInvalid, invalid lines
// are left out; otherwise the first invalid line stops reading and the
// values read so far are returned with the error.
func (r *Reader) ReadAll(opts ReadOptions) ([]value.Value, error) {
	var values []value.Value
	it := r.Iter(opts)
	for it.Advance() {
		values = append(values, it.CurrentValue())
	}
	return values, it.Err()
}

// Close marks the Reader closed.  The underlying input is only closed if
// it was opened by OpenReader.  Calling Close more than once is harmless.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.owned != nil {
		return r.owned.Close()
	}
	return nil
}
