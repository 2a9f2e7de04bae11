package json

import (
	"fmt"
	"unicode/utf8"

	"github.com/arnodel/jsonlines/value"
)

// Options control how values are encoded.  The output never contains a
// newline, so it is always a valid JSON Lines line.
type Options struct {
	// Compact removes the space after ',' and ':' separators.
	Compact bool

	// SortKeys emits object members sorted by key rather than in input
	// order.
	SortKeys bool

	// Colorizer, when not nil, wraps each scalar in terminal colour codes.
	Colorizer *Colorizer
}

// A Colorizer decorates encoded scalars.  Each function receives the JSON
// text of a scalar and returns the text to output.  A nil function leaves
// the text unchanged.  The signature matches color.Color.SprintFunc from
// github.com/fatih/color.
type Colorizer struct {
	Key     func(a ...any) string
	String  func(a ...any) string
	Number  func(a ...any) string
	Boolean func(a ...any) string
	Null    func(a ...any) string
}

func (c *Colorizer) colorFunc(v value.Value) func(a ...any) string {
	if c == nil {
		return nil
	}
	switch v.Kind() {
	case value.String:
		return c.String
	case value.Number:
		return c.Number
	case value.Boolean:
		return c.Boolean
	case value.Null:
		return c.Null
	default:
		return nil
	}
}

// An UnsupportedValueError is returned when a value has no JSON
// representation, e.g. a number made from NaN.
type UnsupportedValueError struct {
	Value value.Value
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("json: unsupported value: %s", e.Value)
}

// Marshal returns the encoding of v on a single line, without a trailing
// newline.
func Marshal(v value.Value, opts Options) ([]byte, error) {
	return Append(nil, v, opts)
}

// Append appends the encoding of v to dst.
func Append(dst []byte, v value.Value, opts Options) ([]byte, error) {
	e := encoder{buf: dst, Options: opts}
	e.itemSep, e.keySep = ", ", ": "
	if opts.Compact {
		e.itemSep, e.keySep = ",", ":"
	}
	if err := e.writeValue(v); err != nil {
		return dst, err
	}
	return e.buf, nil
}

type encoder struct {
	Options
	buf             []byte
	itemSep, keySep string
}

func (e *encoder) writeValue(v value.Value) error {
	switch v.Kind() {
	case value.Array:
		return e.writeArray(v)
	case value.Object:
		return e.writeObject(v)
	default:
		return e.writeScalar(v)
	}
}

func (e *encoder) writeScalar(v value.Value) error {
	start := len(e.buf)
	switch v.Kind() {
	case value.Null:
		e.buf = append(e.buf, nullBytes...)
	case value.Boolean:
		if v.Bool() {
			e.buf = append(e.buf, trueBytes...)
		} else {
			e.buf = append(e.buf, falseBytes...)
		}
	case value.Number:
		lit := v.Literal()
		if !IsNumberLiteral(lit) {
			return &UnsupportedValueError{Value: v}
		}
		e.buf = append(e.buf, lit...)
	case value.String:
		e.buf = appendString(e.buf, v.ToString())
	}
	e.colorize(start, e.Colorizer.colorFunc(v))
	return nil
}

func (e *encoder) writeArray(arr value.Value) error {
	e.buf = append(e.buf, '[')
	for i, item := range arr.Items() {
		if i > 0 {
			e.buf = append(e.buf, e.itemSep...)
		}
		if err := e.writeValue(item); err != nil {
			return err
		}
	}
	e.buf = append(e.buf, ']')
	return nil
}

func (e *encoder) writeObject(obj value.Value) error {
	members := obj.Members()
	if e.SortKeys {
		members = obj.SortedMembers()
	}
	e.buf = append(e.buf, '{')
	for i, m := range members {
		if i > 0 {
			e.buf = append(e.buf, e.itemSep...)
		}
		start := len(e.buf)
		e.buf = appendString(e.buf, m.Key)
		if e.Colorizer != nil {
			e.colorize(start, e.Colorizer.Key)
		}
		e.buf = append(e.buf, e.keySep...)
		if err := e.writeValue(m.Value); err != nil {
			return err
		}
	}
	e.buf = append(e.buf, '}')
	return nil
}

// colorize replaces e.buf[start:] with its coloured version.
func (e *encoder) colorize(start int, f func(a ...any) string) {
	if f == nil {
		return
	}
	colored := f(string(e.buf[start:]))
	e.buf = append(e.buf[:start], colored...)
}

const hex = "0123456789abcdef"

// appendString writes s as a JSON string.  Non-ASCII characters are written
// as UTF-8; only '"', '\\' and control characters are escaped.
func appendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	start := 0
	for i := 0; i < len(s); {
		b := s[i]
		if b >= utf8.RuneSelf {
			// Values built in Go may hold invalid UTF-8; write U+FFFD for it.
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				dst = append(dst, s[start:i]...)
				dst = append(dst, "\ufffd"...)
				i += size
				start = i
				continue
			}
			i += size
			continue
		}
		if b >= 0x20 && b != '"' && b != '\\' {
			i++
			continue
		}
		dst = append(dst, s[start:i]...)
		switch b {
		case '"', '\\':
			dst = append(dst, '\\', b)
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hex[b>>4], hex[b&0xF])
		}
		i++
		start = i
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"')
}
