package json

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/arnodel/jsonlines/internal/scanner"
	"github.com/arnodel/jsonlines/value"
)

// maxDepth bounds the nesting of arrays and objects in a single value.
const maxDepth = 10000

// A SyntaxError describes why a line is not valid JSON.  Col is the 1-based
// column (in code points) where the problem was found.
type SyntaxError struct {
	Col int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at C%d: %s", e.Col, e.Msg)
}

// Decode parses data, which must contain exactly one JSON value optionally
// surrounded by whitespace.
func Decode(data []byte) (value.Value, error) {
	if !utf8.Valid(data) {
		return value.Value{}, &SyntaxError{Col: invalidUTF8Col(data), Msg: "invalid UTF-8"}
	}
	d := decoder{scanr: scanner.NewScanner(data)}
	v, err := d.parseValue()
	if err != nil {
		return value.Value{}, err
	}
	if !d.scanr.Done() {
		return value.Value{}, d.unexpectedByte("extra data after value")
	}
	return v, nil
}

type decoder struct {
	scanr *scanner.Scanner
	depth int
}

// parseValue reads a single JSON value.  It returns a non-nil error if the
// input is invalid JSON.
func (d *decoder) parseValue() (value.Value, error) {
	switch b := d.scanr.SkipSpaceAndPeek(); b {
	case scanner.EOF:
		return value.Value{}, d.unexpectedByte("expected value")
	case '"':
		s, err := d.parseString()
		if err != nil {
			return value.Value{}, err
		}
		return value.NewString(s), nil
	case '[':
		return d.parseArray()
	case '{':
		return d.parseObject()
	case 't':
		return value.NewBool(true), d.checkBytes(trueBytes)
	case 'f':
		return value.NewBool(false), d.checkBytes(falseBytes)
	case 'n':
		return value.NewNull(), d.checkBytes(nullBytes)
	default:
		if b == '-' || scanner.IsDigit(b) {
			return d.parseNumber()
		}
		return value.Value{}, d.unexpectedByte("unexpected")
	}
}

func (d *decoder) enter() error {
	d.depth++
	if d.depth > maxDepth {
		return d.syntaxError("exceeded max depth")
	}
	return nil
}

func (d *decoder) parseArray() (value.Value, error) {
	if err := d.expectByte('['); err != nil {
		return value.Value{}, err
	}
	if err := d.enter(); err != nil {
		return value.Value{}, err
	}
	defer func() { d.depth-- }()
	items := []value.Value{}
	if d.scanr.SkipSpaceAndPeek() == ']' {
		d.scanr.Read()
		return value.NewArray(items...), nil
	}
	for {
		item, err := d.parseValue()
		if err != nil {
			return value.Value{}, err
		}
		items = append(items, item)
		switch d.scanr.SkipSpaceAndPeek() {
		case ']':
			d.scanr.Read()
			return value.NewArray(items...), nil
		case ',':
			d.scanr.Read()
		default:
			return value.Value{}, d.unexpectedByte("expected ']' or ',', got")
		}
	}
}

func (d *decoder) parseObject() (value.Value, error) {
	if err := d.expectByte('{'); err != nil {
		return value.Value{}, err
	}
	if err := d.enter(); err != nil {
		return value.Value{}, err
	}
	defer func() { d.depth-- }()
	var members []value.Member
	if d.scanr.SkipSpaceAndPeek() == '}' {
		d.scanr.Read()
		return value.NewObject(), nil
	}
	for {
		if d.scanr.SkipSpaceAndPeek() != '"' {
			return value.Value{}, d.unexpectedByte("expected '\"', got")
		}
		key, err := d.parseString()
		if err != nil {
			return value.Value{}, err
		}
		if d.scanr.SkipSpaceAndPeek() != ':' {
			return value.Value{}, d.unexpectedByte("expected ':', got")
		}
		d.scanr.Read()
		val, err := d.parseValue()
		if err != nil {
			return value.Value{}, err
		}
		members = append(members, value.Member{Key: key, Value: val})
		switch d.scanr.SkipSpaceAndPeek() {
		case '}':
			d.scanr.Read()
			return value.NewObject(members...), nil
		case ',':
			d.scanr.Read()
		default:
			return value.Value{}, d.unexpectedByte("expected '}' or ',', got")
		}
	}
}

// The scanner must be positioned on the leading '"'.
func (d *decoder) parseString() (string, error) {
	if err := d.expectByte('"'); err != nil {
		return "", err
	}
	var sb strings.Builder
	for {
		d.scanr.StartToken()
		b := d.scanr.Read()
		for b != '"' && b != '\\' && b != scanner.EOF && !scanner.IsCtrl(b) {
			b = d.scanr.Read()
		}
		d.scanr.Back()
		sb.Write(d.scanr.EndToken())
		switch b {
		case '"':
			d.scanr.Read()
			return sb.String(), nil
		case '\\':
			d.scanr.Read()
			if err := d.parseEscape(&sb); err != nil {
				return "", err
			}
		case scanner.EOF:
			return "", d.unexpectedByte("unterminated string")
		default:
			return "", d.unexpectedByte("invalid control character in string")
		}
	}
}

// The leading '\\' has already been consumed
func (d *decoder) parseEscape(sb *strings.Builder) error {
	x := d.scanr.Read()
	switch x {
	case '"', '\\', '/':
		sb.WriteByte(x)
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'u':
		r, err := d.readHex4()
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) {
			// Try to combine with a following \uXXXX low surrogate.
			if d.scanr.Peek() == '\\' {
				d.scanr.Read()
				if d.scanr.Peek() == 'u' {
					d.scanr.Read()
					r2, err := d.readHex4()
					if err != nil {
						return err
					}
					if combined := utf16.DecodeRune(r, r2); combined != utf8.RuneError {
						sb.WriteRune(combined)
						return nil
					}
					sb.WriteRune(utf8.RuneError)
					r = r2
				} else {
					sb.WriteRune(utf8.RuneError)
					return d.parseEscape(sb)
				}
			}
			if utf16.IsSurrogate(r) {
				r = utf8.RuneError
			}
		}
		sb.WriteRune(r)
	default:
		d.scanr.Back()
		return d.unexpectedByte("invalid escape character")
	}
	return nil
}

func (d *decoder) readHex4() (rune, error) {
	var r rune
	for i := 0; i < 4; i++ {
		b := d.scanr.Read()
		if !scanner.IsHexDigit(b) {
			d.scanr.Back()
			return 0, d.unexpectedByte("expected hex, got")
		}
		r = r<<4 | hexValue(b)
	}
	return r, nil
}

func hexValue(b byte) rune {
	switch {
	case b >= 'a':
		return rune(b-'a') + 10
	case b >= 'A':
		return rune(b-'A') + 10
	default:
		return rune(b - '0')
	}
}

func (d *decoder) parseNumber() (value.Value, error) {
	d.scanr.StartToken()
	if !scanNumber(d.scanr) {
		d.scanr.EndToken()
		return value.Value{}, d.unexpectedByte("expected digit, got")
	}
	return value.NewNumber(string(d.scanr.EndToken())), nil
}

// scanNumber consumes a JSON number.  On success the scanner is left just
// after the number; on failure it is left on the offending byte.
func scanNumber(scanr *scanner.Scanner) bool {
	b := scanr.Read()

	// Sign part
	if b == '-' {
		b = scanr.Read()
	}

	// Integer part
	switch {
	case b == '0':
		b = scanr.Read()
	case b >= '1' && b <= '9':
		b, _ = readDigits(scanr)
	default:
		scanr.Back()
		return false
	}

	// Fraction part
	if b == '.' {
		var n int
		b, n = readDigits(scanr)
		if n == 0 {
			scanr.Back()
			return false
		}
	}

	// Exponent part
	if b == 'e' || b == 'E' {
		if p := scanr.Peek(); p == '-' || p == '+' {
			scanr.Read()
		}
		var n int
		_, n = readDigits(scanr)
		if n == 0 {
			scanr.Back()
			return false
		}
	}
	scanr.Back()
	return true
}

func readDigits(scanr *scanner.Scanner) (byte, int) {
	var n int
	for {
		b := scanr.Read()
		if !scanner.IsDigit(b) {
			return b, n
		}
		n++
	}
}

// IsNumberLiteral reports whether s is a valid JSON number.
func IsNumberLiteral(s string) bool {
	if s == "" {
		return false
	}
	scanr := scanner.NewScanner([]byte(s))
	return scanNumber(scanr) && scanr.Peek() == scanner.EOF
}

func (d *decoder) checkBytes(expected []byte) error {
	for _, xb := range expected {
		if err := d.expectByte(xb); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) expectByte(xb byte) error {
	b := d.scanr.Read()
	if b != xb {
		d.scanr.Back()
		return d.unexpectedByte(fmt.Sprintf("expected %q, got", xb))
	}
	return nil
}

func (d *decoder) unexpectedByte(expected string) error {
	pos := d.scanr.CurrentPos()
	b := d.scanr.Peek()
	if b == scanner.EOF {
		return &SyntaxError{Col: pos.Col + 1, Msg: expected + ": <EOF>"}
	}
	r, _ := utf8.DecodeRune(d.remaining())
	return &SyntaxError{Col: pos.Col + 1, Msg: fmt.Sprintf("%s: %q", expected, r)}
}

func (d *decoder) syntaxError(msg string) error {
	return &SyntaxError{Col: d.scanr.CurrentPos().Col + 1, Msg: msg}
}

func (d *decoder) remaining() []byte {
	d.scanr.StartToken()
	for d.scanr.Read() != scanner.EOF {
	}
	d.scanr.Back()
	return d.scanr.EndToken()
}

func invalidUTF8Col(data []byte) int {
	col := 1
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size <= 1 {
			return col
		}
		data = data[size:]
		col++
	}
	return col
}

var (
	trueBytes  = []byte("true")
	falseBytes = []byte("false")
	nullBytes  = []byte("null")
)
