package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind encodes the six possible JSON value types.
type Kind uint8

const (
	Null    Kind = iota // the type of JSON null
	Boolean             // a JSON boolean
	Number              // a JSON number
	String              // a JSON string
	Array               // a JSON array
	Object              // a JSON object
)

var kindNames = [...]string{"null", "boolean", "number", "string", "array", "object"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// A Value is a decoded JSON value.  It is a tagged union: the Kind says which
// of the fields is meaningful.  The zero Value is JSON null.
//
// Numbers are kept as the literal found in the input (e.g. "1.50" stays
// "1.50") so that decoding then encoding a line does not alter it.
type Value struct {
	kind    Kind
	b       bool
	text    string // string contents, or number literal
	items   []Value
	members []Member
}

// A Member is a key / value pair in a JSON object.
type Member struct {
	Key   string
	Value Value
}

// NewNull returns the JSON null value.
func NewNull() Value {
	return Value{}
}

func NewBool(b bool) Value {
	return Value{kind: Boolean, b: b}
}

func NewString(s string) Value {
	return Value{kind: String, text: s}
}

func NewInt(n int64) Value {
	return Value{kind: Number, text: strconv.FormatInt(n, 10)}
}

// NewFloat returns a number value for f.  Integral floats keep a fractional
// part (2 becomes "2.0") so they are still floats when read back.  NaN and
// infinities produce a value that cannot be encoded.
func NewFloat(f float64) Value {
	return Value{kind: Number, text: formatFloat(f)}
}

// NewNumber returns a number value with the given literal representation.
// The literal is not checked; encoders reject literals that are not valid
// JSON numbers.
func NewNumber(literal string) Value {
	return Value{kind: Number, text: literal}
}

func NewArray(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: Array, items: items}
}

// NewObject returns an object with the given members, in order.  If a key
// occurs more than once, the last value wins but keeps the position of the
// first occurrence.
func NewObject(members ...Member) Value {
	obj := Value{kind: Object, members: make([]Member, 0, len(members))}
	if len(members) <= smallObject {
		for _, m := range members {
			obj.members = setMember(obj.members, m.Key, m.Value)
		}
		return obj
	}
	index := make(map[string]int, len(members))
	for _, m := range members {
		if i, ok := index[m.Key]; ok {
			obj.members[i].Value = m.Value
			continue
		}
		index[m.Key] = len(obj.members)
		obj.members = append(obj.members, m)
	}
	return obj
}

// Objects up to this size are deduplicated without an index.
const smallObject = 16

func setMember(members []Member, key string, val Value) []Member {
	for i := range members {
		if members[i].Key == key {
			members[i].Value = val
			return members
		}
	}
	return append(members, Member{Key: key, Value: val})
}

// With returns a copy of the object v with key set to val.  It panics if v is
// not an object.
func (v Value) With(key string, val Value) Value {
	v.mustBe(Object)
	members := make([]Member, len(v.members), len(v.members)+1)
	copy(members, v.members)
	return Value{kind: Object, members: setMember(members, key, val)}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == Null
}

// Bool returns the value of a boolean.  It panics if v is not a boolean.
func (v Value) Bool() bool {
	v.mustBe(Boolean)
	return v.b
}

// ToString returns the contents of a string.  It panics if v is not a string.
func (v Value) ToString() string {
	v.mustBe(String)
	return v.text
}

// Literal returns the literal representation of a number.  It panics if v
// is not a number.
func (v Value) Literal() string {
	v.mustBe(Number)
	return v.text
}

// IsInt is true if v is a number written without a fraction or exponent.
func (v Value) IsInt() bool {
	return v.kind == Number && !strings.ContainsAny(v.text, ".eE")
}

// Int returns the value of an integer number.  It returns an error if the
// number is not an integer or does not fit in an int64.
func (v Value) Int() (int64, error) {
	v.mustBe(Number)
	if !v.IsInt() {
		return 0, errors.Errorf("number %s is not an integer", v.text)
	}
	return strconv.ParseInt(v.text, 10, 64)
}

// Float returns the value of a number as a float64.
func (v Value) Float() (float64, error) {
	v.mustBe(Number)
	return strconv.ParseFloat(v.text, 64)
}

// Items returns the elements of an array.  It panics if v is not an array.
func (v Value) Items() []Value {
	v.mustBe(Array)
	return v.items
}

// Members returns the members of an object in input order.  It panics if v
// is not an object.
func (v Value) Members() []Member {
	v.mustBe(Object)
	return v.members
}

// SortedMembers returns the members of an object sorted by key.
func (v Value) SortedMembers() []Member {
	v.mustBe(Object)
	sorted := make([]Member, len(v.members))
	copy(sorted, v.members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Key < sorted[j].Key
	})
	return sorted
}

// Get looks up key in an object.  It returns false if v is not an object or
// has no such key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Len returns the number of items in an array or members in an object, and 0
// for other kinds.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.members)
	default:
		return 0
	}
}

func (v Value) String() string {
	switch v.kind {
	case Null:
		return "Null"
	case Boolean:
		return fmt.Sprintf("Boolean(%t)", v.b)
	case Number:
		return fmt.Sprintf("Number(%s)", v.text)
	case String:
		return fmt.Sprintf("String(%q)", v.text)
	case Array:
		return fmt.Sprintf("Array%v", v.items)
	case Object:
		var b strings.Builder
		b.WriteString("Object{")
		for i, m := range v.members {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%q: %s", m.Key, m.Value)
		}
		b.WriteByte('}')
		return b.String()
	default:
		return "Invalid"
	}
}

func (v Value) mustBe(k Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("value is %s, not %s", v.kind, k))
	}
}

// formatFloat writes f the way JavaScript would, with exponents only for
// very small or very large magnitudes.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 0) {
		if f > 0 {
			return "Infinity"
		}
		return "-Infinity"
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(s)
		if n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
		return s
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
