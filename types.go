package jsonlines

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/arnodel/jsonlines/value"
)

// Type is a constraint on the values a Reader accepts.
type Type uint8

const (
	Any         Type = iota // any value
	ObjectType              // a JSON object
	ArrayType               // a JSON array
	StringType              // a JSON string
	IntType                 // a number without fraction or exponent
	FloatType               // a number with a fraction or exponent
	NumberType              // any number
	BooleanType             // true or false
)

var typeNames = [...]string{"any", "object", "array", "string", "int", "float", "number", "bool"}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// ParseType returns the Type with the given name, as returned by
// Type.String().
func ParseType(name string) (Type, error) {
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return Any, errors.Errorf("unknown type %q", name)
}

// Matches reports whether v is of type t.  Null only matches Any.
func (t Type) Matches(v value.Value) bool {
	switch t {
	case Any:
		return true
	case ObjectType:
		return v.Kind() == value.Object
	case ArrayType:
		return v.Kind() == value.Array
	case StringType:
		return v.Kind() == value.String
	case IntType:
		return v.IsInt()
	case FloatType:
		return v.Kind() == value.Number && !v.IsInt()
	case NumberType:
		return v.Kind() == value.Number
	case BooleanType:
		return v.Kind() == value.Boolean
	default:
		return false
	}
}

// NullPolicy says whether a null value satisfies a read.
type NullPolicy uint8

const (
	// NullDefault accepts null only when the expected type is Any.
	NullDefault NullPolicy = iota

	// NullAllowed accepts null whatever the expected type.
	NullAllowed

	// NullRejected never accepts null.
	NullRejected
)

// ReadOptions configure a single read or an iteration.  The zero value
// accepts any value and stops at the first invalid line.
type ReadOptions struct {
	// Type is the expected type of values.
	Type Type

	// Null says whether null values are accepted.
	Null NullPolicy

	// SkipInvalid makes iteration skip lines that fail to decode or do not
	// satisfy Type and Null, rather than stopping.  It has no effect on
	// Read.
	SkipInvalid bool

	// OnSkip, if not nil, is called with each line skipped because of
	// SkipInvalid.
	OnSkip func(*InvalidLineError)
}

func (o ReadOptions) allowNull() bool {
	switch o.Null {
	case NullAllowed:
		return true
	case NullRejected:
		return false
	default:
		return o.Type == Any
	}
}

// check returns nil if v satisfies the options, or the cause of an
// InvalidLineError.
func (o ReadOptions) check(v value.Value) error {
	if v.IsNull() {
		if o.allowNull() {
			return nil
		}
		return ErrNull
	}
	if !o.Type.Matches(v) {
		return &TypeError{Want: o.Type, Got: v.Kind()}
	}
	return nil
}
