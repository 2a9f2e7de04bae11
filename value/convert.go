package value

import (
	"encoding"
	"math"
	"math/big"
	"reflect"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// Equal reports whether a and b represent the same JSON value.  Numbers are
// compared by value ("1.0" equals "1.00"), and object member order does not
// matter.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Boolean:
		return a.b == b.b
	case String:
		return a.text == b.text
	case Number:
		return numbersEqual(a.text, b.text)
	case Array:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(a.members) != len(b.members) {
			return false
		}
		for _, m := range a.members {
			bv, ok := b.Get(m.Key)
			if !ok || !Equal(m.Value, bv) {
				return false
			}
		}
		return true
	default:
		panic("invalid value kind")
	}
}

func numbersEqual(x, y string) bool {
	if x == y {
		return true
	}
	// Fall back to slower conversion
	if n, err := strconv.ParseInt(x, 10, 64); err == nil {
		if m, err := strconv.ParseInt(y, 10, 64); err == nil {
			return n == m
		}
	}
	// Enough bits to tell apart any two decimals with this many digits.
	prec := uint(4*max(len(x), len(y)) + 64)
	f, _, err1 := big.ParseFloat(x, 10, prec, big.ToNearestEven)
	g, _, err2 := big.ParseFloat(y, 10, prec, big.ToNearestEven)
	return err1 == nil && err2 == nil && f.Cmp(g) == 0
}

// ToGo converts v to the plain Go representation used by encoding/json:
// nil, bool, string, []any, map[string]any, and int64 for integers that fit,
// float64 for other numbers.
func (v Value) ToGo() any {
	switch v.kind {
	case Null:
		return nil
	case Boolean:
		return v.b
	case String:
		return v.text
	case Number:
		if n, err := v.Int(); err == nil {
			return n
		}
		f, _ := strconv.ParseFloat(v.text, 64)
		return f
	case Array:
		items := make([]any, len(v.items))
		for i, item := range v.items {
			items[i] = item.ToGo()
		}
		return items
	case Object:
		m := make(map[string]any, len(v.members))
		for _, member := range v.members {
			m[member.Key] = member.Value.ToGo()
		}
		return m
	default:
		panic("invalid value kind")
	}
}

// ErrUnsupportedType is the cause of the error returned by FromGo for a Go
// value it does not know how to convert.
var ErrUnsupportedType = errors.New("unsupported type")

type jsonMarshaler interface {
	MarshalJSON() ([]byte, error)
}

// FromGo converts a plain Go value to a Value.  It accepts the types
// produced by ToGo, other integer and float types, Value itself, and
// pointers, slices, arrays and string keyed maps of those.  Map keys are
// sorted so that the result is deterministic.  Like encoding/json, nil
// pointers, slices and maps become null.  Structs and types with their own
// JSON or text marshaling are not supported.
func FromGo(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return t, nil
	case bool:
		return NewBool(t), nil
	case string:
		return NewString(t), nil
	case int:
		return NewInt(int64(t)), nil
	case int8:
		return NewInt(int64(t)), nil
	case int16:
		return NewInt(int64(t)), nil
	case int32:
		return NewInt(int64(t)), nil
	case int64:
		return NewInt(t), nil
	case uint:
		return NewNumber(strconv.FormatUint(uint64(t), 10)), nil
	case uint8:
		return NewInt(int64(t)), nil
	case uint16:
		return NewInt(int64(t)), nil
	case uint32:
		return NewInt(int64(t)), nil
	case uint64:
		return NewNumber(strconv.FormatUint(t, 10)), nil
	case float32:
		return fromFloat(float64(t))
	case float64:
		return fromFloat(t)
	case []Value:
		if t == nil {
			return Value{}, nil
		}
		return NewArray(t...), nil
	case jsonMarshaler, encoding.TextMarshaler:
		return Value{}, errors.Wrapf(ErrUnsupportedType, "%T", x)
	}
	return fromReflect(reflect.ValueOf(x))
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Bool:
		return NewBool(rv.Bool()), nil
	case reflect.String:
		return NewString(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return NewNumber(strconv.FormatUint(rv.Uint(), 10)), nil
	case reflect.Float32, reflect.Float64:
		return fromFloat(rv.Float())
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Value{}, nil
		}
		return FromGo(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return Value{}, nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			// encoding/json writes []byte as base64
			break
		}
		return fromItems(rv)
	case reflect.Array:
		return fromItems(rv)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.IsNil() {
			return Value{}, nil
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		keyType := rv.Type().Key()
		members := make([]Member, len(keys))
		for i, k := range keys {
			v, err := FromGo(rv.MapIndex(reflect.ValueOf(k).Convert(keyType)).Interface())
			if err != nil {
				return Value{}, err
			}
			members[i] = Member{Key: k, Value: v}
		}
		return NewObject(members...), nil
	}
	return Value{}, errors.Wrapf(ErrUnsupportedType, "%s", rv.Type())
}

func fromItems(rv reflect.Value) (Value, error) {
	items := make([]Value, rv.Len())
	for i := range items {
		v, err := FromGo(rv.Index(i).Interface())
		if err != nil {
			return Value{}, err
		}
		items[i] = v
	}
	return NewArray(items...), nil
}

func fromFloat(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, errors.Errorf("%v cannot be represented in JSON", f)
	}
	return NewFloat(f), nil
}
