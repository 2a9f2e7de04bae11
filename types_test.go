package jsonlines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnodel/jsonlines/value"
)

func TestParseType(t *testing.T) {
	for _, typ := range []Type{Any, ObjectType, ArrayType, StringType, IntType, FloatType, NumberType, BooleanType} {
		parsed, err := ParseType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, parsed)
	}
	_, err := ParseType("integer")
	assert.EqualError(t, err, `unknown type "integer"`)
	assert.Equal(t, "Type(42)", Type(42).String())
}

func TestNullPolicy(t *testing.T) {
	tests := []struct {
		opts ReadOptions
		ok   bool
	}{
		{ReadOptions{}, true},
		{ReadOptions{Null: NullRejected}, false},
		{ReadOptions{Type: ObjectType}, false},
		{ReadOptions{Type: ObjectType, Null: NullAllowed}, true},
		{ReadOptions{Type: IntType, Null: NullRejected}, false},
	}
	for _, tt := range tests {
		err := tt.opts.check(value.NewNull())
		if tt.ok {
			assert.NoError(t, err, "%+v", tt.opts)
		} else {
			assert.Equal(t, ErrNull, err, "%+v", tt.opts)
		}
	}
	assert.False(t, Type(42).Matches(value.NewInt(1)))
}
