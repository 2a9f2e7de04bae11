package jsonlines

import (
	"bufio"
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnodel/jsonlines/value"
)

func obj(members ...value.Member) value.Value {
	return value.NewObject(members...)
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WriterOptions{})
	defer w.Close()

	n, err := w.Write(obj(value.Member{Key: "a", Value: value.NewInt(1)}))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	_, err = w.Write(obj(value.Member{Key: "b", Value: value.NewInt(2)}))
	require.NoError(t, err)
	assert.Equal(t, sample, buf.String())
}

func TestWriterFormatting(t *testing.T) {
	v := obj(value.Member{Key: "b", Value: value.NewInt(1)}, value.Member{Key: "a", Value: value.NewInt(2)})
	tests := []struct {
		name     string
		opts     WriterOptions
		expected string
	}{
		{"default", WriterOptions{}, `{"b": 1, "a": 2}` + "\n"},
		{"sort keys", WriterOptions{SortKeys: true}, `{"a": 2, "b": 1}` + "\n"},
		{"compact", WriterOptions{Compact: true}, `{"b":1,"a":2}` + "\n"},
		{"compact and sort keys", WriterOptions{Compact: true, SortKeys: true}, `{"a":2,"b":1}` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf, tt.opts)
			n, err := w.Write(v)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, buf.String())
			assert.Equal(t, len(tt.expected), n)
		})
	}
}

func TestWriteAny(t *testing.T) {
	type point struct {
		X    int    `json:"x"`
		Y    int    `json:"y"`
		Name string `json:"name,omitempty"`
	}
	var buf bytes.Buffer
	w := NewWriter(&buf, WriterOptions{Compact: true})

	_, err := w.WriteAny(point{X: 1, Y: 2})
	require.NoError(t, err)
	_, err = w.WriteAny(map[string]any{"b": 1, "a": "é"})
	require.NoError(t, err)
	_, err = w.WriteAny([]int{1, 2})
	require.NoError(t, err)
	_, err = w.WriteAny(nil)
	require.NoError(t, err)
	_, err = w.WriteAny(value.NewString("v"))
	require.NoError(t, err)

	assert.Equal(t, "{\"x\":1,\"y\":2}\n{\"a\":\"é\",\"b\":1}\n[1,2]\nnull\n\"v\"\n", buf.String())

	_, err = w.WriteAny(math.NaN())
	assert.Error(t, err)
	_, err = w.WriteAny(make(chan int))
	assert.Error(t, err)
}

func TestWriteAll(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WriterOptions{})
	err := w.WriteAll([]value.Value{value.NewInt(1), value.NewString("x"), value.NewNull()})
	require.NoError(t, err)
	assert.Equal(t, "1\n\"x\"\nnull\n", buf.String())
}

func TestWriterEncodeFailure(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WriterOptions{})
	err := w.WriteAll([]value.Value{value.NewInt(1), value.NewFloat(math.Inf(1)), value.NewInt(2)})
	require.Error(t, err)
	assert.Equal(t, "1\n", buf.String(), "what was written before the failure stays written")
}

func TestWriterCustomEncode(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WriterOptions{
		Encode: func(v value.Value) ([]byte, error) {
			return []byte(strings.ToUpper(v.ToString())), nil
		},
	})
	_, err := w.Write(value.NewString("abc"))
	require.NoError(t, err)
	assert.Equal(t, "ABC\n", buf.String())

	w = NewWriter(&buf, WriterOptions{
		Encode: func(v value.Value) ([]byte, error) {
			return []byte("{\n}"), nil
		},
	})
	_, err = w.Write(value.NewObject())
	assert.Equal(t, ErrMultiline, err)
	assert.Equal(t, "ABC\n", buf.String())
}

type flushRecorder struct {
	bytes.Buffer
	flushes int
}

func (f *flushRecorder) Flush() error {
	f.flushes++
	return nil
}

func (f *flushRecorder) Close() error {
	return errors.New("must not be closed")
}

func TestWriterFlush(t *testing.T) {
	out := &flushRecorder{}
	w := NewWriter(out, WriterOptions{Flush: true})
	_, err := w.Write(value.NewInt(1))
	require.NoError(t, err)
	_, err = w.Write(value.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, 2, out.flushes)

	out = &flushRecorder{}
	w = NewWriter(out, WriterOptions{})
	_, err = w.Write(value.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, 0, out.flushes)
	require.NoError(t, w.Flush())
	assert.Equal(t, 1, out.flushes)
}

func TestWriterFlushBufio(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	w := NewWriter(bw, WriterOptions{Flush: true})
	_, err := w.Write(value.NewBool(true))
	require.NoError(t, err)
	assert.Equal(t, "true\n", buf.String())
}

func TestWriterClose(t *testing.T) {
	out := &flushRecorder{}
	w := NewWriter(out, WriterOptions{})

	require.NoError(t, w.Close(), "caller supplied stream must not be closed")
	require.NoError(t, w.Close())

	_, err := w.Write(value.NewInt(1))
	assert.Equal(t, ErrWriterClosed, err)
	_, err = w.WriteAny(1)
	assert.Equal(t, ErrWriterClosed, err)
	assert.Equal(t, ErrWriterClosed, w.WriteAll([]value.Value{value.NewInt(1)}))
	assert.Equal(t, ErrWriterClosed, w.Flush())
	assert.Empty(t, out.String())
}

func TestRoundTrip(t *testing.T) {
	lines := []string{
		`{"name": "test", "tags": ["a", "b"], "n": 1.50}`,
		`[1, 2, [3, {"x": null}]]`,
		`"multi\nline\u2028 text"`,
		`-0.5e-10`,
		`true`,
		`null`,
		`{}`,
	}
	values := decodeAll(t, lines...)

	for _, opts := range []WriterOptions{{}, {Compact: true}, {SortKeys: true}, {Compact: true, SortKeys: true}} {
		var buf bytes.Buffer
		w := NewWriter(&buf, opts)
		require.NoError(t, w.WriteAll(values))
		require.NoError(t, w.Close())

		rd := NewReader(&buf, ReaderOptions{})
		back, err := rd.ReadAll(ReadOptions{})
		require.NoError(t, err)
		requireValues(t, values, back)
	}
}

func TestWriteAnyKeepsFloats(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WriterOptions{})
	_, err := w.WriteAny(2.0)
	require.NoError(t, err)
	_, err = w.WriteAny([]float64{1, 2.5})
	require.NoError(t, err)
	_, err = w.WriteAny(map[string]float32{"x": 3})
	require.NoError(t, err)
	_, err = w.WriteAny(int64(2))
	require.NoError(t, err)
	assert.Equal(t, "2.0\n[1.0, 2.5]\n{\"x\": 3.0}\n2\n", buf.String())

	rd := NewReader(&buf, ReaderOptions{})
	f, err := rd.ReadFloat()
	require.NoError(t, err)
	assert.Equal(t, 2.0, f)
	_, err = rd.ReadArray()
	require.NoError(t, err)
	_, err = rd.ReadObject()
	require.NoError(t, err)
	n, err := rd.ReadInt()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
