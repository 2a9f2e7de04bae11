package jsonlines

import (
	"io"
	"iter"

	"github.com/pkg/errors"

	"github.com/arnodel/jsonlines/value"
)

// An Iterator steps through the values of a Reader.  Typical use:
//
//	it := r.Iter(opts)
//	for it.Advance() {
//	    v := it.CurrentValue()
//	    ...
//	}
//	if err := it.Err(); err != nil {
//	    ...
//	}
type Iterator struct {
	r            *Reader
	opts         ReadOptions
	currentValue value.Value
	err          error
	done         bool
}

// Iter returns an Iterator over the remaining values of r.  Iteration is
// single pass: values consumed by the iterator are gone from r.
func (r *Reader) Iter(opts ReadOptions) *Iterator {
	return &Iterator{r: r, opts: opts}
}

// Advance moves to the next value and reports whether there is one.  It
// returns false at the end of input, or on the first error.
func (i *Iterator) Advance() bool {
	if i.done {
		return false
	}
	for {
		v, err := i.r.Read(i.opts)
		if err == nil {
			i.currentValue = v
			return true
		}
		var invalid *InvalidLineError
		if i.opts.SkipInvalid && errors.As(err, &invalid) {
			if i.opts.OnSkip != nil {
				i.opts.OnSkip(invalid)
			}
			continue
		}
		i.done = true
		i.currentValue = value.Value{}
		if !errors.Is(err, io.EOF) {
			i.err = err
		}
		return false
	}
}

// CurrentValue returns the value found by the last successful call to
// Advance.
func (i *Iterator) CurrentValue() value.Value {
	return i.currentValue
}

// Err returns the error that stopped iteration, or nil if the end of input
// was reached.
func (i *Iterator) Err() error {
	return i.err
}

// All returns an iterator over the remaining values of r for use in a range
// loop.  If iteration stops because of an error, the error is yielded last
// with a null value.
//
//	for v, err := range r.All(opts) {
//	    if err != nil {
//	        return err
//	    }
//	    ...
//	}
func (r *Reader) All(opts ReadOptions) iter.Seq2[value.Value, error] {
	return func(yield func(value.Value, error) bool) {
		it := r.Iter(opts)
		for it.Advance() {
			if !yield(it.CurrentValue(), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			yield(value.Value{}, err)
		}
	}
}
