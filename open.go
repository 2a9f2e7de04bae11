package jsonlines

import (
	"bufio"
	"io"
	"os"
)

// Open opens the named file and returns a *Reader for mode "r", or a
// *Writer for modes "w" (truncate), "a" (append) and "x" (exclusive
// create).  The returned value owns the file: closing it closes the file.
func Open(name, mode string) (io.Closer, error) {
	switch mode {
	case "r":
		r, err := OpenReader(name, ReaderOptions{})
		if err != nil {
			return nil, err
		}
		return r, nil
	case "w", "a", "x":
		w, err := OpenWriter(name, mode, WriterOptions{})
		if err != nil {
			return nil, err
		}
		return w, nil
	default:
		return nil, &InvalidModeError{Mode: mode}
	}
}

// OpenReader opens the named file for reading.  Errors from the file system
// are returned unchanged.
func OpenReader(name string, opts ReaderOptions) (*Reader, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	r := NewReader(f, opts)
	r.owned = f
	return r, nil
}

// OpenWriter opens the named file for writing with mode "w", "a" or "x".
// Output is buffered until Close, or after each value with opts.Flush.
// Errors from the file system are returned unchanged; in particular mode
// "x" fails with an error matching fs.ErrExist if the file exists.
func OpenWriter(name, mode string, opts WriterOptions) (*Writer, error) {
	var flag int
	switch mode {
	case "w":
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case "a":
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	case "x":
		flag = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	default:
		return nil, &InvalidModeError{Mode: mode}
	}
	f, err := os.OpenFile(name, flag, 0o666)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriter(f)
	w := NewWriter(buf, opts)
	w.buf = buf
	w.owned = f
	return w, nil
}
