package jsonlines

import (
	"bufio"
	"io"
)

// A LineSource produces candidate JSON Lines lines one at a time.  ReadLine
// returns io.EOF when there are no more lines.  A returned line may still
// end with "\n" or "\r\n"; the Reader strips it.
type LineSource interface {
	ReadLine() (string, error)
}

// NewLineSource returns a LineSource reading lines from r.  There is no
// limit on the length of a line.  The last line does not need to end with a
// newline.
func NewLineSource(r io.Reader) LineSource {
	if br, ok := r.(*bufio.Reader); ok {
		return &readerSource{r: br}
	}
	return &readerSource{r: bufio.NewReader(r)}
}

type readerSource struct {
	r *bufio.Reader
}

func (s *readerSource) ReadLine() (string, error) {
	line, err := s.r.ReadString('\n')
	if err == io.EOF && line != "" {
		return line, nil
	}
	return line, err
}

// LinesFromSlice returns a LineSource producing the given lines in order.
func LinesFromSlice(lines []string) LineSource {
	return &sliceSource{lines: lines}
}

type sliceSource struct {
	lines []string
}

func (s *sliceSource) ReadLine() (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

// LineSourceFunc adapts a function to a LineSource.
type LineSourceFunc func() (string, error)

func (f LineSourceFunc) ReadLine() (string, error) {
	return f()
}
