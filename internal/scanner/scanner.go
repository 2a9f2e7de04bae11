package scanner

// Pos records where the scanner is in the line.  Offset counts bytes and Col
// counts UTF-8 encoded code points, both from 0.
type Pos struct {
	Offset int
	Col    int
}

// A Scanner reads the bytes of a single line one at a time, keeping track of
// the column for error messages.
type Scanner struct {
	buf []byte

	// Current position in buf
	// 0 <= current.Offset <= len(buf)
	current, prev Pos

	// Position in buf of the currently recorded token.
	// -1 means not recording a token
	tokenStartIndex int

	// Tracks how many EOFs have been read.  This is required to make
	// Back() work after an EOF has been read.
	eofCount int
}

func NewScanner(buf []byte) *Scanner {
	return &Scanner{
		buf:             buf,
		tokenStartIndex: -1,
		prev:            Pos{Offset: -1},
	}
}

func (s *Scanner) Read() byte {
	if s.current.Offset >= len(s.buf) {
		s.eofCount++
		return EOF
	}
	b := s.buf[s.current.Offset]
	s.prev = s.current
	s.current.Offset++
	if !isContinuation(b) {
		s.current.Col++
	}
	return b
}

func (s *Scanner) Peek() byte {
	if s.current.Offset >= len(s.buf) {
		return EOF
	}
	return s.buf[s.current.Offset]
}

// Back undoes the last Read.  It can only be called once after each Read.
func (s *Scanner) Back() {
	if s.eofCount > 0 {
		s.eofCount--
		return
	}
	if s.current.Offset <= 0 || s.current.Offset <= s.tokenStartIndex {
		panic("cannot go back from start")
	}
	if s.prev.Offset < 0 {
		panic("cannot go back twice")
	}
	s.current = s.prev
	s.prev.Offset = -1
}

func (s *Scanner) CurrentPos() Pos {
	return s.current
}

func (s *Scanner) StartToken() Pos {
	if s.tokenStartIndex >= 0 {
		panic("already in record mode")
	}
	s.tokenStartIndex = s.current.Offset
	return s.current
}

// EndToken returns the bytes read since StartToken.  The returned slice
// shares memory with the scanned line.
func (s *Scanner) EndToken() []byte {
	if s.tokenStartIndex < 0 {
		panic("not in record mode")
	}
	tok := s.buf[s.tokenStartIndex:s.current.Offset]
	s.tokenStartIndex = -1
	return tok
}

func (s *Scanner) SkipSpaceAndPeek() byte {
	for i, b := range s.buf[s.current.Offset:] {
		if !IsSpace(b) {
			s.current.Offset += i
			return b
		}
		s.current.Col++
	}
	s.current.Offset = len(s.buf)
	return EOF
}

// Done reports whether only whitespace is left to read.
func (s *Scanner) Done() bool {
	return s.SkipSpaceAndPeek() == EOF
}

func isContinuation(b byte) bool {
	return b&0xC0 == 0x80
}

// 0xFF is a byte that should not appear in a UTF-8 encoded stream of bytes.
// Callers must reject invalid UTF-8 before scanning.
const EOF byte = 0xFF
