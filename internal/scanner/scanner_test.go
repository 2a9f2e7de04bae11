package scanner

import (
	"testing"
)

func strScanner(s string) *Scanner {
	return NewScanner([]byte(s))
}

func assertRead(t *testing.T, s *Scanner, xb byte) {
	t.Helper()
	b := s.Read()
	if b != xb {
		t.Fatalf("Read: expected b = %q, got %q", xb, b)
	}
}

func assertPeek(t *testing.T, s *Scanner, xb byte) {
	t.Helper()
	b := s.Peek()
	if b != xb {
		t.Fatalf("Peek: expected b = %q, got %q", xb, b)
	}
}

func assertCurrentCol(t *testing.T, s *Scanner, col int) {
	t.Helper()
	pos := s.CurrentPos()
	if pos.Col != col {
		t.Fatalf("CurrentPos: expected col %d got %d", col, pos.Col)
	}
}

func assertEndToken(t *testing.T, s *Scanner, tokStr string) {
	t.Helper()
	tok := s.EndToken()
	if string(tok) != tokStr {
		t.Fatalf("EndToken: expected %q got %q", tokStr, tok)
	}
}

func TestSimple(t *testing.T) {
	scanner := strScanner("bonjour")
	assertRead(t, scanner, 'b')
	assertRead(t, scanner, 'o')
	assertCurrentCol(t, scanner, 2)
	assertPeek(t, scanner, 'n')
	assertCurrentCol(t, scanner, 2)
	assertRead(t, scanner, 'n')
	assertCurrentCol(t, scanner, 3)
	scanner.Back()
	assertCurrentCol(t, scanner, 2)
	assertRead(t, scanner, 'n')
	assertCurrentCol(t, scanner, 3)

	scanner.StartToken()
	assertRead(t, scanner, 'j')
	assertRead(t, scanner, 'o')
	assertRead(t, scanner, 'u')
	assertRead(t, scanner, 'r')
	assertCurrentCol(t, scanner, 7)
	assertRead(t, scanner, EOF)
	scanner.Back()
	assertRead(t, scanner, EOF)
	scanner.Back()
	assertCurrentCol(t, scanner, 7)
	assertEndToken(t, scanner, "jour")
}

func TestMultibyteColumns(t *testing.T) {
	scanner := strScanner("é世x")
	assertRead(t, scanner, 0xC3)
	assertCurrentCol(t, scanner, 1)
	assertRead(t, scanner, 0xA9)
	assertCurrentCol(t, scanner, 1)
	scanner.Read()
	scanner.Read()
	scanner.Read()
	assertCurrentCol(t, scanner, 2)
	assertRead(t, scanner, 'x')
	assertCurrentCol(t, scanner, 3)
}

func TestSkipSpace(t *testing.T) {
	scanner := strScanner(" \t\r\n  x  ")
	if b := scanner.SkipSpaceAndPeek(); b != 'x' {
		t.Fatalf("expected 'x', got %q", b)
	}
	assertCurrentCol(t, scanner, 6)
	if scanner.Done() {
		t.Fatal("scanner should not be done before 'x'")
	}
	assertRead(t, scanner, 'x')
	if !scanner.Done() {
		t.Fatal("scanner should be done after trailing spaces")
	}
}

func TestBackPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	scanner := strScanner("ab")
	scanner.Read()
	scanner.Back()
	scanner.Back()
}
