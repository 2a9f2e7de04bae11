package scanner

func IsDigit[T byte | rune](b T) bool {
	return b >= '0' && b <= '9'
}

func IsHexDigit[T byte | rune](b T) bool {
	return IsDigit(b) || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}

func IsCtrl[T byte | rune](b T) bool {
	return b < 32
}

// IsSpace is true for the four whitespace characters allowed by JSON.
func IsSpace[T byte | rune](b T) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
