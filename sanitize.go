package tbrowse

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports invalid UTF-8 input.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports input that appears to be binary.
	ErrBinaryInput = errors.New("binary input detected")
)

const (
	minBinarySample = 64
	maxControlPct   = 2
)

// ValidateInput returns ErrBinaryInput for input carrying NUL bytes or a
// high share of control bytes, and ErrInvalidUTF8 for text that is not
// valid UTF-8. Binary takes precedence.
func ValidateInput(src []byte) error {
	var control int
	for _, b := range src {
		if b == 0x00 {
			return ErrBinaryInput
		}
		if isControlByte(b) {
			control++
		}
	}
	if len(src) >= minBinarySample && control*100 >= len(src)*maxControlPct {
		return ErrBinaryInput
	}
	if !utf8.Valid(src) {
		return ErrInvalidUTF8
	}
	return nil
}

// Sanitize makes raw bytes safe for the tree builder: a leading byte order
// mark is dropped, control characters other than newline, carriage return
// and tab become spaces, and invalid UTF-8 becomes '?'. With asciiOnly,
// every non-ASCII rune also becomes '?'.
func Sanitize(src []byte, asciiOnly bool) string {
	src = trimBOM(src)
	var b strings.Builder
	b.Grow(len(src))
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRune(src[i:])
		i += size
		switch {
		case r == utf8.RuneError && size == 1:
			b.WriteByte('?')
		case isControlRune(r):
			b.WriteByte(' ')
		case asciiOnly && r >= utf8.RuneSelf:
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isControlByte(b byte) bool {
	if b < 0x09 {
		return true
	}
	if b > 0x0D && b < 0x20 {
		return true
	}
	return b == 0x7F
}

// stripControls drops every C0 and C1 control rune, including newline and
// tab, so a value can be written inside an escape sequence.
func stripControls(s string) string {
	clean := true
	for _, r := range s {
		if r < 0x20 || r == 0x7F || (r >= 0x80 && r < 0xA0) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F || (r >= 0x80 && r < 0xA0) {
			return -1
		}
		return r
	}, s)
}

func isControlRune(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return false
	}
	return r < 0x20 || r == 0x7F || (r >= 0x80 && r < 0xA0)
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
