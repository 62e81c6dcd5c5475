package heap

import "github.com/funvibe/noirvm/internal/value"

// String is an immutable, interned byte sequence. Every live string with the
// same byte content shares the same object identity: identity equality
// suffices for byte equality. chars carries a trailing null byte purely for
// host-interop convenience; Length excludes it.
type String struct {
	value.Header
	chars  []byte // length+1 bytes, chars[length] == 0
	Length int
	Hash   uint32
}

func (s *String) Kind() value.Kind { return value.KindString }

// Bytes returns the string's content without the trailing null terminator.
func (s *String) Bytes() []byte { return s.chars[:s.Length] }

// Text returns the string's content as a Go string.
func (s *String) Text() string { return string(s.chars[:s.Length]) }
