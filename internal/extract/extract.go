package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/spotconnect/internal/shared"
)

// Positions of the "name" occurrences in the currently-playing payload, as passed to [Name].
//
// The album object (with its own artists) precedes the track's artists and the track name,
// so the track title is the last occurrence.
const (
	PosTrack  = 0
	PosAlbum  = 2
	PosArtist = 3
)

const namePattern = `"name" : "`

var (
	ErrNotFound  = shared.ErrFieldNotFound
	ErrMalformed = shared.ErrMalformedResponse
)

// Pattern returns the literal text that precedes the value of key.
func Pattern(key string) string {
	switch key {
	case "access_token", "refresh_token":
		return `"` + key + `":"`
	case "id":
		return `"` + key + `" : "`
	default:
		return `"` + key + `" : `
	}
}

// Field returns the text between the first occurrence of [Pattern](key) and the next double quote.
// A quoted value after a general pattern has its opening quote skipped; unquoted values such as
// numbers run up to the next quote in text.
func Field(text, key string) (string, error) {
	v, _, err := FieldN(text, key, 0)
	return v, err
}

// FieldN is [Field] with a destination capacity. Values of capacity bytes or more are cut to
// capacity-1 bytes (on a rune boundary) and truncated is set. A capacity <= 0 means unbounded.
func FieldN(text, key string, capacity int) (value string, truncated bool, err error) {
	pattern := Pattern(key)
	start := strings.Index(text, pattern)
	if start < 0 {
		return "", false, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	start += len(pattern)
	if pattern[len(pattern)-1] == ' ' && start < len(text) && text[start] == '"' {
		start++
	}

	end := strings.IndexByte(text[start:], '"')
	if end < 0 {
		return "", false, fmt.Errorf("%w: unterminated value for %q", ErrMalformed, key)
	}

	value, truncated = clip(text[start:start+end], capacity)
	return value, truncated, nil
}

// Name returns the n-th (1-indexed) "name" string value in text, or the last one when n is 0.
func Name(text string, n int) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("%w: negative name position %d", shared.ErrInvalidArgument, n)
	}

	var (
		last  string
		found bool
		count int
	)

	rest := text
	for {
		i := strings.Index(rest, namePattern)
		if i < 0 {
			break
		}
		rest = rest[i+len(namePattern):]
		count++

		end := strings.IndexByte(rest, '"')
		if end < 0 {
			return "", fmt.Errorf("%w: unterminated name #%d", ErrMalformed, count)
		}

		if n > 0 && count == n {
			return rest[:end], nil
		}
		if n == 0 {
			last, found = rest[:end], true
		}
		rest = rest[end+1:]
	}

	if n == 0 && found {
		return last, nil
	}
	return "", fmt.Errorf("%w: name #%d (saw %d)", ErrNotFound, n, count)
}

// Int reads an optionally signed run of leading decimal digits, skipping leading spaces.
func Int(text string) (int, error) {
	s := strings.TrimLeft(text, " \t\r\n")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n, digits := 0, 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		n = n*10 + int(s[digits]-'0')
		digits++
	}
	if digits == 0 {
		return 0, fmt.Errorf("%w: %q is not a number", ErrMalformed, text)
	}
	if neg {
		n = -n
	}
	return n, nil
}

// Bool reports whether text starts with the literal true.
func Bool(text string) bool {
	return strings.HasPrefix(strings.TrimLeft(text, " \t\r\n"), "true")
}

func clip(s string, capacity int) (string, bool) {
	if capacity <= 0 || len(s) < capacity {
		return s, false
	}
	cut := capacity - 1
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut], true
}
