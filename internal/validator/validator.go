// Package validator enforces the input constraints of a translation request.
// It runs before any model call so rejected input never costs inference time.
package validator

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLength is the maximum number of characters accepted.
const MaxLength = 1000

// Kind identifies a validation failure.
type Kind string

const (
	EmptyInput        Kind = "EmptyInput"
	TooLong           Kind = "TooLong"
	InvalidCharacters Kind = "InvalidCharacters"
)

// Sentinels for errors.Is comparisons against an *Error.
var (
	ErrEmptyInput        = &Error{Kind: EmptyInput}
	ErrTooLong           = &Error{Kind: TooLong}
	ErrInvalidCharacters = &Error{Kind: InvalidCharacters}
)

// Error is a single validation failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is matches errors of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Validate returns text unchanged if it passes every rule, or the first violation.
func Validate(text string) (string, error) {
	if errs := ValidateAll(text); len(errs) > 0 {
		return "", errs[0]
	}
	return text, nil
}

// ValidateAll returns every violation found in text. Empty input is reported alone.
func ValidateAll(text string) []*Error {
	if strings.TrimFunc(text, isSpace) == "" {
		return []*Error{{Kind: EmptyInput, Message: "Text must not be empty."}}
	}

	var errs []*Error
	if n := utf8.RuneCountInString(text); n > MaxLength {
		errs = append(errs, &Error{
			Kind:    TooLong,
			Message: fmt.Sprintf("Text must be at most %d characters (got %d).", MaxLength, n),
		})
	}
	if bad := invalidRunes(text); len(bad) > 0 {
		errs = append(errs, &Error{
			Kind:    InvalidCharacters,
			Message: fmt.Sprintf("Text contains invalid characters: %s", quoteRunes(bad)),
		})
	}
	return errs
}

// Messages flattens errs into their messages.
func Messages(errs []*Error) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}

// isSpace is Unicode whitespace plus the separators U+001C..U+001F.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// allowed matches the character class [A-Za-z0-9\s.,!?@'"()].
func allowed(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case isSpace(r):
		return true
	}
	switch r {
	case '.', ',', '!', '?', '@', '\'', '"', '(', ')':
		return true
	}
	return false
}

// invalidRunes returns the distinct disallowed runes of s in order of first appearance.
func invalidRunes(s string) []rune {
	var bad []rune
	seen := make(map[rune]struct{})
	for _, r := range s {
		if allowed(r) {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		bad = append(bad, r)
	}
	return bad
}

func quoteRunes(rs []rune) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = fmt.Sprintf("%q", r)
	}
	return strings.Join(parts, ", ")
}
