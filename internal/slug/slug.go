// Package slug builds URL slugs from display names and resolves collisions
// against a persistence-backed existence check.
package slug

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// MaxAttempts bounds the collision loop.
	MaxAttempts = 10000
	// MaxLength is the width of the slug columns.
	MaxLength = 255
)

var (
	ErrEmpty     = errors.New("slug: name produces an empty slug")
	ErrExhausted = errors.New("slug: no free candidate found")
)

// ExistsFunc reports whether slug is already taken by a row other than excludeID.
// excludeID is 0 when there is no row to exclude.
type ExistsFunc func(ctx context.Context, slug string, excludeID int) (bool, error)

var transliterations = map[rune]string{
	'ß': "ss", 'æ': "ae", 'Æ': "ae", 'ø': "o", 'Ø': "o", 'đ': "d", 'Đ': "d",
	'ł': "l", 'Ł': "l", 'œ': "oe", 'Œ': "oe", 'þ': "th", 'Þ': "th", 'ð': "d",
}

// Make returns the slugified form of name: transliterated to ASCII, lower-cased,
// every run of non-alphanumerics replaced by one hyphen, hyphens trimmed and
// cut to MaxLength.
func Make(name string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		name,
	)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false

	write := func(s string) {
		if pendingHyphen && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingHyphen = false
		b.WriteString(s)
	}

	for _, r := range folded {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			write(string(unicode.ToLower(r)))
		default:
			if t, ok := transliterations[r]; ok {
				write(t)
				continue
			}
			pendingHyphen = true
		}
	}

	return truncate(b.String(), MaxLength)
}

// truncate cuts an ASCII slug to at most n bytes without a trailing hyphen.
func truncate(s string, n int) string {
	if len(s) > n {
		s = s[:n]
	}
	return strings.TrimRight(s, "-")
}

// withSuffix appends -i to base, shortening base so the result fits MaxLength.
func withSuffix(base string, i int) string {
	suffix := "-" + strconv.Itoa(i)
	return truncate(base, MaxLength-len(suffix)) + suffix
}

// Generate returns the first free slug for name: the base slug itself, or
// base-1, base-2, ... when the previous candidates are taken. A suffixed
// candidate shortens base rather than exceed MaxLength.
func Generate(ctx context.Context, name string, exists ExistsFunc, excludeID int) (string, error) {
	base := Make(name)
	if base == "" {
		return "", ErrEmpty
	}

	candidate := base
	for i := 1; i <= MaxAttempts; i++ {
		taken, err := exists(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = withSuffix(base, i)
	}

	return "", fmt.Errorf("%w: base %q", ErrExhausted, base)
}

// NeedsGeneration implements the invocation policy: a new record gets a slug
// when it has none; an existing one only when its name changed and the slug
// was cleared. A non-empty slug is never rewritten.
func NeedsGeneration(isNew, nameChanged bool, current string) bool {
	if current != "" {
		return false
	}
	return isNew || nameChanged
}
