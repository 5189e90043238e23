package naming

import (
	"regexp"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Transliteration table: each rune in from maps to the rune at the same index in to.
const (
	from = "àáäâèéëêìíïîòóöôùúüûñç·/,:;"
	to   = "aaaaeeeeiiiioooouuuunc-----"
)

var (
	transliterations = buildTable()

	whitespaceRun  = regexp.MustCompile(`\s+`)
	hyphenRun      = regexp.MustCompile(`-+`)
	machinePattern = regexp.MustCompile(`^[a-z0-9-]+$`)
)

func buildTable() map[rune]rune {
	src, dst := []rune(from), []rune(to)
	m := make(map[rune]rune, len(src))
	for i, r := range src {
		m[r] = dst[i]
	}
	return m
}

func transliterate(r rune) rune {
	if t, ok := transliterations[r]; ok {
		return t
	}
	return r
}

func invalid(r rune) bool {
	return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == ' ' || r == '-')
}

// Normalize maps a display name to a machine name:
//   - trim surrounding whitespace and lowercase
//   - transliterate accented letters and ·/,:; (the latter become hyphens)
//   - drop anything outside [a-z0-9 -]
//   - whitespace runs become one hyphen, hyphen runs collapse to one
//
// Normalize is total: an input with nothing usable yields "".
func Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	t := transform.Chain(runes.Map(transliterate), runes.Remove(runes.Predicate(invalid)))
	s, _, _ = transform.String(t, s)

	s = whitespaceRun.ReplaceAllString(s, "-")
	return hyphenRun.ReplaceAllString(s, "-")
}

// Valid reports whether name is a usable, non-empty machine name.
func Valid(name string) bool {
	return machinePattern.MatchString(name)
}
