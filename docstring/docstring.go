// Package docstring rewrites Google-style documentation comments as
// Markdown.
//
// The dialect is recognized line by line. A small block state (see State)
// is threaded through the lines and every line either opens, continues or
// closes one of the blocks below:
//
//   - list sections (Args, Returns, Raises, ...) whose entries become
//     bullets with a bold name;
//   - quote sections (Note, Notes) folded into a single block quote;
//   - reStructuredText literal blocks introduced by a trailing "::";
//   - explicit fenced code, kept verbatim.
//
// Transpile never fails: lines it cannot place are emitted as plain text.
package docstring

import (
	"strings"
	"unicode"
)

// DefaultIgnoreMarker suppresses documentation for the unit carrying it.
const DefaultIgnoreMarker = "lazydocs: ignore"

// Transpile converts a docstring to Markdown. It is a pure function of its
// input and is safe for concurrent use.
func Transpile(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return ""
	}
	var buf strings.Builder
	st := NewState()
	for _, raw := range strings.Split(text, "\n") {
		var frags []string
		st, frags = Step(st, raw)
		for _, f := range frags {
			buf.WriteString(f)
		}
	}
	for _, f := range Finish(st) {
		buf.WriteString(f)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.Join(lines, "\n")
}

// Clean normalizes docstring whitespace: leading and trailing blank lines
// are dropped, the first line is left-trimmed and the common indentation
// of the remaining lines is removed.
func Clean(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}
	lines[0] = strings.TrimLeft(lines[0], " \t")

	margin := -1
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := leadingWhitespace(line)
		if margin == -1 || indent < margin {
			margin = indent
		}
	}
	if margin > 0 {
		for i := 1; i < len(lines); i++ {
			lines[i] = stripIndent(lines[i], margin)
		}
	}
	return strings.Join(lines, "\n")
}

func leadingWhitespace(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// Summary returns the first paragraph of a docstring joined into one line.
// A section header ends the paragraph early.
func Summary(text string) string {
	var parts []string
	for _, line := range strings.Split(Clean(text), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || MatchHeader(trimmed) != NoHeader {
			break
		}
		parts = append(parts, trimmed)
	}
	return strings.Join(parts, " ")
}

// HasIgnoreMarker reports whether text contains marker, ignoring case and
// whitespace. An empty marker falls back to DefaultIgnoreMarker.
func HasIgnoreMarker(text, marker string) bool {
	if marker == "" {
		marker = DefaultIgnoreMarker
	}
	return strings.Contains(squash(text), squash(marker))
}

func squash(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}
