package utils

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	scriptStyleRe = regexp.MustCompile(`(?is)<(script|style)[^>]*?>.*?</(script|style)\s*>`)
	tagRe         = regexp.MustCompile(`(?s)<[^>]*>?`)
	octetRe       = regexp.MustCompile(`(?i)%[a-f0-9]{2}`)
	lineSpaceRe   = regexp.MustCompile(`[\r\n\t ]+`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	leadingIntRe  = regexp.MustCompile(`^\s*[-+]?\d+`)
)

// StripAllTags removes every tag, including the contents of script and style
// elements.
func StripAllTags(s string) string {
	s = scriptStyleRe.ReplaceAllString(s, "")
	s = tagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// SanitizeTextField strips markup, invalid UTF-8, percent-encoded octets and
// line breaks from a single-line value.
func SanitizeTextField(s string) string {
	return sanitizeText(s, false)
}

// SanitizeTextarea is SanitizeTextField but keeps line breaks.
func SanitizeTextarea(s string) string {
	return sanitizeText(s, true)
}

func sanitizeText(s string, keepNewlines bool) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	if strings.Contains(s, "<") {
		s = StripAllTags(s)
	}
	if !keepNewlines {
		s = lineSpaceRe.ReplaceAllString(s, " ")
	} else {
		s = strings.ReplaceAll(s, "\r\n", "\n")
	}
	for octetRe.MatchString(s) {
		s = octetRe.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}

// Unslash removes backslash escaping added by transport encoding.
func Unslash(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if escaped {
			if r == '0' {
				b.WriteRune(0)
			} else {
				b.WriteRune(r)
			}
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TrimAll removes every whitespace character.
func TrimAll(s string) string {
	return whitespaceRe.ReplaceAllString(s, "")
}

// AbsInt parses the leading integer of s and drops its sign. Values without a
// leading integer yield 0.
func AbsInt(s string) uint {
	m := leadingIntRe.FindString(s)
	if m == "" {
		return 0
	}
	m = strings.TrimLeft(strings.TrimSpace(m), "+-")
	n, err := strconv.ParseUint(m, 10, 0)
	if err != nil {
		return 0
	}
	return uint(n)
}

// NL2BR inserts an HTML line break before every newline.
func NL2BR(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "<br />\n")
}
