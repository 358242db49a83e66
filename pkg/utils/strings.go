// Package utils holds the pure string helpers consumed by the naming
// steps: case conversion, accent stripping and identifier sanitization.
package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnum     = regexp.MustCompile(`[^A-Za-z0-9]+`)
	camelSplit   = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	underscores  = regexp.MustCompile(`_+`)
	invalidIdent = regexp.MustCompile(`[^A-Za-z0-9_]`)
	dashSpace    = regexp.MustCompile(`[-\s]+`)
)

// goKeywords are escaped by SanitizeIdentifier so generated names stay
// legal Go.
var goKeywords = map[string]struct{}{
	"break": {}, "case": {}, "chan": {}, "const": {}, "continue": {},
	"default": {}, "defer": {}, "else": {}, "fallthrough": {}, "for": {},
	"func": {}, "go": {}, "goto": {}, "if": {}, "import": {},
	"interface": {}, "map": {}, "package": {}, "range": {}, "return": {},
	"select": {}, "struct": {}, "switch": {}, "type": {}, "var": {},
}

// RemoveAccents converts accented characters to their base forms.
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// SplitWords splits a string into words, handling camelCase, PascalCase,
// snake_case and kebab-case.
func SplitWords(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	s = RemoveAccents(s)
	s = camelSplit.ReplaceAllString(s, "$1 $2")

	parts := nonAlnum.Split(s, -1)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// ToPascalCase converts a string to PascalCase.
func ToPascalCase(s string) string {
	parts := SplitWords(s)
	if len(parts) == 0 {
		return ""
	}

	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]))
		if len(p) > 1 {
			b.WriteString(strings.ToLower(p[1:]))
		}
	}
	return b.String()
}

// ToCamelCase converts a string to camelCase.
func ToCamelCase(s string) string {
	p := ToPascalCase(s)
	if p == "" {
		return ""
	}
	return strings.ToLower(p[:1]) + p[1:]
}

// ToSnakeCase converts a string to snake_case.
func ToSnakeCase(s string) string {
	parts := SplitWords(s)
	if len(parts) == 0 {
		return ""
	}
	for i := range parts {
		parts[i] = strings.ToLower(parts[i])
	}
	return strings.Join(parts, "_")
}

// ToScreamingSnakeCase converts a string to SCREAMING_SNAKE_CASE.
func ToScreamingSnakeCase(s string) string {
	return strings.ToUpper(ToSnakeCase(s))
}

// DetectNamingConvention classifies an identifier as "snake_case",
// "camelCase", "PascalCase", "SCREAMING_SNAKE_CASE" or "unknown".
func DetectNamingConvention(s string) string {
	if s == "" {
		return "unknown"
	}
	if strings.Contains(s, "_") {
		if s == strings.ToUpper(s) {
			return "SCREAMING_SNAKE_CASE"
		}
		return "snake_case"
	}
	first := rune(s[0])
	if unicode.IsUpper(first) {
		return "PascalCase"
	}
	for _, c := range s {
		if unicode.IsUpper(c) {
			return "camelCase"
		}
	}
	return "unknown"
}

// SanitizeIdentifier turns an arbitrary string into a legal identifier:
// invalid characters become underscores, numeric prefixes get an "n",
// runs of underscores collapse, and Go keywords get the suffix appended.
// An empty result yields the suffix alone.
func SanitizeIdentifier(name, suffix string) string {
	if suffix == "" {
		suffix = "value"
	}

	sanitized := invalidIdent.ReplaceAllString(name, "_")
	if sanitized != "" && sanitized[0] >= '0' && sanitized[0] <= '9' {
		sanitized = "n" + sanitized
	}
	sanitized = underscores.ReplaceAllString(sanitized, "_")
	sanitized = strings.Trim(sanitized, "_")

	if sanitized == "" {
		return suffix
	}
	if _, ok := goKeywords[sanitized]; ok {
		return sanitized + suffix
	}
	return sanitized
}

// SanitizePackageName lowercases a name and sanitizes it for use as a
// package or module name, with "sdk" as the fallback suffix.
func SanitizePackageName(name string) string {
	name = strings.ToLower(name)
	name = dashSpace.ReplaceAllString(name, "_")
	return SanitizeIdentifier(name, "sdk")
}
