package nlp

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(`\s+`)

// Normalize lowercases a skill token and collapses inner whitespace. Symbol
// characters stay as-is: tokens like "c#" and ".net" are matched literally.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// TokenPattern compiles a case-insensitive whole-token matcher for a skill.
// A token boundary is any non-alphanumeric character, so "api" does not match
// inside "apis" but "node" matches in "node.js".
func TokenPattern(token string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(^|[^a-z0-9])` + regexp.QuoteMeta(token) + `([^a-z0-9]|$)`)
}

// ContainsToken reports whether the text contains the token as a whole word.
func ContainsToken(text string, pattern *regexp.Regexp) bool {
	return pattern.MatchString(text)
}
