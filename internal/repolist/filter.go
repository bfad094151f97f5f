package repolist

import "strings"

// Matches reports whether name is shown under filter query.
// Matching is a case-sensitive substring test; the empty query matches everything.
func Matches(name, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(name, query)
}

// MatchIndex returns the byte offset of the first match of query in name, or -1.
// Views use it to highlight the matched part.
func MatchIndex(name, query string) int {
	if query == "" {
		return -1
	}
	return strings.Index(name, query)
}
