// Package strings provides small string helpers shared across services
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// HasSuffixFold reports whether s ends with suf, ignoring ASCII/Unicode case
func HasSuffixFold(s, suf string) bool {
	return len(s) >= len(suf) && std.EqualFold(s[len(s)-len(suf):], suf)
}

// MustString returns s if it has non whitespace content otherwise panics
// name is used in the panic message so you can tell what was missing
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes and asserts a root path like /api/v1
// ensures a single leading slash and no trailing slash except for the root itself
// panics if the input is empty after trimming
func MustPrefix(s string) string {
	s = std.TrimSpace(s)
	s = "/" + std.Trim(s, " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// LastSegment returns the part of p after the final '/', or p itself
func LastSegment(p string) string {
	if i := std.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}
