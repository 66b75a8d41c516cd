package templates

import "strings"

// denySet holds path segments that disqualify a workspace path from being
// copied: runtime data, logs, package caches, installed dependencies, and
// VCS, editor and OS metadata.
var denySet = map[string]bool{
	"data":         true,
	"logs":         true,
	".pnpm-store":  true,
	"run":          true,
	"node_modules": true,
	".git":         true,
	".idea":        true,
	".vscode":      true,
	".DS_Store":    true,
}

// Denied reports whether any segment of a relative path is in the deny-set.
// It is evaluated per segment, so a denied name anywhere in the path rejects
// the whole path.
func Denied(segments []string) bool {
	for _, seg := range segments {
		if denySet[seg] {
			return true
		}
	}
	return false
}

// Segments splits a slash- or backslash-separated relative path into its
// non-empty segments.
func Segments(rel string) []string {
	fields := strings.FieldsFunc(rel, func(r rune) bool { return r == '/' || r == '\\' })
	out := fields[:0]
	for _, f := range fields {
		if f != "." {
			out = append(out, f)
		}
	}
	return out
}
