// Package substitute rewrites generated files in place with two ordered rule
// sets: a token set that replaces __PLACEHOLDER__ markers, then a legacy set
// that rewrites the fixed reference strings of a non-tokenized template.
//
// The token set always runs first. No legacy matcher may match a token
// literal (see CheckDisjoint), and legacy matchers are anchored to pristine
// reference values, so running the engine twice leaves every file unchanged
// the second time.
package substitute

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule is one replacement: a literal substring or a compiled pattern, and
// what to put in its place.
type Rule struct {
	Name string

	literal string
	pattern *regexp.Regexp

	replacement string
	replaceFunc func(string) string

	// unless lists literals whose presence in the pristine file disables
	// the rule.
	unless []string
}

// Literal replaces every occurrence of match with replacement.
func Literal(match, replacement string) Rule {
	return Rule{Name: match, literal: match, replacement: replacement}
}

// Pattern replaces every match of re with replacement, which may reference
// capture groups as ${1}.
func Pattern(name string, re *regexp.Regexp, replacement string) Rule {
	return Rule{Name: name, pattern: re, replacement: replacement}
}

// PatternFunc replaces every match of re with fn(match).
func PatternFunc(name string, re *regexp.Regexp, fn func(string) string) Rule {
	return Rule{Name: name, pattern: re, replaceFunc: fn}
}

// UnlessPresent returns a copy of r that is skipped for files whose content,
// before any rule ran, contains one of lits.
func (r Rule) UnlessPresent(lits ...string) Rule {
	r.unless = append(append([]string(nil), r.unless...), lits...)
	return r
}

// Skips reports whether r is disabled for a file whose pristine content is
// pristine.
func (r Rule) Skips(pristine string) bool {
	for _, lit := range r.unless {
		if strings.Contains(pristine, lit) {
			return true
		}
	}
	return false
}

// IsLiteral reports whether the rule matches a fixed substring.
func (r Rule) IsLiteral() bool { return r.pattern == nil }

// Matches reports whether the rule would change anything in s.
func (r Rule) Matches(s string) bool {
	if r.IsLiteral() {
		return r.literal != "" && strings.Contains(s, r.literal)
	}
	return r.pattern.MatchString(s)
}

// Apply returns s with the rule applied to every occurrence.
func (r Rule) Apply(s string) string {
	switch {
	case r.IsLiteral():
		if r.literal == "" {
			return s
		}
		return strings.ReplaceAll(s, r.literal, r.replacement)
	case r.replaceFunc != nil:
		return r.pattern.ReplaceAllStringFunc(s, r.replaceFunc)
	default:
		return r.pattern.ReplaceAllString(s, r.replacement)
	}
}

// RuleSet is an ordered list of rules applied one after another.
type RuleSet struct {
	Name  string
	Rules []Rule
}

// Apply runs every rule in declaration order.
func (rs RuleSet) Apply(s string) string {
	return rs.ApplyFrom(s, s)
}

// ApplyFrom runs every rule in declaration order on s, skipping the rules
// that pristine disables.
func (rs RuleSet) ApplyFrom(pristine, s string) string {
	for _, r := range rs.Rules {
		if r.Skips(pristine) {
			continue
		}
		s = r.Apply(s)
	}
	return s
}

// Literals returns the match strings of the literal rules in the set.
func (rs RuleSet) Literals() []string {
	var out []string
	for _, r := range rs.Rules {
		if r.IsLiteral() && r.literal != "" {
			out = append(out, r.literal)
		}
	}
	return out
}

// CheckDisjoint verifies that no legacy rule targets token text: a legacy
// matcher must not match any token literal, and no legacy literal may contain
// one. Violating this would let the legacy pass see half-substituted tokens.
func CheckDisjoint(token, legacy RuleSet) error {
	for _, tok := range token.Literals() {
		for _, r := range legacy.Rules {
			if r.Matches(tok) {
				return fmt.Errorf("legacy rule %q in %q matches token %q", r.Name, legacy.Name, tok)
			}
			if r.IsLiteral() && strings.Contains(r.literal, tok) {
				return fmt.Errorf("legacy rule %q in %q contains token %q", r.Name, legacy.Name, tok)
			}
		}
	}
	return nil
}

// escapeExpand protects literal replacement text from ${n} expansion.
func escapeExpand(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}
