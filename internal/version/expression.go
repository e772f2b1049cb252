package version

import "strings"

// Kind discriminates the three shapes a VersionExpression can take.
type Kind int

const (
	// KindAny matches every candidate; equivalent to KindAtLeast("0").
	KindAny Kind = iota
	KindExact
	KindAtLeast
)

// Expression is a parsed version-expression as described in spec.md §3.
type Expression struct {
	kind  Kind
	value string
}

// Any is the expression that matches every candidate version.
var Any = Expression{kind: KindAny}

// ParseExpression parses a user-facing version expression. A trailing '+'
// selects KindAtLeast; an empty string selects KindAny; anything else is
// KindExact. Dots and dashes in the input are left untouched — normalization
// happens at comparison time in Matches.
func ParseExpression(s string) Expression {
	if s == "" {
		return Any
	}
	if strings.HasSuffix(s, "+") {
		v := strings.TrimSuffix(s, "+")
		if v == "" || v == "0" {
			return Any
		}
		return Expression{kind: KindAtLeast, value: v}
	}
	return Expression{kind: KindExact, value: s}
}

// String renders the expression back into cjdk's version-expression syntax.
// ParseExpression(e.String()) reproduces an equivalent Expression for every
// e, satisfying the round-trip property in spec.md §8.
func (e Expression) String() string {
	switch e.kind {
	case KindAny:
		return ""
	case KindAtLeast:
		return e.value + "+"
	default:
		return e.value
	}
}

// Kind reports which shape the expression takes.
func (e Expression) Kind() Kind { return e.kind }

// Value returns the version literal carried by KindExact/KindAtLeast
// expressions; it is empty for KindAny.
func (e Expression) Value() string { return e.value }

// Matches reports whether candidate satisfies the expression under the given
// vendor's normalization rules.
//
//   - KindAny matches everything.
//   - KindAtLeast(v) matches c iff Compare(c, v, vendor) is not Less.
//   - KindExact(v) matches c iff c normalizes to v, or c extends v by at
//     least one more component (a "starts with v" match at a component
//     boundary, e.g. exact("17") matches "17.0.3").
func (e Expression) Matches(candidate, vendor string) bool {
	switch e.kind {
	case KindAny:
		return true
	case KindAtLeast:
		return Compare(candidate, e.value, vendor) != Less
	default:
		return matchesExact(candidate, e.value, vendor)
	}
}

func matchesExact(candidate, want, vendor string) bool {
	cv := normalize(Parse(candidate), vendor)
	wv := normalize(Parse(want), vendor)
	if len(wv.components) > len(cv.components) {
		return false
	}
	prefix := cv.components[:len(wv.components)]
	return compareComponents(prefix, wv.components) == Equal
}
