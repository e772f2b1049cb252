// Package version implements the JDK-flavored version algebra: parsing,
// vendor-aware normalization, and comparison of version strings that are not
// SemVer-compatible ("1.8.0_352", "17.0.3+7", "21.0.2-community").
package version

import (
	"strconv"
	"strings"
)

// Component is one element of a parsed Version: either numeric or a plain
// string. Numeric components always outrank string components when the two
// are compared, regardless of value.
type Component struct {
	str    string
	num    int64
	isNum  bool
}

// Version is an ordered sequence of Components produced by splitting a
// version string on both '.' and '-', which the algebra treats
// interchangeably.
type Version struct {
	components []Component
}

func newNumComponent(n int64) Component {
	return Component{num: n, isNum: true}
}

func newStrComponent(s string) Component {
	return Component{str: s}
}

// Parse splits s on '.' and '-' into components. A run of ASCII digits
// becomes a numeric component; any other run becomes a string component.
// Empty input parses to a single empty-string component, which compares less
// than any non-empty version.
func Parse(s string) Version {
	if s == "" {
		return Version{components: []Component{newStrComponent("")}}
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '.' || r == '-' })
	if len(parts) == 0 {
		return Version{components: []Component{newStrComponent("")}}
	}
	components := make([]Component, 0, len(parts))
	for _, part := range parts {
		if n, err := strconv.ParseInt(part, 10, 64); err == nil {
			components = append(components, newNumComponent(n))
		} else {
			components = append(components, newStrComponent(part))
		}
	}
	return Version{components: components}
}

// stripLeadingOne removes a leading numeric "1" component, so that JDK
// version strings like "1.8" compare equal to "8". It is a no-op for
// versions that don't start with a numeric 1, and for empty versions.
func (v Version) stripLeadingOne() Version {
	if len(v.components) == 0 {
		return v
	}
	first := v.components[0]
	if !first.isNum || first.num != 1 {
		return v
	}
	return Version{components: v.components[1:]}
}

// normalize applies the vendor-conditioned "1." strip rule from spec.md §3:
// stripped unless the vendor name contains "graalvm".
func normalize(v Version, vendor string) Version {
	if strings.Contains(strings.ToLower(vendor), "graalvm") {
		return v
	}
	return v.stripLeadingOne()
}

// Ordering is the result of Compare: negative, zero, or positive, matching
// the sign of a conventional three-way comparator.
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

// Compare orders two version strings under vendor-aware normalization.
// Numeric components compare by magnitude, string components lexically, and
// a numeric component always outranks a string component at the same
// position. A version that is a strict prefix of another is Less than it.
func Compare(a, b, vendor string) Ordering {
	va := normalize(Parse(a), vendor)
	vb := normalize(Parse(b), vendor)
	return compareComponents(va.components, vb.components)
}

func compareComponents(a, b []Component) Ordering {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if o := compareComponent(a[i], b[i]); o != Equal {
			return o
		}
	}
	switch {
	case len(a) < len(b):
		return Less
	case len(a) > len(b):
		return Greater
	default:
		return Equal
	}
}

func compareComponent(a, b Component) Ordering {
	if a.isNum && b.isNum {
		switch {
		case a.num < b.num:
			return Less
		case a.num > b.num:
			return Greater
		default:
			return Equal
		}
	}
	if a.isNum != b.isNum {
		// Numeric outranks string when types differ.
		if a.isNum {
			return Greater
		}
		return Less
	}
	switch {
	case a.str < b.str:
		return Less
	case a.str > b.str:
		return Greater
	default:
		return Equal
	}
}
