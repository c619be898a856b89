package manifest

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a dotted release version ("1.21.0"). Pre/post/dev suffixes are
// not modeled; a numeric prefix is enough to decide "at or above the pinned
// minimum" for release pins, and manifests here pin releases.
type Version []int

// ParseVersion parses a dotted numeric version. A single trailing
// non-numeric suffix segment (e.g. "1.0rc1") is rejected: pins must be
// plain releases.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty version")
	}
	parts := strings.Split(s, ".")
	v := make(Version, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid version %q", s)
		}
		v = append(v, n)
	}
	return v, nil
}

// Compare returns -1, 0, or 1. Missing segments compare as zero, so
// "1.21" == "1.21.0".
func (v Version) Compare(other Version) int {
	n := len(v)
	if len(other) > n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		a, b := 0, 0
		if i < len(v) {
			a = v[i]
		}
		if i < len(other) {
			b = other[i]
		}
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Satisfies reports whether installed version s meets the requirement.
// Installed versions that do not parse as plain releases (e.g. "2.0rc1")
// never satisfy a version pin; they do satisfy a bare-name requirement.
func (r Requirement) Satisfies(installed string) bool {
	if r.Constraint == ConstraintAny {
		return true
	}
	got, err := ParseVersion(installed)
	if err != nil {
		return false
	}
	want, err := ParseVersion(r.Version)
	if err != nil {
		return false
	}
	switch r.Constraint {
	case ConstraintExact:
		return got.Compare(want) == 0
	case ConstraintMinimum:
		return got.Compare(want) >= 0
	}
	return false
}

// NormalizeName canonicalizes a package name for comparisons: lowercase,
// with '-', '_' and '.' treated as equivalent (PEP 503).
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if r == '_' || r == '.' {
			r = '-'
		}
		b.WriteRune(r)
	}
	return b.String()
}
