// SPDX-License-Identifier: MPL-2.0

package types

import (
	"slices"
	"strings"
)

const (
	// VersionAny matches every version.
	VersionAny VersionPattern = "*"
	// VersionLatest matches the newest version in the version list.
	VersionLatest VersionPattern = "latest"
)

// VersionPattern selects game versions.
//
// Supported forms:
//
//	*          any version
//	latest     the newest version in the list
//	1.19-      1.19 and every version before it
//	1.19+      1.19 and every version after it
//	1.18..1.19 every version from 1.18 to 1.19, inclusive
//	1.19.2     exactly 1.19.2
//
// Ordering comes from the position of each version in an ordered
// (oldest first) version list, not from the version strings themselves.
type VersionPattern string

// String returns the string representation of the VersionPattern.
func (p VersionPattern) String() string { return string(p) }

// IsAny reports whether the pattern matches every version.
func (p VersionPattern) IsAny() bool { return p == "" || p == VersionAny }

// Matches reports whether version satisfies the pattern against the ordered
// version list.
func (p VersionPattern) Matches(version string, versions []string) bool {
	switch {
	case p.IsAny():
		return true
	case p == VersionLatest:
		return len(versions) > 0 && versions[len(versions)-1] == version
	}

	s := string(p)
	idx := slices.Index(versions, version)
	if from, to, ok := strings.Cut(s, ".."); ok {
		lo, hi := slices.Index(versions, from), slices.Index(versions, to)
		return idx >= 0 && lo >= 0 && hi >= 0 && idx >= lo && idx <= hi
	}
	if before, ok := strings.CutSuffix(s, "-"); ok && before != "" {
		bound := slices.Index(versions, before)
		return idx >= 0 && bound >= 0 && idx <= bound
	}
	if after, ok := strings.CutSuffix(s, "+"); ok && after != "" {
		bound := slices.Index(versions, after)
		return idx >= 0 && bound >= 0 && idx >= bound
	}
	return s == version
}

// MatchingVersions returns every version in the list matched by the pattern, in list order.
func (p VersionPattern) MatchingVersions(versions []string) []string {
	var out []string
	for _, v := range versions {
		if p.Matches(v, versions) {
			out = append(out, v)
		}
	}
	return out
}
