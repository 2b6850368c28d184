// SPDX-License-Identifier: MPL-2.0

package types

// IsValidIdentifier reports whether s is a valid package or addon identifier:
// non-empty and made only of ASCII letters, digits, '_', '-' and '.'.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := range len(s) {
		c := s[i]
		if !isASCIIAlnum(c) && c != '_' && c != '-' && c != '.' {
			return false
		}
	}
	return true
}

// IsValidAddonVersion reports whether s is a valid addon version string:
// non-empty and made only of ASCII letters, digits, '.', '_', '+' and '-'.
func IsValidAddonVersion(s string) bool {
	if s == "" {
		return false
	}
	for i := range len(s) {
		c := s[i]
		if !isASCIIAlnum(c) && c != '.' && c != '_' && c != '+' && c != '-' {
			return false
		}
	}
	return true
}

func isASCIIAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
