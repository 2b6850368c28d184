// SPDX-License-Identifier: MPL-2.0

package types

import (
	"slices"
	"testing"
)

var testVersions = []string{"1.16.5", "1.17.1", "1.18.2", "1.19", "1.19.2", "1.20.1"}

func TestVersionPattern_Matches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern VersionPattern
		version string
		want    bool
	}{
		{"*", "1.18.2", true},
		{"", "anything", true},
		{"latest", "1.20.1", true},
		{"latest", "1.19.2", false},
		{"1.19", "1.19", true},
		{"1.19", "1.19.2", false},
		{"1.18.2-", "1.16.5", true},
		{"1.18.2-", "1.18.2", true},
		{"1.18.2-", "1.19", false},
		{"1.19+", "1.20.1", true},
		{"1.19+", "1.19", true},
		{"1.19+", "1.18.2", false},
		{"1.17.1..1.19", "1.18.2", true},
		{"1.17.1..1.19", "1.19.2", false},
		{"1.17.1..1.19", "1.16.5", false},
		{"1.99+", "1.20.1", false},
		{"1.19+", "22w42a", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.pattern)+"/"+tt.version, func(t *testing.T) {
			t.Parallel()
			if got := tt.pattern.Matches(tt.version, testVersions); got != tt.want {
				t.Errorf("VersionPattern(%q).Matches(%q) = %v, want %v", tt.pattern, tt.version, got, tt.want)
			}
		})
	}
}

func TestVersionPattern_MatchingVersions(t *testing.T) {
	t.Parallel()

	got := VersionPattern("1.19+").MatchingVersions(testVersions)
	want := []string{"1.19", "1.19.2", "1.20.1"}
	if !slices.Equal(got, want) {
		t.Errorf("MatchingVersions() = %v, want %v", got, want)
	}
}
