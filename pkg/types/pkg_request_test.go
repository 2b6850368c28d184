// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestParsePkgRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    PkgRequest
		wantErr bool
	}{
		{in: "sodium", want: PkgRequest{Name: "sodium", Version: VersionAny}},
		{in: "sodium@1.19+", want: PkgRequest{Name: "sodium", Version: "1.19+"}},
		{in: "sodium@", wantErr: true},
		{in: "bad name", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParsePkgRequest(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPkgRequest) {
					t.Fatalf("expected ErrInvalidPkgRequest, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParsePkgRequest(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			if got.String() != tt.in {
				t.Errorf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func TestPkgIdentifier_PURL(t *testing.T) {
	t.Parallel()

	id := PkgIdentifier{Name: "sodium", Version: "0.5.3"}
	purl := id.PURL()
	if purl != "pkg:mcpkg/sodium@0.5.3" {
		t.Fatalf("PURL() = %q", purl)
	}

	parsed, err := ParsePURL(purl)
	if err != nil {
		t.Fatalf("ParsePURL() error: %v", err)
	}
	if parsed != id {
		t.Errorf("ParsePURL() = %+v, want %+v", parsed, id)
	}

	if _, err := ParsePURL("pkg:npm/left-pad@1.0.0"); !errors.Is(err, ErrInvalidPURL) {
		t.Errorf("foreign purl type should fail with ErrInvalidPURL, got %v", err)
	}
}
