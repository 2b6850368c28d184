// SPDX-License-Identifier: MPL-2.0

package types

import "testing"

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code        ExitCode
		wantSuccess bool
		wantString  string
	}{
		{ExitSuccess, true, "success (0)"},
		{ExitFailure, false, "failure (1)"},
		{ExitInvalidPackage, false, "invalid package (2)"},
		{ExitResolution, false, "resolution failure (3)"},
		{ExitCode(130), false, "exit status (130)"},
	}
	for _, tt := range tests {
		if got := tt.code.IsSuccess(); got != tt.wantSuccess {
			t.Errorf("ExitCode(%d).IsSuccess() = %v, want %v", int(tt.code), got, tt.wantSuccess)
		}
		if got := tt.code.String(); got != tt.wantString {
			t.Errorf("ExitCode(%d).String() = %q, want %q", int(tt.code), got, tt.wantString)
		}
	}
}
