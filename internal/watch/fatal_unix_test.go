// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"fmt"
	"syscall"
	"testing"
)

func TestIsFatal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"watch limit", syscall.ENOSPC, true},
		{"process fd limit", syscall.EMFILE, true},
		{"system fd limit", syscall.ENFILE, true},
		{"wrapped", fmt.Errorf("add: %w", syscall.ENOSPC), true},
		{"permission", syscall.EACCES, false},
		{"other", errors.New("queue overflow"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isFatal(tt.err); got != tt.want {
				t.Errorf("isFatal(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
