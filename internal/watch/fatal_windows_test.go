// SPDX-License-Identifier: MPL-2.0

//go:build windows

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
		{"too many open files", errTooManyOpenFiles, true},
		{"invalid handle", errInvalidHandle, true},
		{"out of memory", errNotEnoughMemory, true},
		{"wrapped", fmt.Errorf("read: %w", errInvalidHandle), true},
		{"access denied", syscall.Errno(5), false},
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
