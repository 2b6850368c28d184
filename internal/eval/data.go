// SPDX-License-Identifier: MPL-2.0

package eval

import (
	"unicode/utf8"

	"github.com/mcpkg/mcpkg/internal/addon"
)

type (
	// RequiredPackage is one alternative of a dependency group.
	RequiredPackage struct {
		Value string `json:"value"`
		// Explicit packages must be requested by the user directly.
		Explicit bool `json:"explicit,omitempty"`
	}

	// Compat says that CompatPackage makes Package work with the evaluated package.
	Compat struct {
		Package       string `json:"package"`
		CompatPackage string `json:"compat_package"`
	}

	// Data accumulates the results of one evaluation.
	Data struct {
		Vars          map[string]string
		AddonRequests []addon.Request
		// Deps holds dependency groups. One alternative of every group must be installed.
		Deps            [][]RequiredPackage
		Conflicts       []string
		Recommendations []string
		Bundled         []string
		Compats         []Compat
		Extensions      []string
		Notices         []string
		Commands        [][]string
	}
)

// NewData creates empty evaluation data.
func NewData() *Data {
	return &Data{Vars: make(map[string]string)}
}

// addNotice appends a notice, enforcing the per-evaluation limits.
func (d *Data) addNotice(text string) error {
	if len(d.Notices) >= MaxNoticeInstructions {
		return errorf(ErrNoticeLimit, "more than %d notices", MaxNoticeInstructions)
	}
	if n := utf8.RuneCountInString(text); n > MaxNoticeCharacters {
		return errorf(ErrNoticeLimit, "notice is %d characters long, the limit is %d", n, MaxNoticeCharacters)
	}
	d.Notices = append(d.Notices, text)
	return nil
}

// hasAddon reports whether an addon with the given id was already requested.
func (d *Data) hasAddon(id string) bool {
	for _, req := range d.AddonRequests {
		if req.Addon.ID == id {
			return true
		}
	}
	return false
}
