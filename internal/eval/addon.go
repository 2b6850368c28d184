// SPDX-License-Identifier: MPL-2.0

package eval

import (
	"encoding/hex"

	"github.com/mcpkg/mcpkg/internal/addon"
	"github.com/mcpkg/mcpkg/pkg/types"
)

const (
	sha256Size = 32
	sha512Size = 64
)

// addonArgs are the resolved fields of an addon declaration. Empty strings
// are unset.
type addonArgs struct {
	ID       string
	Kind     types.AddonKind
	FileName string
	URL      string
	Path     string
	Version  string
	Hashes   addon.Hashes
}

// newAddonRequest validates an addon declaration and builds its request.
func newAddonRequest(args addonArgs, pkg types.PkgIdentifier, params *Parameters) (addon.Request, error) {
	if !types.IsValidIdentifier(args.ID) {
		return addon.Request{}, errorf(ErrInvalidAddon, "invalid addon id %q", args.ID)
	}
	if ok, errs := args.Kind.IsValid(); !ok {
		return addon.Request{}, errorf(ErrInvalidAddon, "addon %q: %v", args.ID, errs[0])
	}
	if args.Version != "" && !types.IsValidAddonVersion(args.Version) {
		return addon.Request{}, errorf(ErrInvalidAddon, "invalid version %q for addon %q", args.Version, args.ID)
	}

	fileName := args.FileName
	if fileName == "" {
		fileName = args.Kind.DefaultFileName(pkg.Name, args.ID)
	}
	if err := args.Kind.ValidateFileName(fileName); err != nil {
		return addon.Request{}, errorf(ErrInvalidAddon, "addon %q: %v", args.ID, err)
	}

	if err := checkHash(args.ID, "SHA-256", args.Hashes.SHA256, sha256Size); err != nil {
		return addon.Request{}, err
	}
	if err := checkHash(args.ID, "SHA-512", args.Hashes.SHA512, sha512Size); err != nil {
		return addon.Request{}, err
	}

	var loc addon.Location
	switch {
	case args.URL != "" && args.Path != "":
		return addon.Request{}, errorf(ErrInvalidAddon, "addon %q sets both url and path", args.ID)
	case args.URL != "":
		loc = addon.Remote(args.URL)
	case args.Path != "":
		if !params.Permissions.AtLeast(types.PermissionsElevated) {
			return addon.Request{}, errorf(ErrPermissionDenied, "local addon %q requires elevated permissions", args.ID)
		}
		path, err := types.FilesystemPath(args.Path).Expand()
		if err != nil {
			return addon.Request{}, errorf(ErrInvalidAddon, "addon %q: %v", args.ID, err)
		}
		loc = addon.Local(path)
	default:
		return addon.Request{}, errorf(ErrInvalidAddon, "addon %q has no url or path", args.ID)
	}

	return addon.Request{
		Addon: addon.Addon{
			ID:       args.ID,
			Kind:     args.Kind,
			FileName: fileName,
			Package:  pkg,
			Version:  args.Version,
			Hashes:   args.Hashes,
		},
		Location: loc,
	}, nil
}

func checkHash(id, name, value string, size int) error {
	if value == "" {
		return nil
	}
	raw, err := hex.DecodeString(value)
	if err != nil {
		return errorf(ErrInvalidAddon, "%s hash of addon %q is not hex: %v", name, id, err)
	}
	if len(raw) > size {
		return errorf(ErrInvalidAddon, "%s hash of addon %q is longer than %d bytes", name, id, size)
	}
	return nil
}
