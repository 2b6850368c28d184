// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/mcpkg/mcpkg/internal/eval"
	"github.com/mcpkg/mcpkg/internal/resolve"
	"github.com/mcpkg/mcpkg/pkg/types"
)

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"

	// DefaultLockFile is the lock file path used when none is configured.
	DefaultLockFile = "mcpkg.lock.toml"
)

var (
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidRepository is returned when a repository entry sets both or neither of path and url.
	ErrInvalidRepository = errors.New("invalid repository entry")
	// ErrDuplicatePackage is returned when a profile lists a package twice.
	ErrDuplicatePackage = errors.New("duplicate package")
	// ErrUnknownVersion is returned when the profile version is not in the version list.
	ErrUnknownVersion = errors.New("unknown game version")

	// DefaultVersions is the ordered game version list used when a profile
	// does not set its own.
	DefaultVersions = []string{
		"1.18", "1.18.1", "1.18.2",
		"1.19", "1.19.1", "1.19.2", "1.19.3", "1.19.4",
		"1.20", "1.20.1", "1.20.2", "1.20.3", "1.20.4", "1.20.5", "1.20.6",
		"1.21", "1.21.1", "1.21.2", "1.21.3", "1.21.4",
	}
)

type (
	// LogLevel is the minimum level of log output.
	LogLevel string

	// Config holds the application configuration.
	Config struct {
		LogLevel LogLevel       `json:"log_level" mapstructure:"log_level"`
		Language types.Language `json:"language" mapstructure:"language"`
		// LockFile is where 'mcpkg resolve --lock' writes. A leading ~ is expanded.
		LockFile string `json:"lock_file" mapstructure:"lock_file"`
		// Repositories are searched in order after the built-in packages.
		Repositories []RepositoryEntry `json:"repositories" mapstructure:"repositories"`
		Profile      ProfileConfig     `json:"profile" mapstructure:"profile"`
	}

	// RepositoryEntry is a package source. Exactly one of Path and URL is set.
	RepositoryEntry struct {
		Path string `json:"path,omitempty" mapstructure:"path"`
		URL  string `json:"url,omitempty" mapstructure:"url"`
	}

	// ProfileConfig describes the game instance packages are resolved for.
	ProfileConfig struct {
		Version string `json:"version" mapstructure:"version"`
		// Versions is the ordered (oldest first) list version patterns match against.
		Versions   []string         `json:"versions" mapstructure:"versions"`
		Modloader  types.Modloader  `json:"modloader" mapstructure:"modloader"`
		ClientType types.ClientType `json:"client_type" mapstructure:"client_type"`
		ServerType types.ServerType `json:"server_type" mapstructure:"server_type"`
		Side       types.Side       `json:"side" mapstructure:"side"`
		Stability  types.Stability  `json:"stability" mapstructure:"stability"`
		Packages   []PackageEntry   `json:"packages" mapstructure:"packages"`
	}

	// PackageEntry is a package the user asked for.
	PackageEntry struct {
		ID       string   `json:"id" mapstructure:"id"`
		Version  string   `json:"version,omitempty" mapstructure:"version"`
		Features []string `json:"features,omitempty" mapstructure:"features"`
		// UseDefaultFeatures defaults to true when unset.
		UseDefaultFeatures *bool             `json:"use_default_features,omitempty" mapstructure:"use_default_features"`
		Permissions        types.Permissions `json:"permissions,omitempty" mapstructure:"permissions"`
		Stability          types.Stability   `json:"stability,omitempty" mapstructure:"stability"`
	}

	// InvalidConfigError collects every field level problem of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so errors.Is
// matches both the sentinel and each field problem.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// DefaultConfig returns the configuration used when no file sets a value.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: LogLevelInfo,
		Language: "english",
		LockFile: DefaultLockFile,
		Profile: ProfileConfig{
			Version:    DefaultVersions[len(DefaultVersions)-1],
			Versions:   slices.Clone(DefaultVersions),
			Modloader:  types.ModloaderVanilla,
			ClientType: types.ClientTypeNone,
			ServerType: types.ServerTypeNone,
			Side:       types.SideClient,
			Stability:  types.StabilityStable,
		},
	}
}

// Validate checks the constraints the schema cannot express.
func (c *Config) Validate() error {
	var errs []error

	if ok, e := c.Language.IsValid(); !ok {
		errs = append(errs, e...)
	}
	for i, r := range c.Repositories {
		if (r.Path == "") == (r.URL == "") {
			errs = append(errs, fmt.Errorf("repositories[%d]: %w: set exactly one of path and url", i, ErrInvalidRepository))
		}
	}

	p := c.Profile
	if !slices.Contains(p.Versions, p.Version) {
		errs = append(errs, fmt.Errorf("profile.version: %w %q", ErrUnknownVersion, p.Version))
	}
	mods := types.Modifications{Modloader: p.Modloader, ClientType: p.ClientType, ServerType: p.ServerType}
	if ok, e := mods.IsValid(); !ok {
		errs = append(errs, e...)
	}
	if _, ok := types.ParseSide(string(p.Side)); !ok {
		errs = append(errs, fmt.Errorf("profile.side: %w: %q", types.ErrInvalidSide, p.Side))
	}

	seen := make(map[string]bool, len(p.Packages))
	for i, pkg := range p.Packages {
		if seen[pkg.ID] {
			errs = append(errs, fmt.Errorf("profile.packages[%d]: %w %q", i, ErrDuplicatePackage, pkg.ID))
		}
		seen[pkg.ID] = true
		if _, err := pkg.Request(); err != nil {
			errs = append(errs, fmt.Errorf("profile.packages[%d]: %w", i, err))
		}
	}

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// EvalConstants returns the evaluation constants of the profile.
func (c *Config) EvalConstants() *eval.Constants {
	return &eval.Constants{
		Version:  c.Profile.Version,
		Versions: slices.Clone(c.Profile.Versions),
		Modifications: types.Modifications{
			Modloader:  c.Profile.Modloader,
			ClientType: c.Profile.ClientType,
			ServerType: c.Profile.ServerType,
		},
		Language: c.Language,
	}
}

// DefaultParameters returns the evaluation parameters of packages the
// profile does not configure.
func (c *Config) DefaultParameters() eval.Parameters {
	params := eval.DefaultParameters(c.Profile.Side)
	if c.Profile.Stability != "" {
		params.Stability = c.Profile.Stability
	}
	return params
}

// ConfiguredPackages converts the profile packages into resolution roots.
func (c *Config) ConfiguredPackages() ([]resolve.ConfiguredPackage, error) {
	out := make([]resolve.ConfiguredPackage, 0, len(c.Profile.Packages))
	for _, pkg := range c.Profile.Packages {
		req, err := pkg.Request()
		if err != nil {
			return nil, err
		}
		out = append(out, resolve.ConfiguredPackage{
			Request:            req,
			Features:           slices.Clone(pkg.Features),
			UseDefaultFeatures: pkg.UseDefaultFeatures == nil || *pkg.UseDefaultFeatures,
			Permissions:        pkg.Permissions,
			Stability:          pkg.Stability,
		})
	}
	return out, nil
}

// LockFilePath returns the lock file path with a leading ~ expanded.
func (c *Config) LockFilePath() (string, error) {
	path := c.LockFile
	if path == "" {
		path = DefaultLockFile
	}
	return homedir.Expand(path)
}

// Request returns the package request of the entry.
func (p PackageEntry) Request() (types.PkgRequest, error) {
	id := p.ID
	if p.Version != "" {
		id += "@" + p.Version
	}
	return types.ParsePkgRequest(id)
}

// ExpandedPath returns the repository path with a leading ~ expanded.
func (r RepositoryEntry) ExpandedPath() (string, error) {
	return homedir.Expand(r.Path)
}
