// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/mcpkg/mcpkg/internal/issue"
	"github.com/mcpkg/mcpkg/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "mcpkg"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// LocalConfigFile is the config file looked up in the working directory.
	LocalConfigFile = AppName + "." + ConfigFileExt
	// EnvPrefix prefixes environment overrides, as in MCPKG_LOG_LEVEL.
	EnvPrefix = "MCPKG"
)

// ErrConfigExists is returned by WriteDefault when the file is already there.
var ErrConfigExists = errors.New("config file already exists")

type (
	// LoadOptions selects where configuration is read from.
	LoadOptions struct {
		// ConfigFilePath loads exactly this file. It must exist.
		ConfigFilePath string
		// ConfigDirPath replaces the platform config directory.
		ConfigDirPath string
		// WorkDir is searched for mcpkg.cue. Empty means the process
		// working directory.
		WorkDir string
	}

	// ProviderFunc loads the configuration and returns it with the file it
	// came from, empty when only defaults and the environment apply.
	ProviderFunc func(ctx context.Context, opts LoadOptions) (*Config, string, error)
)

// NewProvider returns the provider that reads CUE files and MCPKG_*
// environment variables.
func NewProvider() ProviderFunc {
	return loadWithOptions
}

// Load calls f.
func (f ProviderFunc) Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	return f(ctx, opts)
}

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the mcpkg configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// DefaultConfigPath returns the path of the user configuration file.
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// loadWithOptions loads the configuration and returns it with the path of
// the file it came from, empty when only defaults apply.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := findConfigFile(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Make profile.version one of profile.versions").
			WithSuggestion("List each package once in profile.packages").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// findConfigFile picks the file to load: the explicit path, else the user
// config directory, else ./mcpkg.cue. An empty result means defaults only.
func findConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'mcpkg config init --path " + opts.ConfigFilePath + "' to create it").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return "", err
		}
		cfgDir = dir
	}
	if path := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fileExists(path) {
		return path, nil
	}

	local := LocalConfigFile
	if opts.WorkDir != "" {
		local = filepath.Join(opts.WorkDir, LocalConfigFile)
	}
	if fileExists(local) {
		return local, nil
	}
	return "", nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("language", defaults.Language)
	v.SetDefault("lock_file", defaults.LockFile)
	v.SetDefault("profile.version", defaults.Profile.Version)
	v.SetDefault("profile.versions", defaults.Profile.Versions)
	v.SetDefault("profile.modloader", defaults.Profile.Modloader)
	v.SetDefault("profile.client_type", defaults.Profile.ClientType)
	v.SetDefault("profile.server_type", defaults.Profile.ServerType)
	v.SetDefault("profile.side", defaults.Profile.Side)
	v.SetDefault("profile.stability", defaults.Profile.Stability)
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// The file is decoded to a map rather than through cueutil.ParseAndDecode
// because every field is optional and the result is merged over the viper
// defaults.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// Save writes cfg to path as CUE, creating the parent directory.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// WriteDefault writes the default configuration to path. An existing file
// is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force && fileExists(path) {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	return Save(DefaultConfig(), path)
}

// GenerateCUE generates a CUE representation of the configuration.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// mcpkg configuration file\n\n")
	fmt.Fprintf(&sb, "log_level: %q\n", cfg.LogLevel)
	fmt.Fprintf(&sb, "language:  %q\n", cfg.Language)
	fmt.Fprintf(&sb, "lock_file: %q\n", cfg.LockFile)

	if len(cfg.Repositories) > 0 {
		sb.WriteString("\nrepositories: [\n")
		for _, r := range cfg.Repositories {
			if r.URL != "" {
				fmt.Fprintf(&sb, "\t{url: %q},\n", r.URL)
			} else {
				fmt.Fprintf(&sb, "\t{path: %q},\n", r.Path)
			}
		}
		sb.WriteString("]\n")
	}

	p := cfg.Profile
	sb.WriteString("\nprofile: {\n")
	fmt.Fprintf(&sb, "\tversion:     %q\n", p.Version)
	sb.WriteString("\tversions:    [" + quoteList(p.Versions) + "]\n")
	fmt.Fprintf(&sb, "\tmodloader:   %q\n", p.Modloader)
	fmt.Fprintf(&sb, "\tclient_type: %q\n", p.ClientType)
	fmt.Fprintf(&sb, "\tserver_type: %q\n", p.ServerType)
	fmt.Fprintf(&sb, "\tside:        %q\n", p.Side)
	fmt.Fprintf(&sb, "\tstability:   %q\n", p.Stability)
	sb.WriteString("\tpackages: [\n")
	for _, pkg := range p.Packages {
		fields := []string{fmt.Sprintf("id: %q", pkg.ID)}
		if pkg.Version != "" {
			fields = append(fields, fmt.Sprintf("version: %q", pkg.Version))
		}
		if len(pkg.Features) > 0 {
			fields = append(fields, "features: ["+quoteList(pkg.Features)+"]")
		}
		if pkg.UseDefaultFeatures != nil {
			fields = append(fields, fmt.Sprintf("use_default_features: %t", *pkg.UseDefaultFeatures))
		}
		if pkg.Permissions != "" {
			fields = append(fields, fmt.Sprintf("permissions: %q", pkg.Permissions))
		}
		if pkg.Stability != "" {
			fields = append(fields, fmt.Sprintf("stability: %q", pkg.Stability))
		}
		sb.WriteString("\t\t{" + strings.Join(fields, ", ") + "},\n")
	}
	sb.WriteString("\t]\n")
	sb.WriteString("}\n")

	return sb.String()
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}
