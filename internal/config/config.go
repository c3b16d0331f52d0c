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
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/glrun/glrun/internal/issue"
	"github.com/glrun/glrun/pkg/platform"
)

const (
	// AppName is the application name.
	AppName = "glrun"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// EnvPrefix prefixes environment overrides, e.g. GLRUN_SHELL_MODE.
	EnvPrefix = "GLRUN"

	// FormatCUE is the primary config file format.
	FormatCUE Format = "cue"
	// FormatTOML is the alternative config file format.
	FormatTOML Format = "toml"

	// maxConfigFileSize bounds config files read from disk.
	maxConfigFileSize = 1 << 20
)

// ErrUnsupportedFormat is returned for config files that are neither .cue nor .toml.
var ErrUnsupportedFormat = errors.New("unsupported config file format")

//go:embed config_schema.cue
var configSchema string

// Format is a config file format, named by its file extension.
type Format string

// Formats lists the formats in lookup order.
func Formats() []Format {
	return []Format{FormatCUE, FormatTOML}
}

// FormatOf returns the format for path based on its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return FormatCUE, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q (use .cue or .toml)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ConfigDir returns the glrun configuration directory using platform-specific
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
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
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

// ResolvePath returns the config file that Load would read, or "" when
// none exists and defaults apply.
func ResolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, nil
	}

	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}

	for _, dir := range []string{cfgDir, "."} {
		for _, f := range Formats() {
			candidate := filepath.Join(dir, ConfigFileName+"."+string(f))
			if fileExists(candidate) {
				return candidate, nil
			}
		}
	}
	return "", nil
}

// loadWithOptions performs option-driven config loading: defaults, then the
// config file, then GLRUN_* environment overrides.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()

	if opts.ConfigFilePath != "" && !fileExists(opts.ConfigFilePath) {
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(opts.ConfigFilePath).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Use 'glrun config init' to write a default configuration").
			WithGuide(issue.ConfigLoadFailedId).
			Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
			BuildError()
	}

	resolvedPath, err := ResolvePath(opts)
	if err != nil {
		return nil, "", err
	}

	if resolvedPath != "" {
		if err := loadFileIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file is valid CUE or TOML").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithGuide(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("parse configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check GLRUN_* environment variables for malformed values").
			WithGuide(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Run 'glrun config show' to see the effective configuration").
			WithGuide(issue.ConfigLoadFailedId).
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// newViper returns a Viper instance with defaults and environment overrides.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("shell.mode", string(defaults.Shell.Mode))
	v.SetDefault("shell.path", defaults.Shell.Path)
	v.SetDefault("shell.args", defaults.Shell.Args)
	v.SetDefault("run.assume_yes", defaults.Run.AssumeYes)
	v.SetDefault("fetch.timeout", defaults.Fetch.Timeout)
	v.SetDefault("fetch.max_bytes", defaults.Fetch.MaxBytes)
	v.SetDefault("ui.debug", defaults.UI.Debug)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color", string(defaults.UI.Color))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// loadFileIntoViper validates a CUE or TOML file against the #Config schema
// and merges it into Viper.
func loadFileIntoViper(v *viper.Viper, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := checkFileSize(data, maxConfigFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()
	var userValue cue.Value
	switch format {
	case FormatTOML:
		raw := map[string]any{}
		if err := toml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		userValue = ctx.Encode(raw)
	default:
		userValue = ctx.CompileBytes(data, cue.Filename(path))
	}
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	configMap, err := validateAgainstSchema(ctx, userValue, path)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// validateAgainstSchema unifies a value with #Config and decodes the result.
// Fields are optional, so the value is not required to be concrete.
func validateAgainstSchema(ctx *cue.Context, userValue cue.Value, path string) (map[string]any, error) {
	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return nil, formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return nil, formatCUEError(err, path)
	}
	return configMap, nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// DefaultConfigPath returns where `config init` writes a file of the given format.
func DefaultConfigPath(format Format) (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+string(format)), nil
}

// CreateDefaultConfig writes the default configuration in the given format and
// returns its path. An existing file is kept unless force is set.
func CreateDefaultConfig(format Format, force bool) (string, error) {
	cfgPath, err := DefaultConfigPath(format)
	if err != nil {
		return "", err
	}

	if !force && fileExists(cfgPath) {
		return cfgPath, nil
	}

	content, err := Generate(DefaultConfig(), format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, nil
}

// Generate renders cfg in the given format.
func Generate(cfg *Config, format Format) (string, error) {
	switch format {
	case FormatCUE:
		return GenerateCUE(cfg), nil
	case FormatTOML:
		return GenerateTOML(cfg)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// GenerateCUE generates a CUE representation of the configuration.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// glrun configuration file\n\n")

	sb.WriteString("shell: {\n")
	fmt.Fprintf(&sb, "\tmode: %q\n", cfg.Shell.Mode)
	if cfg.Shell.Path != "" {
		fmt.Fprintf(&sb, "\tpath: %q\n", cfg.Shell.Path)
	}
	if len(cfg.Shell.Args) > 0 {
		quoted := make([]string, len(cfg.Shell.Args))
		for i, a := range cfg.Shell.Args {
			quoted[i] = fmt.Sprintf("%q", a)
		}
		fmt.Fprintf(&sb, "\targs: [%s]\n", strings.Join(quoted, ", "))
	}
	sb.WriteString("}\n")

	sb.WriteString("\nrun: {\n")
	fmt.Fprintf(&sb, "\tassume_yes: %v\n", cfg.Run.AssumeYes)
	sb.WriteString("}\n")

	sb.WriteString("\nfetch: {\n")
	fmt.Fprintf(&sb, "\ttimeout:   %q\n", cfg.Fetch.Timeout.String())
	fmt.Fprintf(&sb, "\tmax_bytes: %d\n", cfg.Fetch.MaxBytes)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tdebug:   %v\n", cfg.UI.Debug)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor:   %q\n", cfg.UI.Color)
	sb.WriteString("}\n")

	return sb.String()
}

type (
	// tomlConfig is the TOML wire form of Config; durations are strings.
	tomlConfig struct {
		Shell tomlShell `toml:"shell"`
		Run   tomlRun   `toml:"run"`
		Fetch tomlFetch `toml:"fetch"`
		UI    tomlUI    `toml:"ui"`
	}

	tomlShell struct {
		Mode string   `toml:"mode"`
		Path string   `toml:"path,omitempty"`
		Args []string `toml:"args,omitempty"`
	}

	tomlRun struct {
		AssumeYes bool `toml:"assume_yes"`
	}

	tomlFetch struct {
		Timeout  string `toml:"timeout"`
		MaxBytes int64  `toml:"max_bytes"`
	}

	tomlUI struct {
		Debug   bool   `toml:"debug"`
		Verbose bool   `toml:"verbose"`
		Color   string `toml:"color"`
	}
)

// GenerateTOML generates a TOML representation of the configuration.
func GenerateTOML(cfg *Config) (string, error) {
	wire := tomlConfig{
		Shell: tomlShell{Mode: string(cfg.Shell.Mode), Path: cfg.Shell.Path, Args: cfg.Shell.Args},
		Run:   tomlRun{AssumeYes: cfg.Run.AssumeYes},
		Fetch: tomlFetch{Timeout: cfg.Fetch.Timeout.String(), MaxBytes: cfg.Fetch.MaxBytes},
		UI:    tomlUI{Debug: cfg.UI.Debug, Verbose: cfg.UI.Verbose, Color: string(cfg.UI.Color)},
	}
	out, err := toml.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("failed to encode config as TOML: %w", err)
	}
	return "# glrun configuration file\n\n" + string(out), nil
}
