// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/glrun/glrun/internal/issue"
	"github.com/glrun/glrun/internal/testutil"
)

// loadFromDir loads configuration with dir as the config directory.
func loadFromDir(t *testing.T, dir string) (*Loaded, error) {
	t.Helper()
	return NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
}

func TestLoad_DefaultsWhenNoConfigFile(t *testing.T) {
	t.Parallel()

	loaded, err := loadFromDir(t, t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Path != "" {
		t.Errorf("Path = %q, want empty", loaded.Path)
	}

	want := DefaultConfig()
	got := loaded.Config
	if got.Shell.Mode != want.Shell.Mode || got.Fetch != want.Fetch || got.UI != want.UI || got.Run != want.Run {
		t.Errorf("Load() = %+v, want defaults %+v", got, want)
	}
}

func TestLoad_CUEFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), `
shell: {
	mode: "virtual"
	args: ["-e", "-c"]
}
run: assume_yes: true
fetch: {
	timeout:   "2m"
	max_bytes: 2048
}
ui: color: "never"
`)

	loaded, err := loadFromDir(t, dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Path != path {
		t.Errorf("Path = %q, want %q", loaded.Path, path)
	}

	cfg := loaded.Config
	if cfg.Shell.Mode != ShellModeVirtual {
		t.Errorf("Shell.Mode = %q, want virtual", cfg.Shell.Mode)
	}
	if !slices.Equal(cfg.Shell.Args, []string{"-e", "-c"}) {
		t.Errorf("Shell.Args = %v", cfg.Shell.Args)
	}
	if !cfg.Run.AssumeYes {
		t.Error("Run.AssumeYes should be true")
	}
	if cfg.Fetch.Timeout != 2*time.Minute || cfg.Fetch.MaxBytes != 2048 {
		t.Errorf("Fetch = %+v", cfg.Fetch)
	}
	if cfg.UI.Color != ColorNever {
		t.Errorf("UI.Color = %q, want never", cfg.UI.Color)
	}
	// Unset fields keep their defaults.
	if cfg.UI.Debug || cfg.UI.Verbose {
		t.Errorf("UI = %+v, want debug and verbose off", cfg.UI)
	}
}

func TestLoad_TOMLFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "config.toml"), `
[shell]
mode = "native"
path = "/bin/bash"

[fetch]
timeout = "5s"

[ui]
verbose = true
`)

	loaded, err := loadFromDir(t, dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := loaded.Config
	if cfg.Shell.Path != "/bin/bash" {
		t.Errorf("Shell.Path = %q", cfg.Shell.Path)
	}
	if cfg.Fetch.Timeout != 5*time.Second {
		t.Errorf("Fetch.Timeout = %v, want 5s", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.MaxBytes != DefaultConfig().Fetch.MaxBytes {
		t.Errorf("Fetch.MaxBytes = %d, want default", cfg.Fetch.MaxBytes)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose should be true")
	}
}

func TestLoad_CUETakesPrecedenceOverTOML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cuePath := testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), `shell: mode: "virtual"`)
	testutil.MustWriteFile(t, filepath.Join(dir, "config.toml"), "[shell]\nmode = \"native\"\n")

	loaded, err := loadFromDir(t, dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Path != cuePath || loaded.Config.Shell.Mode != ShellModeVirtual {
		t.Errorf("Load() = %q %q, want config.cue with virtual", loaded.Path, loaded.Config.Shell.Mode)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		file     string
		content  string
		contains string
	}{
		{"bad shell mode", "config.cue", `shell: mode: "container"`, "mode"},
		{"unknown field", "config.cue", `bogus: true`, "bogus"},
		{"unknown nested field", "config.cue", `ui: theme: "dark"`, "theme"},
		{"bad duration", "config.cue", `fetch: timeout: "soon"`, "timeout"},
		{"non-positive size", "config.cue", `fetch: max_bytes: 0`, "max_bytes"},
		{"cue syntax error", "config.cue", `shell: {`, "config.cue"},
		{"toml bad color", "config.toml", "[ui]\ncolor = \"rainbow\"\n", "color"},
		{"toml wrong type", "config.toml", "[run]\nassume_yes = \"yes\"\n", "assume_yes"},
		{"toml syntax error", "config.toml", "[shell\n", "config.toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			testutil.MustWriteFile(t, filepath.Join(dir, tt.file), tt.content)

			_, err := loadFromDir(t, dir)
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q should contain %q", err.Error(), tt.contains)
			}

			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("error should be *issue.ActionableError, got %T", err)
			}
			if ae.Guide != issue.ConfigLoadFailedId {
				t.Errorf("Guide = %d, want ConfigLoadFailedId", ae.Guide)
			}
		})
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Parallel()

	path := testutil.MustWriteFile(t, filepath.Join(t.TempDir(), "custom.toml"), "[run]\nassume_yes = true\n")

	loaded, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: path,
		ConfigDirPath:  t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Path != path || !loaded.Config.Run.AssumeYes {
		t.Errorf("Load() = %q %+v", loaded.Path, loaded.Config.Run)
	}
}

func TestLoad_ExplicitPath_NotFound(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.cue")
	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err == nil {
		t.Fatal("Load() expected error")
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error should be *issue.ActionableError, got %T", err)
	}
	if ae.Operation != "load configuration" || ae.Resource != path || !ae.HasSuggestions() {
		t.Errorf("unexpected error context: %+v", ae)
	}
}

func TestLoad_ExplicitPath_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	path := testutil.MustWriteFile(t, filepath.Join(t.TempDir(), "config.yaml"), "shell: {}\n")
	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), `shell: mode: "native"`)

	t.Setenv("GLRUN_SHELL_MODE", "virtual")
	t.Setenv("GLRUN_FETCH_TIMEOUT", "90s")
	t.Setenv("GLRUN_RUN_ASSUME_YES", "true")

	loaded, err := loadFromDir(t, dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := loaded.Config
	if cfg.Shell.Mode != ShellModeVirtual {
		t.Errorf("Shell.Mode = %q, want virtual from environment", cfg.Shell.Mode)
	}
	if cfg.Fetch.Timeout != 90*time.Second {
		t.Errorf("Fetch.Timeout = %v, want 90s", cfg.Fetch.Timeout)
	}
	if !cfg.Run.AssumeYes {
		t.Error("Run.AssumeYes should be true from environment")
	}
}

func TestLoad_InvalidEnvOverride(t *testing.T) {
	t.Setenv("GLRUN_SHELL_MODE", "bogus")

	_, err := loadFromDir(t, t.TempDir())
	if !errors.Is(err, ErrInvalidShellMode) {
		t.Errorf("Load() error = %v, want ErrInvalidShellMode", err)
	}
}

func TestGenerate_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Shell.Mode = ShellModeVirtual
	cfg.Shell.Path = `C:\tools\bash.exe`
	cfg.Shell.Args = []string{"--norc", "-c"}
	cfg.Run.AssumeYes = true
	cfg.Fetch.Timeout = 1500 * time.Millisecond
	cfg.UI.Debug = true

	for _, format := range Formats() {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			content, err := Generate(cfg, format)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}

			dir := t.TempDir()
			testutil.MustWriteFile(t, filepath.Join(dir, "config."+string(format)), content)

			loaded, err := loadFromDir(t, dir)
			if err != nil {
				t.Fatalf("Load() error = %v\n%s", err, content)
			}

			got := loaded.Config
			if got.Shell.Mode != cfg.Shell.Mode || got.Shell.Path != cfg.Shell.Path {
				t.Errorf("Shell = %+v, want %+v", got.Shell, cfg.Shell)
			}
			if !slices.Equal(got.Shell.Args, cfg.Shell.Args) {
				t.Errorf("Shell.Args = %v, want %v", got.Shell.Args, cfg.Shell.Args)
			}
			if got.Run != cfg.Run || got.Fetch != cfg.Fetch || got.UI != cfg.UI {
				t.Errorf("Load() = %+v, want %+v", got, cfg)
			}
		})
	}
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	if _, err := Generate(DefaultConfig(), "yaml"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Generate(yaml) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestFormatOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"config.cue", FormatCUE, false},
		{"/etc/glrun/CONFIG.TOML", FormatTOML, false},
		{"config.json", "", true},
		{"config", "", true},
	}

	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("FormatOf(%q) = %q, %v", tt.path, got, err)
		}
	}
}

//nolint:paralleltest // mutates the package-level config dir override
func TestCreateDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "glrun")
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	path, err := CreateDefaultConfig(FormatCUE, false)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if path != filepath.Join(dir, "config.cue") {
		t.Errorf("path = %q", path)
	}

	// An existing file is kept unless forced.
	testutil.MustWriteFile(t, path, `ui: debug: true`)
	if _, err := CreateDefaultConfig(FormatCUE, false); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(path); string(data) != `ui: debug: true` {
		t.Errorf("existing file was overwritten: %q", data)
	}

	if _, err := CreateDefaultConfig(FormatCUE, true); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(path); string(data) != GenerateCUE(DefaultConfig()) {
		t.Errorf("forced write did not restore defaults: %q", data)
	}

	tomlPath, err := CreateDefaultConfig(FormatTOML, false)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Ext(tomlPath) != ".toml" {
		t.Errorf("tomlPath = %q", tomlPath)
	}
}

//nolint:paralleltest // changes the working directory
func TestResolvePath_FallsBackToWorkingDirectory(t *testing.T) {
	work := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(work, "config.toml"), "[ui]\ndebug = true\n")
	defer testutil.MustChdir(t, work)()

	got, err := ResolvePath(LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if got != "config.toml" {
		t.Errorf("ResolvePath() = %q, want config.toml", got)
	}

	loaded, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if !loaded.Config.UI.Debug {
		t.Error("config from the working directory was not applied")
	}
}

//nolint:paralleltest // mutates environment
func TestConfigDir(t *testing.T) {
	Reset()

	switch runtime.GOOS {
	case "linux":
		xdg := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", xdg)
		got, err := ConfigDir()
		if err != nil {
			t.Fatal(err)
		}
		if got != filepath.Join(xdg, AppName) {
			t.Errorf("ConfigDir() = %q, want %q", got, filepath.Join(xdg, AppName))
		}

		t.Setenv("XDG_CONFIG_HOME", "")
		home := t.TempDir()
		t.Cleanup(testutil.SetHomeDir(t, home))
		got, err = ConfigDir()
		if err != nil {
			t.Fatal(err)
		}
		if got != filepath.Join(home, ".config", AppName) {
			t.Errorf("ConfigDir() = %q, want under HOME/.config", got)
		}
	case "windows":
		appData := t.TempDir()
		t.Setenv("APPDATA", appData)
		got, err := ConfigDir()
		if err != nil {
			t.Fatal(err)
		}
		if got != filepath.Join(appData, AppName) {
			t.Errorf("ConfigDir() = %q", got)
		}
	default:
		got, err := ConfigDir()
		if err != nil {
			t.Fatal(err)
		}
		if filepath.Base(got) != AppName {
			t.Errorf("ConfigDir() = %q, want a %s directory", got, AppName)
		}
	}

	SetConfigDirOverride("/custom/dir")
	t.Cleanup(Reset)
	if got, _ := ConfigDir(); got != "/custom/dir" {
		t.Errorf("ConfigDir() with override = %q", got)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"shell"}, "shell"},
		{[]string{"shell", "mode"}, "mode"},
		{[]string{"shell", "args", "0"}, "shell.args[0]"},
		{[]string{"0"}, "0"},
	}

	for _, tt := range tests {
		if got := formatPath(tt.path); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := checkFileSize([]byte("abc"), 3, "f"); err != nil {
		t.Errorf("checkFileSize at limit = %v", err)
	}
	if err := checkFileSize([]byte("abcd"), 3, "f"); err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("checkFileSize over limit = %v", err)
	}
}
