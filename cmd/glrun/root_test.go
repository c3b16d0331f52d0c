// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"

	"github.com/glrun/glrun/internal/issue"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2025-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got, want := getVersionString(), "dev (built from source)"; got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestNewRootCommand_Flags(t *testing.T) {
	t.Parallel()

	root := NewRootCommand(NewApp(Dependencies{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}))

	tests := []struct {
		name      string
		shorthand string
	}{
		{"validate", "v"},
		{"yes", "y"},
		{"os", ""},
		{"shell", ""},
	}
	for _, tt := range tests {
		f := root.Flags().Lookup(tt.name)
		if f == nil {
			t.Errorf("flag --%s not registered", tt.name)
			continue
		}
		if f.Shorthand != tt.shorthand {
			t.Errorf("--%s shorthand = %q, want %q", tt.name, f.Shorthand, tt.shorthand)
		}
	}
	for _, name := range []string{"debug", "verbose", "config"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("persistent flag --%s not registered", name)
		}
	}

	subcommands := map[string]bool{}
	for _, c := range root.Commands() {
		subcommands[c.Name()] = true
	}
	for _, name := range []string{"config", "guide"} {
		if !subcommands[name] {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestNewRootCommand_RejectsExtraArgs(t *testing.T) {
	t.Parallel()

	h := newHarness(t, crossPlatformScript, "")
	if err := h.run("a.glrun", "b.glrun"); err == nil {
		t.Fatal("run() with two scripts succeeded, want an argument error")
	}
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	t.Run("reported exit error is silent", func(t *testing.T) {
		t.Parallel()

		var b bytes.Buffer
		errorHandler(&rootFlags{})(&b, fang.Styles{}, &ExitError{Code: 1})
		if b.Len() != 0 {
			t.Errorf("handler wrote %q, want nothing", b.String())
		}
	})

	t.Run("actionable error shows suggestions", func(t *testing.T) {
		t.Parallel()

		err := issue.NewErrorContext().
			WithOperation("read script").
			WithResource("setup.glrun").
			WithSuggestion("Check the path").
			WithGuide(issue.ScriptNotFoundId).
			Wrap(errors.New("no such file")).
			BuildError()

		var b bytes.Buffer
		errorHandler(&rootFlags{})(&b, fang.Styles{}, err)

		out := b.String()
		for _, s := range []string{"failed to read script: setup.glrun", "Check the path", "glrun guide script-not-found"} {
			if !strings.Contains(out, s) {
				t.Errorf("output missing %q:\n%s", s, out)
			}
		}
		if strings.Contains(out, "Error chain") {
			t.Error("error chain shown without --verbose")
		}
	})

	t.Run("verbose shows error chain", func(t *testing.T) {
		t.Parallel()

		err := issue.WrapWithOperation(errors.New("root cause"), "fetch script")

		var b bytes.Buffer
		errorHandler(&rootFlags{verbose: true})(&b, fang.Styles{}, err)
		if !strings.Contains(b.String(), "Error chain:") || !strings.Contains(b.String(), "root cause") {
			t.Errorf("verbose output missing the chain:\n%s", b.String())
		}
	})
}

func TestFormatErrorForDisplay_PlainError(t *testing.T) {
	t.Parallel()

	got := formatErrorForDisplay(errors.New("boom"), false)
	if !strings.Contains(got, "Error: ") || !strings.Contains(got, "boom") {
		t.Errorf("formatErrorForDisplay() = %q", got)
	}
}

func TestNewLogger_Levels(t *testing.T) {
	t.Parallel()

	if got := newLogger(&bytes.Buffer{}, false).GetLevel(); got != log.InfoLevel {
		t.Errorf("default level = %v, want info", got)
	}
	if got := newLogger(&bytes.Buffer{}, true).GetLevel(); got != log.DebugLevel {
		t.Errorf("debug level = %v, want debug", got)
	}
}
