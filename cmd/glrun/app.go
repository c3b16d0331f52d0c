// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/glrun/glrun/internal/config"
	"github.com/glrun/glrun/internal/runtime"
	"github.com/glrun/glrun/internal/source"
	"github.com/glrun/glrun/pkg/platform"
)

type (
	// App wires CLI services and shared dependencies. Every Cobra handler
	// receives an App and reaches the outside world only through it.
	App struct {
		Config  config.Provider
		Scripts ScriptLoaderFactory
		Shells  ShellFactory
		HostOS  func() string
		stdin   io.Reader
		stdout  io.Writer
		stderr  io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config  config.Provider
		Scripts ScriptLoaderFactory
		Shells  ShellFactory
		HostOS  func() string
		Stdin   io.Reader
		Stdout  io.Writer
		Stderr  io.Writer
	}

	// ScriptLoader returns the text of a script file or URL.
	ScriptLoader interface {
		Load(ctx context.Context, ref string) (string, error)
	}

	// ScriptLoaderFactory builds a ScriptLoader honoring the fetch settings.
	ScriptLoaderFactory func(cfg config.FetchConfig, logger *log.Logger) ScriptLoader

	// ShellFactory builds the Shell that runs resolved commands.
	ShellFactory func(mode runtime.Mode, opts runtime.ShellOptions) (runtime.Shell, error)
)

// NewApp builds an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:  deps.Config,
		Scripts: deps.Scripts,
		Shells:  deps.Shells,
		HostOS:  deps.HostOS,
		stdin:   deps.Stdin,
		stdout:  deps.Stdout,
		stderr:  deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Scripts == nil {
		app.Scripts = defaultScriptLoader
	}
	if app.Shells == nil {
		app.Shells = runtime.NewShell
	}
	if app.HostOS == nil {
		app.HostOS = platform.HostOS
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

func defaultScriptLoader(cfg config.FetchConfig, logger *log.Logger) ScriptLoader {
	return source.NewLoader(
		source.WithTimeout(cfg.Timeout),
		source.WithMaxBytes(cfg.MaxBytes),
		source.WithUserAgent("glrun/"+Version),
		source.WithLogger(logger),
	)
}
