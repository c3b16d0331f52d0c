// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"io"
)

const (
	// ModeNative runs commands through the host shell.
	ModeNative Mode = "native"
	// ModeVirtual runs commands through the embedded mvdan/sh interpreter.
	ModeVirtual Mode = "virtual"
)

type (
	// Mode selects a Shell implementation.
	Mode string

	// Shell runs a single command string.
	//
	// Run returns the captured standard output and the exit code when the
	// command was started, whatever its exit status. A non-nil error means the
	// command could not be started at all; stdout and code are then meaningless.
	// Run blocks until the command has finished.
	Shell interface {
		Name() string
		Run(ctx context.Context, command string) (stdout []byte, code ExitCode, err error)
	}

	// ShellOptions configures the shell built by NewShell.
	ShellOptions struct {
		// Path overrides the native interpreter (for example /bin/bash).
		Path string
		// Args replaces the arguments placed before the command (default -c or /C).
		Args []string
		// Dir is the working directory; empty means the current directory.
		Dir string
		// Stderr receives the command's standard error. Nil discards it.
		Stderr io.Writer
	}
)

// NewShell builds the Shell for mode. An empty mode selects the native shell.
func NewShell(mode Mode, opts ShellOptions) (Shell, error) {
	switch mode {
	case ModeNative, "":
		nativeOpts := []NativeOption{WithDir(opts.Dir), WithStderr(opts.Stderr)}
		if opts.Path != "" {
			nativeOpts = append(nativeOpts, WithShell(opts.Path))
		}
		if len(opts.Args) > 0 {
			nativeOpts = append(nativeOpts, WithShellArgs(opts.Args...))
		}
		return NewNativeShell(nativeOpts...), nil
	case ModeVirtual:
		return NewVirtualShell(WithVirtualDir(opts.Dir), WithVirtualStderr(opts.Stderr)), nil
	default:
		return nil, fmt.Errorf("%w: %q (expected %q or %q)", ErrInvalidShellMode, mode, ModeNative, ModeVirtual)
	}
}

// String returns the mode name.
func (m Mode) String() string { return string(m) }
