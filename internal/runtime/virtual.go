// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

type (
	// VirtualShell runs commands in-process with the mvdan/sh POSIX interpreter.
	// External programs are still executed from PATH; only the shell itself is embedded.
	VirtualShell struct {
		dir     string
		stderr  io.Writer
		environ func() []string
	}

	// VirtualOption configures a VirtualShell.
	VirtualOption func(*VirtualShell)
)

// WithVirtualDir sets the interpreter's working directory.
func WithVirtualDir(dir string) VirtualOption {
	return func(s *VirtualShell) { s.dir = dir }
}

// WithVirtualStderr forwards the interpreter's standard error to w.
func WithVirtualStderr(w io.Writer) VirtualOption {
	return func(s *VirtualShell) { s.stderr = w }
}

// NewVirtualShell creates a virtual shell that inherits the process environment.
func NewVirtualShell(opts ...VirtualOption) *VirtualShell {
	s := &VirtualShell{environ: os.Environ}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the shell name.
func (s *VirtualShell) Name() string {
	return string(ModeVirtual)
}

// Run parses and interprets command. A command that does not parse counts as
// one that could not be started.
func (s *VirtualShell) Run(ctx context.Context, command string) ([]byte, ExitCode, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse command: %w", err)
	}

	stderr := s.stderr
	if stderr == nil {
		stderr = io.Discard
	}

	var stdout bytes.Buffer
	opts := []interp.RunnerOption{
		interp.StdIO(nil, &stdout, stderr),
		interp.Env(expand.ListEnviron(s.environ()...)),
	}
	if s.dir != "" {
		opts = append(opts, interp.Dir(s.dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create interpreter: %w", err)
	}

	err = runner.Run(ctx, prog)
	if err == nil {
		return stdout.Bytes(), 0, nil
	}
	if status, ok := interp.IsExitStatus(err); ok {
		code := ExitCode(status)
		if code == 0 {
			code = 1
		}
		return stdout.Bytes(), code, nil
	}
	return stdout.Bytes(), 0, fmt.Errorf("interpreter failed: %w", err)
}
