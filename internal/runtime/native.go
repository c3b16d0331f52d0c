// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"

	"github.com/glrun/glrun/pkg/platform"
)

type (
	// NativeShell runs commands through the host's command interpreter.
	NativeShell struct {
		shell       string
		shellArgs   []string
		dir         string
		stderr      io.Writer
		spawnPrefix []string
		goos        string
	}

	// NativeOption configures a NativeShell.
	NativeOption func(*NativeShell)
)

// WithShell overrides the interpreter binary.
func WithShell(shell string) NativeOption {
	return func(s *NativeShell) { s.shell = shell }
}

// WithShellArgs replaces the arguments placed between the interpreter and the command.
func WithShellArgs(args ...string) NativeOption {
	return func(s *NativeShell) { s.shellArgs = args }
}

// WithDir sets the working directory of spawned commands.
func WithDir(dir string) NativeOption {
	return func(s *NativeShell) { s.dir = dir }
}

// WithStderr forwards the command's standard error to w.
func WithStderr(w io.Writer) NativeOption {
	return func(s *NativeShell) { s.stderr = w }
}

// WithSpawnPrefix sets an argv prefix used to reach the host from a sandbox.
func WithSpawnPrefix(prefix ...string) NativeOption {
	return func(s *NativeShell) { s.spawnPrefix = prefix }
}

// NewNativeShell creates a native shell. Inside a Flatpak sandbox commands are
// routed through flatpak-spawn unless WithSpawnPrefix says otherwise.
func NewNativeShell(opts ...NativeOption) *NativeShell {
	s := &NativeShell{
		goos:        goruntime.GOOS,
		spawnPrefix: platform.HostSpawnPrefix(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the shell name.
func (s *NativeShell) Name() string {
	return string(ModeNative)
}

// Run executes command as a single script argument of the interpreter.
func (s *NativeShell) Run(ctx context.Context, command string) ([]byte, ExitCode, error) {
	argv := s.argv(command)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = s.dir
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if s.stderr != nil {
		cmd.Stderr = s.stderr
	}

	if err := cmd.Start(); err != nil {
		return nil, 0, err
	}

	err := cmd.Wait()
	if err == nil {
		return stdout.Bytes(), 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := ExitCode(exitErr.ExitCode())
		// -1 means the process was killed by a signal; report it as a failure.
		if code == 0 || code.Validate() != nil {
			code = 1
		}
		return stdout.Bytes(), code, nil
	}
	// Wait failed on I/O after a successful start; the command did run.
	return stdout.Bytes(), 1, nil
}

// argv assembles the full argument vector for command.
func (s *NativeShell) argv(command string) []string {
	shell := s.shellPath()
	argv := make([]string, 0, len(s.spawnPrefix)+len(s.shellArgs)+3)
	argv = append(argv, s.spawnPrefix...)
	argv = append(argv, shell)
	argv = append(argv, s.args(shell)...)
	return append(argv, command)
}

// shellPath returns the configured interpreter or the platform default.
func (s *NativeShell) shellPath() string {
	if s.shell != "" {
		return s.shell
	}
	if s.goos == platform.Windows {
		return "cmd"
	}
	return "sh"
}

// args returns the arguments that make the interpreter run one script string.
func (s *NativeShell) args(shell string) []string {
	if len(s.shellArgs) > 0 {
		return s.shellArgs
	}

	base := shell
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(strings.ToLower(filepath.Base(base)), ".exe")

	switch base {
	case "cmd":
		return []string{"/C"}
	case "powershell", "pwsh":
		return []string{"-NoProfile", "-Command"}
	default:
		return []string{"-c"}
	}
}
