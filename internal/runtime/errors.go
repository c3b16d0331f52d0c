// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
)

var (
	// ErrCommandFailed is the sentinel wrapped by CommandFailedError.
	ErrCommandFailed = errors.New("command failed")
	// ErrSpawnFailed is the sentinel wrapped by SpawnFailedError.
	ErrSpawnFailed = errors.New("command could not be started")
	// ErrInvalidShellMode is returned by NewShell for an unknown mode.
	ErrInvalidShellMode = errors.New("invalid shell mode")
)

type (
	// CommandFailedError reports a command whose process ran but exited unsuccessfully.
	CommandFailedError struct {
		Command  string
		ExitCode ExitCode
	}

	// SpawnFailedError reports a command whose process could not be started.
	SpawnFailedError struct {
		Command string
		Err     error
	}
)

// Error implements the error interface.
func (e *CommandFailedError) Error() string {
	return fmt.Sprintf("command exited with status %d:\n%s", e.ExitCode, e.Command)
}

// Is lets errors.Is match ErrCommandFailed.
func (e *CommandFailedError) Is(target error) bool { return target == ErrCommandFailed }

// Error implements the error interface.
func (e *SpawnFailedError) Error() string {
	return fmt.Sprintf("failed to start command: %v:\n%s", e.Err, e.Command)
}

// Is lets errors.Is match ErrSpawnFailed.
func (e *SpawnFailedError) Is(target error) bool { return target == ErrSpawnFailed }

// Unwrap returns the underlying system error.
func (e *SpawnFailedError) Unwrap() error { return e.Err }
