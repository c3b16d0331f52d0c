// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

type (
	// Executor runs resolved commands one after another through a Shell.
	Executor struct {
		shell    Shell
		stdout   io.Writer
		logger   *log.Logger
		reporter Reporter
		now      func() time.Time
	}

	// ExecutorOption configures an Executor.
	ExecutorOption func(*Executor)

	// Reporter observes execution progress. Calls happen on the executing goroutine.
	Reporter interface {
		CommandStarted(index, total int, command string)
		CommandFinished(result Result, total int)
	}
)

// WithStdout writes the output of each successful command to w once it has finished.
func WithStdout(w io.Writer) ExecutorOption {
	return func(e *Executor) { e.stdout = w }
}

// WithLogger sets the logger used for per-command diagnostics.
func WithLogger(l *log.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = l }
}

// WithReporter registers a progress observer.
func WithReporter(r Reporter) ExecutorOption {
	return func(e *Executor) { e.reporter = r }
}

// WithClock replaces time.Now when measuring command durations.
func WithClock(now func() time.Time) ExecutorOption {
	return func(e *Executor) { e.now = now }
}

// NewExecutor creates an Executor around shell.
func NewExecutor(shell Shell, opts ...ExecutorOption) *Executor {
	e := &Executor{
		shell:  shell,
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs every command in order and returns exactly one Result per command.
// A failed command is recorded and the next one is attempted regardless. Once
// ctx is done the remaining commands are not started and are reported as
// spawn failures wrapping the context error.
func (e *Executor) Execute(ctx context.Context, commands []string) []Result {
	results := make([]Result, 0, len(commands))
	total := len(commands)

	for i, command := range commands {
		if e.reporter != nil {
			e.reporter.CommandStarted(i, total, command)
		}
		e.logger.Debug("running command", "index", i+1, "total", total, "shell", e.shell.Name())

		res := e.run(ctx, i, command)
		results = append(results, res)

		switch res.Status {
		case StatusSucceeded:
			e.logger.Debug("command succeeded", "index", i+1, "duration", res.Duration)
			if e.stdout != nil && res.Output != "" {
				if _, err := io.WriteString(e.stdout, res.Output); err != nil {
					e.logger.Warn("failed to write command output", "index", i+1, "err", err)
				}
			}
		case StatusCommandFailed:
			e.logger.Debug("command failed", "index", i+1, "exit_code", res.ExitCode)
		case StatusSpawnFailed:
			e.logger.Debug("command could not be started", "index", i+1, "err", res.Err)
		}

		if e.reporter != nil {
			e.reporter.CommandFinished(res, total)
		}
	}

	return results
}

// run executes one command and classifies the outcome.
func (e *Executor) run(ctx context.Context, index int, command string) Result {
	if err := ctx.Err(); err != nil {
		return Result{
			Index:   index,
			Command: command,
			Status:  StatusSpawnFailed,
			Err:     &SpawnFailedError{Command: command, Err: err},
		}
	}

	start := e.now()
	stdout, code, err := e.shell.Run(ctx, command)
	res := Result{
		Index:    index,
		Command:  command,
		Duration: e.now().Sub(start),
	}

	switch {
	case err != nil:
		res.Status = StatusSpawnFailed
		res.Err = &SpawnFailedError{Command: command, Err: err}
	case !code.IsSuccess():
		res.Status = StatusCommandFailed
		res.ExitCode = code
		res.Err = &CommandFailedError{Command: command, ExitCode: code}
	default:
		res.Status = StatusSucceeded
		res.Output = strings.ToValidUTF8(string(stdout), "�")
	}
	return res
}
