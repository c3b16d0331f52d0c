// SPDX-License-Identifier: MPL-2.0

package runtime

import "time"

const (
	// StatusSucceeded means the command ran and exited successfully.
	StatusSucceeded Status = iota
	// StatusCommandFailed means the command ran and exited unsuccessfully.
	StatusCommandFailed
	// StatusSpawnFailed means the command could not be started.
	StatusSpawnFailed
)

type (
	// Status classifies the outcome of one command.
	Status int

	// Result is the outcome of one executed command.
	Result struct {
		// Index is the command's position in the executed list.
		Index int
		// Command is the command text exactly as it was handed to the shell.
		Command string
		Status  Status
		// ExitCode is set for StatusCommandFailed.
		ExitCode ExitCode
		// Output is the captured standard output, decoded as UTF-8 with invalid
		// sequences replaced. Only set for StatusSucceeded.
		Output string
		// Err is a *CommandFailedError or *SpawnFailedError for failed commands.
		Err      error
		Duration time.Duration
	}

	// Summary counts results by status.
	Summary struct {
		Total         int
		Succeeded     int
		CommandFailed int
		SpawnFailed   int
	}
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusCommandFailed:
		return "command-failed"
	case StatusSpawnFailed:
		return "spawn-failed"
	default:
		return "unknown"
	}
}

// Succeeded reports whether the command ran and exited successfully.
func (r Result) Succeeded() bool {
	return r.Status == StatusSucceeded
}

// Summarize counts results by status.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusSucceeded:
			s.Succeeded++
		case StatusCommandFailed:
			s.CommandFailed++
		case StatusSpawnFailed:
			s.SpawnFailed++
		}
	}
	return s
}

// Failed returns the number of commands that did not succeed.
func (s Summary) Failed() int {
	return s.CommandFailed + s.SpawnFailed
}

// ExitCode returns 0 when every command succeeded and 1 otherwise.
func (s Summary) ExitCode() ExitCode {
	if s.Failed() > 0 {
		return 1
	}
	return 0
}
