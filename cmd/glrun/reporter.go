// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/glrun/glrun/internal/runtime"
)

// failureReporter prints every failed command with its exit status or start
// error. In verbose mode it also prints a progress line per command.
type failureReporter struct {
	w       io.Writer
	verbose bool
}

func newFailureReporter(w io.Writer, verbose bool) *failureReporter {
	return &failureReporter{w: w, verbose: verbose}
}

// CommandStarted implements runtime.Reporter.
func (r *failureReporter) CommandStarted(index, total int, command string) {
	if !r.verbose {
		return
	}
	first, _, _ := strings.Cut(command, "\n")
	fmt.Fprintln(r.w, VerboseStyle.Render(fmt.Sprintf("[%d/%d] %s", index+1, total, first)))
}

// CommandFinished implements runtime.Reporter.
func (r *failureReporter) CommandFinished(result runtime.Result, total int) {
	if result.Succeeded() {
		if r.verbose {
			fmt.Fprintln(r.w, VerboseStyle.Render(fmt.Sprintf("[%d/%d] done in %s", result.Index+1, total, result.Duration)))
		}
		return
	}

	fmt.Fprintln(r.w, ErrorStyle.Render("Error while running command below:"))
	fmt.Fprintln(r.w, CmdStyle.Render(result.Command))

	var spawnErr *runtime.SpawnFailedError
	switch {
	case errors.As(result.Err, &spawnErr):
		fmt.Fprintln(r.w, WarningStyle.Render("could not start command: "+spawnErr.Err.Error()))
	default:
		fmt.Fprintln(r.w, WarningStyle.Render("exit status "+result.ExitCode.String()))
	}
}
