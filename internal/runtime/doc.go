// SPDX-License-Identifier: MPL-2.0

// Package runtime executes resolved script commands.
//
// A Shell runs one command string and reports what happened: the captured
// standard output, the exit status, or the error that kept the process from
// starting. Two shells are available:
//   - native: the host interpreter (sh -c on Unix-like hosts, cmd /C on Windows)
//   - virtual: an embedded POSIX interpreter (mvdan/sh), for hosts without sh
//
// The Executor runs a command list through a Shell strictly in order, one
// command at a time. A failing command never stops the queue: every command
// is attempted exactly once and Execute returns one Result per command, in
// input order.
package runtime
