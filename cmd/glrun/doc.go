// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the glrun command line interface.
//
// The root command loads a script from a file or URL, resolves it for the
// host operating system, shows the resolved commands, asks for confirmation
// and runs them. Subcommands manage configuration and render the
// troubleshooting guides.
package cmd
