// SPDX-License-Identifier: MPL-2.0

// Command glrun runs one script of OS-gated shell commands on any platform.
package main

import cmd "github.com/glrun/glrun/cmd/glrun"

func main() {
	cmd.Execute()
}
