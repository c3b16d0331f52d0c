// SPDX-License-Identifier: MPL-2.0

package script

import (
	"fmt"
	"slices"
)

const (
	// WarningUnterminatedBlock reports a '--' block that was never closed.
	// Its content is dropped, matching how such scripts have always behaved.
	WarningUnterminatedBlock WarningKind = "unterminated-block"
)

type (
	// Script is the immutable result of parsing: the commands to run, in order.
	Script struct {
		hostOS   string
		commands []string
		warnings []Warning
	}

	// WarningKind classifies a non-fatal parse diagnostic.
	WarningKind string

	// Warning is a non-fatal parse diagnostic.
	Warning struct {
		Kind WarningKind
		// Line is the 1-based source line the warning refers to.
		Line int
		// Dropped is the number of buffered block lines that were discarded.
		Dropped int
	}
)

// Commands returns a copy of the resolved commands in execution order.
func (s *Script) Commands() []string {
	return slices.Clone(s.commands)
}

// Len returns the number of resolved commands.
func (s *Script) Len() int {
	return len(s.commands)
}

// HostOS returns the OS identifier the script was resolved for.
func (s *Script) HostOS() string {
	return s.hostOS
}

// Warnings returns a copy of the non-fatal diagnostics collected while parsing.
func (s *Script) Warnings() []Warning {
	return slices.Clone(s.warnings)
}

// String formats the warning for display.
func (w Warning) String() string {
	switch w.Kind {
	case WarningUnterminatedBlock:
		return fmt.Sprintf("line %d: multi-line block opened with '--' is never closed; %d line(s) ignored", w.Line, w.Dropped)
	default:
		return fmt.Sprintf("line %d: %s", w.Line, w.Kind)
	}
}
