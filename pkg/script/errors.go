// SPDX-License-Identifier: MPL-2.0

package script

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoMatchingOsSection is the sentinel wrapped by NoMatchingOsSectionError.
var ErrNoMatchingOsSection = errors.New("script has no section for this operating system")

// NoMatchingOsSectionError is returned by Parse when no '@<os>' header matched the host.
// It is fatal for the whole run: no command of the script may be executed.
type NoMatchingOsSectionError struct {
	// HostOS is the identifier the script was resolved against.
	HostOS string
	// Sections lists the distinct OS identifiers the script does declare, in order of appearance.
	Sections []string
}

// Error implements the error interface.
func (e *NoMatchingOsSectionError) Error() string {
	if len(e.Sections) == 0 {
		return fmt.Sprintf("script has no @%s section (no OS sections declared)", e.HostOS)
	}
	return fmt.Sprintf("script has no @%s section (declared: %s)", e.HostOS, strings.Join(e.Sections, ", "))
}

// Unwrap returns ErrNoMatchingOsSection for errors.Is.
func (e *NoMatchingOsSectionError) Unwrap() error { return ErrNoMatchingOsSection }
