// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"runtime"
	"strings"
)

// GOOS values that get special treatment.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// Script section identifiers. Any other GOOS value (freebsd, openbsd, ...)
// is used verbatim as its own identifier.
const (
	OSLinux   = "linux"
	OSMacOS   = "macos"
	OSWindows = "windows"
)

// HostOS returns the section identifier for the operating system glrun is running on.
func HostOS() string {
	return IdentifierFor(runtime.GOOS)
}

// IdentifierFor converts a GOOS value into the identifier scripts use in `@<os>` headers.
func IdentifierFor(goos string) string {
	switch goos {
	case Darwin:
		return OSMacOS
	case "":
		return ""
	default:
		return strings.ToLower(goos)
	}
}

// NormalizeIdentifier lower-cases and trims a user supplied OS identifier so it can be
// compared against section headers. The common GOOS spelling "darwin" is accepted as macos.
func NormalizeIdentifier(id string) string {
	return IdentifierFor(strings.ToLower(strings.TrimSpace(id)))
}

// IsWindows reports whether the identifier names Windows.
func IsWindows(id string) bool {
	return id == OSWindows
}
