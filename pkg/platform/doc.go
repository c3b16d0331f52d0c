// SPDX-License-Identifier: MPL-2.0

// Package platform maps the running operating system onto the identifiers used
// in glrun script section headers (`@linux`, `@macos`, `@windows`) and detects
// application sandboxes that need a host spawn wrapper to reach the real shell.
package platform
