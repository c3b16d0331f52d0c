// SPDX-License-Identifier: MPL-2.0

// Package script parses glrun scripts into the ordered list of shell commands
// that apply to one host operating system.
//
// A script is line oriented. Each line is classified by its first character:
//
//	# comment                 ignored everywhere
//	@linux                    opens the section for an OS (trimmed, lower-cased)
//	-make build               single command (text after '-' is trimmed)
//	--                        opens or closes a multi-line command block
//	anything else             raw block content, kept verbatim
//
// Only lines inside a section matching the host OS are collected. A script
// must contain at least one such section, otherwise Parse fails with
// ErrNoMatchingOsSection and nothing should be executed.
//
// Parsing is a fold over classified lines: Parse threads an explicit state
// value through one transition per line, so the rules can be exercised one
// line at a time.
package script
