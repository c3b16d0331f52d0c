// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing errors for glrun.
//
// ActionableError carries what was being attempted, the file or URL involved,
// hints for fixing the problem and, optionally, the troubleshooting guide that
// explains it. Guides are markdown documents rendered for the terminal with
// glamour and listed by `glrun guide`.
package issue
