// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers that fail the test on error instead of
// returning it: environment variables (MustSetenv, MustUnsetenv, SetHomeDir),
// the working directory (MustChdir), files (MustWriteFile) and a manually
// advanced clock (FakeClock).
package testutil
