// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"sync"
)

const (
	// SandboxNone means glrun runs directly on the host.
	SandboxNone SandboxType = ""
	// SandboxFlatpak means glrun runs inside a Flatpak container.
	SandboxFlatpak SandboxType = "flatpak"
)

// SandboxType identifies the application sandbox glrun was started in.
type SandboxType string

// sandbox detection must not panic: sync.OnceValue re-panics on every call.
var detectOnce = sync.OnceValue(func() SandboxType {
	return detectSandbox(os.Getenv, func(path string) error {
		_, err := os.Stat(path)
		return err
	})
})

// DetectSandbox returns the sandbox of the current process, cached for its lifetime.
func DetectSandbox() SandboxType {
	return detectOnce()
}

// HostSpawnPrefix returns the argv prefix that escapes the current sandbox so
// script commands reach the host shell. It is nil outside a sandbox.
func HostSpawnPrefix() []string {
	return SpawnPrefixFor(DetectSandbox())
}

// SpawnPrefixFor returns the host spawn argv prefix for a sandbox type.
func SpawnPrefixFor(st SandboxType) []string {
	switch st {
	case SandboxFlatpak:
		return []string{"flatpak-spawn", "--host"}
	default:
		return nil
	}
}

// detectSandbox reports Flatpak when its marker file exists or FLATPAK_ID is set.
func detectSandbox(getenv func(string) string, stat func(string) error) SandboxType {
	if err := stat("/.flatpak-info"); err == nil {
		return SandboxFlatpak
	}
	if getenv("FLATPAK_ID") != "" {
		return SandboxFlatpak
	}
	return SandboxNone
}
