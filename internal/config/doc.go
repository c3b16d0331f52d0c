// SPDX-License-Identifier: MPL-2.0

// Package config loads glrun settings.
//
// Defaults are held by Viper. A config file named config.cue or config.toml is
// looked up in the platform config directory ($XDG_CONFIG_HOME/glrun on Linux,
// ~/Library/Application Support/glrun on macOS, %APPDATA%\glrun on Windows) and
// then in the current directory. Both formats are validated against the embedded
// CUE schema (config_schema.cue) before being merged. GLRUN_* environment
// variables override everything, e.g. GLRUN_SHELL_MODE=virtual.
package config
