// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	// ShellModeNative runs commands with the system shell.
	ShellModeNative ShellMode = "native"
	// ShellModeVirtual runs commands with the embedded mvdan/sh interpreter.
	ShellModeVirtual ShellMode = "virtual"

	// ColorAuto colors output when stdout is a terminal.
	ColorAuto ColorMode = "auto"
	// ColorAlways forces colored output.
	ColorAlways ColorMode = "always"
	// ColorNever disables colored output.
	ColorNever ColorMode = "never"
)

var (
	// ErrInvalidShellMode is returned when a ShellMode value is not recognized.
	ErrInvalidShellMode = errors.New("invalid shell mode")
	// ErrInvalidColorMode is returned when a ColorMode value is not recognized.
	ErrInvalidColorMode = errors.New("invalid color mode")
	// ErrInvalidFetchConfig is returned when fetch limits are out of range.
	ErrInvalidFetchConfig = errors.New("invalid fetch config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ShellMode selects how commands are executed.
	ShellMode string

	// InvalidShellModeError is returned when a ShellMode value is not recognized.
	InvalidShellModeError struct {
		Value ShellMode
	}

	// ColorMode controls terminal styling.
	ColorMode string

	// InvalidColorModeError is returned when a ColorMode value is not recognized.
	InvalidColorModeError struct {
		Value ColorMode
	}

	// InvalidFetchConfigError reports a negative timeout or a non-positive size limit.
	InvalidFetchConfigError struct {
		Timeout  time.Duration
		MaxBytes int64
	}

	// InvalidConfigError collects field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		Shell ShellConfig `json:"shell" mapstructure:"shell"`
		Run   RunConfig   `json:"run" mapstructure:"run"`
		Fetch FetchConfig `json:"fetch" mapstructure:"fetch"`
		UI    UIConfig    `json:"ui" mapstructure:"ui"`
	}

	// ShellConfig selects and configures the shell.
	ShellConfig struct {
		// Mode is "native" or "virtual".
		Mode ShellMode `json:"mode" mapstructure:"mode"`
		// Path overrides the native shell binary.
		Path string `json:"path,omitempty" mapstructure:"path"`
		// Args override the arguments placed before each command.
		Args []string `json:"args,omitempty" mapstructure:"args"`
	}

	// RunConfig controls script execution.
	RunConfig struct {
		// AssumeYes skips the confirmation prompt.
		AssumeYes bool `json:"assume_yes" mapstructure:"assume_yes"`
	}

	// FetchConfig bounds remote script downloads.
	FetchConfig struct {
		Timeout  time.Duration `json:"timeout" mapstructure:"timeout"`
		MaxBytes int64         `json:"max_bytes" mapstructure:"max_bytes"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		Debug   bool      `json:"debug" mapstructure:"debug"`
		Verbose bool      `json:"verbose" mapstructure:"verbose"`
		Color   ColorMode `json:"color" mapstructure:"color"`
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Shell: ShellConfig{Mode: ShellModeNative},
		Fetch: FetchConfig{
			Timeout:  30 * time.Second,
			MaxBytes: 10 << 20,
		},
		UI: UIConfig{Color: ColorAuto},
	}
}

func (m ShellMode) String() string { return string(m) }

// IsValid reports whether m is a known shell mode.
func (m ShellMode) IsValid() (bool, []error) {
	switch m {
	case ShellModeNative, ShellModeVirtual:
		return true, nil
	default:
		return false, []error{&InvalidShellModeError{Value: m}}
	}
}

func (e *InvalidShellModeError) Error() string {
	return fmt.Sprintf("invalid shell mode %q (valid: native, virtual)", e.Value)
}

// Unwrap returns ErrInvalidShellMode for errors.Is() compatibility.
func (e *InvalidShellModeError) Unwrap() error { return ErrInvalidShellMode }

func (m ColorMode) String() string { return string(m) }

// IsValid reports whether m is a known color mode.
func (m ColorMode) IsValid() (bool, []error) {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true, nil
	default:
		return false, []error{&InvalidColorModeError{Value: m}}
	}
}

func (e *InvalidColorModeError) Error() string {
	return fmt.Sprintf("invalid color mode %q (valid: auto, always, never)", e.Value)
}

// Unwrap returns ErrInvalidColorMode for errors.Is() compatibility.
func (e *InvalidColorModeError) Unwrap() error { return ErrInvalidColorMode }

// IsValid reports whether the limits are usable. A zero timeout disables it.
func (c FetchConfig) IsValid() (bool, []error) {
	if c.Timeout < 0 || c.MaxBytes <= 0 {
		return false, []error{&InvalidFetchConfigError{Timeout: c.Timeout, MaxBytes: c.MaxBytes}}
	}
	return true, nil
}

func (e *InvalidFetchConfigError) Error() string {
	return fmt.Sprintf("invalid fetch config: timeout %s must not be negative and max_bytes %d must be positive",
		e.Timeout, e.MaxBytes)
}

// Unwrap returns ErrInvalidFetchConfig for errors.Is() compatibility.
func (e *InvalidFetchConfigError) Unwrap() error { return ErrInvalidFetchConfig }

// IsValid validates every field that the schema cannot see, such as values
// that arrive through environment variables.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Shell.Mode.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Fetch.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.Color.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return "invalid config: " + e.FieldErrors[0].Error()
	}
	return fmt.Sprintf("invalid config: %d field error(s): %v", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
