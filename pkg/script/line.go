// SPDX-License-Identifier: MPL-2.0

package script

import "strings"

const (
	// KindComment is a '#' line.
	KindComment LineKind = iota
	// KindOsDirective is an '@<os>' line.
	KindOsDirective
	// KindSingleCommand is a '-<command>' line.
	KindSingleCommand
	// KindMultiCommandDelimiter is a '--' line.
	KindMultiCommandDelimiter
	// KindMultiCommandLine is any other line.
	KindMultiCommandLine
)

// All line variants are declared together; the set is closed by the unexported
// marker method on Line.
type (
	// LineKind names a line variant for logging and diagnostics.
	LineKind int

	// Line is one classified script line. The concrete type is always one of
	// Comment, OsDirective, SingleCommand, MultiCommandDelimiter or MultiCommandLine.
	Line interface {
		Kind() LineKind
		isLine()
	}

	// Comment is skipped regardless of OS state.
	Comment struct{}

	// OsDirective opens the section for OS. OS is already trimmed and lower-cased.
	OsDirective struct {
		OS string
	}

	// SingleCommand is one self-contained shell command.
	SingleCommand struct {
		Text string
	}

	// MultiCommandDelimiter opens or closes a multi-line block.
	MultiCommandDelimiter struct{}

	// MultiCommandLine is raw content for a multi-line block. Text is verbatim.
	MultiCommandLine struct {
		Text string
	}
)

// Classify returns the variant for a single line (without its line terminator).
func Classify(line string) Line {
	switch {
	case strings.HasPrefix(line, "#"):
		return Comment{}
	case strings.HasPrefix(line, "@"):
		return OsDirective{OS: strings.ToLower(strings.TrimSpace(line[1:]))}
	case strings.HasPrefix(line, "--"):
		return MultiCommandDelimiter{}
	case strings.HasPrefix(line, "-"):
		return SingleCommand{Text: strings.TrimSpace(line[1:])}
	default:
		return MultiCommandLine{Text: line}
	}
}

// String returns the lower-case variant name.
func (k LineKind) String() string {
	switch k {
	case KindComment:
		return "comment"
	case KindOsDirective:
		return "os-directive"
	case KindSingleCommand:
		return "single-command"
	case KindMultiCommandDelimiter:
		return "multi-command-delimiter"
	case KindMultiCommandLine:
		return "multi-command-line"
	default:
		return "unknown"
	}
}

// Kind implements Line.
func (Comment) Kind() LineKind { return KindComment }

// Kind implements Line.
func (OsDirective) Kind() LineKind { return KindOsDirective }

// Kind implements Line.
func (SingleCommand) Kind() LineKind { return KindSingleCommand }

// Kind implements Line.
func (MultiCommandDelimiter) Kind() LineKind { return KindMultiCommandDelimiter }

// Kind implements Line.
func (MultiCommandLine) Kind() LineKind { return KindMultiCommandLine }

func (Comment) isLine()               {}
func (OsDirective) isLine()           {}
func (SingleCommand) isLine()         {}
func (MultiCommandDelimiter) isLine() {}
func (MultiCommandLine) isLine()      {}

// splitLines splits source on '\n', dropping one trailing '\r' per line and
// not producing an empty final line for a trailing newline.
func splitLines(source string) []string {
	if source == "" {
		return nil
	}
	lines := strings.Split(source, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
