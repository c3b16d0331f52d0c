// SPDX-License-Identifier: MPL-2.0

package script

import (
	"slices"
	"strings"
)

// state is the parser's fold accumulator. Each transition returns a new value.
type state struct {
	hostOS string

	// validOS becomes true at the first matching directive and stays true.
	validOS bool
	// currentOS is true while the most recent directive matches the host.
	currentOS bool

	inBlock    bool
	blockStart int
	block      []string

	commands []string
	sections []string
}

func newState(hostOS string) state {
	return state{hostOS: hostOS}
}

// Parse resolves source for hostOS. hostOS is compared case-sensitively against
// the lower-cased directive text, so callers pass lower-case identifiers
// (see platform.HostOS).
func Parse(source, hostOS string) (*Script, error) {
	st := newState(hostOS)
	for i, raw := range splitLines(source) {
		st = st.step(i+1, Classify(raw))
	}
	return st.finish()
}

// MustParse is like Parse but panics on error. Intended for tests and fixed scripts.
func MustParse(source, hostOS string) *Script {
	s, err := Parse(source, hostOS)
	if err != nil {
		panic(err)
	}
	return s
}

// step applies one classified line. lineNo is 1-based.
func (s state) step(lineNo int, line Line) state {
	switch l := line.(type) {
	case Comment:
		return s
	case OsDirective:
		// Directives are evaluated even when the previous section is not current.
		if !slices.Contains(s.sections, l.OS) {
			s.sections = append(slices.Clone(s.sections), l.OS)
		}
		s.currentOS = l.OS == s.hostOS
		if s.currentOS {
			s.validOS = true
		}
		return s
	}

	if !s.currentOS {
		return s
	}

	switch l := line.(type) {
	case MultiCommandDelimiter:
		if !s.inBlock {
			s.inBlock = true
			s.blockStart = lineNo
			s.block = nil
			return s
		}
		s.inBlock = false
		s.commands = append(slices.Clone(s.commands), strings.Join(s.block, "\n"))
		s.block = nil
	case SingleCommand:
		s.commands = append(slices.Clone(s.commands), l.Text)
	case MultiCommandLine:
		if s.inBlock {
			s.block = append(slices.Clone(s.block), l.Text)
		}
	}
	return s
}

// finish applies the end-of-input rules.
func (s state) finish() (*Script, error) {
	if !s.validOS {
		return nil, &NoMatchingOsSectionError{HostOS: s.hostOS, Sections: slices.Clone(s.sections)}
	}

	var warnings []Warning
	if s.inBlock {
		warnings = append(warnings, Warning{
			Kind:    WarningUnterminatedBlock,
			Line:    s.blockStart,
			Dropped: len(s.block),
		})
	}

	return &Script{
		hostOS:   s.hostOS,
		commands: slices.Clone(s.commands),
		warnings: warnings,
	}, nil
}
