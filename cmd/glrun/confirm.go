// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const confirmPrompt = "Are you sure to run the script above (y | n): "

var promptStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)

// confirm asks whether to run the listed commands. Only an answer of exactly
// "y" (surrounding whitespace ignored) proceeds; end of input declines.
func confirm(in io.Reader, out io.Writer) (bool, error) {
	fmt.Fprint(out, promptStyle.Render(confirmPrompt))

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	if errors.Is(err, io.EOF) && answer == "" {
		fmt.Fprintln(out)
	}

	return strings.TrimSpace(answer) == "y", nil
}
