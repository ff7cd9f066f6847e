package classify

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Sentinel options offered alongside real candidates.
const (
	ChoiceNone = "None of these"
	ChoiceSkip = "Skip"
)

// Disambiguator resolves an ambiguous match by asking someone (or something)
// to pick one option. Implementations block until a selection is made, so a
// Disambiguator must never be reachable from a network-facing request handler.
type Disambiguator interface {
	// ChooseOne returns the selected option. ok is false when the operator
	// declined to choose.
	ChooseOne(prompt string, options []string) (choice string, ok bool)
}

// ConsoleChooser prompts on a terminal with an enumerated list. It is wired
// only into the offline enrichment tool.
type ConsoleChooser struct {
	in  *bufio.Reader
	out io.Writer
}

func NewConsoleChooser(in io.Reader, out io.Writer) *ConsoleChooser {
	return &ConsoleChooser{in: bufio.NewReader(in), out: out}
}

func (c *ConsoleChooser) ChooseOne(prompt string, options []string) (string, bool) {
	if len(options) == 0 {
		return "", false
	}
	fmt.Fprintln(c.out, prompt)
	for i, opt := range options {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, opt)
	}
	for {
		fmt.Fprintf(c.out, "Choice [1-%d, empty to skip]: ", len(options))
		line, err := c.in.ReadString('\n')
		if err != nil && line == "" {
			return "", false
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return "", false
		}
		n, convErr := strconv.Atoi(line)
		if convErr == nil && n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		fmt.Fprintln(c.out, "Invalid choice.")
	}
}
