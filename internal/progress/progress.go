// Package progress renders activity indicators for long-running workspace
// operations. On a TTY it animates a spinner; in pipes and CI it degrades to
// plain line output.
package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"
)

// TerminalCapabilities describes what the output terminal supports
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// Symbols is the marker set matching the terminal's capabilities
type Symbols struct {
	Checkmark  string
	Failure    string
	SpinnerSet int
}

// DetectTerminalCapabilities detects terminal features and returns capabilities
func DetectTerminalCapabilities() TerminalCapabilities {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	noColor := os.Getenv("NO_COLOR") != ""
	forceASCII := os.Getenv("SPECGATE_ASCII") == "1"

	width := 0
	if isTTY {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}

	return TerminalCapabilities{
		IsTTY:           isTTY,
		SupportsColor:   isTTY && !noColor,
		SupportsUnicode: isTTY && !forceASCII,
		Width:           width,
	}
}

// SelectSymbols returns the appropriate symbol set based on terminal capabilities
func SelectSymbols(caps TerminalCapabilities) Symbols {
	if caps.SupportsUnicode {
		return Symbols{
			Checkmark:  "✓",
			Failure:    "✗",
			SpinnerSet: 14, // Unicode dots: ⠋ ⠙ ⠹ ⠸ ⠼ ⠴ ⠦ ⠧ ⠇ ⠏
		}
	}

	return Symbols{
		Checkmark:  "[OK]",
		Failure:    "[FAIL]",
		SpinnerSet: 9, // ASCII: | / - \
	}
}

// Indicator shows one activity at a time: Start replaces any running
// indicator, Done and Fail close it with a result line.
type Indicator struct {
	caps    TerminalCapabilities
	symbols Symbols
	spinner *spinner.Spinner
	enabled bool
}

// NewIndicator creates an indicator. When enabled is false every call is a
// no-op, which keeps call sites free of conditionals.
func NewIndicator(caps TerminalCapabilities, enabled bool) *Indicator {
	return &Indicator{
		caps:    caps,
		symbols: SelectSymbols(caps),
		enabled: enabled,
	}
}

// Start begins showing activity with the given message
func (i *Indicator) Start(message string) {
	if !i.enabled {
		return
	}
	i.stopSpinner()

	if i.caps.IsTTY {
		i.spinner = spinner.New(
			spinner.CharSets[i.symbols.SpinnerSet],
			100*time.Millisecond,
		)
		i.spinner.Writer = os.Stderr // keep stdout clean for command output
		i.spinner.Suffix = " " + message
		i.spinner.Start()
		return
	}
	fmt.Fprintln(os.Stderr, message)
}

// Done stops the indicator and prints a success line
func (i *Indicator) Done(message string) {
	if !i.enabled {
		return
	}
	i.stopSpinner()
	fmt.Fprintf(os.Stderr, "%s %s\n", i.symbols.Checkmark, message)
}

// Fail stops the indicator and prints a failure line
func (i *Indicator) Fail(message string) {
	if !i.enabled {
		return
	}
	i.stopSpinner()
	fmt.Fprintf(os.Stderr, "%s %s\n", i.symbols.Failure, message)
}

// Stop halts the indicator without printing anything
func (i *Indicator) Stop() {
	i.stopSpinner()
}

func (i *Indicator) stopSpinner() {
	if i.spinner != nil {
		i.spinner.Stop()
		i.spinner = nil
	}
}
