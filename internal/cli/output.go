package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/specgate/specgate/internal/issue"
)

// printReport renders an issue report grouped by document, with a summary
// line. Colors are disabled per configuration.
func printReport(w io.Writer, report *issue.Report, noColor bool) {
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	if noColor {
		plain := fmt.Sprint
		red, yellow, dim = plain, plain, plain
	}

	docs, grouped := report.ByDocument()
	for _, doc := range docs {
		name := doc
		if name == "" {
			name = "(workspace)"
		}
		fmt.Fprintln(w, name)
		for _, i := range grouped[doc] {
			location := ""
			if i.Line > 0 {
				location = fmt.Sprintf(":%d", i.Line)
			}
			field := ""
			if i.Field != "" {
				field = i.Field + ": "
			}
			fmt.Fprintf(w, "  %s%s [%s] %s%s\n", red("✗"), location, yellow(string(i.Code)), field, i.Message)
			if i.Hint != "" {
				fmt.Fprintf(w, "      %s\n", dim("hint: "+i.Hint))
			}
		}
	}
	fmt.Fprintf(w, "\n%d issue(s) found\n", len(report.Issues))
}

// printOK renders the all-clear line.
func printOK(w io.Writer, message string, noColor bool) {
	green := color.New(color.FgGreen).SprintFunc()
	if noColor {
		green = fmt.Sprint
	}
	fmt.Fprintf(w, "%s %s\n", green("✓"), message)
}
