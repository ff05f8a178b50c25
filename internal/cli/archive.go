package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/specgate/specgate/internal/archive"
)

var archiveApply bool

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Copy finished work into the history tree",
	Long: `Copy tasks whose change reached a terminal status (done, rejected,
canceled) and deprecated specs under history/<date>/, keeping their
relative layout. Sources are never deleted; removal stays a human decision.
A done change with an unfinished plan is skipped for the gate check to flag.

Without --apply this is a dry run listing what would be copied.`,
	Example: `  # Show what would be archived
  specgate archive

  # Copy it
  specgate archive --apply`,
	RunE: runArchive,
}

func init() {
	archiveCmd.GroupID = GroupAuthoring
	archiveCmd.Flags().BoolVar(&archiveApply, "apply", false, "Copy the selected directories")
	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, _ []string) error {
	cfg, tree, err := loadWorkspace()
	if err != nil {
		return err
	}

	sel := archive.Select(tree, cfg.SpecsDir, cfg.TasksDir, cfg.HistoryDir, time.Now())

	out := cmd.OutOrStdout()
	if sel.Empty() {
		printOK(out, "nothing to archive", cfg.NoColor)
		return nil
	}

	verb := "would archive"
	if archiveApply {
		verb = "archiving"
	}
	for _, e := range append(append([]archive.Entry{}, sel.Specs...), sel.Tasks...) {
		fmt.Fprintf(out, "%s %s -> %s\n", verb, e.From, e.To)
	}

	if !archiveApply {
		fmt.Fprintln(out, "\nrun with --apply to copy these directories")
		return nil
	}

	if err := archive.Apply(flagRoot, sel); err != nil {
		return NewExitErrorf(ExitIOError, "archiving: %v", err)
	}
	printOK(out, fmt.Sprintf("archived %d directories", len(sel.Specs)+len(sel.Tasks)), cfg.NoColor)
	return nil
}
