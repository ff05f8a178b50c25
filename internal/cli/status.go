package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/specgate/specgate/internal/document"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the workspace",
	Long: `Summarize the document tree: spec counts by status, task counts by
change status, and any documents that failed to load.`,
	Example: `  # Workspace overview
  specgate status`,
	RunE: runStatus,
}

func init() {
	statusCmd.GroupID = GroupUtility
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, tree, err := loadWorkspace()
	if err != nil {
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	if cfg.NoColor {
		plain := fmt.Sprint
		bold, dim = plain, plain
	}

	out := cmd.OutOrStdout()

	specsByStatus := make(map[string]int)
	for _, id := range tree.SpecIDs() {
		specsByStatus[tree.Specs[id].Status]++
	}
	fmt.Fprintf(out, "%s %d\n", bold("specs:"), len(tree.Specs))
	for _, status := range []string{document.StatusDraft, document.StatusActive, document.StatusDeprecated} {
		if n := specsByStatus[status]; n > 0 {
			fmt.Fprintf(out, "  %-12s %d\n", status, n)
		}
	}

	tasksByStatus := make(map[string]int)
	runs := 0
	for _, id := range tree.TaskIDs() {
		task := tree.Tasks[id]
		status := "unknown"
		if task.Change != nil {
			status = task.Change.Status
		}
		tasksByStatus[status]++
		runs += len(task.Runs)
	}
	fmt.Fprintf(out, "%s %d (%d runs)\n", bold("tasks:"), len(tree.Tasks), runs)
	for _, status := range []string{
		document.StatusDraft, document.StatusReview, document.StatusApproved,
		document.StatusInProgress, document.StatusDone, document.StatusRejected,
		document.StatusCanceled, "unknown",
	} {
		if n := tasksByStatus[status]; n > 0 {
			fmt.Fprintf(out, "  %-12s %d\n", status, n)
		}
	}

	if len(tree.Issues) > 0 {
		fmt.Fprintf(out, "%s %d document(s) failed to load %s\n",
			bold("load issues:"), len(tree.Issues), dim("(see `specgate validate`)"))
	}
	return nil
}
