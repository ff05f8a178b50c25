package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/specgate/specgate/internal/document"
	"github.com/specgate/specgate/internal/scaffold"
)

var newRunStatus string

var newRunCmd = &cobra.Command{
	Use:   "new-run <task-id>",
	Short: "Record a run for a task",
	Long: `Create a timestamped run record under the task's runs/ directory.
The run inherits the change's risk level so the evidence requirement is
visible from the start. Fill in the outcome, revision, and evidence before
marking it successful.`,
	Example: `  # Record an attempt against a task
  specgate new-run 000042_feature_dark-mode

  # Record an outcome directly
  specgate new-run 000042_feature_dark-mode --status failure`,
	Args: cobra.ExactArgs(1),
	RunE: runNewRun,
}

func init() {
	newRunCmd.GroupID = GroupAuthoring
	newRunCmd.Flags().StringVar(&newRunStatus, "status", document.StatusPartial, "Run outcome: success, partial, or failure")
	rootCmd.AddCommand(newRunCmd)
}

func runNewRun(cmd *cobra.Command, args []string) error {
	taskID := args[0]
	if _, _, _, ok := document.ParseTaskDirName(taskID); !ok {
		return NewExitErrorf(ExitInvalidArguments, "invalid task id %q: expected NNNNNN_type_slug", taskID)
	}

	cfg, tree, err := loadWorkspace()
	if err != nil {
		return err
	}
	task, ok := tree.Tasks[taskID]
	if !ok {
		return NewExitErrorf(ExitInvalidArguments, "task %s not found under %s/", taskID, cfg.TasksDir)
	}

	risk := document.RiskMedium
	if task.Change != nil && task.Change.RiskLevel != "" {
		risk = task.Change.RiskLevel
	}

	rel, err := scaffold.NewRun(flagRoot, cfg.TasksDir, taskID, newRunStatus, risk, time.Now())
	if err != nil {
		return NewExitErrorf(ExitInvalidArguments, "%v", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "created %s\n", rel)
	printOK(out, "run recorded", cfg.NoColor)
	return nil
}
