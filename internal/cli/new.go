package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/specgate/specgate/internal/registry"
	"github.com/specgate/specgate/internal/scaffold"
)

var newTaskTitle string

var newCmd = &cobra.Command{
	Use:   "new <type> <slug>",
	Short: "Start a new task with the next sequence number",
	Long: `Allocate the next task sequence number from the registry and
scaffold the task directory: a draft change proposal, a planned execution
plan, and an empty runs directory.

The sequence number is allocated through the on-disk registry, so numbers
are never reused even after a task is archived.`,
	Example: `  # New feature task: creates tasks/NNNNNN_feature_dark-mode/
  specgate new feature dark-mode

  # With an explicit title
  specgate new fix login-rate --title "Rate-limit login attempts"`,
	Args: cobra.ExactArgs(2),
	RunE: runNew,
}

func init() {
	newCmd.GroupID = GroupAuthoring
	newCmd.Flags().StringVar(&newTaskTitle, "title", "", "Change title (defaults to the slug)")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	typ, slug := args[0], args[1]
	if err := scaffold.ValidateTaskType(typ); err != nil {
		return NewExitErrorf(ExitInvalidArguments, "%v", err)
	}
	if err := scaffold.ValidateName("slug", slug); err != nil {
		return NewExitErrorf(ExitInvalidArguments, "%v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return NewExitErrorf(ExitInvalidArguments, "loading config: %v", err)
	}

	reg := registry.New(flagRoot, cfg.RegistryPath)
	seq, err := reg.Allocate(func(seq int) string {
		return scaffold.TaskDirName(seq, typ, slug)
	})
	if err != nil {
		return NewExitErrorf(ExitIOError, "allocating sequence: %v", err)
	}

	name, err := scaffold.NewTask(flagRoot, cfg.TasksDir, seq, typ, slug, newTaskTitle, time.Now())
	if err != nil {
		return NewExitErrorf(ExitIOError, "scaffolding task: %v", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "created %s/%s/change.md\n", cfg.TasksDir, name)
	fmt.Fprintf(out, "created %s/%s/plan.md\n", cfg.TasksDir, name)
	printOK(out, fmt.Sprintf("task %s ready", name), cfg.NoColor)
	return nil
}
