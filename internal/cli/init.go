package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/specgate/specgate/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the workspace layout",
	Long: `Create the workspace directories: the specs and tasks trees, the
history directory, and the state directory holding the sequence registry and
compiled catalog. Existing directories are left untouched, so init is safe
to re-run.`,
	Example: `  # Initialize the current directory
  specgate init

  # Initialize another directory
  specgate -C ~/work/docs init`,
	RunE: runInit,
}

func init() {
	initCmd.GroupID = GroupAuthoring
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return NewExitErrorf(ExitInvalidArguments, "loading config: %v", err)
	}

	dirs := []string{cfg.SpecsDir, cfg.TasksDir, cfg.HistoryDir, cfg.StateDir}
	if err := scaffold.Init(flagRoot, dirs...); err != nil {
		return NewExitErrorf(ExitIOError, "initializing workspace: %v", err)
	}

	out := cmd.OutOrStdout()
	for _, dir := range dirs {
		fmt.Fprintf(out, "created %s/\n", dir)
	}
	printOK(out, "workspace initialized", cfg.NoColor)
	return nil
}
