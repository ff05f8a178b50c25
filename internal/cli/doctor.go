package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/specgate/specgate/internal/health"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run workspace health checks",
	Long: `Run health checks over the workspace:
  - document directories exist
  - state directory exists and is writable
  - sequence registry parses
  - compiled catalog parses
  - no stale registry lockfile

Each check displays a ✓ if passed or ✗ with an error message if failed.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.GroupID = GroupUtility
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return NewExitErrorf(ExitInvalidArguments, "loading config: %v", err)
	}

	report := health.RunHealthChecks(health.Options{
		Root:         flagRoot,
		SpecsDir:     cfg.SpecsDir,
		TasksDir:     cfg.TasksDir,
		StateDir:     cfg.StateDir,
		RegistryPath: cfg.RegistryPath,
		CatalogPath:  cfg.CatalogPath,
	})

	fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))

	if !report.Passed {
		return NewExitError(ExitIOError)
	}
	return nil
}
