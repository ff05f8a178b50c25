package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/specgate/specgate/internal/scaffold"
)

var newSpecOwner string

var newSpecCmd = &cobra.Command{
	Use:   "new-spec <domain> <capability>",
	Short: "Scaffold a spec document",
	Long: `Create a draft spec skeleton at specs/<domain>/<capability>/spec.md
with placeholder requirement and acceptance entries. The document carries
the latest schema version.`,
	Example: `  # New capability spec
  specgate new-spec payment refund

  # With an owner recorded in frontmatter
  specgate new-spec payment refund --owner payments-team`,
	Args: cobra.ExactArgs(2),
	RunE: runNewSpec,
}

func init() {
	newSpecCmd.GroupID = GroupAuthoring
	newSpecCmd.Flags().StringVar(&newSpecOwner, "owner", "", "Owning team or person")
	rootCmd.AddCommand(newSpecCmd)
}

func runNewSpec(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return NewExitErrorf(ExitInvalidArguments, "loading config: %v", err)
	}

	rel, err := scaffold.NewSpec(flagRoot, cfg.SpecsDir, args[0], args[1], newSpecOwner, time.Now())
	if err != nil {
		return NewExitErrorf(ExitInvalidArguments, "%v", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "created %s\n", rel)
	printOK(out, fmt.Sprintf("spec %s/%s ready", args[0], args[1]), cfg.NoColor)
	return nil
}
