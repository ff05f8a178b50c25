package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/specgate/specgate/internal/assess"
	"github.com/specgate/specgate/internal/gate"
)

var assessCmd = &cobra.Command{
	Use:   "assess [task-id]",
	Short: "Suggest clarity and readiness scores",
	Long: `Compute suggested clarity and readiness scores from document
content: section coverage, reference resolution, and step enumeration.

Suggestions are advisory. The declared scores in frontmatter are what the
approval and execution gates enforce; this command shows the gaps between
the two.`,
	Example: `  # Assess every change and plan
  specgate assess

  # Assess one task
  specgate assess 000042_feature_dark-mode`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAssess,
}

func init() {
	assessCmd.GroupID = GroupChecks
	rootCmd.AddCommand(assessCmd)
}

func runAssess(cmd *cobra.Command, args []string) error {
	cfg, tree, err := loadWorkspace()
	if err != nil {
		return err
	}

	var assessments []assess.Assessment
	if len(args) == 1 {
		task, ok := tree.Tasks[args[0]]
		if !ok {
			return NewExitErrorf(ExitInvalidArguments, "task %s not found under %s/", args[0], cfg.TasksDir)
		}
		if task.Change != nil {
			assessments = append(assessments, assess.Change(tree, task.Change))
		}
		if task.Plan != nil {
			assessments = append(assessments, assess.Plan(tree, task.Plan))
		}
	} else {
		assessments = assess.All(tree)
	}

	printAssessments(cmd, assessments, cfg.NoColor)
	return nil
}

func printAssessments(cmd *cobra.Command, assessments []assess.Assessment, noColor bool) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	if noColor {
		plain := fmt.Sprint
		green, yellow, dim = plain, plain, plain
	}

	out := cmd.OutOrStdout()
	for _, a := range assessments {
		score := fmt.Sprintf("suggested %d/%d, declared %d", a.Suggested, assess.MaxScore, a.Declared)
		if a.Suggested >= gate.ScoreThreshold {
			fmt.Fprintf(out, "%s %s  %s (%s)\n", green("✓"), a.Doc, a.Field, score)
		} else {
			fmt.Fprintf(out, "%s %s  %s (%s)\n", yellow("!"), a.Doc, a.Field, score)
		}
		for _, gap := range a.Gaps {
			fmt.Fprintf(out, "    %s\n", dim("- "+gap))
		}
	}
}
