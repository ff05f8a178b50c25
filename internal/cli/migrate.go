package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/specgate/specgate/internal/migrate"
)

var migrateApply bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Upgrade documents to the latest schema version",
	Long: `Upgrade every document to the latest schema version of its kind.
Missing required fields are backfilled with placeholders and missing
sections get empty headings; assessment flags the placeholders until an
author fills them in.

Without --apply this is a dry run reporting what would change.`,
	Example: `  # Show pending migrations
  specgate migrate

  # Apply them
  specgate migrate --apply`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.GroupID = GroupAuthoring
	migrateCmd.Flags().BoolVar(&migrateApply, "apply", false, "Write the migrated documents")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, tree, err := loadWorkspace()
	if err != nil {
		return err
	}

	results, err := migrate.Tree(tree, migrateApply)
	if err != nil {
		return NewExitErrorf(ExitIOError, "migrating: %v", err)
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		printOK(out, "all documents are at the latest schema version", cfg.NoColor)
		return nil
	}

	verb := "would migrate"
	if migrateApply {
		verb = "migrated"
	}
	for _, r := range results {
		fmt.Fprintf(out, "%s %s: v%d -> v%d", verb, r.Doc, r.FromVersion, r.ToVersion)
		if len(r.AddedFields) > 0 {
			fmt.Fprintf(out, ", fields %v", r.AddedFields)
		}
		if len(r.AddedSections) > 0 {
			fmt.Fprintf(out, ", sections %v", r.AddedSections)
		}
		fmt.Fprintln(out)
	}
	if !migrateApply {
		fmt.Fprintln(out, "\nrun with --apply to write these changes")
	}
	return nil
}
