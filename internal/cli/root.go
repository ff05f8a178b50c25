// Package cli provides the Cobra-based command surface of specgate. It wires
// the document loader, validators, gate, and catalog compiler into the
// user-facing commands and maps their outcomes to stable exit codes.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/specgate/specgate/internal/config"
)

// Command group IDs for organizing help output
const (
	GroupAuthoring = "authoring"
	GroupChecks    = "checks"
	GroupArtifacts = "artifacts"
	GroupUtility   = "utility"
)

var (
	flagRoot    string
	flagConfig  string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "specgate",
	Short: "specgate documentation governance",
	Long: `specgate documentation governance

Validates a governed document tree: specs under specs/<domain>/<capability>/
and tasks pairing a change proposal with its plan and run records. Checks
frontmatter schemas, cross-references, status gates, and generated-artifact
freshness.`,
	Example: `  # Validate every document in the tree
  specgate validate

  # Full check: validation, references, gates, artifact freshness
  specgate check

  # Start a new task (allocates the next sequence number)
  specgate new feature dark-mode

  # Regenerate the indexes and the machine-readable catalog
  specgate compile`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Define command groups in display order
	rootCmd.AddGroup(&cobra.Group{ID: GroupAuthoring, Title: "Authoring:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupChecks, Title: "Checks:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupArtifacts, Title: "Generated Artifacts:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupUtility, Title: "Utility:"})

	rootCmd.SetHelpCommandGroupID(GroupUtility)
	rootCmd.SetCompletionCommandGroupID(GroupUtility)

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagRoot, "root", "C", ".", "Workspace root directory")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", ".specgate/config.json", "Path to local config file")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
}

// loadConfig loads the configuration honoring the global flags. The local
// config path is resolved relative to the workspace root.
func loadConfig() (*config.Configuration, error) {
	cfg, err := config.Load(resolve(flagConfig))
	if err != nil {
		return nil, err
	}
	if flagNoColor {
		cfg.NoColor = true
	}
	return cfg, nil
}
