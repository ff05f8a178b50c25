package cli

import (
	"path/filepath"

	"github.com/specgate/specgate/internal/config"
	"github.com/specgate/specgate/internal/document"
)

// resolve joins a workspace-relative path onto the --root flag. Absolute
// paths pass through untouched.
func resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(flagRoot, filepath.FromSlash(rel))
}

// loadWorkspace loads the configuration and scans the document tree. Scan
// failures are I/O problems; per-document parse issues land in the tree.
func loadWorkspace() (*config.Configuration, *document.Tree, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, NewExitErrorf(ExitInvalidArguments, "loading config: %v", err)
	}
	tree, err := document.Load(flagRoot, cfg.SpecsDir, cfg.TasksDir)
	if err != nil {
		return nil, nil, NewExitErrorf(ExitIOError, "scanning workspace: %v", err)
	}
	return cfg, tree, nil
}
