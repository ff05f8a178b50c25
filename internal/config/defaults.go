package config

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"specs_dir":     "specs",
		"tasks_dir":     "tasks",
		"history_dir":   "history",
		"state_dir":     ".specgate",
		"registry_path": ".specgate/registry.json",
		"catalog_path":  ".specgate/catalog.json",
		"strict_gates":  true,
		"no_color":      false,
		"show_progress": true,
	}
}
