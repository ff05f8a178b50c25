// Package health implements the doctor checks: does the workspace layout
// exist, is the state directory usable, and do the persisted state files
// still parse. Checks never mutate the workspace.
package health

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specgate/specgate/internal/registry"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Options names the workspace paths the checks inspect, all relative to
// Root except Root itself.
type Options struct {
	Root         string
	SpecsDir     string
	TasksDir     string
	StateDir     string
	RegistryPath string
	CatalogPath  string
}

// RunHealthChecks runs all workspace checks and returns a report
func RunHealthChecks(opts Options) *HealthReport {
	report := &HealthReport{
		Checks: make([]CheckResult, 0),
		Passed: true,
	}

	checks := []CheckResult{
		CheckDir(opts.Root, opts.SpecsDir, "Specs directory"),
		CheckDir(opts.Root, opts.TasksDir, "Tasks directory"),
		CheckStateDir(opts.Root, opts.StateDir),
		CheckRegistry(opts.Root, opts.RegistryPath),
		CheckCatalog(opts.Root, opts.CatalogPath),
		CheckNoStaleLock(opts.Root, opts.RegistryPath),
	}
	for _, check := range checks {
		report.Checks = append(report.Checks, check)
		if !check.Passed {
			report.Passed = false
		}
	}
	return report
}

// CheckDir checks that a workspace directory exists
func CheckDir(root, dir, name string) CheckResult {
	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(dir)))
	if err != nil || !info.IsDir() {
		return CheckResult{
			Name:    name,
			Passed:  false,
			Message: fmt.Sprintf("%s %s not found, run `specgate init`", name, dir),
		}
	}
	return CheckResult{
		Name:    name,
		Passed:  true,
		Message: fmt.Sprintf("%s present", dir),
	}
}

// CheckStateDir checks that the state directory exists and is writable
func CheckStateDir(root, dir string) CheckResult {
	full := filepath.Join(root, filepath.FromSlash(dir))
	info, err := os.Stat(full)
	if err != nil || !info.IsDir() {
		return CheckResult{
			Name:    "State directory",
			Passed:  false,
			Message: fmt.Sprintf("state directory %s not found, run `specgate init`", dir),
		}
	}

	probe, err := os.CreateTemp(full, ".doctor-*")
	if err != nil {
		return CheckResult{
			Name:    "State directory",
			Passed:  false,
			Message: fmt.Sprintf("state directory %s is not writable: %v", dir, err),
		}
	}
	probe.Close()
	os.Remove(probe.Name())

	return CheckResult{
		Name:    "State directory",
		Passed:  true,
		Message: fmt.Sprintf("%s writable", dir),
	}
}

// CheckRegistry checks that the sequence registry parses
func CheckRegistry(root, path string) CheckResult {
	state, err := registry.New(root, path).Load()
	if err != nil {
		return CheckResult{
			Name:    "Registry",
			Passed:  false,
			Message: fmt.Sprintf("registry is corrupt: %v", err),
		}
	}
	return CheckResult{
		Name:    "Registry",
		Passed:  true,
		Message: fmt.Sprintf("next sequence %s", registry.FormatSeq(state.NextSeq)),
	}
}

// CheckCatalog checks that the compiled catalog, if present, parses
func CheckCatalog(root, path string) CheckResult {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(path)))
	if err != nil {
		if os.IsNotExist(err) {
			return CheckResult{
				Name:    "Catalog",
				Passed:  true,
				Message: "no compiled catalog yet, run `specgate compile`",
			}
		}
		return CheckResult{
			Name:    "Catalog",
			Passed:  false,
			Message: fmt.Sprintf("cannot read catalog: %v", err),
		}
	}

	var snapshot map[string]any
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return CheckResult{
			Name:    "Catalog",
			Passed:  false,
			Message: fmt.Sprintf("catalog is corrupt: %v", err),
		}
	}
	return CheckResult{
		Name:    "Catalog",
		Passed:  true,
		Message: "catalog parses",
	}
}

// CheckNoStaleLock checks that no registry lockfile was left behind
func CheckNoStaleLock(root, registryPath string) CheckResult {
	lock := registryPath + ".lock"
	if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(lock))); err == nil {
		return CheckResult{
			Name:    "Registry lock",
			Passed:  false,
			Message: fmt.Sprintf("stale lockfile %s, remove it if no other process is running", lock),
		}
	}
	return CheckResult{
		Name:    "Registry lock",
		Passed:  true,
		Message: "no stale lock",
	}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var output string

	for _, check := range report.Checks {
		if check.Passed {
			output += fmt.Sprintf("✓ %s: %s\n", check.Name, check.Message)
		} else {
			output += fmt.Sprintf("✗ %s: %s\n", check.Name, check.Message)
		}
	}

	return output
}
