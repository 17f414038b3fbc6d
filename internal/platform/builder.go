package platform

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
)

// Builder is the per-platform strategy. Implementations differ only in the
// native command lines they construct, which files count as sources for
// change detection, and where artifacts land after a successful run.
type Builder interface {
	Platform() Platform

	// SourceFiles lists the files whose content participates in the
	// build cache's change detection.
	SourceFiles(projectDir string) ([]string, error)

	// Execute performs the full delegate build. The cache decision has
	// already been made by the Manager; a call here always runs the
	// native tool.
	Execute(ctx context.Context, cfg BuildConfig, run Runner) *BuildResult

	Run(ctx context.Context, projectDir, device string, run Runner) error
	Test(ctx context.Context, projectDir string, run Runner) error
	Deploy(ctx context.Context, projectDir, target string, run Runner) error
	Devices(ctx context.Context, run Runner) ([]Device, error)
}

// collectSources walks root gathering files whose extension appears in exts.
// Hidden directories and common build output directories are skipped.
func collectSources(root string, exts ...string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries count as absent
		}

		name := d.Name()
		if d.IsDir() {
			if strings.HasPrefix(name, ".") || name == "node_modules" || name == "build" || name == "dist" {
				return filepath.SkipDir
			}
			return nil
		}

		for _, ext := range exts {
			if strings.HasSuffix(name, ext) {
				files = append(files, path)
				break
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// validateStructure checks the project contains each required glob pattern.
func validateStructure(projectDir string, patterns []string) (missing []string) {
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(projectDir, pattern))
		if err != nil || len(matches) == 0 {
			missing = append(missing, pattern)
		}
	}

	return missing
}

// parseWarnings extracts warning lines from tool output.
func parseWarnings(output string) []string {
	var warnings []string
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(strings.ToLower(line), "warning") {
			warnings = append(warnings, strings.TrimSpace(line))
		}
	}

	return warnings
}

// failure builds an error result with the given messages.
func failure(msgs ...string) *BuildResult {
	return &BuildResult{Errors: msgs}
}

// appendOutput attaches captured tool output to a failed result.
func appendOutput(result *BuildResult, res CmdResult) {
	if res.Err != nil {
		result.Errors = append(result.Errors, res.Err.Error())
	}
	if res.Stderr != "" {
		result.Errors = append(result.Errors, strings.TrimSpace(res.Stderr))
	}
}

// glob returns files under dir matching pattern at any depth.
func glob(dir, pattern string) []string {
	var matches []string

	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			matches = append(matches, path)
		}
		return nil
	})

	return matches
}
