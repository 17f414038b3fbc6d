package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AlhaqGH/plhub/internal/cache"
	"github.com/AlhaqGH/plhub/internal/project"
	"github.com/AlhaqGH/plhub/internal/ui"
)

var cleanCmd = &cobra.Command{
	Use:          "clean",
	Short:        "Remove build artifacts and caches",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	root := project.FindRootFromCwd()
	if root == "" {
		return fmt.Errorf("not inside a PohLang project (plhub.json not found)")
	}

	targets := []string{
		filepath.Join(root, "build"),
		filepath.Join(root, cache.DefaultCacheDir),
	}

	all, _ := cmd.Flags().GetBool("all")
	if all {
		targets = append(targets, filepath.Join(root, modulesDir))
	}

	var removed int
	for _, target := range targets {
		if _, err := os.Stat(target); err != nil {
			continue
		}
		if err := os.RemoveAll(target); err != nil {
			return err
		}

		rel, _ := filepath.Rel(root, target)
		ui.Bullet("removed %s", rel)
		removed++
	}

	// Stray compiled bytecode in the project root.
	matches, _ := filepath.Glob(filepath.Join(root, "*.pbc"))
	for _, m := range matches {
		if err := os.Remove(m); err == nil {
			ui.Bullet("removed %s", filepath.Base(m))
			removed++
		}
	}

	if removed == 0 {
		ui.Info("Nothing to clean")
	} else {
		ui.Success("Clean complete")
	}

	return nil
}

func init() {
	cleanCmd.Flags().Bool("all", false, "Also remove installed packages")
}
