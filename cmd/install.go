package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AlhaqGH/plhub/internal/project"
	"github.com/AlhaqGH/plhub/internal/ui"
)

// modulesDir is where installed packages live inside a project.
const modulesDir = "plhub_modules"

var installCmd = &cobra.Command{
	Use:          "install <package>",
	Short:        "Add a package to the current project",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runInstall,
}

func runInstall(cmd *cobra.Command, args []string) error {
	pkg := args[0]

	root := project.FindRootFromCwd()
	if root == "" {
		return fmt.Errorf("not inside a PohLang project (plhub.json not found)")
	}

	manifest, err := project.LoadManifest(root)
	if err != nil {
		return err
	}

	if _, ok := manifest.Dependencies[pkg]; ok {
		ui.Info("%s is already a dependency", pkg)
		return nil
	}

	manifest.Dependencies[pkg] = "latest"
	if err := manifest.Save(root); err != nil {
		return err
	}

	// Registry fetching is not wired up yet; reserve the module directory so
	// the layout is stable.
	if err := os.MkdirAll(filepath.Join(root, modulesDir, pkg), 0o755); err != nil {
		return err
	}

	ui.Success("Added %s to dependencies", pkg)

	return nil
}
