package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AlhaqGH/plhub/internal/project"
	"github.com/AlhaqGH/plhub/internal/ui"
)

var initCmd = &cobra.Command{
	Use:          "init",
	Short:        "Initialize a PohLang project in the current directory",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = filepath.Base(cwd)
	}

	force, _ := cmd.Flags().GetBool("force")

	if err := project.Init(cwd, name, force); err != nil {
		return err
	}

	ui.Success("Initialized project %s", name)

	return nil
}

func init() {
	initCmd.Flags().String("name", "", "Project name (defaults to the directory name)")
	initCmd.Flags().Bool("force", false, "Overwrite an existing plhub.json")
}
