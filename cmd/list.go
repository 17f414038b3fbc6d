package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlhaqGH/plhub/internal/platform"
	"github.com/AlhaqGH/plhub/internal/project"
	"github.com/AlhaqGH/plhub/internal/ui"
)

var listCmd = &cobra.Command{
	Use:          "list <templates|platforms|packages>",
	Short:        "List available templates, platforms, or installed packages",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runList,
}

func runList(cmd *cobra.Command, args []string) error {
	switch args[0] {
	case "templates":
		ui.Header("Project templates")
		for _, name := range project.TemplateNames() {
			tmpl, _ := project.LookupTemplate(name)
			ui.Bullet("%s: %s", name, tmpl.Description)
		}

	case "platforms":
		ui.Header("Supported platforms")
		for _, p := range platform.All {
			ui.Bullet("%s", p)
		}

	case "packages":
		root := project.FindRootFromCwd()
		if root == "" {
			return fmt.Errorf("not inside a PohLang project (plhub.json not found)")
		}

		manifest, err := project.LoadManifest(root)
		if err != nil {
			return err
		}

		if len(manifest.Dependencies) == 0 {
			ui.Info("No dependencies installed")
			return nil
		}

		ui.Header("Dependencies")
		for name, version := range manifest.Dependencies {
			ui.Bullet("%s %s", name, version)
		}

	default:
		return fmt.Errorf("unknown list type %q (templates, platforms, packages)", args[0])
	}

	return nil
}
