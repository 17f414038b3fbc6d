package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AlhaqGH/plhub/internal/project"
	"github.com/AlhaqGH/plhub/internal/style"
	"github.com/AlhaqGH/plhub/internal/ui"
)

var styleCmd = &cobra.Command{
	Use:          "style",
	Short:        "Manage project styles and themes",
	SilenceUsage: true,
}

var styleListCmd = &cobra.Command{
	Use:          "list",
	Short:        "List available styles",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runStyleList,
}

var styleShowCmd = &cobra.Command{
	Use:          "show <style>",
	Short:        "Show style metadata and tokens",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runStyleShow,
}

var styleApplyCmd = &cobra.Command{
	Use:          "apply <style>",
	Short:        "Activate a style for the current project",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runStyleApply,
}

var styleCreateCmd = &cobra.Command{
	Use:          "create <name>",
	Short:        "Create a new editable project style",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runStyleCreate,
}

// styleManager builds a manager rooted at --project-root or the enclosing
// project, if any.
func styleManager(cmd *cobra.Command) (*style.Manager, error) {
	root, _ := cmd.Flags().GetString("project-root")
	if root != "" {
		if _, err := project.LoadManifest(root); err != nil {
			return nil, fmt.Errorf("%s does not contain a valid plhub.json", root)
		}
		return style.NewManager(root), nil
	}

	return style.NewManager(project.FindRootFromCwd()), nil
}

func runStyleList(cmd *cobra.Command, args []string) error {
	mgr, err := styleManager(cmd)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		summary := map[string]any{
			"builtin": mgr.Builtin(),
			"project": mgr.Project(),
		}
		if active, err := mgr.Active(); err == nil && active != nil {
			summary["active"] = active
		}

		return printJSON(summary)
	}

	ui.Header("Built-in themes")
	for _, rec := range mgr.Builtin() {
		ui.Bullet("%s: %s - %s", rec.Key, rec.Name, rec.Description)
	}

	projectThemes := mgr.Project()
	if len(projectThemes) > 0 {
		ui.Header("Project themes")
		for _, rec := range projectThemes {
			ui.Bullet("%s: %s", rec.Key, rec.Name)
		}
	}

	active, err := mgr.Active()
	if err != nil {
		ui.Warn("active theme manifest is unreadable: %v", err)
	} else if active != nil {
		ui.Label("active theme", fmt.Sprintf("%s (%s)", active.DisplayName, active.ActiveTheme))
	} else {
		ui.Label("active theme", "none")
	}

	return nil
}

func runStyleShow(cmd *cobra.Command, args []string) error {
	mgr, err := styleManager(cmd)
	if err != nil {
		return err
	}

	rec, err := mgr.Resolve(args[0])
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return printJSON(rec.Theme)
	}

	ui.Label("name", rec.Name)
	ui.Label("key", rec.Key)
	ui.Label("source", rec.Source)
	if rec.Path != "" {
		ui.Label("location", rec.Path)
	}
	if rec.Description != "" {
		ui.Label("description", rec.Description)
	}

	groups := make([]string, 0, len(rec.Tokens))
	for g := range rec.Tokens {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	ui.Label("token groups", strings.Join(groups, ", "))

	return nil
}

func runStyleApply(cmd *cobra.Command, args []string) error {
	mgr, err := styleManager(cmd)
	if err != nil {
		return err
	}

	force, _ := cmd.Flags().GetBool("force")

	manifest, err := mgr.Apply(args[0], force)
	if err != nil {
		return err
	}

	ui.Success("Applied style '%s' (%s)", manifest.DisplayName, manifest.ActiveTheme)
	ui.Label("theme file", style.StylesDir+"/"+manifest.ThemePath)

	return nil
}

func runStyleCreate(cmd *cobra.Command, args []string) error {
	mgr, err := styleManager(cmd)
	if err != nil {
		return err
	}

	base, _ := cmd.Flags().GetString("base")
	description, _ := cmd.Flags().GetString("description")
	force, _ := cmd.Flags().GetBool("force")
	activate, _ := cmd.Flags().GetBool("activate")

	rec, err := mgr.Create(args[0], base, description, force)
	if err != nil {
		return err
	}

	ui.Success("Created style '%s' (key: %s)", rec.Name, rec.Key)
	ui.Label("location", rec.Path)

	if activate {
		manifest, err := mgr.Apply(rec.Key, force)
		if err != nil {
			ui.Warn("style created, but activation failed: %v", err)
			return nil
		}
		ui.Info("Activated '%s' (%s)", rec.Name, manifest.ActiveTheme)
	}

	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(ui.Out, string(data))

	return nil
}

func init() {
	styleCmd.PersistentFlags().String("project-root", "", "Project directory (defaults to the enclosing project)")

	styleListCmd.Flags().Bool("json", false, "Emit machine-readable JSON")
	styleShowCmd.Flags().Bool("json", false, "Emit raw JSON for the selected style")
	styleApplyCmd.Flags().Bool("force", false, "Overwrite existing theme files")
	styleCreateCmd.Flags().String("base", "", "Existing style to clone (default: default_light)")
	styleCreateCmd.Flags().String("description", "", "Description for the new style")
	styleCreateCmd.Flags().Bool("force", false, "Overwrite if the theme already exists")
	styleCreateCmd.Flags().Bool("activate", false, "Activate the new style after creation")

	styleCmd.AddCommand(styleListCmd)
	styleCmd.AddCommand(styleShowCmd)
	styleCmd.AddCommand(styleApplyCmd)
	styleCmd.AddCommand(styleCreateCmd)
}
