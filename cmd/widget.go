package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AlhaqGH/plhub/internal/project"
	"github.com/AlhaqGH/plhub/internal/ui"
	"github.com/AlhaqGH/plhub/internal/widget"
)

var widgetCmd = &cobra.Command{
	Use:          "widget",
	Short:        "Scaffold and manage reusable widgets",
	SilenceUsage: true,
}

var widgetListCmd = &cobra.Command{
	Use:          "list",
	Short:        "List widget templates and project widgets",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runWidgetList,
}

var widgetPreviewCmd = &cobra.Command{
	Use:          "preview <template>",
	Short:        "Preview a widget template before generating it",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runWidgetPreview,
}

var widgetGenerateCmd = &cobra.Command{
	Use:          "generate <template>",
	Short:        "Generate widget files in the current project",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runWidgetGenerate,
}

func widgetManager(cmd *cobra.Command) (*widget.Manager, error) {
	root, _ := cmd.Flags().GetString("project-root")
	if root != "" {
		if _, err := project.LoadManifest(root); err != nil {
			return nil, fmt.Errorf("%s does not contain a valid plhub.json", root)
		}
		return widget.NewManager(root), nil
	}

	return widget.NewManager(project.FindRootFromCwd()), nil
}

func runWidgetList(cmd *cobra.Command, args []string) error {
	mgr, err := widgetManager(cmd)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return printJSON(map[string]any{
			"templates":      mgr.Templates(),
			"projectWidgets": mgr.ProjectWidgets(),
		})
	}

	ui.Header("Widget templates")
	for _, tmpl := range mgr.Templates() {
		meta := tmpl.Category
		if len(tmpl.Tags) > 0 {
			meta += "; " + strings.Join(tmpl.Tags, ", ")
		}
		ui.Bullet("%s: %s (%s) - %s", tmpl.Key, tmpl.Name, meta, tmpl.Description)
	}

	widgets := mgr.ProjectWidgets()
	if len(widgets) > 0 {
		ui.Header("Project widgets")
		for _, w := range widgets {
			ui.Bullet("%s", w)
		}
	}

	return nil
}

func runWidgetPreview(cmd *cobra.Command, args []string) error {
	mgr, err := widgetManager(cmd)
	if err != nil {
		return err
	}

	tmpl, err := mgr.Lookup(args[0])
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return printJSON(tmpl)
	}

	ui.Label("template", fmt.Sprintf("%s (%s)", tmpl.Name, tmpl.Key))
	if tmpl.Description != "" {
		ui.Info("%s", tmpl.Description)
	}
	for _, spec := range tmpl.Files {
		ui.Bullet("file: %s - %s", spec.Path, spec.Description)
	}
	if tmpl.Preview != "" {
		ui.Header("Preview")
		fmt.Fprintln(ui.Out, tmpl.Preview)
	}

	return nil
}

func runWidgetGenerate(cmd *cobra.Command, args []string) error {
	mgr, err := widgetManager(cmd)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	force, _ := cmd.Flags().GetBool("force")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	tmpl, paths, err := mgr.Generate(args[0], name, force, dryRun)
	if err != nil {
		return err
	}

	if dryRun {
		ui.Info("Dry run: %s (%s) would create:", tmpl.Name, tmpl.Key)
	} else {
		ui.Success("Generated widget '%s' (%s)", tmpl.Name, tmpl.Key)
	}
	for _, p := range paths {
		ui.Bullet("%s", p)
	}

	return nil
}

func init() {
	widgetCmd.PersistentFlags().String("project-root", "", "Project directory (defaults to the enclosing project)")

	widgetListCmd.Flags().Bool("json", false, "Emit machine-readable JSON")
	widgetPreviewCmd.Flags().Bool("json", false, "Emit preview metadata as JSON")
	widgetGenerateCmd.Flags().String("name", "", "Widget name used for placeholders and filenames")
	widgetGenerateCmd.Flags().Bool("force", false, "Overwrite files if they already exist")
	widgetGenerateCmd.Flags().Bool("dry-run", false, "Show files that would be created without writing")

	widgetCmd.AddCommand(widgetListCmd)
	widgetCmd.AddCommand(widgetPreviewCmd)
	widgetCmd.AddCommand(widgetGenerateCmd)
}
