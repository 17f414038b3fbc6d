package cmd

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/AlhaqGH/plhub/internal/project"
	"github.com/AlhaqGH/plhub/internal/style"
	"github.com/AlhaqGH/plhub/internal/ui"
	"github.com/AlhaqGH/plhub/internal/widget"
)

var createCmd = &cobra.Command{
	Use:          "create <name>",
	Short:        "Create a new PohLang project",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	templateName, _ := cmd.Flags().GetString("template")
	if templateName == "" {
		templateName = cfg.Template
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	dir, err := project.Scaffold(cwd, name, templateName)
	if err != nil {
		return err
	}

	ui.Success("Created project %s (template: %s)", name, templateName)

	noUI, _ := cmd.Flags().GetBool("no-ui")
	if noUI {
		ui.Info("UI scaffolding skipped (--no-ui). Enable it later with 'plhub style apply'.")
	} else {
		scaffoldUI(cmd, dir)
	}

	ui.Header("Next steps")
	ui.Bullet("cd %s", name)
	ui.Bullet("plhub run src/main.poh")

	return nil
}

// scaffoldUI applies the default theme and a starter widget to a fresh
// project. Failures warn rather than abort: the project itself is complete.
func scaffoldUI(cmd *cobra.Command, dir string) {
	theme, _ := cmd.Flags().GetString("ui-theme")

	manifest, err := style.NewManager(dir).Apply(theme, false)
	if err != nil {
		ui.Warn("UI theme setup failed: %v", err)
	} else {
		ui.Info("UI styling initialized with theme '%s'", manifest.DisplayName)
	}

	tmpl, paths, err := widget.NewManager(dir).Generate("card", "WelcomeCard", false, false)
	if err != nil {
		ui.Warn("widget scaffolding failed: %v", err)
		return
	}

	log.Debug().Str("template", tmpl.Key).Msg("widget scaffolded")
	for _, p := range paths {
		ui.Bullet("%s", p)
	}
}

func init() {
	createCmd.Flags().String("template", "", "Project template (basic, console, web, library)")
	createCmd.Flags().Bool("no-ui", false, "Skip UI scaffolding (styles and widgets)")
	createCmd.Flags().String("ui-theme", "default_light", "Theme applied when scaffolding UI")
}
