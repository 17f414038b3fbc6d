package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AlhaqGH/plhub/internal/platform"
	"github.com/AlhaqGH/plhub/internal/project"
	"github.com/AlhaqGH/plhub/internal/runtime"
	"github.com/AlhaqGH/plhub/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:          "doctor",
	Short:        "Check environment health and configuration",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	issues := 0

	ui.Header("Runtime")

	binary := cfg.RuntimePath
	if binary == "" {
		binary = runtime.Locate(plhubRoot())
	}

	if binary == "" {
		issues++
		ui.Error("pohlang runtime not found")
		ui.Tip("run 'plhub update-runtime' to download it")
	} else {
		ui.Success("pohlang runtime: %s", binary)

		if version, err := runtime.NewExecutor(binary).Version(cmd.Context()); err == nil {
			ui.Label("version", version)
		}

		if meta, ok := runtime.LoadMetadata(plhubRoot()); ok {
			ui.Label("installed", meta.InstalledAt.Format(time.RFC3339))
			ui.Label("source", meta.Source)
		}
	}

	ui.Header("Project")

	root := project.FindRootFromCwd()
	if root == "" {
		ui.Info("not inside a project")
	} else if manifest, err := project.LoadManifest(root); err != nil {
		issues++
		ui.Error("plhub.json is invalid: %v", err)
	} else {
		ui.Success("project: %s %s", manifest.Name, manifest.Version)
		ui.Label("main", manifest.Main)
	}

	ui.Header("Platform toolchains")

	validator := platform.NewValidator(platform.ExecRunner{})
	for _, p := range platform.All {
		satisfied, deps := validator.Check(cmd.Context(), p)
		if satisfied {
			ui.Success("%s: ready", p)
			continue
		}

		ui.Warn("%s: missing tools", p)
		if cfg.Verbose {
			for _, dep := range deps {
				if dep.Installed || !dep.Required {
					continue
				}
				ui.Bullet("%s not found (%s)", dep.Name, dep.InstallHint)
			}
		}
	}

	if issues > 0 {
		return fmt.Errorf("%d issue(s) found", issues)
	}

	return nil
}
