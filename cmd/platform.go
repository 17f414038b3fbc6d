package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AlhaqGH/plhub/internal/platform"
	"github.com/AlhaqGH/plhub/internal/ui"
)

var platformCmd = &cobra.Command{
	Use:          "platform",
	Short:        "Cross-platform development (Android, iOS, macOS, Windows, Web)",
	SilenceUsage: true,
}

var platformBuildCmd = &cobra.Command{
	Use:          "build <platform>",
	Short:        "Build a platform project",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runPlatformBuild,
}

var platformRunCmd = &cobra.Command{
	Use:          "run <platform>",
	Short:        "Run a platform project",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runPlatformRun,
}

var platformTestCmd = &cobra.Command{
	Use:          "test <platform>",
	Short:        "Run platform tests",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runPlatformTest,
}

var platformDeployCmd = &cobra.Command{
	Use:          "deploy <platform> <target>",
	Short:        "Deploy a platform project",
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         runPlatformDeploy,
}

var platformDevicesCmd = &cobra.Command{
	Use:          "devices [platform]",
	Short:        "List available devices",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runPlatformDevices,
}

var platformCreateCmd = &cobra.Command{
	Use:          "create <platform> <name>",
	Short:        "Create a new platform-specific project",
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         runPlatformCreate,
}

var platformCleanCacheCmd = &cobra.Command{
	Use:          "clean-cache [platform]",
	Short:        "Clear cached build entries",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runPlatformCleanCache,
}

func projectDirFlag(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("project-dir")
	if dir != "" {
		return dir, nil
	}

	return os.Getwd()
}

func newPlatformManager() (*platform.Manager, error) {
	return platform.NewManager("", platform.WithConfirm(confirmPrompt))
}

func runPlatformBuild(cmd *cobra.Command, args []string) error {
	p, err := platform.Parse(args[0])
	if err != nil {
		return err
	}

	dir, err := projectDirFlag(cmd)
	if err != nil {
		return err
	}

	mgr, err := newPlatformManager()
	if err != nil {
		return err
	}
	defer mgr.Close()

	configuration, _ := cmd.Flags().GetString("config")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	force, _ := cmd.Flags().GetBool("force")

	cfg := platform.DefaultBuildConfig(p, dir, configuration)
	cfg.EnableCache = !noCache
	cfg.Incremental = !noCache
	cfg.Force = force
	if configuration == "release" {
		cfg.Optimization = "aggressive"
	}

	result := mgr.Build(cmd.Context(), cfg)
	printBuildResult(result)

	if !result.Success {
		return fmt.Errorf("build failed")
	}

	return nil
}

func runPlatformRun(cmd *cobra.Command, args []string) error {
	p, err := platform.Parse(args[0])
	if err != nil {
		return err
	}

	dir, err := projectDirFlag(cmd)
	if err != nil {
		return err
	}

	mgr, err := newPlatformManager()
	if err != nil {
		return err
	}
	defer mgr.Close()

	device, _ := cmd.Flags().GetString("device")

	return mgr.Run(cmd.Context(), p, dir, device)
}

func runPlatformTest(cmd *cobra.Command, args []string) error {
	p, err := platform.Parse(args[0])
	if err != nil {
		return err
	}

	dir, err := projectDirFlag(cmd)
	if err != nil {
		return err
	}

	mgr, err := newPlatformManager()
	if err != nil {
		return err
	}
	defer mgr.Close()

	if err := mgr.Test(cmd.Context(), p, dir); err != nil {
		return err
	}

	ui.Success("Tests passed")

	return nil
}

func runPlatformDeploy(cmd *cobra.Command, args []string) error {
	p, err := platform.Parse(args[0])
	if err != nil {
		return err
	}

	dir, err := projectDirFlag(cmd)
	if err != nil {
		return err
	}

	mgr, err := newPlatformManager()
	if err != nil {
		return err
	}
	defer mgr.Close()

	if err := mgr.Deploy(cmd.Context(), p, dir, args[1]); err != nil {
		return err
	}

	ui.Success("Deployed to %s", args[1])

	return nil
}

func runPlatformDevices(cmd *cobra.Command, args []string) error {
	platforms := platform.All
	if len(args) == 1 {
		p, err := platform.Parse(args[0])
		if err != nil {
			return err
		}
		platforms = []platform.Platform{p}
	}

	mgr, err := newPlatformManager()
	if err != nil {
		return err
	}
	defer mgr.Close()

	for _, p := range platforms {
		devices, err := mgr.Devices(cmd.Context(), p)
		if err != nil {
			ui.Warn("%s: %v", p, err)
			continue
		}

		ui.Header(string(p))
		if len(devices) == 0 {
			ui.Info("no devices found")
			continue
		}
		for _, d := range devices {
			ui.Bullet("%s (%s, %s)", d.Name, d.ID, d.Type)
		}
	}

	return nil
}

func runPlatformCreate(cmd *cobra.Command, args []string) error {
	p, err := platform.Parse(args[0])
	if err != nil {
		return err
	}
	name := args[1]

	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir, err = os.Getwd()
		if err != nil {
			return err
		}
	}

	pkg, _ := cmd.Flags().GetString("package")

	dir, err := platform.Scaffold(p, name, outputDir, pkg)
	if err != nil {
		return err
	}

	if pkg == "" {
		pkg = platform.DefaultPackageName(name)
	}

	ui.Success("Created %s project %s", p, name)
	ui.Label("location", dir)
	ui.Label("package", pkg)

	ui.Header("Next steps")
	for _, step := range platform.NextSteps(p) {
		ui.Bullet("%s", step)
	}

	return nil
}

func runPlatformCleanCache(cmd *cobra.Command, args []string) error {
	mgr, err := newPlatformManager()
	if err != nil {
		return err
	}
	defer mgr.Close()

	var p platform.Platform
	if len(args) == 1 {
		parsed, err := platform.Parse(args[0])
		if err != nil {
			return err
		}
		p = parsed
	}

	configuration, _ := cmd.Flags().GetString("config")
	optimization, _ := cmd.Flags().GetString("optimization")

	if err := mgr.ClearCache(p, configuration, optimization); err != nil {
		return err
	}

	ui.Success("Build cache cleared")

	return nil
}

func init() {
	platformCmd.PersistentFlags().String("project-dir", "", "Project directory (defaults to the working directory)")

	platformBuildCmd.Flags().String("config", "debug", "Build configuration (debug, release)")
	platformBuildCmd.Flags().Bool("no-cache", false, "Disable the build cache")
	platformBuildCmd.Flags().Bool("force", false, "Build even if required dependencies are missing")
	platformRunCmd.Flags().String("device", "", "Target device ID or name")
	platformCreateCmd.Flags().String("package", "", "Package identifier (defaults to com.pohlang.<name>)")
	platformCreateCmd.Flags().String("output", "", "Directory to create the project in (defaults to the working directory)")
	platformCleanCacheCmd.Flags().String("config", "", "Limit to one configuration")
	platformCleanCacheCmd.Flags().String("optimization", "", "Limit to one optimization level")

	platformCmd.AddCommand(platformBuildCmd)
	platformCmd.AddCommand(platformRunCmd)
	platformCmd.AddCommand(platformTestCmd)
	platformCmd.AddCommand(platformDeployCmd)
	platformCmd.AddCommand(platformDevicesCmd)
	platformCmd.AddCommand(platformCreateCmd)
	platformCmd.AddCommand(platformCleanCacheCmd)
}
