package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/AlhaqGH/plhub/internal/config"
	"github.com/AlhaqGH/plhub/internal/platform"
	"github.com/AlhaqGH/plhub/internal/project"
	"github.com/AlhaqGH/plhub/internal/ui"
)

var buildCmd = &cobra.Command{
	Use:   "build [target]",
	Short: "Build the current project",
	Long: `Build the current project. The default target is bytecode, which
compiles the project's main file with the pohlang runtime. Platform targets
(android, ios, macos, windows, web, or aliases like apk and exe) route the
build through the matching platform toolchain.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runBuildCmd,
}

func runBuildCmd(cmd *cobra.Command, args []string) error {
	target := "bytecode"
	if len(args) == 1 {
		target = strings.ToLower(args[0])
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	root := project.FindRootFromCwd()
	if root == "" {
		return fmt.Errorf("not inside a PohLang project (plhub.json not found)")
	}

	if target == "bytecode" {
		return buildBytecode(cmd, root, cfg)
	}

	p, err := platform.Parse(target)
	if err != nil {
		return err
	}

	return buildPlatform(cmd, root, p)
}

func buildBytecode(cmd *cobra.Command, root string, cfg *config.Config) error {
	manifest, err := project.LoadManifest(root)
	if err != nil {
		return err
	}

	exe, err := runtimeExecutor(cfg)
	if err != nil {
		return err
	}

	main := filepath.Join(root, filepath.FromSlash(manifest.Main))
	if _, err := os.Stat(main); err != nil {
		return fmt.Errorf("main file not found: %s", manifest.Main)
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = filepath.Join(root, "build", manifest.Name+".pbc")
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}

	log.Debug().Str("main", main).Str("out", out).Msg("compiling to bytecode")

	code, err := exe.Compile(cmd.Context(), main, out)
	if err != nil {
		return fmt.Errorf("runtime failed to start: %w", err)
	}
	if code != 0 {
		return fmt.Errorf("compilation failed (exit code %d)", code)
	}

	ui.Success("Built %s", out)

	return nil
}

func buildPlatform(cmd *cobra.Command, root string, p platform.Platform) error {
	release, _ := cmd.Flags().GetBool("release")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	force, _ := cmd.Flags().GetBool("force")

	mgr, err := platform.NewManager("", platform.WithConfirm(confirmPrompt))
	if err != nil {
		return err
	}
	defer mgr.Close()

	buildCfg := platform.DefaultBuildConfig(p, root, "debug")
	if release {
		buildCfg.Configuration = "release"
		buildCfg.Optimization = "aggressive"
	}
	buildCfg.EnableCache = !noCache
	buildCfg.Incremental = !noCache
	buildCfg.Force = force

	result := mgr.Build(cmd.Context(), buildCfg)
	printBuildResult(result)

	if !result.Success {
		return fmt.Errorf("build failed")
	}

	return nil
}

func printBuildResult(result *platform.BuildResult) {
	for _, w := range result.Warnings {
		ui.Warn("%s", w)
	}
	for _, e := range result.Errors {
		ui.Error("%s", e)
	}

	if result.Success {
		ui.Success("%s", result.Summary())
		for _, artifact := range result.Artifacts {
			ui.Bullet("%s", artifact)
		}
	}
}

// confirmPrompt asks a yes/no question on the terminal.
func confirmPrompt(prompt string) bool {
	fmt.Fprintf(ui.Out, "%s [y/N] ", prompt)

	var answer string
	if _, err := fmt.Fscanln(os.Stdin, &answer); err != nil {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "y" || answer == "yes"
}

func init() {
	buildCmd.Flags().Bool("release", false, "Build in release mode (optimized)")
	buildCmd.Flags().StringP("out", "o", "", "Output path for artifacts")
	buildCmd.Flags().Bool("no-cache", false, "Disable the build cache")
	buildCmd.Flags().Bool("force", false, "Build even if required dependencies are missing")
}
