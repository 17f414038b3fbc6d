package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/AlhaqGH/plhub/internal/config"
	"github.com/AlhaqGH/plhub/internal/runtime"
	"github.com/AlhaqGH/plhub/internal/ui"
)

var runCmd = &cobra.Command{
	Use:          "run <file.poh>",
	Short:        "Run a PohLang program",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	file := args[0]
	if !strings.HasSuffix(file, ".poh") {
		return fmt.Errorf("file must have .poh extension")
	}

	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("file not found: %s", file)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	exe, err := runtimeExecutor(cfg)
	if err != nil {
		return err
	}

	log.Debug().Str("binary", exe.Binary).Str("file", file).Msg("invoking runtime")

	code, err := exe.Run(cmd.Context(), file)
	if err != nil {
		return fmt.Errorf("runtime failed to start: %w", err)
	}
	if code != 0 {
		// Propagate the child's exit status without an extra error trace.
		os.Exit(code)
	}

	return nil
}

// plhubRoot is the installation root used to locate the bundled runtime:
// the directory holding the plhub executable.
func plhubRoot() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}

	return filepath.Dir(exe)
}

// runtimeExecutor resolves the pohlang binary from config or the usual
// locations and wraps it in an Executor.
func runtimeExecutor(cfg *config.Config) (*runtime.Executor, error) {
	binary := cfg.RuntimePath
	if binary == "" {
		binary = runtime.Locate(plhubRoot())
	}

	if binary == "" {
		ui.Error("pohlang runtime not found")
		ui.Tip("run 'plhub update-runtime' to download it, or set runtime_path in your config")
		return nil, fmt.Errorf("pohlang runtime not found")
	}

	return runtime.NewExecutor(binary), nil
}
