package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/AlhaqGH/plhub/internal/project"
	"github.com/AlhaqGH/plhub/internal/state"
	"github.com/AlhaqGH/plhub/internal/ui"
	"github.com/AlhaqGH/plhub/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:          "watch",
	Short:        "Rebuild automatically when source files change",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runWatch,
}

var devCmd = &cobra.Command{
	Use:          "dev",
	Short:        "Development server: re-run the program on every change",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runDev,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	root := project.FindRootFromCwd()
	if root == "" {
		return fmt.Errorf("not inside a PohLang project (plhub.json not found)")
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	store := state.New()
	store.Subscribe("build.status", func(path string, value any) {
		log.Debug().Interface("status", value).Msg("build status changed")
	})

	rebuild := func(paths []string) {
		store.Set("build.status", "building")
		ui.Info("%d file(s) changed, rebuilding", len(paths))

		if err := buildBytecode(cmd, root, cfg); err != nil {
			store.Set("build.status", "failed")
			ui.Error("rebuild failed: %v", err)
			return
		}

		store.Set("build.status", "ok")
	}

	ui.Header("Watching for changes (ctrl-c to stop)")
	rebuild(nil)

	return watcher.New(root, rebuild).Run(ctx)
}

func runDev(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	root := project.FindRootFromCwd()
	if root == "" {
		return fmt.Errorf("not inside a PohLang project (plhub.json not found)")
	}

	entry, _ := cmd.Flags().GetString("file")
	if entry == "" {
		manifest, err := project.LoadManifest(root)
		if err != nil {
			return err
		}
		entry = manifest.Main
	}

	file := filepath.Join(root, filepath.FromSlash(entry))
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("entry file not found: %s", entry)
	}

	exe, err := runtimeExecutor(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	store := state.New()

	run := func(paths []string) {
		if len(paths) > 0 {
			ui.Info("%d file(s) changed, restarting", len(paths))
		}
		store.Set("dev.status", "running")

		code, err := exe.Run(ctx, file)
		switch {
		case ctx.Err() != nil:
			// Shutting down.
		case err != nil:
			store.Set("dev.status", "failed")
			ui.Error("run failed: %v", err)
		case code != 0:
			store.Set("dev.status", "failed")
			ui.Error("program exited with code %d", code)
		default:
			store.Set("dev.status", "exited")
		}
	}

	ui.Header("Dev server started (ctrl-c to stop)")
	run(nil)

	return watcher.New(root, run).Run(ctx)
}

// signalContext cancels on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func init() {
	devCmd.Flags().String("file", "", "Entry file to run (defaults to the manifest's main)")
}
