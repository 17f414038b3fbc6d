package cmd

import (
	"github.com/spf13/cobra"

	"github.com/AlhaqGH/plhub/internal/runtime"
	"github.com/AlhaqGH/plhub/internal/ui"
)

var updateRuntimeCmd = &cobra.Command{
	Use:          "update-runtime",
	Short:        "Download the PohLang SDK runtime from GitHub releases",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runUpdateRuntime,
}

var syncRuntimeCmd = &cobra.Command{
	Use:          "sync-runtime-local",
	Short:        "Copy a locally built pohlang binary into the runtime directory",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runSyncRuntime,
}

func runUpdateRuntime(cmd *cobra.Command, args []string) error {
	version, _ := cmd.Flags().GetString("version")
	zipURL, _ := cmd.Flags().GetString("zip-url")
	sha256sum, _ := cmd.Flags().GetString("sha256")
	osKey, _ := cmd.Flags().GetString("os")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	opts := runtime.UpdateOptions{
		Version:   version,
		ZipURL:    zipURL,
		SHA256:    sha256sum,
		OSKey:     osKey,
		DryRun:    dryRun,
		PlhubRoot: plhubRoot(),
	}

	if err := runtime.Update(opts); err != nil {
		return err
	}

	if dryRun {
		ui.Info("Dry run complete; nothing installed")
		return nil
	}

	ui.Success("Runtime installed")
	ui.Tip("verify with 'plhub doctor'")

	return nil
}

func runSyncRuntime(cmd *cobra.Command, args []string) error {
	profile, _ := cmd.Flags().GetString("profile")
	repo, _ := cmd.Flags().GetString("pohlang-path")

	if err := runtime.SyncLocal(plhubRoot(), repo, profile); err != nil {
		return err
	}

	ui.Success("Local runtime build synced (%s profile)", profile)

	return nil
}

func init() {
	updateRuntimeCmd.Flags().String("version", "latest", "Runtime version to fetch (e.g. 0.5.0) or 'latest'")
	updateRuntimeCmd.Flags().String("zip-url", "", "Direct URL or path to an SDK zip (overrides version lookup)")
	updateRuntimeCmd.Flags().String("sha256", "", "Expected SHA-256 of the SDK zip; mismatch aborts")
	updateRuntimeCmd.Flags().String("os", "", "Override detected OS (linux, windows, macos)")
	updateRuntimeCmd.Flags().Bool("dry-run", false, "Download and verify only, do not install")

	syncRuntimeCmd.Flags().String("profile", "debug", "Cargo profile to copy (debug, release)")
	syncRuntimeCmd.Flags().String("pohlang-path", "", "Path to the PohLang repo (defaults to a sibling PohLang/)")
}
