package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/AlhaqGH/plhub/internal/platform"
	"github.com/AlhaqGH/plhub/internal/project"
	"github.com/AlhaqGH/plhub/internal/ui"
)

var testCmd = &cobra.Command{
	Use:          "test",
	Short:        "Run the project's tests",
	Long:         `Run every .poh file under the project's tests directory through the pohlang runtime. A test passes when it exits zero.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	root := project.FindRootFromCwd()
	if root == "" {
		return fmt.Errorf("not inside a PohLang project (plhub.json not found)")
	}

	exe, err := runtimeExecutor(cfg)
	if err != nil {
		return err
	}

	filter, _ := cmd.Flags().GetString("filter")

	files, err := collectTests(root, filter)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		ui.Info("No tests found under tests/")
		return nil
	}

	var failed int
	start := time.Now()

	for _, file := range files {
		rel, _ := filepath.Rel(root, file)

		ctx, cancel := context.WithTimeout(cmd.Context(), platform.TestTimeout)
		code, err := exe.Run(ctx, file)
		cancel()

		switch {
		case err != nil:
			failed++
			ui.Error("FAIL %s: %v", rel, err)
		case code != 0:
			failed++
			ui.Error("FAIL %s (exit code %d)", rel, code)
		default:
			ui.Success("PASS %s", rel)
		}
	}

	elapsed := time.Since(start).Round(time.Millisecond)
	log.Debug().Int("total", len(files)).Int("failed", failed).Msg("test run complete")

	if failed > 0 {
		return fmt.Errorf("%d of %d tests failed in %s", failed, len(files), elapsed)
	}

	ui.Success("%d tests passed in %s", len(files), elapsed)

	return nil
}

// collectTests returns .poh files under tests/, optionally filtered by a
// substring match on the relative path.
func collectTests(root, filter string) ([]string, error) {
	testsDir := filepath.Join(root, "tests")

	var files []string
	err := filepath.WalkDir(testsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".poh") {
			return nil
		}
		if filter != "" && !strings.Contains(path, filter) {
			return nil
		}

		files = append(files, path)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func init() {
	testCmd.Flags().String("filter", "", "Run only tests whose path contains this substring")
}
