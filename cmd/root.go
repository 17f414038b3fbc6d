package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/AlhaqGH/plhub/internal/config"
	"github.com/AlhaqGH/plhub/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "plhub",
	Short: "PohLang development environment",
	Long: `PLHub is the development companion for the PohLang language: it
scaffolds projects, runs and builds programs through the pohlang runtime,
manages UI themes and widgets, and drives platform build tools.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	debug, _ := cmd.Flags().GetBool("debug")

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.InfoLevel
	}
	if debug {
		level = zerolog.DebugLevel
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}).Level(level).With().Timestamp().Logger()

	return nil
}

// loadConfig layers defaults, global and local config files, and the
// command's flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.NewLoader().LoadForCommand(cmd)
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (%s) %s", version.Version, version.Commit, version.BuildTime)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().Bool("debug", false, "Debug tracing")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(styleCmd)
	rootCmd.AddCommand(widgetCmd)
	rootCmd.AddCommand(platformCmd)
	rootCmd.AddCommand(updateRuntimeCmd)
	rootCmd.AddCommand(syncRuntimeCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(devCmd)
}
