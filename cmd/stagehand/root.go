package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/stagehand/internal/version"
	"github.com/arthur-debert/stagehand/pkg/logging"
)

var (
	verbosity int

	rootCmd = &cobra.Command{
		Use:   "stagehand",
		Short: "Build and sweep disposable test fixtures",
		Long: `stagehand provisions the filesystem fixtures a test suite runs
against: an application source tree, a public asset tree, and disposable
plugin packages inside a shared modules directory. It can also sweep
leftover plugin fixtures a crashed run failed to clean up.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(scaffoldCmd)
	rootCmd.AddCommand(sweepCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stagehand version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}
