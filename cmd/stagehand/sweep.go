package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/stagehand/pkg/filesystem"
	"github.com/arthur-debert/stagehand/pkg/fixture"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep <plugins-dir>",
	Short: "Delete leftover plugin fixtures from a plugins directory",
	Long: `sweep scans the immediate children of the given plugins directory and
deletes every directory whose name ends in ` + fixture.MarkerSuffix + `.
Real plugins are never touched; only disposable test scaffolding carries
the marker suffix.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		swept, err := fixture.SweepPlugins(filesystem.NewOS(), args[0])
		if err != nil {
			return err
		}
		for _, name := range swept {
			fmt.Printf("removed %s\n", name)
		}
		fmt.Printf("swept %d plugin fixture(s)\n", len(swept))
		return nil
	},
}
