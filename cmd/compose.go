package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/routesim/routesim/sim/timing"
)

var composeFromPaths []string

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Merge multiple timing YAML files into one",
	Long:  "Load multiple timing YAML files and merge them in order, later files overriding earlier ones. Output is written to stdout.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(composeFromPaths) == 0 {
			logrus.Fatalf("at least one --from flag is required")
		}

		var files []*timing.File
		for _, path := range composeFromPaths {
			f, err := timing.LoadFile(path)
			if err != nil {
				logrus.Fatalf("Failed to load timing file %s: %v", path, err)
			}
			files = append(files, f)
		}

		merged, err := timing.Compose(files)
		if err != nil {
			logrus.Fatalf("Compose failed: %v", err)
		}
		if _, err := merged.Table(); err != nil {
			logrus.Fatalf("Composed timing file is invalid: %v", err)
		}
		if err := writeTimingTo(cmd.OutOrStdout(), merged); err != nil {
			logrus.Fatalf("Failed to write timing file: %v", err)
		}
	},
}

func init() {
	composeCmd.Flags().StringArrayVar(&composeFromPaths, "from", nil, "Path to timing YAML file (can be repeated)")
	_ = composeCmd.MarkFlagRequired("from")

	rootCmd.AddCommand(composeCmd)
}
