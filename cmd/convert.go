package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/routesim/routesim/sim/timing"
)

var (
	convertRecordings string
	convertBase       string
	convertBest       bool
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert recorded sessions to a timing YAML file",
	Long:  "Aggregate a directory of recorded sessions (name=microseconds; entries) and write them as timing YAML, optionally merged over a base file. Output is written to stdout for piping.",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := setupLogging(logLevel, ""); err != nil {
			logrus.Fatalf("Invalid logging configuration: %v", err)
		}
		if err := convertRecordingsTo(cmd.OutOrStdout(), convertRecordings, convertBase, convertBest); err != nil {
			logrus.Fatalf("Conversion failed: %v", err)
		}
	},
}

// convertRecordingsTo aggregates dir and writes the merged timing file to w.
func convertRecordingsTo(w io.Writer, dir, base string, best bool) error {
	mode := timing.Average
	if best {
		mode = timing.Best
	}
	rec, err := timing.Aggregate(dir, mode)
	if err != nil {
		return err
	}

	if base == "" {
		return writeTimingTo(w, &timing.File{Segments: rec})
	}
	f, err := timing.LoadFile(base)
	if err != nil {
		return err
	}
	f.Merge(rec)
	// the merged file must still evaluate
	if _, err := f.Table(); err != nil {
		return fmt.Errorf("merged timing file is invalid: %w", err)
	}
	logrus.Debugf("merged %d recorded segments into %s", len(rec), base)
	return writeTimingTo(w, f)
}

// writeTimingTo encodes a timing file, defaulting to stdout.
func writeTimingTo(w io.Writer, f *timing.File) error {
	if w == nil {
		w = os.Stdout
	}
	return f.Encode(w)
}

func init() {
	convertCmd.Flags().StringVar(&convertRecordings, "recordings", "", "Directory of recorded sessions")
	convertCmd.Flags().StringVar(&convertBase, "base", "", "Timing YAML to merge the recordings over")
	convertCmd.Flags().BoolVar(&convertBest, "best", false, "Keep the fastest recording of each segment instead of the average")
	_ = convertCmd.MarkFlagRequired("recordings")

	rootCmd.AddCommand(convertCmd)
}
