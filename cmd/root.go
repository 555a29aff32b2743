package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/routesim/routesim/sim"
)

var (
	// CLI flags for the run command
	seed        int64    // Seed for the partitioned trial streams
	logLevel    string   // Log verbosity level
	logFile     string   // Optional rotating log file
	region      string   // Region to simulate
	trials      int      // Number of trials
	workers     int      // Worker goroutines (0 = all CPUs)
	batchSize   int      // Trials per random stream
	timingPath  string   // Timing YAML file
	recordings  string   // Directory of recorded sessions merged over the timing file
	useBest     bool     // Use the fastest recording of each segment instead of the average
	under       []string // Windows [0, t) as timestamps
	between     []string // Windows [a, b) as "a-b" timestamps
	exportPath  string   // CSV export of the distribution
	storePath   string   // SQLite run history
	traceTrials int      // Number of traced sample trials to summarize
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "routesim",
	Short: "Monte Carlo simulator for speedrun route timing",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run trials of a route region and report the time distribution",
	Run: func(cmd *cobra.Command, args []string) {
		closer, err := setupLogging(logLevel, logFile)
		if err != nil {
			logrus.Fatalf("Invalid logging configuration: %v", err)
		}
		if closer != nil {
			defer closer.Close()
		}

		opts := runOptions{
			Region:      region,
			Trials:      trials,
			Seed:        seed,
			Workers:     workers,
			BatchSize:   batchSize,
			TimingPath:  timingPath,
			Recordings:  recordings,
			Best:        useBest,
			Under:       under,
			Between:     between,
			ExportPath:  exportPath,
			StorePath:   storePath,
			TraceTrials: traceTrials,
		}
		logrus.Infof("Starting %d trials of %s with seed %d", trials, region, seed)
		if err := runSimulation(cmd.Context(), opts, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command. An interrupt cancels running trials.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this file, rotated by size")

	runCmd.Flags().StringVar(&region, "region", "full", "Region to simulate (ruins, snowdin, waterfall, endgame, full)")
	runCmd.Flags().IntVar(&trials, "trials", 100000, "Number of trials")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the trial random streams")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Worker goroutines (0 uses every CPU)")
	runCmd.Flags().IntVar(&batchSize, "batch", sim.DefaultBatchSize, "Trials drawn from one random stream")
	runCmd.Flags().StringVar(&timingPath, "timing", "testdata/timing.yaml", "Timing table YAML file")
	runCmd.Flags().StringVar(&recordings, "recordings", "", "Directory of recorded sessions overriding segment times")
	runCmd.Flags().BoolVar(&useBest, "best", false, "Use the fastest recording of each segment instead of the average")
	runCmd.Flags().StringSliceVar(&under, "under", nil, "Report P(time < t) for each timestamp t (mm:ss or hh:mm:ss)")
	runCmd.Flags().StringSliceVar(&between, "between", nil, "Report P(a <= time < b) for each a-b timestamp pair")
	runCmd.Flags().StringVar(&exportPath, "export", "", "Write the distribution as binValue,count CSV to this file")
	runCmd.Flags().StringVar(&storePath, "store", "", "Record the run summary in this SQLite database")
	runCmd.Flags().IntVar(&traceTrials, "trace", 0, "Trace this many sample trials and summarize their encounters")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
