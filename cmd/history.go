package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/routesim/routesim/internal/store"
)

var (
	historyStore  string
	historyRegion string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded simulation runs",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := store.Open(historyStore)
		if err != nil {
			logrus.Fatalf("Failed to open run history: %v", err)
		}
		defer st.Close()

		runs, err := st.RecentRuns(historyRegion, historyLimit)
		if err != nil {
			logrus.Fatalf("Failed to read run history: %v", err)
		}
		if err := renderHistory(cmd.OutOrStdout(), runs); err != nil {
			logrus.Fatalf("Failed to print run history: %v", err)
		}
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyStore, "store", "", "SQLite database written by run --store")
	historyCmd.Flags().StringVar(&historyRegion, "region", "", "Only list runs of this region")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum number of runs to list")
	_ = historyCmd.MarkFlagRequired("store")

	rootCmd.AddCommand(historyCmd)
}
