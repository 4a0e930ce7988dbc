package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"socialpulse/pkg/contracts"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pulse",
		Short:         "Weekly social media analytics over CSV and XLSX exports",
		Long:          "Loads weekly page exports, averages reach instead of summing it, and prints summaries, pivots, aggregates and growth as JSON or writes them as CSV/XLSX.",
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addGlobalFlags(rootCmd)

	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newPivotCmd())
	rootCmd.AddCommand(newAggregateCmd())
	rootCmd.AddCommand(newGrowthCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
