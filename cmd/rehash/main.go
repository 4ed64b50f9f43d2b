package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "rehash",
		Short:   "Rehash — response reuse and cost control for simulated agents",
		Version: version,
	}

	root.AddCommand(
		newStatsCmd(),
		newCacheCmd(),
		newEstimateCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
