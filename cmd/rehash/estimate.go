package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rehash-ai/rehash/pkg/pricing"
)

func newEstimateCmd() *cobra.Command {
	var (
		configPath    string
		tier          string
		interactions  int
		inputPerCall  int
		outputPerCall int
		hitRate       float64
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Forecast the cost of a planned interaction batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			table := pricing.Default()
			if len(cfg.Pricing) > 0 {
				table = pricing.NewTable(cfg.Pricing)
			}

			est := table.Estimate(tier, interactions, inputPerCall, outputPerCall, hitRate)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Tier:\t%s\n", est.Tier)
			fmt.Fprintf(w, "Interactions:\t%d\n", est.Interactions)
			fmt.Fprintf(w, "Assumed hit rate:\t%.0f%%\n", est.HitRate*100)
			fmt.Fprintf(w, "Input tokens:\t%d\n", est.InputTokens)
			fmt.Fprintf(w, "Output tokens:\t%d\n", est.OutputTokens)
			fmt.Fprintf(w, "Expected cost:\t$%.4f\n", est.Expected)
			fmt.Fprintf(w, "Best case:\t$%.4f\n", est.Min)
			fmt.Fprintf(w, "Worst case (no hits):\t$%.4f\n", est.Max)
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&tier, "tier", "standard", "model tier to price against")
	cmd.Flags().IntVar(&interactions, "interactions", 100, "planned number of interactions")
	cmd.Flags().IntVar(&inputPerCall, "input", 1000, "estimated input tokens per interaction")
	cmd.Flags().IntVar(&outputPerCall, "output", 300, "estimated output tokens per interaction")
	cmd.Flags().Float64Var(&hitRate, "hit-rate", 0.0, "assumed cache hit rate (0..1)")
	return cmd
}
