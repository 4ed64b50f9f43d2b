package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rehash-ai/rehash/pkg/config"
	"github.com/rehash-ai/rehash/pkg/ledger"
)

func newStatsCmd() *cobra.Command {
	var (
		configPath string
		since      string
		byTier     bool
		signature  string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache hit rates and generation spend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			led, err := ledger.New(cfg.Ledger.DBPath, nil)
			if err != nil {
				return err
			}
			defer func() { _ = led.Close() }()

			ctx := context.Background()

			var sinceTime time.Time
			if since != "" {
				sinceTime, err = time.Parse("2006-01-02", since)
				if err != nil {
					return fmt.Errorf("invalid --since date (use YYYY-MM-DD): %w", err)
				}
			}

			// Per-signature history view
			if signature != "" {
				entries, err := led.Entries(ctx, signature, limit)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Println("No entries found for signature.")
					return nil
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TIME\tOUTCOME\tTIER\tINPUT\tOUTPUT\tCOST")
				for _, e := range entries {
					outcome := "miss"
					if e.Hit {
						outcome = "hit"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t$%.4f\n",
						e.CreatedAt.Format("2006-01-02T15:04:05"), outcome, e.Tier, e.InputTokens, e.OutputTokens, e.Cost)
				}
				return w.Flush()
			}

			// Per-tier spend view
			if byTier {
				usage, err := led.ByTier(ctx, sinceTime)
				if err != nil {
					return err
				}
				if len(usage) == 0 {
					fmt.Println("No generation spend recorded.")
					return nil
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TIER\tGENERATIONS\tINPUT\tOUTPUT\tCOST")
				for _, u := range usage {
					fmt.Fprintf(w, "%s\t%d\t%d\t%d\t$%.4f\n",
						u.Tier, u.Requests, u.InputTokens, u.OutputTokens, u.Cost)
				}
				return w.Flush()
			}

			// Default: session summary
			summary, err := led.Summary(ctx, sinceTime)
			if err != nil {
				return err
			}
			if summary.Interactions == 0 {
				fmt.Println("No interactions recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Interactions:\t%d\n", summary.Interactions)
			fmt.Fprintf(w, "Hits:\t%d\n", summary.Hits)
			fmt.Fprintf(w, "Misses:\t%d\n", summary.Misses)
			fmt.Fprintf(w, "Hit rate:\t%.1f%%\n", summary.HitRate*100)
			fmt.Fprintf(w, "Input tokens:\t%d\n", summary.InputTokens)
			fmt.Fprintf(w, "Output tokens:\t%d\n", summary.OutputTokens)
			fmt.Fprintf(w, "Total cost:\t$%.4f\n", summary.TotalCost)
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&since, "since", "", "start date (YYYY-MM-DD, default: all time)")
	cmd.Flags().BoolVar(&byTier, "by-tier", false, "break down generation spend by model tier")
	cmd.Flags().StringVar(&signature, "signature", "", "show history for a specific signature")
	cmd.Flags().IntVar(&limit, "limit", 20, "max entries for --signature view")
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
