package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	storepkg "github.com/rehash-ai/rehash/pkg/store/sqlite"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the response store",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show response store size",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			st, err := storepkg.New(cfg.Store.DBPath, nil)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			stats, err := st.Stats(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("Signatures: %d\nResponses:  %d\n", stats.Signatures, stats.Records)
			return nil
		},
	}

	countCmd := &cobra.Command{
		Use:   "count <signature>",
		Short: "Count stored responses for a signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			st, err := storepkg.New(cfg.Store.DBPath, nil)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			n, err := st.Count(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(n)
			return nil
		},
	}

	purgeCmd := &cobra.Command{
		Use:   "purge <signature>",
		Short: "Delete all stored responses for a signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			st, err := storepkg.New(cfg.Store.DBPath, nil)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			n, err := st.Purge(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Purged %d responses.\n", n)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.AddCommand(statsCmd, countCmd, purgeCmd)
	return cmd
}
