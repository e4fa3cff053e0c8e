package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordsync-backend/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate-remote",
	Short: "Apply the remote ledger schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withComponents(cmd, func(ctx context.Context, c *app.Components) error {
			if err := c.MigrateRemote(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), "remote ledger schema is up to date")
			return nil
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats <user-id>",
	Short: "Print a user's aggregated statistics from the remote ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withComponents(cmd, func(ctx context.Context, c *app.Components) error {
			stats, err := c.Vocabulary.Stats(ctx, args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(out(cmd))
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(out(cmd), "wordsync", app.BuildVersion())
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, statsCmd, versionCmd)
}
