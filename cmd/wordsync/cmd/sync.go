package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordsync-backend/internal/app"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Drain the sync queue once and exit",
	Long: `sync delivers every pending operation to the remote ledger in order and
exits. An unreachable ledger is reported, not treated as an error: the
operations stay queued for the next run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withComponents(cmd, func(ctx context.Context, c *app.Components) error {
			res := c.Coordinator.ForceSync(ctx)
			fmt.Fprintf(out(cmd), "%s (processed %d, failed %d, remaining %d)\n",
				res.Message, res.Processed, res.Failed, res.Remaining)
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the local store and sync queue state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withComponents(cmd, func(ctx context.Context, c *app.Components) error {
			words, err := c.Words.Count(ctx)
			if err != nil {
				return err
			}

			probeCtx, cancel := context.WithTimeout(ctx, c.Config.Sync.ProbeTimeout)
			defer cancel()
			reachable := "yes"
			if err := c.Ledger.Ping(probeCtx); err != nil {
				reachable = "no"
			}

			st := c.Coordinator.Status()
			w := out(cmd)
			fmt.Fprintf(w, "origin:    %s\n", c.OriginID)
			fmt.Fprintf(w, "store:     %s\n", c.Config.Store.Path)
			fmt.Fprintf(w, "words:     %d\n", words)
			fmt.Fprintf(w, "pending:   %d\n", st.PendingCount)
			fmt.Fprintf(w, "reachable: %s\n", reachable)
			return nil
		})
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List queued operations in delivery order",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withComponents(cmd, func(ctx context.Context, c *app.Components) error {
			entries, err := c.Coordinator.Pending(ctx)
			if err != nil {
				return err
			}
			w := out(cmd)
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					e.Seq, e.CreatedAt.Format(time.RFC3339), e.Kind, e.UserID, e.Word)
			}
			fmt.Fprintf(w, "%d pending\n", len(entries))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(syncCmd, statusCmd, pendingCmd)
}
