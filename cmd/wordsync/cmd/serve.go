package cmd

import (
	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordsync-backend/internal/app"
)

var manualStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP control surface and the background sync loop",
	RunE: func(cmd *cobra.Command, args []string) error {
		if manualStart {
			cfg.Sync.ManualStart = true
		}
		return app.Serve(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&manualStart, "manual-start", false, "do not start the sync loop until POST /sync/start")
	rootCmd.AddCommand(serveCmd)
}
