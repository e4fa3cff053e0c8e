package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordsync-backend/internal/app"
	"github.com/heartmarshall/wordsync-backend/internal/config"
)

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "wordsync",
	Short: "Offline-first vocabulary store with a remote ledger",
	Long: `wordsync keeps a vocabulary in a local SQLite store and replays every
operation to a remote PostgreSQL ledger whenever it is reachable.

Configuration is read from --config (or CONFIG_PATH) and environment
variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
			return nil
		}
		path := configPath
		if path == "" {
			path = os.Getenv("CONFIG_PATH")
		}
		loaded, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")
}

// withComponents builds the component graph for a one-shot command and
// releases it afterwards. The background sync loop is never started here.
func withComponents(cmd *cobra.Command, fn func(ctx context.Context, c *app.Components) error) error {
	ctx := cmd.Context()

	logger, closer := app.NewLogger(cfg.Log)
	defer closer.Close() //nolint:errcheck

	c, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}

	runErr := fn(ctx, c)
	if err := c.Close(context.WithoutCancel(ctx)); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
