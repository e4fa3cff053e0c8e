package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordsync-backend/internal/app"
	"github.com/heartmarshall/wordsync-backend/internal/app/importer"
)

var (
	importUser   string
	importDryRun bool
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Add every word of a CSV word list to the local store",
	Long: `import reads a CSV word list with the columns
word,en_meaning,ch_meaning,part_of_speech (parts of speech separated by ';')
and adds each row on behalf of --user. Imported words are queued for the
remote ledger and delivered by the next sync.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open word list: %w", err)
		}
		defer f.Close()

		return withComponents(cmd, func(ctx context.Context, c *app.Components) error {
			res, err := importer.New(c.Log, c.Vocabulary).Run(ctx, f, importUser, importDryRun)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "imported %d, rejected %d, skipped %d in %s\n",
				res.Imported, res.Errors, res.Skipped, res.Duration.Round(time.Millisecond))
			return nil
		})
	},
}

func init() {
	importCmd.Flags().StringVarP(&importUser, "user", "u", "", "user the imported words are attributed to")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "parse the file without writing anything")
	_ = importCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(importCmd)
}
