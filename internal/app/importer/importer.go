package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/heartmarshall/wordsync-backend/internal/service/vocabulary"
)

type wordAdder interface {
	AddWord(ctx context.Context, input vocabulary.AddWordInput) (int64, error)
}

// Result summarizes an import run.
type Result struct {
	Imported int
	Skipped  int
	Errors   int
	Duration time.Duration
}

// Importer adds parsed rows one by one on behalf of a user.
type Importer struct {
	log   *slog.Logger
	words wordAdder
}

// New creates an Importer.
func New(log *slog.Logger, words wordAdder) *Importer {
	return &Importer{log: log.With("component", "importer"), words: words}
}

// Run parses r and adds every row for userID. Invalid rows are logged and
// counted, they do not stop the run. With dryRun nothing is written.
// Run stops at the first row when ctx is cancelled.
func (im *Importer) Run(ctx context.Context, r io.Reader, userID string, dryRun bool) (Result, error) {
	start := time.Now()

	rows, err := Parse(r)
	if err != nil {
		return Result{}, fmt.Errorf("parse word list: %w", err)
	}
	im.log.Info("word list parsed", slog.Int("rows", len(rows)), slog.Bool("dry_run", dryRun))

	var res Result
	if dryRun {
		res.Skipped = len(rows)
		res.Duration = time.Since(start)
		return res, nil
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		_, err := im.words.AddWord(ctx, vocabulary.AddWordInput{
			Word:          row.Word,
			EnMeaning:     row.EnMeaning,
			ChMeaning:     row.ChMeaning,
			PartsOfSpeech: row.PartsOfSpeech,
			UserID:        userID,
		})
		if err != nil {
			res.Errors++
			im.log.Warn("row rejected",
				slog.Int("line", row.Line),
				slog.String("word", row.Word),
				slog.String("error", err.Error()),
			)
			continue
		}
		res.Imported++
	}

	res.Duration = time.Since(start)
	im.log.Info("import completed",
		slog.Int("imported", res.Imported),
		slog.Int("errors", res.Errors),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}
