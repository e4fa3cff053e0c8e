// Package importer loads a CSV word list into the local vocabulary. Every
// imported row goes through the vocabulary service, so it is queued for the
// remote ledger like any other add.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Row is one parsed line of a word list.
type Row struct {
	Line          int
	Word          string
	EnMeaning     string
	ChMeaning     string
	PartsOfSpeech []string
}

// Parse reads a word list with the columns
//
//	word,en_meaning,ch_meaning,part_of_speech
//
// Only the first column is required. Parts of speech are separated by ';'.
// A first row whose first cell is "word" is treated as a header. Rows with
// an empty word are skipped.
func Parse(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read word list: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if line == 1 && len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "word") {
			continue
		}

		row := Row{Line: line, Word: strings.TrimSpace(column(record, 0))}
		if row.Word == "" {
			continue
		}
		row.EnMeaning = strings.TrimSpace(column(record, 1))
		row.ChMeaning = strings.TrimSpace(column(record, 2))
		row.PartsOfSpeech = splitPOS(column(record, 3))

		rows = append(rows, row)
	}
	return rows, nil
}

func column(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

func splitPOS(s string) []string {
	pos := []string{}
	for _, p := range strings.Split(s, ";") {
		if p = strings.TrimSpace(p); p != "" {
			pos = append(pos, p)
		}
	}
	return pos
}
