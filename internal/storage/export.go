package storage

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"
)

// ScoreRecord is the CSV row layout of a score.
type ScoreRecord struct {
	Rank       int    `csv:"rank"`
	Mode       string `csv:"mode"`
	Name       string `csv:"name"`
	Score      int    `csv:"score"`
	Lines      int    `csv:"lines"`
	Level      int    `csv:"level"`
	Difficulty string `csv:"difficulty"`
	PlayedAt   string `csv:"played_at"`
}

// ScoreRecords converts entries, already ordered best first, to CSV rows.
func ScoreRecords(entries []ScoreEntry) []*ScoreRecord {
	records := make([]*ScoreRecord, 0, len(entries))
	for i, e := range entries {
		played := ""
		if !e.CreatedAt.IsZero() {
			played = e.CreatedAt.UTC().Format(time.RFC3339)
		}
		records = append(records, &ScoreRecord{
			Rank:       i + 1,
			Mode:       e.Mode,
			Name:       e.Name,
			Score:      e.Score,
			Lines:      e.Lines,
			Level:      e.Level,
			Difficulty: e.Difficulty,
			PlayedAt:   played,
		})
	}
	return records
}

// WriteScoresCSV writes entries with a header row.
func WriteScoresCSV(w io.Writer, entries []ScoreEntry) error {
	if err := gocsv.Marshal(ScoreRecords(entries), w); err != nil {
		return fmt.Errorf("storage: cannot write csv: %w", err)
	}
	return nil
}

// ExportScores writes all scores of a mode as CSV.
func (s *Store) ExportScores(w io.Writer, mode string) error {
	entries, err := s.AllScores(mode)
	if err != nil {
		return err
	}
	return WriteScoresCSV(w, entries)
}
