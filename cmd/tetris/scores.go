package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var flagCSV string

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores for a mode",
	Long: `Display the top 10 high scores for a mode, marathon by default.
With --csv every score of the mode is exported ("-" writes to stdout).

Examples:
  tetris scores
  tetris scores sprint
  tetris scores items --csv items.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagCSV, "csv", "", "Export all scores of the mode as CSV to this path")
}

func runScores(_ *cobra.Command, args []string) error {
	modeID := string(config.ModeMarathon)
	if len(args) == 1 {
		modeID = args[0]
	}
	info, ok := registry.Lookup(modeID)
	if !ok {
		return fmt.Errorf("unknown mode %q, run 'tetris modes' to see available modes", modeID)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagCSV != "" {
		return exportCSV(store, modeID)
	}

	scores, err := store.TopScores(modeID, storage.TopN)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", info.Title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'tetris play %s' to set the first high score!\n", modeID)
		return nil
	}

	fmt.Printf("  %-4s  %-12s  %-8s  %-5s  %-5s  %-6s  %s\n", "Rank", "Name", "Score", "Lines", "Level", "Diff", "Date")
	fmt.Printf("  %-4s  %-12s  %-8s  %-5s  %-5s  %-6s  %s\n", "----", "----", "-----", "-----", "-----", "----", "----")
	for i, e := range scores {
		fmt.Printf("  %-4d  %-12s  %-8d  %-5d  %-5d  %-6s  %s\n",
			i+1, e.Name, e.Score, e.Lines, e.Level, e.Difficulty, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.GetModeStats(modeID); err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Games: %d  Lines: %d\n", stats.HighScore, stats.GamesCount, stats.TotalLines)
	}
	return nil
}

func exportCSV(store *storage.Store, modeID string) error {
	if flagCSV == "-" {
		return store.ExportScores(os.Stdout, modeID)
	}

	f, err := os.Create(flagCSV)
	if err != nil {
		return fmt.Errorf("creating %s: %w", flagCSV, err)
	}
	if err := store.ExportScores(f, modeID); err != nil {
		return errors.Join(err, f.Close())
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("exported scores", "mode", modeID, "path", flagCSV)
	return nil
}
