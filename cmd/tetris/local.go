package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
)

var localCmd = &cobra.Command{
	Use:   "local",
	Short: "Versus for two players on one keyboard",
	Long: `Start a versus match for two players sharing this terminal. Both
boards get the same pieces; clearing two or more lines at once pushes
those rows, minus the piece that completed them, under the other board.

Controls (configurable under "local_keys" in the config file):
  Player 1: A/D move, S soft drop, Space hard drop, W/Q rotate, C hold
  Player 2: arrows move and rotate, Enter hard drop, / rotate ccw, . hold
  P pause, R rematch, Esc menu (when paused or over), Ctrl+C quit

Examples:
  tetris local
  tetris local --difficulty hard --seed 42`,
	Args: cobra.NoArgs,
	RunE: runLocal,
}

func init() {
	localCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runLocal(_ *cobra.Command, _ []string) error {
	gameCfg := loadConfig()
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}
	if flagDifficulty == "" {
		preset = gameCfg.Preset()
	}

	cfg := runtimeConfig()
	match := tui.NewLocalMatch(gameCfg, preset, cfg, logger)
	if _, err := tui.RunLocal(match, gameCfg.LocalKeys, cfg); err != nil {
		return fmt.Errorf("running local match: %w", err)
	}
	return nil
}
