package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/games/solo"
	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

var (
	flagDifficulty string
	flagStartLevel int
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start playing the given mode, marathon by default.

Controls (configurable under "keys" in the config file):
  Left/Right, A/D   - Move
  Down, S           - Soft drop
  Space, W          - Hard drop
  Up, X / Z         - Rotate clockwise / counter-clockwise
  C                 - Hold
  P                 - Pause
  R                 - Restart (after game over)
  Esc               - Back (when paused or over)
  Q/Ctrl+C          - Quit
  ?                 - Toggle full help

Difficulty options:
  easy   - More I pieces, 12 lines per level, 0.8x score
  normal - 10 lines per level
  hard   - Fewer I pieces, 8 lines per level, 1.2x score
  fixed  - Normal scoring, the level never rises

Examples:
  tetris play
  tetris play items --difficulty hard
  tetris play sprint --start-level 5
  tetris play --config ./my-tetris.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().IntVar(&flagStartLevel, "start-level", 0, "Starting level (0 = from config)")
}

func runPlay(_ *cobra.Command, args []string) error {
	modeID := string(config.ModeMarathon)
	if len(args) == 1 {
		modeID = args[0]
	}
	if !registry.Exists(modeID) {
		return fmt.Errorf("unknown mode %q, run 'tetris modes' to see available modes", modeID)
	}
	if _, err := config.ParsePreset(flagDifficulty); err != nil {
		return err
	}

	solo.SetDifficultyPreset(flagDifficulty)
	solo.SetStartLevel(flagStartLevel)

	game, err := registry.Create(modeID)
	if err != nil {
		return err
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	cfg := loadConfig()
	opts := tui.Options{Keys: cfg.Keys, Player: playerName(), Game: cfg}
	if _, err := tui.Run(game, store, runtimeConfig(), opts); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
