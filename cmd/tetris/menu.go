package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/games/solo"
	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a mode picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Left/Right to change difficulty and
Enter to start. After a game ends, Esc returns to the menu.

Controls:
  Up/Down/j/k   - Navigate menu
  Left/Right    - Difficulty
  Enter/Space   - Select
  Tab           - High scores
  Q             - Quit

Examples:
  tetris menu
  tetris menu --fps 30
  tetris menu --db ./scores.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	gameCfg := loadConfig()
	opts := tui.Options{Keys: gameCfg.Keys, Player: playerName(), Game: gameCfg}
	cfg := runtimeConfig()
	difficulty := gameCfg.Difficulty.Preset

	for {
		result, err := tui.RunMenu(store, cfg, difficulty)
		if err != nil {
			return err
		}
		cfg = result.Config
		difficulty = string(result.Difficulty)

		switch {
		case result.Quit:
			return nil
		case result.WantsScoreboard:
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}
			continue
		}

		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		if result.Kind == tui.MenuItemLocal {
			match := tui.NewLocalMatch(gameCfg, result.Difficulty, cfg, logger)
			quit, err := tui.RunLocal(match, gameCfg.LocalKeys, cfg)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
			continue
		}

		game, err := registry.Create(result.ModeID)
		if err != nil {
			logger.Error("cannot create game", "mode", result.ModeID, "err", err)
			continue
		}
		solo.SetDifficultyPreset(difficulty)

		quit, err := tui.Run(game, store, cfg, opts)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}
