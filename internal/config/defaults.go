package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

// DefaultTetrisConfig returns the built-in configuration. It matches
// defaults/tetris.yaml.
func DefaultTetrisConfig() TetrisConfig {
	return TetrisConfig{
		Board: BoardConfig{
			Width:  10,
			Height: 20,
			Buffer: 4,
		},
		Gravity: GravityConfig{
			Base:     time.Second,
			Step:     50 * time.Millisecond,
			Floor:    50 * time.Millisecond,
			MaxLevel: 20,
		},
		Timing: TimingConfig{
			TickRate:       60,
			LockDelayTicks: 15,
			MaxLockResets:  15,
			LineClearTicks: 12,
		},
		Scoring: ScoringConfig{
			StartLevel:  1,
			QueueSize:   7,
			PreviewSize: 5,
		},
		Items:  ItemsConfig{EveryLines: 10},
		Sprint: SprintConfig{Duration: 2 * time.Minute},
		Versus: VersusConfig{
			Garbage:      true,
			LobbyTimeout: 5 * time.Minute,
		},
		Keys:       DefaultKeys(),
		LocalKeys:  DefaultLocalKeys(),
		Difficulty: DifficultyConfig{Preset: string(DifficultyNormal)},
	}
}

// DefaultKeys is the built-in key layout.
func DefaultKeys() KeysConfig {
	return KeysConfig{
		Left:      []string{"left", "a"},
		Right:     []string{"right", "d"},
		SoftDrop:  []string{"down", "s"},
		HardDrop:  []string{" ", "w"},
		RotateCW:  []string{"up", "x"},
		RotateCCW: []string{"z"},
		Hold:      []string{"c", "shift+left"},
		Pause:     []string{"p"},
		Restart:   []string{"r"},
		Back:      []string{"esc", "b"},
		Quit:      []string{"q", "ctrl+c"},
	}
}

// DefaultLocalKeys splits the keyboard for local versus: the left hand
// side for player one and the arrows for player two.
func DefaultLocalKeys() LocalKeysConfig {
	return LocalKeysConfig{
		Player1: KeysConfig{
			Left:      []string{"a"},
			Right:     []string{"d"},
			SoftDrop:  []string{"s"},
			HardDrop:  []string{" "},
			RotateCW:  []string{"w"},
			RotateCCW: []string{"q"},
			Hold:      []string{"c"},
			Pause:     []string{"p"},
			Restart:   []string{"r"},
			Back:      []string{"esc"},
			Quit:      []string{"ctrl+c"},
		},
		Player2: KeysConfig{
			Left:      []string{"left"},
			Right:     []string{"right"},
			SoftDrop:  []string{"down"},
			HardDrop:  []string{"enter"},
			RotateCW:  []string{"up"},
			RotateCCW: []string{"/"},
			Hold:      []string{"."},
		},
	}
}
