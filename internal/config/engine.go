package config

import (
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// Mode selects a game variant.
type Mode string

const (
	ModeMarathon Mode = "marathon"
	ModeItems    Mode = "items"
	ModeSprint   Mode = "sprint"
	ModeVersus   Mode = "versus"
)

// EngineConfig builds the engine configuration for a mode.
func (c TetrisConfig) EngineConfig(mode Mode, seed int64) tetris.Config {
	ec := tetris.Config{
		Width:       c.Board.Width,
		Height:      c.Board.Height,
		Buffer:      c.Board.Buffer,
		TickRate:    c.Timing.TickRate,
		Difficulty:  c.Preset().Difficulty(),
		StartLevel:  c.Scoring.StartLevel,
		MaxLevel:    c.Gravity.MaxLevel,
		LevelFactor: c.Scoring.LevelFactor,
		Speed: tetris.SpeedCurve{
			Base:  c.Gravity.Base,
			Step:  c.Gravity.Step,
			Floor: c.Gravity.Floor,
		},
		LockDelayTicks: c.Timing.LockDelayTicks,
		MaxLockResets:  c.Timing.MaxLockResets,
		LineClearTicks: c.Timing.LineClearTicks,
		QueueSize:      c.Scoring.QueueSize,
		PreviewSize:    c.Scoring.PreviewSize,
		Randomizer:     c.Scoring.Randomizer,
		ItemEveryLines: c.Items.EveryLines,
		Seed:           seed,
	}
	switch mode {
	case ModeItems:
		ec.Items = true
	case ModeSprint:
		ec.TimeLimit = c.Sprint.Duration
	case ModeVersus:
		ec.Randomizer = "bag"
	}
	return ec
}
