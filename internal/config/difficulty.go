package config

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	// DifficultyFixed plays at normal scoring but never levels up.
	DifficultyFixed DifficultyPreset = "fixed"
)

// Presets lists the accepted preset names.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}

// ParsePreset validates a preset name. Empty means normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DifficultyNormal, nil
	}
	for _, p := range Presets {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q (use easy, normal, hard or fixed)", name)
}

// Difficulty maps the preset to the engine's scoring difficulty.
func (p DifficultyPreset) Difficulty() tetris.Difficulty {
	switch p {
	case DifficultyEasy:
		return tetris.DifficultyEasy
	case DifficultyHard:
		return tetris.DifficultyHard
	default:
		return tetris.DifficultyNormal
	}
}

// ApplyPreset records the preset. The fixed preset also caps the level
// at the start level.
func ApplyPreset(cfg *TetrisConfig, preset DifficultyPreset) {
	cfg.Difficulty.Preset = string(preset)
	if preset == DifficultyFixed {
		cfg.Gravity.MaxLevel = max(cfg.Scoring.StartLevel, 1)
	}
}

// Preset returns the configured preset, defaulting to normal.
func (c TetrisConfig) Preset() DifficultyPreset {
	p, err := ParsePreset(c.Difficulty.Preset)
	if err != nil {
		return DifficultyNormal
	}
	return p
}
