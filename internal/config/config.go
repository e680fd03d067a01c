// Package config loads the YAML game configuration and applies
// difficulty presets.
package config

import "time"

// TetrisConfig contains all configuration for the falling-block game.
type TetrisConfig struct {
	Board      BoardConfig      `yaml:"board"`
	Gravity    GravityConfig    `yaml:"gravity"`
	Timing     TimingConfig     `yaml:"timing"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Items      ItemsConfig      `yaml:"items"`
	Sprint     SprintConfig     `yaml:"sprint"`
	Versus     VersusConfig     `yaml:"versus"`
	Keys       KeysConfig       `yaml:"keys"`
	LocalKeys  LocalKeysConfig  `yaml:"local_keys"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BoardConfig sizes the playfield.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Buffer int `yaml:"buffer"` // hidden rows above the visible area
}

// GravityConfig is the level to fall-speed curve.
type GravityConfig struct {
	Base     time.Duration `yaml:"base"`  // interval at level 1
	Step     time.Duration `yaml:"step"`  // reduction per level
	Floor    time.Duration `yaml:"floor"` // fastest interval
	MaxLevel int           `yaml:"max_level"`
}

// TimingConfig holds tick-based delays.
type TimingConfig struct {
	TickRate       int `yaml:"tick_rate"`
	LockDelayTicks int `yaml:"lock_delay_ticks"`
	MaxLockResets  int `yaml:"max_lock_resets"`
	LineClearTicks int `yaml:"line_clear_ticks"`
}

// ScoringConfig controls leveling and the piece queue.
type ScoringConfig struct {
	StartLevel  int    `yaml:"start_level"`
	LevelFactor int    `yaml:"level_factor"` // lines per level, 0 = by difficulty
	Randomizer  string `yaml:"randomizer"`   // "bag", "weighted" or empty
	QueueSize   int    `yaml:"queue_size"`
	PreviewSize int    `yaml:"preview_size"`
}

// ItemsConfig controls item mode.
type ItemsConfig struct {
	EveryLines int `yaml:"every_lines"`
}

// SprintConfig controls the time attack mode.
type SprintConfig struct {
	Duration time.Duration `yaml:"duration"`
}

// VersusConfig controls online matches.
type VersusConfig struct {
	Garbage      bool          `yaml:"garbage"`
	LobbyTimeout time.Duration `yaml:"lobby_timeout"`
}

// KeysConfig maps actions to key names as Bubble Tea reports them
// ("left", "a", "ctrl+c", " " for space).
type KeysConfig struct {
	Left      []string `yaml:"left"`
	Right     []string `yaml:"right"`
	SoftDrop  []string `yaml:"soft_drop"`
	HardDrop  []string `yaml:"hard_drop"`
	RotateCW  []string `yaml:"rotate_cw"`
	RotateCCW []string `yaml:"rotate_ccw"`
	Hold      []string `yaml:"hold"`
	Pause     []string `yaml:"pause"`
	Restart   []string `yaml:"restart"`
	Back      []string `yaml:"back"`
	Quit      []string `yaml:"quit"`
}

// LocalKeysConfig holds the two layouts of same-keyboard versus. Pause,
// restart, back and quit are read from Player1 only.
type LocalKeysConfig struct {
	Player1 KeysConfig `yaml:"player1"`
	Player2 KeysConfig `yaml:"player2"`
}

// DifficultyConfig selects the default preset.
type DifficultyConfig struct {
	Preset string `yaml:"preset"`
}
