package core

// RuntimeConfig is handed to a game on Reset.
type RuntimeConfig struct {
	ScreenW  int   // terminal width in cells
	ScreenH  int   // terminal height in cells
	TickRate int   // simulation ticks per second
	Seed     int64 // piece randomizer seed, 0 picks one from the clock
}

// DefaultConfig returns a 60 Hz config for an 80x24 terminal.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// GameState is what the platform needs to know after each tick.
type GameState struct {
	Score    int
	Lines    int
	Level    int
	GameOver bool
	Paused   bool
}

// StepResult is returned by Game.Step.
type StepResult struct {
	State GameState
}
