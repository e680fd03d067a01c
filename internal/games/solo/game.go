// Package solo adapts the tetris engine to the arcade game contract for
// the single-player modes: marathon, items and sprint.
package solo

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// messageTicks is how long a clear callout stays on screen.
const messageTicks = 90

// Game is one single-player tetris session.
type Game struct {
	mode   config.Mode
	preset string // overrides the package-level preset when set
	cfg    config.TetrisConfig
	engine *tetris.Engine
	rng    *rand.Rand
	tick   uint64

	screenW int
	screenH int

	paused   bool
	tooSmall bool

	message      string
	messageTicks int
}

// Package-level settings picked by the CLI and menus before a game starts.
var (
	configPath         string
	difficultyPreset   string
	selectedStartLevel int
)

// SetConfigPath sets the config file path used on the next Reset.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset used on the next Reset.
func SetDifficultyPreset(preset string) {
	difficultyPreset = preset
}

// SetStartLevel sets the starting level. 0 keeps the configured one.
func SetStartLevel(level int) {
	selectedStartLevel = level
}

// New creates a game for a single-player mode.
func New(mode config.Mode) *Game {
	return &Game{mode: mode}
}

func init() {
	registry.Register(registry.Info{
		ID:          string(config.ModeMarathon),
		Title:       "Marathon",
		Description: "Classic endless play, speed rises every few lines",
		Order:       1,
	}, func() registry.Game { return New(config.ModeMarathon) })
	registry.Register(registry.Info{
		ID:          string(config.ModeItems),
		Title:       "Items",
		Description: "Every few lines an item piece: a line, column or cross clear, a weight or a bomb",
		Order:       2,
	}, func() registry.Game { return New(config.ModeItems) })
	registry.Register(registry.Info{
		ID:          string(config.ModeSprint),
		Title:       "Sprint",
		Description: "Score as much as you can before the clock runs out",
		Order:       3,
	}, func() registry.Game { return New(config.ModeSprint) })
}

// SetDifficulty selects the preset for this game only, taking effect on
// the next Reset. Concurrent sessions use it instead of
// SetDifficultyPreset.
func (g *Game) SetDifficulty(preset config.DifficultyPreset) {
	g.preset = string(preset)
}

// ID returns the mode identifier.
func (g *Game) ID() string {
	return string(g.mode)
}

// Title returns the display name.
func (g *Game) Title() string {
	switch g.mode {
	case config.ModeItems:
		return "Tetris (Items)"
	case config.ModeSprint:
		return "Tetris (Sprint)"
	default:
		return "Tetris"
	}
}

// Mode returns the game mode.
func (g *Game) Mode() config.Mode {
	return g.mode
}

// Reset loads the configuration and starts a new game.
func (g *Game) Reset(rc core.RuntimeConfig) {
	cfg, err := config.LoadTetris(configPath)
	if err != nil {
		cfg = config.DefaultTetrisConfig()
	}
	name := difficultyPreset
	if g.preset != "" {
		name = g.preset
	}
	if preset, err := config.ParsePreset(name); err == nil && name != "" {
		config.ApplyPreset(&cfg, preset)
	}
	if selectedStartLevel > 0 {
		cfg.Scoring.StartLevel = selectedStartLevel
		if cfg.Preset() == config.DifficultyFixed {
			config.ApplyPreset(&cfg, config.DifficultyFixed)
		}
	}
	if rc.TickRate > 0 {
		cfg.Timing.TickRate = rc.TickRate
	}
	g.cfg = cfg

	seed := rc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.rng = rand.New(rand.NewSource(seed))
	g.engine = tetris.New(cfg.EngineConfig(g.mode, seed))

	g.tick = 0
	g.paused = false
	g.message = ""
	g.messageTicks = 0
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH
	g.checkSize()
}

func (g *Game) checkSize() {
	w, h := layoutSize(g.cfg.Board.Width, g.cfg.Board.Height)
	g.tooSmall = g.screenW < w || g.screenH < h
}

// Step advances one frame.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.engine.GameOver() && in.Has(core.ActionRestart) {
		g.Reset(core.RuntimeConfig{
			ScreenW:  g.screenW,
			ScreenH:  g.screenH,
			TickRate: g.cfg.Timing.TickRate,
			Seed:     g.rng.Int63(),
		})
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.engine.GameOver() {
		g.paused = !g.paused
	}

	if g.engine.GameOver() || g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	for _, a := range in.Actions() {
		if act := EngineAction(a); act != tetris.ActionNone {
			g.engine.OnInput(act)
		}
	}
	g.engine.OnTick()

	if g.messageTicks > 0 {
		g.messageTicks--
	}
	for _, ev := range g.engine.Events() {
		if msg := callout(ev); msg != "" {
			g.message = msg
			g.messageTicks = messageTicks
		}
	}

	return core.StepResult{State: g.State()}
}

// EngineAction maps a platform action to an engine command.
func EngineAction(a core.Action) tetris.Action {
	switch a {
	case core.ActionLeft:
		return tetris.ActionMoveLeft
	case core.ActionRight:
		return tetris.ActionMoveRight
	case core.ActionSoftDrop, core.ActionDown:
		return tetris.ActionSoftDrop
	case core.ActionHardDrop:
		return tetris.ActionHardDrop
	case core.ActionRotateCW, core.ActionUp:
		return tetris.ActionRotateCW
	case core.ActionRotateCCW:
		return tetris.ActionRotateCCW
	case core.ActionHold:
		return tetris.ActionHold
	default:
		return tetris.ActionNone
	}
}

// callout is the banner text for an event, if any.
func callout(ev tetris.Event) string {
	switch ev.Type {
	case tetris.EventLinesCleared:
		name := clearName(ev.Lines)
		if ev.TSpin {
			return "T-SPIN " + name
		}
		if ev.Lines >= 4 {
			return name + "!"
		}
		return ""
	case tetris.EventTSpin:
		// A T-spin that clears is announced with its lines.
		if ev.Lines == 0 {
			return "T-SPIN"
		}
	case tetris.EventDetonated:
		return "BOOM"
	case tetris.EventCrushed:
		return "CRUSH"
	case tetris.EventLevelUp:
		return fmt.Sprintf("LEVEL %d", ev.Level)
	case tetris.EventItemQueued:
		return "ITEM INCOMING"
	}
	return ""
}

func clearName(lines int) string {
	switch lines {
	case 1:
		return "SINGLE"
	case 2:
		return "DOUBLE"
	case 3:
		return "TRIPLE"
	case 4:
		return "TETRIS"
	default:
		return fmt.Sprintf("%d LINES", lines)
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.engine.Score(),
		Lines:    g.engine.Lines(),
		Level:    g.engine.Level(),
		GameOver: g.engine.GameOver(),
		Paused:   g.paused,
	}
}

// Difficulty returns the difficulty the current game is scored at.
func (g *Game) Difficulty() tetris.Difficulty {
	return g.engine.Config().Difficulty
}

// Snapshot returns the engine state for rendering and determinism checks.
func (g *Game) Snapshot() tetris.Snapshot {
	return g.engine.Snapshot()
}
