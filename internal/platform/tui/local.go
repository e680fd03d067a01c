package tui

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/solo"
	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
)

// NewLocalMatch builds a same-keyboard match from the game config at a
// difficulty. A zero seed in rc picks one from the clock.
func NewLocalMatch(game config.TetrisConfig, preset config.DifficultyPreset, rc core.RuntimeConfig, logger *log.Logger) *multiplayer.LocalMatch {
	if preset != "" {
		config.ApplyPreset(&game, preset)
	}
	if rc.TickRate > 0 {
		game.Timing.TickRate = rc.TickRate
	}
	seed := rc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cfg := multiplayer.MatchConfig{
		Engine:  game.EngineConfig(config.ModeVersus, seed),
		Garbage: game.Versus.Garbage,
	}
	return multiplayer.NewLocalMatch(cfg, [2]string{"Player 1", "Player 2"}, logger)
}

// LocalModel plays a LocalMatch: both players share the keyboard and
// the screen.
type LocalModel struct {
	match  *multiplayer.LocalMatch
	keys   LocalKeyMap
	help   help.Model
	screen *core.Screen
	config core.RuntimeConfig
	input  core.MultiInputFrame
	rng    *rand.Rand // rematch seeds

	result multiplayer.MatchResult
	over   bool

	quitting   bool
	backToMenu bool
	quitOnBack bool
}

// NewLocalModel creates the local versus screen.
func NewLocalModel(match *multiplayer.LocalMatch, keys config.LocalKeysConfig, cfg core.RuntimeConfig) LocalModel {
	h := help.New()
	h.Width = cfg.ScreenW
	return LocalModel{
		match:  match,
		keys:   NewLocalKeyMap(keys),
		help:   h,
		screen: core.NewScreen(cfg.ScreenW, gameHeight(cfg.ScreenH)),
		config: cfg,
		input:  core.NewMultiInputFrame(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Init starts the frame loop.
func (m LocalModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m LocalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "?" {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		if m.keys.MapKeyToMultiFrame(msg, &m.input) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, gameHeight(msg.Height))
		m.help.Width = msg.Width
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleTick steps the match with the keys pressed since the last frame.
// Restart and back are only honored once the match is over or paused.
func (m LocalModel) handleTick() (tea.Model, tea.Cmd) {
	shared := m.input.Player1()
	switch {
	case shared.Has(core.ActionBack) && (m.over || m.match.Paused()):
		m.input.Clear()
		m.backToMenu = true
		if m.quitOnBack {
			return m, tea.Quit
		}
		return m, nil
	case shared.Has(core.ActionRestart) && m.over:
		m.match.Reset(m.rng.Int63())
		m.over = false
		m.result = multiplayer.MatchResult{}
	case !m.over:
		m.result, m.over = m.match.Step(m.input)
	}
	m.input.Clear()
	return m, tickCmd(m.config.TickRate)
}

// View draws both boards side by side with the help line under them.
func (m LocalModel) View() string {
	if m.quitting {
		return ""
	}

	view := m.match.View()
	w, h := versusSize(view.Boards[0])
	if m.config.ScreenW < w || gameHeight(m.config.ScreenH) < h {
		return "\n" + centerText("Window too small", m.config.ScreenW) + "\n" +
			centerText(fmt.Sprintf("Need %dx%d, have %dx%d", w, h+helpHeight, m.config.ScreenW, m.config.ScreenH), m.config.ScreenW)
	}

	dst := m.screen
	dst.Clear()
	ox := (m.config.ScreenW - w) / 2
	sideW := (w - versusGap) / 2
	drawVersusSide(dst, ox, view, multiplayer.Player1, "P1")
	drawVersusSide(dst, ox+sideW+versusGap, view, multiplayer.Player2, "P2")

	snap := view.Boards[0]
	fieldW := solo.PlayfieldWidth(snap.Width)
	switch {
	case m.over:
		title := "DRAW"
		if m.result.Winner != 0 {
			title = fmt.Sprintf("%s WINS", view.Names[m.result.Winner-1])
		}
		solo.DrawOverlay(dst, ox+(w-fieldW)/2, 2, fieldW, snap.Height+2, title, "r: rematch", "esc: menu")
	case m.match.Paused():
		solo.DrawOverlay(dst, ox+(w-fieldW)/2, 2, fieldW, snap.Height+2, "PAUSED", "esc: menu")
	}
	return RenderScreen(dst) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Result returns the outcome once the match is over.
func (m LocalModel) Result() (multiplayer.MatchResult, bool) {
	return m.result, m.over
}

// IsQuitting reports whether the user asked to quit entirely.
func (m LocalModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu reports whether the user asked to return to the menu.
func (m LocalModel) BackToMenu() bool {
	return m.backToMenu
}

// RunLocal plays a local match in its own program. quit reports whether
// the players asked to leave the application rather than go back.
func RunLocal(match *multiplayer.LocalMatch, keys config.LocalKeysConfig, cfg core.RuntimeConfig) (quit bool, err error) {
	model := NewLocalModel(match, keys, cfg)
	model.quitOnBack = true

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	if m, ok := final.(LocalModel); ok {
		return m.IsQuitting(), nil
	}
	return false, nil
}

