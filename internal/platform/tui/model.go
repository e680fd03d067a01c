package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

const (
	helpHeight   = 1 // rows reserved under the game for the help line
	maxNameRunes = 12
)

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Options configures a game screen.
type Options struct {
	Keys config.KeysConfig

	// Player is the name offered when a score makes the table.
	Player string

	// Game is the loaded configuration local versus is built from. The
	// zero value means the defaults.
	Game config.TetrisConfig
}

func (o Options) gameConfig() config.TetrisConfig {
	if o.Game.Board.Width == 0 {
		return config.DefaultTetrisConfig()
	}
	return o.Game
}

// difficultyReporter is implemented by games scored at a difficulty.
type difficultyReporter interface {
	Difficulty() tetris.Difficulty
}

// Model is the Bubble Tea model for running one game mode.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keys       KeyMap
	help       help.Model
	nameInput  textinput.Model
	player     string
	inputFrame core.InputFrame
	gameState  core.GameState

	quitting     bool
	backToMenu   bool
	quitOnBack   bool // standalone program: Back ends it
	scoreSaved   bool // score handled for the current game over
	enteringName bool
	status       string
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	ti := textinput.New()
	ti.Placeholder = "your name"
	ti.CharLimit = maxNameRunes
	ti.Width = maxNameRunes + 1
	ti.Prompt = "Name: "

	player := strings.TrimSpace(opts.Player)
	if player == "" {
		player = "player"
	}

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, gameHeight(cfg.ScreenH)),
		store:      store,
		config:     cfg,
		keys:       NewKeyMap(opts.Keys),
		help:       help.New(),
		nameInput:  ti,
		player:     player,
		inputFrame: core.NewInputFrame(),
	}
	m.help.Width = cfg.ScreenW
	return m
}

func gameHeight(screenH int) int {
	return max(screenH-helpHeight, 1)
}

// gameConfig is the runtime config the game sees, minus the help line.
func (m Model) gameConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = gameHeight(cfg.ScreenH)
	return cfg
}

// Init starts the game and the frame loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.gameConfig())
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.enteringName {
			return m.handleNameKey(msg)
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case TickMsg:
		return m.handleTick()
	}

	if m.enteringName {
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case msg.String() == "?":
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}
	if action == core.ActionBack {
		if m.gameState.GameOver || m.gameState.Paused {
			m.backToMenu = true
			if m.quitOnBack {
				return m, tea.Quit
			}
		}
		return m, nil
	}
	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

func (m Model) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			name = m.player
		}
		m.player = name
		m.saveScore(name)
		m.enteringName = false
		m.nameInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.enteringName = false
		m.scoreSaved = true
		m.status = ""
		m.nameInput.Blur()
		return m, nil
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

// handleResize resizes the screen and restarts a running game so the
// layout matches the new size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, gameHeight(msg.Height))
	m.help.Width = msg.Width

	if !m.gameState.GameOver && m.gameState.Score == 0 && m.gameState.Lines == 0 {
		m.game.Reset(m.gameConfig())
	}
	return m, nil
}

// handleTick steps the game once with the input gathered since the last
// frame.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.enteringName {
		return m, tickCmd(m.config.TickRate)
	}

	wasOver := m.gameState.GameOver
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	if wasOver && !m.gameState.GameOver {
		m.scoreSaved = false
		m.status = ""
	}

	var cmd tea.Cmd
	if m.gameState.GameOver && !m.scoreSaved {
		cmd = m.finishGame()
	}
	return m, tea.Batch(tickCmd(m.config.TickRate), cmd)
}

// finishGame records the final score. A score that makes the top table
// asks for a name first.
func (m *Model) finishGame() tea.Cmd {
	if m.store == nil || m.gameState.Score <= 0 {
		m.scoreSaved = true
		return nil
	}

	eligible, err := m.store.IsEligible(m.game.ID(), m.gameState.Score)
	if err != nil {
		m.status = "Could not read high scores"
		m.scoreSaved = true
		return nil
	}
	if !eligible {
		m.saveScore(m.player)
		return nil
	}

	rank, _ := m.store.Rank(m.game.ID(), m.gameState.Score)
	m.status = fmt.Sprintf("New high score! Rank #%d", rank)
	m.enteringName = true
	m.nameInput.SetValue(m.player)
	m.nameInput.CursorEnd()
	return m.nameInput.Focus()
}

func (m *Model) saveScore(name string) {
	m.scoreSaved = true
	if m.store == nil {
		return
	}

	entry := storage.ScoreEntry{
		Mode:  m.game.ID(),
		Name:  name,
		Score: m.gameState.Score,
		Lines: m.gameState.Lines,
		Level: m.gameState.Level,
	}
	if d, ok := m.game.(difficultyReporter); ok {
		entry.Difficulty = d.Difficulty().String()
	}
	if _, err := m.store.SaveScore(entry); err != nil {
		m.status = "Could not save score"
		return
	}
	if m.status == "" {
		return
	}
	m.status = fmt.Sprintf("Saved %d for %s", entry.Score, name)
}

// saveScreenshot writes the current frame as plain text under
// ~/.arcade/screenshots.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".arcade", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the game and the line under it.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + m.footer()
}

// footer is the name prompt, a status message or the key help.
func (m Model) footer() string {
	switch {
	case m.enteringName:
		return promptStyle.Render(m.status+"  ") + m.nameInput.View()
	case m.status != "":
		return promptStyle.Render(m.status) + helpStyle.Render("  r: restart  esc: menu")
	default:
		return helpStyle.Render(m.help.View(m.keys))
	}
}

// IsQuitting reports whether the user asked to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu reports whether the user asked to return to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// State returns the last game state seen by the model.
func (m Model) State() core.GameState {
	return m.gameState
}

// Run plays one game in its own program. quit reports whether the
// player asked to leave the application rather than go back.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) (quit bool, err error) {
	model := NewModel(game, store, cfg, opts)
	model.quitOnBack = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	if m, ok := final.(Model); ok {
		return m.IsQuitting(), nil
	}
	return false, nil
}
