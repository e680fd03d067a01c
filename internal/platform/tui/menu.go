package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// MenuItemKind tells what selecting an item does.
type MenuItemKind int

const (
	MenuItemGame MenuItemKind = iota
	MenuItemOnline
	MenuItemLocal
	MenuItemScores
)

// MenuItem is one selectable line of the menu.
type MenuItem struct {
	Kind        MenuItemKind
	ModeID      string
	Title       string
	Description string
}

var (
	menuTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	menuSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuDimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuModel is the Bubble Tea model for the mode picker.
type MenuModel struct {
	items      []MenuItem
	cursor     int
	difficulty int // index into config.Presets
	best       map[string]int
	width      int
	height     int
	config     core.RuntimeConfig

	quitting       bool
	selected       *MenuItem
	openScoreboard bool
}

// NewMenuModel creates the menu. Online adds the versus entry.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig, difficulty string, online bool) MenuModel {
	modes := registry.List()
	items := make([]MenuItem, 0, len(modes)+3)
	for _, info := range modes {
		items = append(items, MenuItem{
			Kind:        MenuItemGame,
			ModeID:      info.ID,
			Title:       info.Title,
			Description: info.Description,
		})
	}
	if online {
		items = append(items, MenuItem{
			Kind:        MenuItemOnline,
			ModeID:      string(config.ModeVersus),
			Title:       "Versus",
			Description: "Host or join an online match, cleared lines become garbage",
		})
	}
	items = append(items, MenuItem{
		Kind:        MenuItemLocal,
		ModeID:      multiplayer.ModeLocal,
		Title:       "Local Versus",
		Description: "Two players on one keyboard, multi-line clears send garbage",
	})
	items = append(items, MenuItem{
		Kind:        MenuItemScores,
		Title:       "High Scores",
		Description: "Top scores per mode",
	})

	best := make(map[string]int)
	if store != nil {
		for _, info := range modes {
			if high, err := store.HighScore(info.ID); err == nil {
				best[info.ID] = high
			}
		}
	}

	return MenuModel{
		items:      items,
		difficulty: presetIndex(difficulty),
		best:       best,
		width:      cfg.ScreenW,
		height:     cfg.ScreenH,
		config:     cfg,
	}
}

func presetIndex(name string) int {
	preset, err := config.ParsePreset(name)
	if err != nil {
		preset = config.DifficultyNormal
	}
	for i, p := range config.Presets {
		if p == preset {
			return i
		}
	}
	return 0
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case MenuActionLeft:
		m.difficulty = (m.difficulty + len(config.Presets) - 1) % len(config.Presets)
	case MenuActionRight:
		m.difficulty = (m.difficulty + 1) % len(config.Presets)
	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	case MenuActionSelect:
		if len(m.items) == 0 {
			return m, nil
		}
		item := m.items[m.cursor]
		if item.Kind == MenuItemScores {
			m.openScoreboard = true
		} else {
			m.selected = &item
		}
		return m, tea.Quit
	}
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("T E T R I S"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Difficulty: < %s >", m.Difficulty()), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if high, ok := m.best[item.ModeID]; ok && high > 0 {
			line += fmt.Sprintf("  (best %d)", high)
		}
		if i == m.cursor {
			line = menuSelectedStyle.Render("> " + strings.TrimPrefix(line, "  "))
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if len(m.items) > 0 {
		b.WriteString("\n")
		b.WriteString(centerText(menuDimStyle.Render(m.items[m.cursor].Description), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Left/Right: Difficulty  |  Enter: Select  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(menuDimStyle.Render(controls), m.width))
	b.WriteString("\n")
	return b.String()
}

// Difficulty returns the selected difficulty preset.
func (m MenuModel) Difficulty() config.DifficultyPreset {
	return config.Presets[m.difficulty]
}

// Selected returns the selected item, or nil if none was selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested the scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Kind            MenuItemKind
	ModeID          string
	Difficulty      config.DifficultyPreset
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig, difficulty string) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(store, cfg, difficulty, false),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{
		Config:     m.Config(),
		Difficulty: m.Difficulty(),
	}
	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.IsQuitting() || m.Selected() == nil:
		result.Quit = true
	default:
		result.Kind = m.Selected().Kind
		result.ModeID = m.Selected().ModeID
	}
	return result, nil
}
