package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
)

// KeyMap holds the in-game bindings. It is built from the configured key
// layout and doubles as the help.KeyMap of the game screen.
type KeyMap struct {
	Left       key.Binding
	Right      key.Binding
	SoftDrop   key.Binding
	HardDrop   key.Binding
	RotateCW   key.Binding
	RotateCCW  key.Binding
	Hold       key.Binding
	Pause      key.Binding
	Restart    key.Binding
	Back       key.Binding
	Quit       key.Binding
	Screenshot key.Binding
}

// NewKeyMap builds bindings from a key layout. Unbound actions fall back
// to the default layout.
func NewKeyMap(keys config.KeysConfig) KeyMap {
	return bindKeys(keys, config.DefaultKeys())
}

// bindKeys builds bindings from keys, filling unbound actions from def.
// An action unbound in both stays disabled.
func bindKeys(keys, def config.KeysConfig) KeyMap {
	bind := func(names, fallback []string, desc string) key.Binding {
		if len(names) == 0 {
			names = fallback
		}
		return key.NewBinding(
			key.WithKeys(names...),
			key.WithHelp(helpKeys(names), desc),
		)
	}

	return KeyMap{
		Left:      bind(keys.Left, def.Left, "left"),
		Right:     bind(keys.Right, def.Right, "right"),
		SoftDrop:  bind(keys.SoftDrop, def.SoftDrop, "soft drop"),
		HardDrop:  bind(keys.HardDrop, def.HardDrop, "hard drop"),
		RotateCW:  bind(keys.RotateCW, def.RotateCW, "rotate"),
		RotateCCW: bind(keys.RotateCCW, def.RotateCCW, "rotate ccw"),
		Hold:      bind(keys.Hold, def.Hold, "hold"),
		Pause:     bind(keys.Pause, def.Pause, "pause"),
		Restart:   bind(keys.Restart, def.Restart, "restart"),
		Back:      bind(keys.Back, def.Back, "menu"),
		Quit:      bind(keys.Quit, def.Quit, "quit"),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
	}
}

// helpKeys formats key names for the help line.
func helpKeys(names []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		if n == " " {
			n = "space"
		}
		out[i] = n
	}
	return strings.Join(out, "/")
}

// ShortHelp returns the bindings shown in the one-line help.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.RotateCW, k.HardDrop, k.Hold, k.Pause, k.Quit}
}

// FullHelp returns all bindings grouped in columns.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.SoftDrop, k.HardDrop},
		{k.RotateCW, k.RotateCCW, k.Hold},
		{k.Pause, k.Restart, k.Back, k.Quit, k.Screenshot},
	}
}

// MapKey translates a key message to a game action. Quit is reported
// separately so callers can stop the program.
func (k KeyMap) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit, true
	case key.Matches(msg, k.Left):
		return core.ActionLeft, false
	case key.Matches(msg, k.Right):
		return core.ActionRight, false
	case key.Matches(msg, k.SoftDrop):
		return core.ActionSoftDrop, false
	case key.Matches(msg, k.HardDrop):
		return core.ActionHardDrop, false
	case key.Matches(msg, k.RotateCW):
		return core.ActionRotateCW, false
	case key.Matches(msg, k.RotateCCW):
		return core.ActionRotateCCW, false
	case key.Matches(msg, k.Hold):
		return core.ActionHold, false
	case key.Matches(msg, k.Pause):
		return core.ActionPause, false
	case key.Matches(msg, k.Restart):
		return core.ActionRestart, false
	case key.Matches(msg, k.Back):
		return core.ActionBack, false
	}
	return core.ActionNone, false
}

// MapKeyToFrame appends the key's action to frame. Returns true if the
// key was a quit request.
func (k KeyMap) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := k.MapKey(msg)
	if action != core.ActionNone && !isQuit {
		frame.Set(action)
	}
	return isQuit
}

// LocalKeyMap splits one keyboard between the two players of local
// versus. Pause, restart, back and quit live on player one's layout.
type LocalKeyMap struct {
	P1 KeyMap
	P2 KeyMap
}

// NewLocalKeyMap builds both layouts.
func NewLocalKeyMap(keys config.LocalKeysConfig) LocalKeyMap {
	def := config.DefaultLocalKeys()
	return LocalKeyMap{
		P1: bindKeys(keys.Player1, def.Player1),
		P2: bindKeys(keys.Player2, def.Player2),
	}
}

// MapKeyToMultiFrame appends the key's action to the frame of the player
// whose layout binds it. Returns true if the key was a quit request.
func (k LocalKeyMap) MapKeyToMultiFrame(msg tea.KeyMsg, frame *core.MultiInputFrame) bool {
	if action, isQuit := k.P1.MapKey(msg); action != core.ActionNone {
		if !isQuit {
			frame.Add(core.Player1, action)
		}
		return isQuit
	}
	if action, _ := k.P2.MapKey(msg); action != core.ActionNone {
		frame.Add(core.Player2, action)
	}
	return false
}

// ShortHelp shows both players' moves and the shared controls.
func (k LocalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.P1.Left, k.P1.Right, k.P1.RotateCW, k.P1.HardDrop, k.P1.Pause, k.P1.Quit}
}

// FullHelp lists player one, player two and the shared controls.
func (k LocalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.P1.Left, k.P1.Right, k.P1.SoftDrop, k.P1.HardDrop, k.P1.RotateCW, k.P1.RotateCCW, k.P1.Hold},
		{k.P2.Left, k.P2.Right, k.P2.SoftDrop, k.P2.HardDrop, k.P2.RotateCW, k.P2.RotateCCW, k.P2.Hold},
		{k.P1.Pause, k.P1.Restart, k.P1.Back, k.P1.Quit},
	}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}
	return MenuActionNone
}
