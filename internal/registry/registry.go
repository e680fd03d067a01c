// Package registry maps game mode IDs to factories. Modes register
// themselves from init so the CLI and menus can list and build them
// without importing each one.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// Game is what the terminal platform drives. Implementations are pure
// logic: the platform maps keys to actions, calls Step at a fixed rate
// and renders into a Screen.
type Game interface {
	// ID is the mode identifier used on the command line and in the
	// score table ("marathon", "sprint").
	ID() string

	// Title is the display name.
	Title() string

	// Reset starts a new game.
	Reset(cfg core.RuntimeConfig)

	// Step advances one tick with this tick's input.
	Step(in core.InputFrame) core.StepResult

	// Render draws into a cleared screen.
	Render(dst *core.Screen)

	// State reports score, progress and whether the game has ended.
	State() core.GameState
}

// Info describes a registered mode.
type Info struct {
	ID          string
	Title       string
	Description string
	Order       int // menu position, lower first
}

// Factory builds a fresh game.
type Factory func() Game

type entry struct {
	info    Info
	factory Factory
}

var (
	mu      sync.RWMutex
	entries = map[string]entry{}
)

// Register adds a mode. The title is taken from a throwaway instance when
// info leaves it empty. Registering an ID twice panics.
func Register(info Info, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, dup := entries[info.ID]; dup {
		panic(fmt.Sprintf("registry: mode %q already registered", info.ID))
	}
	if info.Title == "" {
		info.Title = f().Title()
	}
	entries[info.ID] = entry{info: info, factory: f}
}

// List returns all modes in menu order, ties broken by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]Info, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Create builds a new game for the mode.
func Create(id string) (Game, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown mode %q", id)
	}
	return e.factory(), nil
}

// Lookup returns the info for a mode.
func Lookup(id string) (Info, bool) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := entries[id]
	return e.info, ok
}

// Exists reports whether a mode is registered.
func Exists(id string) bool {
	_, ok := Lookup(id)
	return ok
}
