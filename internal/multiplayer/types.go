// Package multiplayer runs online versus matches between two sessions:
// lobbies with join codes, one authoritative engine runner per player
// and garbage exchange between them.
package multiplayer

import "github.com/vovakirdan/tui-tetris/internal/core"

// PlayerID is an alias to core.PlayerID for convenience.
// Player1 hosts the lobby, Player2 joins it.
type PlayerID = core.PlayerID

const (
	Player1 = core.Player1
	Player2 = core.Player2
)

// SessionID uniquely identifies a connected session (an SSH connection).
type SessionID string

// MatchID uniquely identifies a versus match.
type MatchID string

// ModeVersus is the mode name recorded with match results.
const ModeVersus = "versus"

// sideIndex maps a player to its slot in per-player arrays.
func sideIndex(p PlayerID) int {
	if p == Player2 {
		return 1
	}
	return 0
}
