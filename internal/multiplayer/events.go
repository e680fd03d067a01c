package multiplayer

import (
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// SessionEvent is sent from the coordinator or a match to a session.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent carries the join code of a new lobby.
type LobbyCreatedEvent struct {
	Code string
}

func (LobbyCreatedEvent) sessionEvent() {}

// LobbyErrorEvent reports a failed lobby operation.
type LobbyErrorEvent struct {
	Message string
}

func (LobbyErrorEvent) sessionEvent() {}

// LobbyJoinedEvent is sent to both players when the lobby fills.
type LobbyJoinedEvent struct {
	Code     string
	Side     PlayerID
	Opponent string
}

func (LobbyJoinedEvent) sessionEvent() {}

// LobbyPlayerLeftEvent tells the host that the joiner left.
type LobbyPlayerLeftEvent struct {
	Code string
}

func (LobbyPlayerLeftEvent) sessionEvent() {}

// MatchStartedEvent is sent when play begins.
type MatchStartedEvent struct {
	MatchID  MatchID
	Side     PlayerID
	Code     string
	Opponent string
}

func (MatchStartedEvent) sessionEvent() {}

// MatchEndedEvent is sent when a match is over. Winner is 0 when nobody
// won, for example when a lobby was closed before play.
type MatchEndedEvent struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID
	Score1  int
	Score2  int
	Lines1  int
	Lines2  int
}

func (MatchEndedEvent) sessionEvent() {}

// MatchEndReason describes why a match ended.
type MatchEndReason int

const (
	MatchEndReasonCompleted  MatchEndReason = iota // one board topped out
	MatchEndReasonDisconnect                       // a player disconnected or quit
	MatchEndReasonCancelled
	MatchEndReasonHostLeft
	MatchEndReasonJoinerLeft
)

func (r MatchEndReason) String() string {
	switch r {
	case MatchEndReasonCompleted:
		return "completed"
	case MatchEndReasonDisconnect:
		return "disconnect"
	case MatchEndReasonCancelled:
		return "cancelled"
	case MatchEndReasonHostLeft:
		return "host_left"
	case MatchEndReasonJoinerLeft:
		return "joiner_left"
	default:
		return "unknown"
	}
}

// Message is the text shown to players.
func (r MatchEndReason) Message() string {
	switch r {
	case MatchEndReasonCompleted:
		return "Match completed"
	case MatchEndReasonDisconnect:
		return "Opponent disconnected"
	case MatchEndReasonCancelled:
		return "Match cancelled"
	case MatchEndReasonHostLeft:
		return "Host left"
	case MatchEndReasonJoinerLeft:
		return "Opponent left"
	default:
		return "Unknown"
	}
}

// VersusView is what both players see: each board plus attack totals.
type VersusView struct {
	Boards [2]tetris.Snapshot
	Sent   [2]int // garbage rows sent by each player
	Names  [2]string
}

// Board returns the snapshot for a player.
func (v VersusView) Board(p PlayerID) tetris.Snapshot {
	return v.Boards[sideIndex(p)]
}

// SnapshotEvent carries the latest view of a match.
type SnapshotEvent struct {
	MatchID MatchID
	Tick    uint64
	View    VersusView
}

func (SnapshotEvent) sessionEvent() {}

// CoordinatorMessage is sent from a session to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateLobbyMsg asks for a new lobby hosted by the session.
type CreateLobbyMsg struct {
	SessionID SessionID
}

func (CreateLobbyMsg) coordinatorMessage() {}

// JoinLobbyMsg asks to join a lobby by code.
type JoinLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (JoinLobbyMsg) coordinatorMessage() {}

// CancelLobbyMsg closes a hosted lobby.
type CancelLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (CancelLobbyMsg) coordinatorMessage() {}

// LeaveLobbyMsg leaves a joined lobby.
type LeaveLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (LeaveLobbyMsg) coordinatorMessage() {}

// LeaveMatchMsg forfeits an active match.
type LeaveMatchMsg struct {
	SessionID SessionID
	MatchID   MatchID
}

func (LeaveMatchMsg) coordinatorMessage() {}

// PlayerInputMsg carries one frame of input for a player.
type PlayerInputMsg struct {
	MatchID MatchID
	Player  PlayerID
	Input   core.InputFrame
}

func (PlayerInputMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent when a session's connection closes.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}
