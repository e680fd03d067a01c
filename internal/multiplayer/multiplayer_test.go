package multiplayer

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

type recordingSaver struct {
	mu      sync.Mutex
	results []MatchResultData
}

func (s *recordingSaver) SaveMatchResult(r MatchResultData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return nil
}

func (s *recordingSaver) saved() []MatchResultData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]MatchResultData(nil), s.results...)
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// waitFor reads events from s until one of type T arrives.
func waitFor[T SessionEvent](t *testing.T, s *ChannelSession) T {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case evt := <-s.Events():
			if e, ok := evt.(T); ok {
				return e
			}
		case <-deadline:
			var zero T
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}

func testCoordinator(t *testing.T) (*Coordinator, *SessionRegistry) {
	t.Helper()
	cfg := DefaultCoordinatorConfig()
	cfg.Match.Engine.TickRate = 200
	sessions := NewSessionRegistry()
	c := NewCoordinator(cfg, sessions, quietLogger())
	c.Start()
	t.Cleanup(c.Stop)
	return c, sessions
}

func TestChannelSessionDropsOldest(t *testing.T) {
	s := NewChannelSession("a", "", 2)
	assert.Equal(t, "a", s.Name())

	s.Send(LobbyCreatedEvent{Code: "ONE"})
	s.Send(LobbyCreatedEvent{Code: "TWO"})
	s.Send(LobbyCreatedEvent{Code: "THREE"})

	first := (<-s.Events()).(LobbyCreatedEvent)
	second := (<-s.Events()).(LobbyCreatedEvent)
	assert.Equal(t, "TWO", first.Code)
	assert.Equal(t, "THREE", second.Code)

	s.Close()
	s.Close()
	s.Send(LobbyCreatedEvent{Code: "LATE"})
	assert.Empty(t, s.Events())
}

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry()
	r.Register(NewChannelSession("a", "alice", 1))
	r.Register(NewChannelSession("b", "bob", 1))
	assert.Equal(t, 2, r.Count())

	s, ok := r.Get("b")
	require.True(t, ok)
	assert.Equal(t, "bob", s.Name())

	r.Unregister("b")
	_, ok = r.Get("b")
	assert.False(t, ok)
}

func TestLobbyToMatchAndForfeit(t *testing.T) {
	c, sessions := testCoordinator(t)
	saver := &recordingSaver{}
	c.SetResultSaver(saver)

	host := NewChannelSession("host", "alice", 64)
	guest := NewChannelSession("guest", "bob", 64)
	sessions.Register(host)
	sessions.Register(guest)

	c.Send(CreateLobbyMsg{SessionID: host.ID()})
	created := waitFor[LobbyCreatedEvent](t, host)
	require.Len(t, created.Code, 6)

	c.Send(JoinLobbyMsg{SessionID: guest.ID(), Code: " " + created.Code + " "})
	joined := waitFor[LobbyJoinedEvent](t, guest)
	assert.Equal(t, Player2, joined.Side)
	assert.Equal(t, "alice", joined.Opponent)

	started := waitFor[MatchStartedEvent](t, host)
	assert.Equal(t, Player1, started.Side)
	assert.Equal(t, "bob", started.Opponent)
	assert.Equal(t, 1, c.MatchCount())
	assert.Equal(t, 0, c.LobbyCount())
	_, ok := c.GetMatch(started.MatchID)
	assert.True(t, ok)

	c.Send(PlayerInputMsg{MatchID: started.MatchID, Player: Player1, Input: core.NewInputFrame(core.ActionHardDrop)})
	snap := waitFor[SnapshotEvent](t, guest)
	assert.Equal(t, [2]string{"alice", "bob"}, snap.View.Names)

	c.Send(LeaveMatchMsg{SessionID: host.ID(), MatchID: started.MatchID})
	ended := waitFor[MatchEndedEvent](t, guest)
	assert.Equal(t, MatchEndReasonDisconnect, ended.Reason)
	assert.Equal(t, Player2, ended.Winner)

	require.Eventually(t, func() bool { return len(saver.saved()) == 1 }, 2*time.Second, 10*time.Millisecond)
	res := saver.saved()[0]
	assert.Equal(t, ModeVersus, res.Mode)
	assert.Equal(t, "guest", res.WinnerSession)
	assert.Equal(t, "disconnect", res.EndReason)
	assert.Equal(t, 0, c.MatchCount())
}

func TestJoinErrors(t *testing.T) {
	c, sessions := testCoordinator(t)
	host := NewChannelSession("host", "", 16)
	sessions.Register(host)

	c.Send(JoinLobbyMsg{SessionID: host.ID(), Code: "NOPE00"})
	assert.Equal(t, "Lobby not found", waitFor[LobbyErrorEvent](t, host).Message)

	c.Send(CreateLobbyMsg{SessionID: host.ID()})
	created := waitFor[LobbyCreatedEvent](t, host)

	c.Send(CreateLobbyMsg{SessionID: host.ID()})
	assert.Equal(t, "Already in a lobby", waitFor[LobbyErrorEvent](t, host).Message)

	c.Send(CancelLobbyMsg{SessionID: host.ID(), Code: created.Code})
	require.Eventually(t, func() bool { return c.LobbyCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHostDisconnectClosesLobby(t *testing.T) {
	c, sessions := testCoordinator(t)
	host := NewChannelSession("host", "", 16)
	sessions.Register(host)

	c.Send(CreateLobbyMsg{SessionID: host.ID()})
	created := waitFor[LobbyCreatedEvent](t, host)

	c.Send(SessionDisconnectedMsg{SessionID: host.ID()})
	require.Eventually(t, func() bool {
		_, ok := c.GetLobby(created.Code)
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestExpiredLobbiesAreRemoved(t *testing.T) {
	cfg := DefaultCoordinatorConfig()
	cfg.LobbyTimeout = time.Minute
	sessions := NewSessionRegistry()
	c := NewCoordinator(cfg, sessions, quietLogger())

	host := NewChannelSession("host", "", 16)
	sessions.Register(host)
	c.handleCreateLobby(CreateLobbyMsg{SessionID: host.ID()})
	require.Equal(t, 1, c.LobbyCount())

	c.cleanupExpiredLobbies(time.Now().Add(30 * time.Second))
	assert.Equal(t, 1, c.LobbyCount())

	c.cleanupExpiredLobbies(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, c.LobbyCount())
	waitFor[LobbyCreatedEvent](t, host)
	assert.Equal(t, "Lobby expired", waitFor[LobbyErrorEvent](t, host).Message)
}

func newTestMatch(garbage bool) *OnlineMatch {
	engine := tetris.DefaultConfig()
	engine.Seed = 1
	return NewOnlineMatch("m1", "ABCDEF",
		MatchConfig{Engine: engine, Garbage: garbage},
		NewChannelSession("p1", "", 8), NewChannelSession("p2", "", 8),
		quietLogger())
}

func lines(n int) []tetris.GarbageLine {
	out := make([]tetris.GarbageLine, n)
	for i := range out {
		out[i] = tetris.GarbageLine{true, false, true}
	}
	return out
}

func TestGarbageIsCountedPerSender(t *testing.T) {
	m := newTestMatch(true)

	m.onEvent(0, tetris.Event{Type: tetris.EventLinesCleared, Lines: 3, Garbage: lines(3)})
	m.onEvent(0, tetris.Event{Type: tetris.EventLinesCleared, Lines: 1})
	m.onEvent(1, tetris.Event{Type: tetris.EventLinesCleared, Lines: 2, TSpin: true, Garbage: lines(2)})
	m.onEvent(1, tetris.Event{Type: tetris.EventLocked})

	assert.Equal(t, [2]int{3, 2}, m.View().Sent, "a T-spin sends the same lines")
}

func TestGarbageDisabled(t *testing.T) {
	m := newTestMatch(false)
	m.onEvent(0, tetris.Event{Type: tetris.EventLinesCleared, Lines: 4, Garbage: lines(4)})
	assert.Equal(t, [2]int{0, 0}, m.View().Sent)
}

func TestAttackOnlyForMultiLineClears(t *testing.T) {
	assert.Nil(t, attack(tetris.Event{Type: tetris.EventLinesCleared, Lines: 1, Garbage: lines(1)}))
	assert.Nil(t, attack(tetris.Event{Type: tetris.EventGarbage, Lines: 2, Garbage: lines(2)}))
	assert.Len(t, attack(tetris.Event{Type: tetris.EventLinesCleared, Lines: 2, Garbage: lines(2)}), 2)
}

func TestCompletedPicksSurvivor(t *testing.T) {
	m := newTestMatch(true)

	_, over := m.completed()
	assert.False(t, over)

	m.latest[0].GameOver = true
	res, over := m.completed()
	require.True(t, over)
	assert.Equal(t, Player2, res.Winner)
	assert.Equal(t, MatchEndReasonCompleted, res.Reason)

	m.latest[1].GameOver = true
	m.latest[0].Score = 500
	m.latest[1].Score = 200
	res, _ = m.completed()
	assert.Equal(t, Player1, res.Winner)

	m.latest[1].Score = 500
	res, _ = m.completed()
	assert.Equal(t, PlayerID(0), res.Winner)
}

func TestMatchEndsWhenBoardTopsOut(t *testing.T) {
	engine := tetris.DefaultConfig()
	engine.Seed = 3
	engine.TickRate = 500
	engine.LineClearTicks = 0
	p1 := NewChannelSession("p1", "", 64)
	p2 := NewChannelSession("p2", "", 64)
	m := NewOnlineMatch("m2", "ABCDEF", MatchConfig{Engine: engine, Garbage: true}, p1, p2, quietLogger())

	results := make(chan MatchResult, 1)
	go m.Run(func(r MatchResult) { results <- r })

	// Stack player one's board until it tops out.
	deadline := time.After(5 * time.Second)
	for {
		m.SendInput(Player1, core.NewInputFrame(core.ActionHardDrop))
		select {
		case r := <-results:
			assert.Equal(t, MatchEndReasonCompleted, r.Reason)
			assert.Equal(t, Player2, r.Winner)
			return
		case <-deadline:
			m.Stop()
			t.Fatal("match did not finish")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestGenerateJoinCode(t *testing.T) {
	seen := map[string]bool{}
	for range 50 {
		code := generateJoinCode()
		require.Len(t, code, 6)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 40)
}

func TestMatchEndReasonStrings(t *testing.T) {
	assert.Equal(t, "completed", MatchEndReasonCompleted.String())
	assert.Equal(t, "Opponent disconnected", MatchEndReasonDisconnect.Message())
}
