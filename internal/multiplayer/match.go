package multiplayer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/solo"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// MatchResult is the outcome of a finished match.
type MatchResult struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID
	Score1  int
	Score2  int
	Lines1  int
	Lines2  int
	Ticks   uint64
}

// MatchConfig configures a versus match.
type MatchConfig struct {
	Engine  tetris.Config
	Garbage bool // send garbage rows for multi-line clears
}

// OnlineMatch is an authoritative versus game. Each player's engine runs
// in its own tetris.Runner; line clears become garbage on the other
// board and the match broadcasts both boards to the two sessions.
type OnlineMatch struct {
	id     MatchID
	code   string
	logger *log.Logger

	sessions [2]SessionHandle
	runners  [2]*tetris.Runner
	sent     [2]atomic.Int64
	garbage  bool
	tickRate int

	// latest is owned by the Run goroutine.
	latest [2]tetris.Snapshot

	disconnectChan chan SessionID
	done           chan struct{}
	doneOnce       sync.Once
}

// NewOnlineMatch creates a match. Both engines share cfg.Engine,
// including the seed, so the players get the same piece sequence.
func NewOnlineMatch(
	id MatchID,
	code string,
	cfg MatchConfig,
	p1Session, p2Session SessionHandle,
	logger *log.Logger,
) *OnlineMatch {
	if logger == nil {
		logger = log.Default()
	}
	m := &OnlineMatch{
		id:             id,
		code:           code,
		logger:         logger.With("match", id),
		sessions:       [2]SessionHandle{p1Session, p2Session},
		garbage:        cfg.Garbage,
		tickRate:       max(cfg.Engine.TickRate, 1),
		disconnectChan: make(chan SessionID, 2),
		done:           make(chan struct{}),
	}
	for i := range m.runners {
		side := i
		e := tetris.New(cfg.Engine)
		m.latest[i] = e.Snapshot()
		m.runners[i] = tetris.NewRunner(e,
			tetris.WithLogger(m.logger.With("player", PlayerID(side+1))),
			tetris.WithEventHandler(func(ev tetris.Event) { m.onEvent(side, ev) }),
		)
	}
	return m
}

// onEvent runs on the runner goroutine of side.
func (m *OnlineMatch) onEvent(side int, ev tetris.Event) {
	if !m.garbage {
		return
	}
	lines := attack(ev)
	if len(lines) == 0 {
		return
	}
	m.sent[side].Add(int64(len(lines)))
	m.runners[1-side].SendGarbage(lines)
}

// attack returns the garbage a clear sends to the opponent: the rows the
// clear completed, as they were before the piece locked.
func attack(ev tetris.Event) []tetris.GarbageLine {
	if ev.Type != tetris.EventLinesCleared || tetris.GarbageFor(len(ev.Garbage)) == 0 {
		return nil
	}
	return ev.Garbage
}

// ID returns the match identifier.
func (m *OnlineMatch) ID() MatchID {
	return m.id
}

// Code returns the join code the match was created from.
func (m *OnlineMatch) Code() string {
	return m.code
}

// Session returns the session playing a side.
func (m *OnlineMatch) Session(p PlayerID) SessionHandle {
	return m.sessions[sideIndex(p)]
}

// SendInput forwards a frame of input to the player's runner. It never
// blocks; commands are dropped if the runner is backed up.
func (m *OnlineMatch) SendInput(player PlayerID, input core.InputFrame) {
	r := m.runners[sideIndex(player)]
	for _, a := range input.Actions() {
		if act := solo.EngineAction(a); act != tetris.ActionNone {
			r.Submit(act)
		}
	}
}

// PlayerDisconnected ends the match in favor of the other player.
func (m *OnlineMatch) PlayerDisconnected(sessionID SessionID) {
	select {
	case m.disconnectChan <- sessionID:
	default:
	}
}

// Run plays the match until one board tops out, a player leaves or Stop
// is called. onComplete is not called after Stop.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer m.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	var updates [2]<-chan tetris.Update
	for i, r := range m.runners {
		updates[i] = r.Subscribe(1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Run(ctx) //nolint:errcheck // cancellation is the normal exit
		}()
	}

	broadcast := time.NewTicker(time.Second / time.Duration(m.tickRate))
	defer broadcast.Stop()

	go m.monitorSessions()
	m.logger.Info("match started", "p1", m.sessions[0].Name(), "p2", m.sessions[1].Name())

	dirty := false
	finish := func(res MatchResult) {
		m.broadcast()
		m.logger.Info("match ended", "reason", res.Reason, "winner", res.Winner,
			"score1", res.Score1, "score2", res.Score2)
		if onComplete != nil {
			onComplete(res)
		}
	}

	for {
		select {
		case u, ok := <-updates[0]:
			if !ok {
				updates[0] = nil
				continue
			}
			m.latest[0] = u.Snapshot
			dirty = true
		case u, ok := <-updates[1]:
			if !ok {
				updates[1] = nil
				continue
			}
			m.latest[1] = u.Snapshot
			dirty = true
		case <-broadcast.C:
			if dirty {
				m.broadcast()
				dirty = false
			}
		case sessionID := <-m.disconnectChan:
			finish(m.disconnectResult(sessionID))
			return
		case <-m.done:
			return
		}

		if res, over := m.completed(); over {
			finish(res)
			return
		}
	}
}

// completed reports a finished match once a board has topped out.
func (m *OnlineMatch) completed() (MatchResult, bool) {
	winner, over := decide(m.latest)
	if !over {
		return MatchResult{}, false
	}
	return m.result(MatchEndReasonCompleted, winner), true
}

// decide reports whether a board has topped out and who won. When both
// end on the same update the higher score wins; a tie has no winner.
func decide(boards [2]tetris.Snapshot) (PlayerID, bool) {
	over1, over2 := boards[0].GameOver, boards[1].GameOver
	switch {
	case over1 && over2:
		switch {
		case boards[0].Score > boards[1].Score:
			return Player1, true
		case boards[1].Score > boards[0].Score:
			return Player2, true
		}
		return 0, true
	case over1:
		return Player2, true
	case over2:
		return Player1, true
	}
	return 0, false
}

func (m *OnlineMatch) disconnectResult(sessionID SessionID) MatchResult {
	winner := Player1
	if sessionID == m.sessions[0].ID() {
		winner = Player2
	}
	return m.result(MatchEndReasonDisconnect, winner)
}

func (m *OnlineMatch) result(reason MatchEndReason, winner PlayerID) MatchResult {
	return MatchResult{
		MatchID: m.id,
		Reason:  reason,
		Winner:  winner,
		Score1:  m.latest[0].Score,
		Score2:  m.latest[1].Score,
		Lines1:  m.latest[0].Lines,
		Lines2:  m.latest[1].Lines,
		Ticks:   max(m.latest[0].Tick, m.latest[1].Tick),
	}
}

// View returns the current combined view. Only valid from the Run
// goroutine or after Run returned.
func (m *OnlineMatch) View() VersusView {
	return VersusView{
		Boards: m.latest,
		Sent:   [2]int{int(m.sent[0].Load()), int(m.sent[1].Load())},
		Names:  [2]string{m.sessions[0].Name(), m.sessions[1].Name()},
	}
}

func (m *OnlineMatch) broadcast() {
	view := m.View()
	evt := SnapshotEvent{
		MatchID: m.id,
		Tick:    max(view.Boards[0].Tick, view.Boards[1].Tick),
		View:    view,
	}
	for _, s := range m.sessions {
		s.Send(evt)
	}
}

func (m *OnlineMatch) monitorSessions() {
	var id SessionID
	select {
	case <-m.sessions[0].Done():
		id = m.sessions[0].ID()
	case <-m.sessions[1].Done():
		id = m.sessions[1].ID()
	case <-m.done:
		return
	}
	select {
	case m.disconnectChan <- id:
	default:
	}
}

// Stop ends the match without a result.
func (m *OnlineMatch) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}
