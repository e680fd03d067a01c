package multiplayer

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/solo"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// ModeLocal is the mode name of same-keyboard versus.
const ModeLocal = "local"

// LocalMatch is versus on one keyboard. Both engines are stepped on the
// caller's goroutine once per frame, so no runner is involved; garbage
// and the winner follow the same rules as OnlineMatch.
type LocalMatch struct {
	cfg     MatchConfig
	names   [2]string
	logger  *log.Logger
	engines [2]*tetris.Engine
	sent    [2]int
	paused  bool
	result  MatchResult
	over    bool
}

// NewLocalMatch starts a local match. Both engines share cfg.Engine,
// seed included.
func NewLocalMatch(cfg MatchConfig, names [2]string, logger *log.Logger) *LocalMatch {
	if logger == nil {
		logger = log.Default()
	}
	m := &LocalMatch{cfg: cfg, names: names, logger: logger.With("match", ModeLocal)}
	m.Reset(cfg.Engine.Seed)
	return m
}

// Reset starts a new match on seed.
func (m *LocalMatch) Reset(seed int64) {
	m.cfg.Engine.Seed = seed
	for i := range m.engines {
		m.engines[i] = tetris.New(m.cfg.Engine)
	}
	m.sent = [2]int{}
	m.paused = false
	m.over = false
	m.result = MatchResult{}
	m.logger.Debug("local match started", "seed", seed)
}

// Step applies each player's actions, advances both boards one tick and
// exchanges garbage. ActionPause in player one's frame toggles the
// pause. It returns the result once a board has topped out.
func (m *LocalMatch) Step(in core.MultiInputFrame) (MatchResult, bool) {
	if m.over {
		return m.result, true
	}
	if in.Player1().Has(core.ActionPause) {
		m.paused = !m.paused
	}
	if m.paused {
		return MatchResult{}, false
	}

	for i, id := range []PlayerID{Player1, Player2} {
		e := m.engines[i]
		for _, a := range in.Player(id).Actions() {
			if act := solo.EngineAction(a); act != tetris.ActionNone {
				e.OnInput(act)
			}
		}
		e.OnTick()
	}
	m.exchange()

	boards := m.boards()
	winner, over := decide(boards)
	if !over {
		return MatchResult{}, false
	}
	m.over = true
	m.result = MatchResult{
		MatchID: ModeLocal,
		Reason:  MatchEndReasonCompleted,
		Winner:  winner,
		Score1:  boards[0].Score,
		Score2:  boards[1].Score,
		Lines1:  boards[0].Lines,
		Lines2:  boards[1].Lines,
		Ticks:   max(boards[0].Tick, boards[1].Tick),
	}
	m.logger.Debug("local match ended", "winner", winner, "score1", m.result.Score1, "score2", m.result.Score2)
	return m.result, true
}

// exchange drains both engines' events and queues the attacks on the
// other board.
func (m *LocalMatch) exchange() {
	for side, e := range m.engines {
		for _, ev := range e.Events() {
			lines := attack(ev)
			if !m.cfg.Garbage || len(lines) == 0 {
				continue
			}
			m.sent[side] += len(lines)
			m.engines[1-side].QueueGarbage(lines)
		}
	}
}

func (m *LocalMatch) boards() [2]tetris.Snapshot {
	return [2]tetris.Snapshot{m.engines[0].Snapshot(), m.engines[1].Snapshot()}
}

// View returns both boards with attack totals.
func (m *LocalMatch) View() VersusView {
	return VersusView{Boards: m.boards(), Sent: m.sent, Names: m.names}
}

// Paused reports whether the match is paused.
func (m *LocalMatch) Paused() bool { return m.paused }

// Result returns the outcome once the match is over.
func (m *LocalMatch) Result() (MatchResult, bool) { return m.result, m.over }

// Engine exposes one player's engine for inspection.
func (m *LocalMatch) Engine(p PlayerID) *tetris.Engine {
	return m.engines[sideIndex(p)]
}
