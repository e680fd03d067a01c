package multiplayer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

func newLocalMatch(garbage bool) *LocalMatch {
	engine := tetris.DefaultConfig()
	engine.Seed = 7
	engine.LockDelayTicks = 0
	engine.LineClearTicks = 0
	return NewLocalMatch(MatchConfig{Engine: engine, Garbage: garbage}, [2]string{"left", "right"}, quietLogger())
}

func press(id PlayerID, actions ...core.Action) core.MultiInputFrame {
	in := core.NewMultiInputFrame()
	for _, a := range actions {
		in.Add(id, a)
	}
	return in
}

// readyDoubleClear drops pieces until an O is falling, then fills the
// two bottom rows around its landing spot so a hard drop clears both.
func readyDoubleClear(t *testing.T, m *LocalMatch, id PlayerID) {
	t.Helper()
	e := m.Engine(id)
	for i := 0; ; i++ {
		require.Less(t, i, 14, "a bag always deals an O")
		if p, ok := e.Active(); ok && p.Kind == tetris.KindO {
			break
		}
		m.Step(press(id, core.ActionHardDrop))
		e.Board().Reset()
	}
	p, _ := e.Active()
	b := e.Board()
	ghost := map[tetris.Point]bool{}
	for _, c := range tetris.Ghost(b, p).Cells() {
		ghost[c] = true
	}
	bottom := b.TotalRows() - 1
	rows := []tetris.GarbageLine{make(tetris.GarbageLine, b.Width()), make(tetris.GarbageLine, b.Width())}
	for i, row := range []int{bottom - 1, bottom} {
		for col := range rows[i] {
			rows[i][col] = !ghost[tetris.Point{Row: row, Col: col}]
		}
	}
	require.False(t, b.AddGarbageLines(rows))
}

func TestLocalMatchSharesPieceSequence(t *testing.T) {
	m := newLocalMatch(true)
	for i := 0; i < 5; i++ {
		a, _ := m.Engine(Player1).Active()
		b, _ := m.Engine(Player2).Active()
		require.Equal(t, a.Kind, b.Kind, "piece %d", i)
		m.Step(press(Player1, core.ActionHardDrop))
		m.Step(press(Player2, core.ActionHardDrop))
	}
}

func TestLocalMatchExchangesGarbage(t *testing.T) {
	m := newLocalMatch(true)
	readyDoubleClear(t, m, Player1)

	_, over := m.Step(press(Player1, core.ActionHardDrop))

	require.False(t, over)
	view := m.View()
	assert.Equal(t, [2]int{2, 0}, view.Sent)
	assert.Equal(t, 2, view.Boards[1].PendingGarbage)
	assert.Equal(t, 2, view.Boards[0].Lines)
	assert.Zero(t, view.Boards[0].PendingGarbage)
	assert.Equal(t, [2]string{"left", "right"}, view.Names)
}

func TestLocalMatchGarbageDisabled(t *testing.T) {
	m := newLocalMatch(false)
	readyDoubleClear(t, m, Player2)

	m.Step(press(Player2, core.ActionHardDrop))

	assert.Equal(t, [2]int{0, 0}, m.View().Sent)
	assert.Zero(t, m.Engine(Player1).PendingGarbage())
}

func TestLocalMatchPause(t *testing.T) {
	m := newLocalMatch(true)
	tick := m.Engine(Player1).Tick()

	m.Step(press(Player1, core.ActionPause))
	require.True(t, m.Paused())
	m.Step(press(Player2, core.ActionHardDrop))
	assert.Equal(t, tick, m.Engine(Player1).Tick())
	assert.Equal(t, tick, m.Engine(Player2).Tick())

	m.Step(press(Player1, core.ActionPause))
	assert.False(t, m.Paused())
	assert.Equal(t, tick+1, m.Engine(Player2).Tick())
}

func TestLocalMatchEndsWhenBoardTopsOut(t *testing.T) {
	m := newLocalMatch(true)

	var res MatchResult
	over := false
	for i := 0; i < 500 && !over; i++ {
		res, over = m.Step(press(Player1, core.ActionHardDrop))
	}

	require.True(t, over)
	assert.Equal(t, Player2, res.Winner)
	assert.Equal(t, MatchEndReasonCompleted, res.Reason)
	got, done := m.Result()
	assert.True(t, done)
	assert.Equal(t, res, got)

	m.Reset(99)
	_, done = m.Result()
	assert.False(t, done)
	assert.False(t, m.Engine(Player1).GameOver())
}
