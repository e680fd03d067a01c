package solo

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

func testRuntime(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: seed}
}

func TestModesRegistered(t *testing.T) {
	for _, id := range []string{"marathon", "items", "sprint"} {
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q): %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("ID() = %q, want %q", g.ID(), id)
		}
	}
}

func TestDeterminism(t *testing.T) {
	g1 := New(config.ModeMarathon)
	g1.Reset(testRuntime(12345))
	g2 := New(config.ModeMarathon)
	g2.Reset(testRuntime(12345))

	for i := range 600 {
		in := core.NewInputFrame()
		switch i % 40 {
		case 5:
			in.Set(core.ActionLeft)
		case 10:
			in.Set(core.ActionRotateCW)
		case 30:
			in.Set(core.ActionHardDrop)
		}
		g1.Step(in)
		g2.Step(in)
	}

	s1, s2 := g1.Snapshot(), g2.Snapshot()
	if s1.Tick != s2.Tick || s1.Score != s2.Score || s1.Lines != s2.Lines {
		t.Fatalf("snapshots diverged: %+v vs %+v", s1, s2)
	}
	for i := range s1.Cells {
		if s1.Cells[i] != s2.Cells[i] {
			t.Fatalf("board cell %d differs: %v vs %v", i, s1.Cells[i], s2.Cells[i])
		}
	}
}

func TestHardDropScores(t *testing.T) {
	g := New(config.ModeMarathon)
	g.Reset(testRuntime(1))

	g.Step(core.NewInputFrame(core.ActionHardDrop))

	if g.State().Score == 0 {
		t.Error("hard drop should award points")
	}
	if g.Snapshot().Phase == tetris.PhaseGameOver {
		t.Error("game should continue after one drop")
	}
}

func TestPauseFreezesGame(t *testing.T) {
	g := New(config.ModeMarathon)
	g.Reset(testRuntime(7))

	g.Step(core.NewInputFrame(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("expected paused")
	}
	before := g.Snapshot()
	for range 120 {
		g.Step(core.NewInputFrame(core.ActionHardDrop))
	}
	after := g.Snapshot()
	if before.Tick != after.Tick || before.Score != after.Score {
		t.Error("paused game should not advance")
	}

	g.Step(core.NewInputFrame(core.ActionPause))
	if g.State().Paused {
		t.Error("expected unpaused")
	}
}

func TestGameOverAndRestart(t *testing.T) {
	g := New(config.ModeMarathon)
	g.Reset(testRuntime(3))

	for i := 0; i < 500 && !g.State().GameOver; i++ {
		g.Step(core.NewInputFrame(core.ActionHardDrop))
	}
	if !g.State().GameOver {
		t.Fatal("stacking hard drops should top out")
	}

	g.Step(core.NewInputFrame(core.ActionHardDrop))
	if !g.State().GameOver {
		t.Error("input after game over should be ignored")
	}

	g.Step(core.NewInputFrame(core.ActionRestart))
	st := g.State()
	if st.GameOver || st.Score != 0 || st.Lines != 0 {
		t.Errorf("restart should start a fresh game, got %+v", st)
	}
}

func TestSprintEndsOnTime(t *testing.T) {
	g := New(config.ModeSprint)
	g.Reset(testRuntime(5))

	limit := g.cfg.Sprint.Duration
	ticks := int(limit.Seconds())*g.cfg.Timing.TickRate + 1
	for i := 0; i < ticks && !g.State().GameOver; i++ {
		g.Step(core.NewInputFrame())
	}
	if s := g.Snapshot(); s.Reason != tetris.ReasonTimeUp {
		t.Errorf("Reason = %v, want %v", s.Reason, tetris.ReasonTimeUp)
	}
	if !g.State().GameOver {
		t.Error("sprint should be over after its time limit")
	}
}

func TestTooSmallScreen(t *testing.T) {
	g := New(config.ModeMarathon)
	g.Reset(core.RuntimeConfig{ScreenW: 20, ScreenH: 10, Seed: 1})

	g.Step(core.NewInputFrame())
	if g.Snapshot().Tick != 0 {
		t.Error("engine should not run on a too small screen")
	}

	scr := core.NewScreen(20, 10)
	g.Render(scr)
	if !strings.Contains(scr.String(), "too small") {
		t.Error("expected a resize hint")
	}
}

func TestRenderShowsPanels(t *testing.T) {
	g := New(config.ModeMarathon)
	g.Reset(testRuntime(9))
	g.Step(core.NewInputFrame())

	scr := core.NewScreen(80, 24)
	g.Render(scr)
	out := scr.String()
	for _, want := range []string{"HOLD", "NEXT", "Score: 0", "LEVEL"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}

	s := g.Snapshot()
	active := 0
	for _, p := range s.Active {
		if p.Row >= 0 {
			active++
		}
	}
	colored := 0
	for y := range scr.Height() {
		for x := range scr.Width() {
			if c := scr.GetCell(x, y); c.Rune == '█' && c.Color == KindColor(s.ActiveKind) {
				colored++
			}
		}
	}
	if colored < active*cellWidth {
		t.Errorf("expected at least %d colored cells for the active piece, got %d", active*cellWidth, colored)
	}
}

func TestCallout(t *testing.T) {
	tests := []struct {
		ev   tetris.Event
		want string
	}{
		{tetris.Event{Type: tetris.EventLinesCleared, Lines: 1}, ""},
		{tetris.Event{Type: tetris.EventLinesCleared, Lines: 4}, "TETRIS!"},
		{tetris.Event{Type: tetris.EventLinesCleared, Lines: 2, TSpin: true}, "T-SPIN DOUBLE"},
		{tetris.Event{Type: tetris.EventLevelUp, Level: 3}, "LEVEL 3"},
		{tetris.Event{Type: tetris.EventLocked}, ""},
		{tetris.Event{Type: tetris.EventTSpin, Kind: tetris.KindT}, "T-SPIN"},
		{tetris.Event{Type: tetris.EventTSpin, Kind: tetris.KindT, Lines: 2}, ""},
		{tetris.Event{Type: tetris.EventDetonated, Kind: tetris.KindBomb, Lines: 12}, "BOOM"},
		{tetris.Event{Type: tetris.EventCrushed, Kind: tetris.KindWeight}, "CRUSH"},
	}
	for _, tt := range tests {
		if got := callout(tt.ev); got != tt.want {
			t.Errorf("callout(%+v) = %q, want %q", tt.ev, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	g := New(config.ModeSprint)
	g.Reset(testRuntime(1))
	if got := formatClock(g.Snapshot().Remaining); got != "2:00" {
		t.Errorf("formatClock = %q, want 2:00", got)
	}
}
