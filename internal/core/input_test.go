package core

import "testing"

func TestMultiInputFrameRoutesPerPlayer(t *testing.T) {
	m := NewMultiInputFrame()
	if !m.Empty() {
		t.Fatal("new frame should be empty")
	}

	m.Add(Player1, ActionLeft)
	m.Add(Player2, ActionRotateCW)
	m.Add(Player2, ActionHardDrop)

	if got := m.Player1().Actions(); len(got) != 1 || got[0] != ActionLeft {
		t.Errorf("Player1 = %v, want [Left]", got)
	}
	got := m.Player2().Actions()
	if len(got) != 2 || got[0] != ActionRotateCW || got[1] != ActionHardDrop {
		t.Errorf("Player2 = %v, want [RotateCW HardDrop]", got)
	}

	clone := m.Clone()
	m.Clear()
	if !m.Empty() {
		t.Error("Clear should empty both players")
	}
	if clone.Player2().Empty() {
		t.Error("Clone should not share storage")
	}
}

func TestMultiInputFrameZeroValue(t *testing.T) {
	var m MultiInputFrame
	if !m.Player1().Empty() {
		t.Error("zero frame has no input")
	}
	m.Add(Player2, ActionHold)
	if !m.Player2().Has(ActionHold) {
		t.Error("Add on zero value should allocate")
	}
}
