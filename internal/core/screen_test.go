package core

import (
	"strings"
	"testing"
)

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(12, 4)
	if s.Width() != 12 || s.Height() != 4 {
		t.Fatalf("size = %dx%d, want 12x4", s.Width(), s.Height())
	}
	for y := 0; y < 4; y++ {
		if s.Row(y) != strings.Repeat(" ", 12) {
			t.Errorf("row %d = %q, want blanks", y, s.Row(y))
		}
	}
}

func TestScreenSetColored(t *testing.T) {
	s := NewScreen(5, 5)
	s.SetColored(1, 2, '█', ColorCyan)

	c := s.GetCell(1, 2)
	if c.Rune != '█' || c.Color != ColorCyan {
		t.Errorf("GetCell = %+v, want cyan block", c)
	}

	s.Set(1, 2, 'x')
	if c := s.GetCell(1, 2); c.Color != ColorDefault {
		t.Errorf("Set should reset color, got %v", c.Color)
	}
}

func TestScreenOutOfBounds(t *testing.T) {
	s := NewScreen(3, 3)
	s.Set(-1, 0, 'A')
	s.Set(3, 0, 'A')
	s.Set(0, 3, 'A')
	if s.Get(-1, 0) != ' ' || s.Get(0, 9) != ' ' {
		t.Error("out of bounds Get should return space")
	}
	if strings.ContainsRune(s.String(), 'A') {
		t.Error("out of bounds Set leaked into the buffer")
	}
}

func TestScreenDrawTextClips(t *testing.T) {
	s := NewScreen(6, 2)
	s.DrawText(3, 0, "Hello")
	if s.Row(0) != "   Hel" {
		t.Errorf("row 0 = %q", s.Row(0))
	}
	s.DrawTextColored(0, 1, "ab", ColorRed)
	if s.GetCell(1, 1).Color != ColorRed {
		t.Error("DrawTextColored did not color the text")
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(6, 4)
	s.DrawBox(NewRect(0, 0, 6, 4))
	want := "┌────┐\n│    │\n│    │\n└────┘"
	if s.String() != want {
		t.Errorf("box =\n%s\nwant\n%s", s.String(), want)
	}
}

func TestScreenFillAndClear(t *testing.T) {
	s := NewScreen(3, 2)
	s.Fill('#')
	if s.String() != "###\n###" {
		t.Fatalf("fill = %q", s.String())
	}
	s.Clear()
	if s.String() != "   \n   " {
		t.Errorf("clear = %q", s.String())
	}
}

func TestScreenResizeKeepsContent(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawText(0, 0, "Hello")

	s.Resize(4, 2)
	if s.Row(0) != "Hell" {
		t.Errorf("after shrink row 0 = %q", s.Row(0))
	}

	s.Resize(8, 3)
	if !strings.HasPrefix(s.Row(0), "Hell ") {
		t.Errorf("after grow row 0 = %q", s.Row(0))
	}
	if s.Row(2) != strings.Repeat(" ", 8) {
		t.Errorf("new rows should be blank, got %q", s.Row(2))
	}
}

func TestScreenLines(t *testing.T) {
	s := NewScreen(5, 5)
	s.DrawHLine(0, 1, 3, '-')
	s.DrawVLine(4, 0, 2, '|')
	s.DrawRect(NewRect(0, 3, 2, 2), '#')
	want := "    |\n--- |\n     \n##   \n##   "
	if s.String() != want {
		t.Errorf("got\n%s\nwant\n%s", s.String(), want)
	}
}

func TestInputFrameKeepsOrder(t *testing.T) {
	f := NewInputFrame(ActionRotateCW, ActionNone, ActionHardDrop)
	got := f.Actions()
	if len(got) != 2 || got[0] != ActionRotateCW || got[1] != ActionHardDrop {
		t.Fatalf("Actions() = %v", got)
	}
	c := f.Clone()
	f.Clear()
	if !f.Empty() || c.Empty() {
		t.Error("Clone should be independent of Clear")
	}
	if !c.Has(ActionHardDrop) || c.Has(ActionHold) {
		t.Error("Has returned the wrong answer")
	}
}

func TestPlayerHelpers(t *testing.T) {
	if Player1.Opponent() != Player2 || Player2.String() != "P2" {
		t.Error("player helpers are wrong")
	}
}
