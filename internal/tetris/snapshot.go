package tetris

import "time"

// Preview is an upcoming or held piece.
type Preview struct {
	Kind Kind
	Item Item
}

// Snapshot is a read-only copy of everything a renderer or a remote
// viewer needs. Coordinates are relative to the visible area: row 0 is
// the top visible row and buffer rows are negative.
type Snapshot struct {
	Tick  uint64
	Phase Phase

	Width  int
	Height int
	Cells  []Cell // visible rows, row-major
	Items  []PlacedItem

	ActiveKind Kind
	Active     []Point
	ActiveItem PlacedItem
	Ghost      []Point

	Hold    Kind
	CanHold bool
	Next    []Preview

	Score      int
	Lines      int
	Level      int
	Difficulty Difficulty
	Interval   time.Duration
	Remaining  time.Duration

	ClearingRows   []int
	PendingGarbage int

	GameOver bool
	Reason   GameOverReason
}

// At returns the locked cell at a visible position.
func (s Snapshot) At(row, col int) Cell {
	if row < 0 || row >= s.Height || col < 0 || col >= s.Width {
		return CellEmpty
	}
	return s.Cells[row*s.Width+col]
}

// Clearing reports whether a visible row is flashing before removal.
func (s Snapshot) Clearing(row int) bool {
	for _, r := range s.ClearingRows {
		if r == row {
			return true
		}
	}
	return false
}

// Snapshot captures the current state.
func (e *Engine) Snapshot() Snapshot {
	b := e.board
	off := b.Buffer()
	s := Snapshot{
		Tick:           e.tick,
		Phase:          e.phase,
		Width:          b.Width(),
		Height:         b.Height(),
		Cells:          append([]Cell(nil), b.cells[off*b.Width():]...),
		Hold:           e.hold.Kind,
		CanHold:        e.canHold,
		Score:          e.scorer.Score(),
		Lines:          e.scorer.Lines(),
		Level:          e.scorer.Level(),
		Difficulty:     e.cfg.Difficulty,
		Interval:       e.DropInterval(),
		Remaining:      e.Remaining(),
		PendingGarbage: len(e.pendingGarbage),
		GameOver:       e.phase == PhaseGameOver,
		Reason:         e.reason,
	}
	for _, it := range b.PlacedItems() {
		if it.Row >= off {
			it.Row -= off
			s.Items = append(s.Items, it)
		}
	}
	for _, p := range e.queue.Peek(e.cfg.PreviewSize) {
		s.Next = append(s.Next, Preview{Kind: p.Kind, Item: p.Item})
	}
	for _, r := range e.clearRows {
		if r >= off {
			s.ClearingRows = append(s.ClearingRows, r-off)
		}
	}
	if p, ok := e.Active(); ok {
		s.ActiveKind = p.Kind
		s.Active = visible(p.Cells(), off)
		s.Ghost = visible(Ghost(b, p).Cells(), off)
		if at, ok := p.ItemCell(); ok {
			s.ActiveItem = PlacedItem{Row: at.Row - off, Col: at.Col, Item: p.Item}
		}
	}
	return s
}

func visible(cells []Point, off int) []Point {
	out := make([]Point, 0, len(cells))
	for _, c := range cells {
		out = append(out, Point{Row: c.Row - off, Col: c.Col})
	}
	return out
}
