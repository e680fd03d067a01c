package tetris

// MaxPendingGarbage caps the lines an engine will queue from an opponent.
// Lines beyond the cap are dropped.
const MaxPendingGarbage = 20

// GarbageFor returns how many lines a clear sends to the opponent.
// Singles send nothing; two or more full rows send one line each.
func GarbageFor(lines int) int {
	if lines < 2 {
		return 0
	}
	return lines
}

// QueueGarbage schedules lines to rise from the bottom before the next
// spawn. Lines queued after game over are ignored.
func (e *Engine) QueueGarbage(lines []GarbageLine) {
	if e.phase == PhaseGameOver {
		return
	}
	for _, line := range lines {
		if len(e.pendingGarbage) >= MaxPendingGarbage {
			break
		}
		e.pendingGarbage = append(e.pendingGarbage, append(GarbageLine(nil), line...))
	}
}

// PendingGarbage is the number of queued garbage lines.
func (e *Engine) PendingGarbage() int {
	return len(e.pendingGarbage)
}

// applyGarbage raises the queued lines in arrival order. It reports false
// when the stack was pushed off the top.
func (e *Engine) applyGarbage() bool {
	if len(e.pendingGarbage) == 0 {
		return true
	}
	lines := e.pendingGarbage
	e.pendingGarbage = nil
	e.emit(Event{Type: EventGarbage, Lines: len(lines)})
	return !e.board.AddGarbageLines(lines)
}

// captureGarbage records the rows p completed as they looked before p
// locked. Only called when the clear sends garbage.
func (e *Engine) captureGarbage(p Piece, full []int) []GarbageLine {
	own := make(map[Point]bool, len(p.Cells()))
	for _, c := range p.Cells() {
		own[c] = true
	}
	out := make([]GarbageLine, 0, len(full))
	for _, row := range full {
		line := make(GarbageLine, e.board.Width())
		for col := range line {
			line[col] = e.board.IsOccupied(row, col) && !own[Point{Row: row, Col: col}]
		}
		out = append(out, line)
	}
	return out
}
