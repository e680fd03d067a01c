package tetris

import (
	"errors"

	"github.com/kamstrup/intmap"
)

// Cell is the content of one board square.
type Cell uint8

// CellEmpty is an unoccupied square. Cells 1-7 carry the Kind that left
// them; CellGarbage marks rows received from an opponent.
const (
	CellEmpty   Cell = 0
	CellGarbage Cell = 8
)

// Kind returns the tetromino that produced the cell, or KindNone.
func (c Cell) Kind() Kind {
	if c >= CellGarbage {
		return KindNone
	}
	return Kind(c)
}

// Errors returned by Board.Lock. Both indicate a caller bug: the engine
// checks Fits before it locks.
var (
	ErrCellOccupied = errors.New("tetris: lock target cell is occupied")
	ErrOutOfBounds  = errors.New("tetris: lock target cell is out of bounds")
)

// Board is the playfield: Height visible rows below Buffer hidden rows,
// all Width columns wide. Row 0 is the top of the buffer zone.
type Board struct {
	width  int
	height int
	buffer int
	cells  []Cell
	items  *intmap.Map[int, Item]
}

// NewBoard creates an empty board.
func NewBoard(width, height, buffer int) *Board {
	b := &Board{
		width:  width,
		height: height,
		buffer: buffer,
		cells:  make([]Cell, width*(height+buffer)),
		items:  intmap.New[int, Item](8),
	}
	return b
}

// Width is the number of columns.
func (b *Board) Width() int { return b.width }

// Height is the number of visible rows.
func (b *Board) Height() int { return b.height }

// Buffer is the number of hidden rows above the visible area.
func (b *Board) Buffer() int { return b.buffer }

// TotalRows is Height plus Buffer.
func (b *Board) TotalRows() int { return b.height + b.buffer }

func (b *Board) key(row, col int) int { return row*b.width + col }

// InBounds reports whether (row, col) is on the board, buffer included.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.TotalRows() && col >= 0 && col < b.width
}

// At returns the cell at (row, col); out-of-bounds reads are empty.
func (b *Board) At(row, col int) Cell {
	if !b.InBounds(row, col) {
		return CellEmpty
	}
	return b.cells[b.key(row, col)]
}

// IsOccupied reports whether an in-bounds cell holds a mino.
func (b *Board) IsOccupied(row, col int) bool {
	return b.At(row, col) != CellEmpty
}

// blocked treats everything outside the board as solid.
func (b *Board) blocked(row, col int) bool {
	return !b.InBounds(row, col) || b.cells[b.key(row, col)] != CellEmpty
}

// Fits reports whether every mino of p is in bounds and on an empty cell.
func (b *Board) Fits(p Piece) bool {
	for _, c := range p.Cells() {
		if b.blocked(c.Row, c.Col) {
			return false
		}
	}
	return true
}

// Lock merges p into the board. Nothing is written unless every target
// cell is in bounds and empty.
func (b *Board) Lock(p Piece) error {
	cells := p.Cells()
	for _, c := range cells {
		if !b.InBounds(c.Row, c.Col) {
			return ErrOutOfBounds
		}
		if b.cells[b.key(c.Row, c.Col)] != CellEmpty {
			return ErrCellOccupied
		}
	}
	for _, c := range cells {
		b.cells[b.key(c.Row, c.Col)] = p.Kind.Cell()
	}
	if at, ok := p.ItemCell(); ok {
		b.items.Put(b.key(at.Row, at.Col), p.Item)
	}
	return nil
}

func (b *Board) rowFull(row int) bool {
	for col := 0; col < b.width; col++ {
		if b.cells[b.key(row, col)] == CellEmpty {
			return false
		}
	}
	return true
}

// FullRows lists fully occupied rows from top to bottom.
func (b *Board) FullRows() []int {
	var rows []int
	for row := 0; row < b.TotalRows(); row++ {
		if b.rowFull(row) {
			rows = append(rows, row)
		}
	}
	return rows
}

// ClearFullLines removes every full row, drops the rows above it and
// returns how many rows were removed.
func (b *Board) ClearFullLines() int {
	cleared := 0
	for row := b.TotalRows() - 1; row >= 0; {
		if b.rowFull(row) {
			b.ClearRow(row)
			cleared++
			continue
		}
		row--
	}
	return cleared
}

// ClearRow removes one row and shifts everything above it down by one.
// Items move with their cells.
func (b *Board) ClearRow(row int) {
	if row < 0 || row >= b.TotalRows() {
		return
	}
	copy(b.cells[b.width:b.key(row+1, 0)], b.cells[:b.key(row, 0)])
	for col := 0; col < b.width; col++ {
		b.cells[col] = CellEmpty
	}
	b.remapItems(func(r, c int) (int, int, bool) {
		switch {
		case r == row:
			return 0, 0, false
		case r < row:
			return r + 1, c, true
		default:
			return r, c, true
		}
	})
}

// ClearColumn empties a column without shifting anything.
func (b *Board) ClearColumn(col int) {
	if col < 0 || col >= b.width {
		return
	}
	for row := 0; row < b.TotalRows(); row++ {
		b.cells[b.key(row, col)] = CellEmpty
	}
	b.remapItems(func(r, c int) (int, int, bool) {
		return r, c, c != col
	})
}

// GarbageLine is one row sent to an opponent; true marks a block.
type GarbageLine []bool

// AddGarbageLines pushes the stack up by len(lines) and places lines[i]
// at row TotalRows()-len(lines)+i, so the last line ends at the bottom.
// Blocks become CellGarbage. It reports whether occupied cells were
// pushed off the top.
func (b *Board) AddGarbageLines(lines []GarbageLine) (overflow bool) {
	rows := min(len(lines), b.TotalRows())
	if rows == 0 {
		return false
	}
	lines = lines[len(lines)-rows:]
	for row := 0; row < rows; row++ {
		for col := 0; col < b.width; col++ {
			if b.cells[b.key(row, col)] != CellEmpty {
				overflow = true
			}
		}
	}
	copy(b.cells, b.cells[rows*b.width:])
	base := b.TotalRows() - rows
	for i, line := range lines {
		for col := 0; col < b.width; col++ {
			cell := CellEmpty
			if col < len(line) && line[col] {
				cell = CellGarbage
			}
			b.cells[b.key(base+i, col)] = cell
		}
	}
	b.remapItems(func(r, c int) (int, int, bool) {
		return r - rows, c, r-rows >= 0
	})
	return overflow
}

// ClearArea empties every cell in rows top..bottom and columns
// left..right, clamped to the board. Nothing shifts. It returns how many
// occupied cells were removed.
func (b *Board) ClearArea(top, left, bottom, right int) int {
	top, left = max(top, 0), max(left, 0)
	bottom, right = min(bottom, b.TotalRows()-1), min(right, b.width-1)
	removed := 0
	for row := top; row <= bottom; row++ {
		for col := left; col <= right; col++ {
			if b.cells[b.key(row, col)] != CellEmpty {
				removed++
			}
			b.cells[b.key(row, col)] = CellEmpty
		}
	}
	b.remapItems(func(r, c int) (int, int, bool) {
		return r, c, r < top || r > bottom || c < left || c > right
	})
	return removed
}

// BufferOccupied reports whether anything rests in the hidden rows.
func (b *Board) BufferOccupied() bool {
	for i := 0; i < b.buffer*b.width; i++ {
		if b.cells[i] != CellEmpty {
			return true
		}
	}
	return false
}

// Rows returns a copy of the grid, buffer rows first.
func (b *Board) Rows() [][]Cell {
	out := make([][]Cell, b.TotalRows())
	for row := range out {
		out[row] = append([]Cell(nil), b.cells[b.key(row, 0):b.key(row+1, 0)]...)
	}
	return out
}

// Reset empties the board.
func (b *Board) Reset() {
	clear(b.cells)
	b.items.Clear()
}

func (b *Board) remapItems(move func(row, col int) (int, int, bool)) {
	if b.items.Len() == 0 {
		return
	}
	next := intmap.New[int, Item](b.items.Len())
	b.items.ForEach(func(k int, it Item) bool {
		if row, col, keep := move(k/b.width, k%b.width); keep {
			next.Put(b.key(row, col), it)
		}
		return true
	})
	b.items = next
}
