// Package tetris is the falling-block engine: board, pieces, rotation,
// scoring and the tick-driven game loop. It has no terminal or network
// dependencies and is not safe for concurrent use; see Runner for a
// serialized driver.
package tetris

// Kind identifies one of the seven tetrominoes or a special item piece.
type Kind uint8

const (
	KindNone Kind = iota
	KindI
	KindJ
	KindL
	KindO
	KindS
	KindT
	KindZ

	// Special item pieces. They never lock into the board.
	KindWeight // crushes every block beneath it
	KindBomb   // clears a 6x6 area where it lands
)

// Kinds lists every tetromino in canonical order.
var Kinds = [...]Kind{KindI, KindJ, KindL, KindO, KindS, KindT, KindZ}

func (k Kind) String() string {
	if k > KindBomb {
		return "?"
	}
	return string(" IJLOSTZWB"[k])
}

// Special reports whether k is a weight or a bomb. Special pieces cannot
// rotate or be held.
func (k Kind) Special() bool {
	return k == KindWeight || k == KindBomb
}

// Cell returns the board cell a locked mino of this kind leaves behind.
func (k Kind) Cell() Cell {
	return Cell(k)
}

// Rotation is a clockwise quarter-turn count, 0 to 3.
type Rotation uint8

// CW returns the next rotation clockwise.
func (r Rotation) CW() Rotation { return (r + 1) % 4 }

// CCW returns the next rotation counter-clockwise.
func (r Rotation) CCW() Rotation { return (r + 3) % 4 }

func (r Rotation) String() string {
	return [...]string{"0", "R", "2", "L"}[r%4]
}

// Point is a board coordinate. Row 0 is the top of the buffer zone.
type Point struct {
	Row, Col int
}

type shapeDef struct {
	box   int
	cells []Point
}

// Spawn orientation of every kind inside its bounding box.
var spawnShapes = map[Kind]shapeDef{
	KindI: {4, []Point{{1, 0}, {1, 1}, {1, 2}, {1, 3}}},
	KindJ: {3, []Point{{0, 0}, {1, 0}, {1, 1}, {1, 2}}},
	KindL: {3, []Point{{0, 2}, {1, 0}, {1, 1}, {1, 2}}},
	KindO: {2, []Point{{0, 0}, {0, 1}, {1, 0}, {1, 1}}},
	KindS: {3, []Point{{0, 1}, {0, 2}, {1, 0}, {1, 1}}},
	KindT: {3, []Point{{0, 1}, {1, 0}, {1, 1}, {1, 2}}},
	KindZ: {3, []Point{{0, 0}, {0, 1}, {1, 1}, {1, 2}}},

	KindWeight: {4, []Point{{0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}, {1, 3}}},
	KindBomb:   {2, []Point{{0, 0}, {0, 1}, {1, 0}, {1, 1}}},
}

// shapes[kind][rotation] holds mino offsets from the piece anchor.
// Mino i of every rotation is the image of mino i of the spawn shape,
// so an item attached to a mino follows it through rotations.
var shapes [KindBomb + 1][4][]Point

func init() {
	for kind, def := range spawnShapes {
		cur := def.cells
		for rot := 0; rot < 4; rot++ {
			shapes[kind][rot] = cur
			next := make([]Point, len(cur))
			for i, p := range cur {
				next[i] = Point{Row: p.Col, Col: def.box - 1 - p.Row}
			}
			cur = next
		}
	}
}

// BoxSize returns the side of the kind's bounding box.
func BoxSize(k Kind) int {
	return spawnShapes[k].box
}

// Piece is a tetromino placed on the board. Pieces are values: every
// transform returns a new Piece.
type Piece struct {
	Kind Kind
	Rot  Rotation
	Row  int // anchor row of the bounding box
	Col  int // anchor column of the bounding box

	// Item, when set, rides on mino ItemMino.
	Item     Item
	ItemMino int
}

// Cells returns the absolute mino positions: four for a tetromino, more
// for a weight.
func (p Piece) Cells() []Point {
	offs := shapes[p.Kind][p.Rot%4]
	out := make([]Point, len(offs))
	for i, off := range offs {
		out[i] = Point{Row: p.Row + off.Row, Col: p.Col + off.Col}
	}
	return out
}

// Moved returns the piece translated by (dRow, dCol).
func (p Piece) Moved(dRow, dCol int) Piece {
	p.Row += dRow
	p.Col += dCol
	return p
}

// Rotated returns the piece turned to rot in place.
func (p Piece) Rotated(rot Rotation) Piece {
	p.Rot = rot % 4
	return p
}

// ItemCell returns the position of the item mino, if any.
func (p Piece) ItemCell() (Point, bool) {
	if p.Item == ItemNone {
		return Point{}, false
	}
	cells := p.Cells()
	if len(cells) == 0 {
		return Point{}, false
	}
	return cells[p.ItemMino%len(cells)], true
}

// Template strips placement so the piece can be respawned.
func (p Piece) Template() Piece {
	return Piece{Kind: p.Kind, Item: p.Item, ItemMino: p.ItemMino}
}
