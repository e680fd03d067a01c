package tetris

// Direction is a rotation sense.
type Direction int

const (
	Clockwise Direction = iota
	CounterClockwise
)

// kick is a (dCol, dRow) offset tried after a rotation collides.
// Rows grow downward, so an SRS "up" offset is a negative dRow.
type kick struct{ dCol, dRow int }

// Clockwise kick tables indexed by the starting rotation.
// Counter-clockwise from r uses the negated row for r-1.
var (
	jlstzKicks = [4][5]kick{
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}}, // 0 -> R
		{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},   // R -> 2
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},    // 2 -> L
		{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}}, // L -> 0
	}
	iKicks = [4][5]kick{
		{{0, 0}, {-2, 0}, {1, 0}, {-2, 1}, {1, -2}}, // 0 -> R
		{{0, 0}, {-1, 0}, {2, 0}, {-1, -2}, {2, 1}}, // R -> 2
		{{0, 0}, {2, 0}, {-1, 0}, {2, -1}, {-1, 2}}, // 2 -> L
		{{0, 0}, {1, 0}, {-2, 0}, {1, 2}, {-2, -1}}, // L -> 0
	}
)

func kicksFor(kind Kind, from Rotation, dir Direction) []kick {
	if kind == KindO {
		return []kick{{0, 0}}
	}
	table := &jlstzKicks
	if kind == KindI {
		table = &iKicks
	}
	if dir == Clockwise {
		return table[from%4][:]
	}
	src := table[from.CCW()]
	out := make([]kick, len(src))
	for i, k := range src {
		out[i] = kick{dCol: -k.dCol, dRow: -k.dRow}
	}
	return out
}

// TryMove returns p shifted by (dRow, dCol) if it fits on b.
// On failure it returns p unchanged and false.
func TryMove(b *Board, p Piece, dRow, dCol int) (Piece, bool) {
	moved := p.Moved(dRow, dCol)
	if !b.Fits(moved) {
		return p, false
	}
	return moved, true
}

// TryRotate turns p one step in dir using the Super Rotation System.
// It returns the placed piece, the index of the kick that succeeded
// (0 means no kick) and whether any placement fit.
func TryRotate(b *Board, p Piece, dir Direction) (Piece, int, bool) {
	target := p.Rot.CW()
	if dir == CounterClockwise {
		target = p.Rot.CCW()
	}
	turned := p.Rotated(target)
	for i, k := range kicksFor(p.Kind, p.Rot, dir) {
		candidate := turned.Moved(k.dRow, k.dCol)
		if b.Fits(candidate) {
			return candidate, i, true
		}
	}
	return p, 0, false
}

// DropDistance is how many rows p can fall before it rests.
func DropDistance(b *Board, p Piece) int {
	d := 0
	for b.Fits(p.Moved(d+1, 0)) {
		d++
	}
	return d
}

// Ghost returns p moved to where a hard drop would leave it.
func Ghost(b *Board, p Piece) Piece {
	return p.Moved(DropDistance(b, p), 0)
}

// T corner offsets inside the 3x3 box, and the two corners facing the
// flat side of the T for each rotation.
var (
	tCorners      = [4]Point{{0, 0}, {0, 2}, {2, 0}, {2, 2}}
	tFrontCorners = [4][2]Point{
		{{0, 0}, {0, 2}},
		{{0, 2}, {2, 2}},
		{{2, 0}, {2, 2}},
		{{0, 0}, {2, 0}},
	}
)

// IsTSpin applies the three-corner rule to a T that has just rotated:
// at least three diagonal corners of its center are blocked and both
// corners on the pointing side are among them.
func IsTSpin(b *Board, p Piece) bool {
	if p.Kind != KindT {
		return false
	}
	filled := 0
	for _, c := range tCorners {
		if b.blocked(p.Row+c.Row, p.Col+c.Col) {
			filled++
		}
	}
	if filled < 3 {
		return false
	}
	for _, c := range tFrontCorners[p.Rot%4] {
		if !b.blocked(p.Row+c.Row, p.Col+c.Col) {
			return false
		}
	}
	return true
}
