package tetris

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortedCells(p Piece) []Point {
	cells := p.Cells()
	out := cells[:]
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

func TestShapesHaveFourDistinctCells(t *testing.T) {
	for _, k := range Kinds {
		for rot := Rotation(0); rot < 4; rot++ {
			seen := map[Point]bool{}
			for _, c := range (Piece{Kind: k, Rot: rot}).Cells() {
				assert.False(t, seen[c], "%v rotation %v repeats %v", k, rot, c)
				assert.Less(t, c.Row, BoxSize(k))
				assert.Less(t, c.Col, BoxSize(k))
				seen[c] = true
			}
		}
	}
}

func TestTRotationStates(t *testing.T) {
	p := Piece{Kind: KindT, Rot: 1}
	assert.Equal(t, []Point{{0, 1}, {1, 1}, {1, 2}, {2, 1}}, sortedCells(p))

	p.Rot = 2
	assert.Equal(t, []Point{{1, 0}, {1, 1}, {1, 2}, {2, 1}}, sortedCells(p))
}

func TestORotationDoesNotMove(t *testing.T) {
	b := NewBoard(10, 20, 4)
	p := Piece{Kind: KindO, Row: 10, Col: 4}

	got, kick, ok := TryRotate(b, p, Clockwise)
	require.True(t, ok)
	assert.Zero(t, kick)
	assert.Equal(t, sortedCells(p), sortedCells(got))
}

func TestRotateInOpenSpace(t *testing.T) {
	b := NewBoard(10, 20, 4)
	p := Piece{Kind: KindT, Row: 10, Col: 3}

	cw, kick, ok := TryRotate(b, p, Clockwise)
	require.True(t, ok)
	assert.Zero(t, kick)
	assert.Equal(t, Rotation(1), cw.Rot)
	assert.Equal(t, p.Row, cw.Row)
	assert.Equal(t, p.Col, cw.Col)

	back, _, ok := TryRotate(b, cw, CounterClockwise)
	require.True(t, ok)
	assert.Equal(t, p, back)
}

func TestIWallKick(t *testing.T) {
	b := NewBoard(10, 20, 4)
	// vertical I hugging the left wall: its column is anchor+2
	p := Piece{Kind: KindI, Rot: 1, Row: 10, Col: -2}
	require.True(t, b.Fits(p))

	got, kick, ok := TryRotate(b, p, Clockwise)
	require.True(t, ok)
	assert.Equal(t, 2, kick, "the third R->2 test (+2, 0) is the first to fit")
	assert.Equal(t, Rotation(2), got.Rot)
	assert.Equal(t, 0, got.Col)
	assert.Equal(t, 10, got.Row)
}

func TestCounterClockwiseKicksAreNegated(t *testing.T) {
	for from := Rotation(0); from < 4; from++ {
		ccw := kicksFor(KindJ, from, CounterClockwise)
		cw := jlstzKicks[from.CCW()]
		for i := range cw {
			assert.Equal(t, -cw[i].dCol, ccw[i].dCol)
			assert.Equal(t, -cw[i].dRow, ccw[i].dRow)
		}
	}
}

func TestRejectedRotationLeavesPiece(t *testing.T) {
	b := NewBoard(10, 20, 4)
	p := Piece{Kind: KindT, Row: 10, Col: 3}
	mine := map[Point]bool{}
	for _, c := range p.Cells() {
		mine[c] = true
	}
	for row := 0; row < b.TotalRows(); row++ {
		for col := 0; col < b.Width(); col++ {
			if !mine[Point{row, col}] {
				fillRow(b, row, col)
			}
		}
	}
	before := b.Rows()

	got, _, ok := TryRotate(b, p, Clockwise)
	assert.False(t, ok)
	assert.Equal(t, p, got)
	assert.Equal(t, before, b.Rows())

	moved, ok := TryMove(b, p, 0, 1)
	assert.False(t, ok)
	assert.Equal(t, p, moved)
}

func TestDropDistanceAndGhost(t *testing.T) {
	b := NewBoard(10, 20, 4)
	p := Piece{Kind: KindT, Row: 3, Col: 3}
	assert.Equal(t, 19, DropDistance(b, p))

	fillRow(b, 23, 4)
	assert.Equal(t, 18, DropDistance(b, p))
	assert.Equal(t, 21, Ghost(b, p).Row)
}

func TestIsTSpin(t *testing.T) {
	b := NewBoard(10, 20, 4)
	p := Piece{Kind: KindT, Rot: 2, Row: 20, Col: 3}
	// back corner plus both corners on the pointing side
	fillRow(b, 20, 3)
	fillRow(b, 22, 3, 5)
	assert.True(t, IsTSpin(b, p))

	b2 := NewBoard(10, 20, 4)
	fillRow(b2, 20, 3, 5)
	fillRow(b2, 22, 3)
	assert.False(t, IsTSpin(b2, p), "one front corner is open")

	assert.False(t, IsTSpin(b, Piece{Kind: KindS, Row: 20, Col: 3}))
}

func TestSpecialShapes(t *testing.T) {
	w := Piece{Kind: KindWeight}
	assert.Equal(t, []Point{{0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}, {1, 3}}, sortedCells(w))
	assert.Len(t, Piece{Kind: KindBomb}.Cells(), 4)
	assert.True(t, KindWeight.Special())
	assert.False(t, KindT.Special())
	assert.Equal(t, "W", KindWeight.String())
	assert.Equal(t, "B", KindBomb.String())
}
