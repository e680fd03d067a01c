package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveColumnClear(t *testing.T) {
	b := NewBoard(4, 4, 2)
	fillRow(b, 4, 0, 1)
	fillRow(b, 5, 1, 2)
	b.SetItem(5, 1, ItemColumnClear)

	res := b.ResolveClears()

	assert.Equal(t, ClearResult{Columns: 1}, res)
	assert.False(t, b.IsOccupied(4, 1))
	assert.False(t, b.IsOccupied(5, 1))
	assert.True(t, b.IsOccupied(4, 0), "other columns are untouched")
	assert.True(t, b.IsOccupied(5, 2))
}

func TestResolveCrossClear(t *testing.T) {
	b := NewBoard(4, 4, 2)
	fillRow(b, 3, 2)
	fillRow(b, 4, 0)
	fillRow(b, 5, 0, 2)
	b.SetItem(5, 0, ItemCrossClear)

	res := b.ResolveClears()

	assert.Equal(t, 1, res.Crosses)
	assert.Equal(t, 1, res.Total())
	// column 0 emptied, then row 5 removed and row 3 dropped into row 4
	assert.True(t, b.IsOccupied(4, 2))
	assert.Equal(t, 1, occupiedCount(b))
	assert.Empty(t, b.PlacedItems())
}

func TestResolveLineItemClearsPartialRow(t *testing.T) {
	b := NewBoard(4, 4, 2)
	fillRowExcept(b, 5)
	fillRow(b, 4, 0)
	fillRow(b, 3, 3)
	b.SetItem(4, 0, ItemLineClear)

	res := b.ResolveClears()

	assert.Equal(t, ClearResult{Full: 1, ItemLines: 1}, res)
	assert.Equal(t, 2, res.Total())
	assert.True(t, b.IsOccupied(5, 3))
	assert.Equal(t, 1, occupiedCount(b))
}

func TestPendingRows(t *testing.T) {
	b := NewBoard(4, 4, 2)
	assert.False(t, b.HasPendingClears())

	fillRowExcept(b, 5)
	fillRow(b, 3, 1)
	b.SetItem(3, 1, ItemLineClear)
	assert.Equal(t, []int{3, 5}, b.PendingRows())

	b2 := NewBoard(4, 4, 2)
	fillRow(b2, 5, 0)
	b2.SetItem(5, 0, ItemColumnClear)
	assert.True(t, b2.HasPendingClears())
	assert.Empty(t, b2.PendingRows())
}

func TestItemSymbols(t *testing.T) {
	assert.Equal(t, 'L', ItemLineClear.Symbol())
	assert.Equal(t, 'I', ItemColumnClear.Symbol())
	assert.Equal(t, 'X', ItemCrossClear.Symbol())
	assert.Equal(t, "cross", ItemCrossClear.String())
}
