package tetris

import "math/rand"

// Item is a special effect carried by one mino in item mode.
type Item uint8

const (
	ItemNone Item = iota
	ItemLineClear
	ItemColumnClear
	ItemCrossClear
)

// Items lists the effects an item piece can carry.
var Items = [...]Item{ItemLineClear, ItemColumnClear, ItemCrossClear}

// Symbol is the rune drawn on top of the item mino.
func (it Item) Symbol() rune {
	switch it {
	case ItemLineClear:
		return 'L'
	case ItemColumnClear:
		return 'I'
	case ItemCrossClear:
		return 'X'
	default:
		return ' '
	}
}

func (it Item) String() string {
	switch it {
	case ItemLineClear:
		return "line"
	case ItemColumnClear:
		return "column"
	case ItemCrossClear:
		return "cross"
	default:
		return "none"
	}
}

// PlacedItem is an item resting on the board.
type PlacedItem struct {
	Row, Col int
	Item     Item
}

// ItemAt returns the item locked at (row, col).
func (b *Board) ItemAt(row, col int) Item {
	if !b.InBounds(row, col) {
		return ItemNone
	}
	it, _ := b.items.Get(b.key(row, col))
	return it
}

// SetItem places or removes an item on an occupied cell.
func (b *Board) SetItem(row, col int, it Item) {
	if !b.InBounds(row, col) {
		return
	}
	if it == ItemNone {
		b.items.Del(b.key(row, col))
		return
	}
	b.items.Put(b.key(row, col), it)
}

// PlacedItems lists all items, top-left first.
func (b *Board) PlacedItems() []PlacedItem {
	var out []PlacedItem
	for row := 0; row < b.TotalRows(); row++ {
		for col := 0; col < b.width; col++ {
			if it, ok := b.items.Get(b.key(row, col)); ok {
				out = append(out, PlacedItem{Row: row, Col: col, Item: it})
			}
		}
	}
	return out
}

func (b *Board) findItem(kind Item) (Point, bool) {
	for row := b.TotalRows() - 1; row >= 0; row-- {
		for col := 0; col < b.width; col++ {
			if it, ok := b.items.Get(b.key(row, col)); ok && it == kind {
				return Point{Row: row, Col: col}, true
			}
		}
	}
	return Point{}, false
}

func (b *Board) rowHasItem(row int, kind Item) bool {
	for col := 0; col < b.width; col++ {
		if it, ok := b.items.Get(b.key(row, col)); ok && it == kind {
			return true
		}
	}
	return false
}

// ClearResult counts what one resolution pass removed.
type ClearResult struct {
	Full      int // rows removed because they were full
	ItemLines int // rows removed by a line-clear item
	Columns   int // columns emptied by column-clear items
	Crosses   int // row and column pairs removed by cross-clear items
}

// Total is the line count used for scoring.
func (r ClearResult) Total() int {
	return r.Full + r.ItemLines + r.Columns + r.Crosses
}

// PendingRows lists the rows a resolution pass would remove, for flashing
// before the pass runs.
func (b *Board) PendingRows() []int {
	var rows []int
	for row := 0; row < b.TotalRows(); row++ {
		if b.rowFull(row) || b.rowHasItem(row, ItemLineClear) || b.rowHasItem(row, ItemCrossClear) {
			rows = append(rows, row)
		}
	}
	return rows
}

// HasPendingClears reports whether ResolveClears would change the board.
func (b *Board) HasPendingClears() bool {
	if len(b.PendingRows()) > 0 {
		return true
	}
	_, ok := b.findItem(ItemColumnClear)
	return ok
}

// ResolveClears applies item effects and removes full rows. Columns go
// first, then crosses, then lines, since row removal shifts coordinates.
func (b *Board) ResolveClears() ClearResult {
	var res ClearResult
	for {
		at, ok := b.findItem(ItemColumnClear)
		if !ok {
			break
		}
		b.ClearColumn(at.Col)
		res.Columns++
	}
	for {
		at, ok := b.findItem(ItemCrossClear)
		if !ok {
			break
		}
		b.ClearColumn(at.Col)
		b.ClearRow(at.Row)
		res.Crosses++
	}
	for row := b.TotalRows() - 1; row >= 0; {
		switch {
		case b.rowFull(row):
			b.ClearRow(row)
			res.Full++
		case b.rowHasItem(row, ItemLineClear):
			b.ClearRow(row)
			res.ItemLines++
		default:
			row--
		}
	}
	return res
}

// randomItemPiece draws one of five item pieces with equal odds: a random
// tetromino carrying a line, column or cross clear on one mino, a weight,
// or a bomb.
func randomItemPiece(rng *rand.Rand) Piece {
	switch n := rng.Intn(len(Items) + 2); n {
	case len(Items):
		return Piece{Kind: KindWeight}
	case len(Items) + 1:
		return Piece{Kind: KindBomb}
	default:
		return Piece{
			Kind:     Kinds[rng.Intn(len(Kinds))],
			Item:     Items[n],
			ItemMino: rng.Intn(4),
		}
	}
}
