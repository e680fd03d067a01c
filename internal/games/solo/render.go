package solo

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

const (
	cellWidth  = 2 // screen columns per board cell
	panelWidth = 12
	hudHeight  = 2
)

// layoutSize is the screen area needed for a board of w x h cells.
func layoutSize(w, h int) (int, int) {
	return PlayfieldWidth(w) + 2*(panelWidth+1), h + 2 + hudHeight
}

// PlayfieldWidth is the on-screen width of a boxed board.
func PlayfieldWidth(cols int) int {
	return cols*cellWidth + 2
}

// KindColor is the display color of a tetromino.
func KindColor(k tetris.Kind) core.Color {
	switch k {
	case tetris.KindI:
		return core.ColorCyan
	case tetris.KindJ:
		return core.ColorBlue
	case tetris.KindL:
		return core.ColorOrange
	case tetris.KindO:
		return core.ColorYellow
	case tetris.KindS:
		return core.ColorGreen
	case tetris.KindT:
		return core.ColorMagenta
	case tetris.KindZ:
		return core.ColorRed
	case tetris.KindWeight:
		return core.ColorWhite
	case tetris.KindBomb:
		return core.ColorRed
	default:
		return core.ColorDefault
	}
}

func cellColor(c tetris.Cell) core.Color {
	if c == tetris.CellGarbage {
		return core.ColorGray
	}
	return KindColor(c.Kind())
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		w, h := layoutSize(g.cfg.Board.Width, g.cfg.Board.Height)
		dst.DrawTextCentered(dst.Height()/2, "Window too small")
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d, resize to continue", w, h))
		return
	}

	s := g.engine.Snapshot()
	g.renderHUD(dst, s)

	fieldW := PlayfieldWidth(s.Width)
	totalW, _ := layoutSize(s.Width, s.Height)
	left := (dst.Width() - totalW) / 2
	fieldX := left + panelWidth + 1
	DrawPlayfield(dst, fieldX, hudHeight, s, g.tick)

	g.renderLeftPanel(dst, left, hudHeight, s)
	DrawNext(dst, fieldX+fieldW+1, hudHeight, s.Next)

	switch {
	case s.GameOver:
		DrawOverlay(dst, fieldX, hudHeight, fieldW, s.Height+2,
			gameOverTitle(s.Reason), fmt.Sprintf("Score %d", s.Score), "R restart")
	case g.paused:
		DrawOverlay(dst, fieldX, hudHeight, fieldW, s.Height+2, "Paused", "", "P to continue")
	}
}

func gameOverTitle(r tetris.GameOverReason) string {
	if r == tetris.ReasonTimeUp {
		return "Time Up"
	}
	return "Game Over"
}

func (g *Game) renderHUD(dst *core.Screen, s tetris.Snapshot) {
	hud := fmt.Sprintf(" %s | Score: %d  Lines: %d  Level: %d  [%s]",
		g.Title(), s.Score, s.Lines, s.Level, s.Difficulty)
	if g.mode == config.ModeSprint {
		hud += "  Time: " + formatClock(s.Remaining)
	}
	dst.DrawText(0, 0, hud)
	dst.DrawHLine(0, 1, dst.Width(), '─')
}

func (g *Game) renderLeftPanel(dst *core.Screen, x, y int, s tetris.Snapshot) {
	holdColor := core.ColorDefault
	if !s.CanHold {
		holdColor = core.ColorDim
	}
	dst.DrawBoxColored(core.NewRect(x, y, panelWidth, 5), holdColor)
	dst.DrawText(x+2, y, "HOLD")
	if s.Hold != tetris.KindNone {
		c := KindColor(s.Hold)
		if !s.CanHold {
			c = core.ColorDim
		}
		drawMini(dst, x+2, y+2, tetris.Preview{Kind: s.Hold}, c)
	}

	row := y + 6
	stat := func(label, value string) {
		dst.DrawTextColored(x+1, row, label, core.ColorGray)
		dst.DrawText(x+1, row+1, value)
		row += 3
	}
	stat("SCORE", fmt.Sprintf("%d", s.Score))
	stat("LINES", fmt.Sprintf("%d", s.Lines))
	stat("LEVEL", fmt.Sprintf("%d", s.Level))
	if g.mode == config.ModeSprint {
		stat("TIME", formatClock(s.Remaining))
	} else {
		stat("SPEED", fmt.Sprintf("%dms", s.Interval.Milliseconds()))
	}

	if g.messageTicks > 0 && g.message != "" {
		dst.DrawTextColored(x+1, row, g.message, core.ColorYellow)
	}
}

// DrawPlayfield draws a boxed board with its top-left corner at x, y.
// The box is PlayfieldWidth(s.Width) wide and s.Height+2 tall.
func DrawPlayfield(dst *core.Screen, x, y int, s tetris.Snapshot, tick uint64) {
	dst.DrawBox(core.NewRect(x, y, PlayfieldWidth(s.Width), s.Height+2))
	ox, oy := x+1, y+1

	put := func(row, col int, r rune, c core.Color) {
		if row < 0 || row >= s.Height {
			return
		}
		px := ox + col*cellWidth
		dst.SetColored(px, oy+row, r, c)
		dst.SetColored(px+1, oy+row, r, c)
	}

	flashOn := tick/4%2 == 0
	for row := range s.Height {
		clearing := s.Clearing(row)
		for col := range s.Width {
			cell := s.At(row, col)
			switch {
			case clearing && flashOn:
				put(row, col, '▒', core.ColorWhite)
			case cell != tetris.CellEmpty:
				put(row, col, '█', cellColor(cell))
			default:
				put(row, col, ' ', core.ColorDefault)
				dst.SetColored(ox+col*cellWidth, oy+row, '·', core.ColorDim)
			}
		}
	}
	for _, it := range s.Items {
		if !s.Clearing(it.Row) {
			put(it.Row, it.Col, it.Item.Symbol(), core.ColorWhite)
		}
	}

	for _, p := range s.Ghost {
		if s.At(p.Row, p.Col) == tetris.CellEmpty {
			put(p.Row, p.Col, '░', core.ColorDim)
		}
	}
	for _, p := range s.Active {
		put(p.Row, p.Col, pieceRune(s.ActiveKind), KindColor(s.ActiveKind))
	}
	if s.ActiveItem.Item != tetris.ItemNone {
		put(s.ActiveItem.Row, s.ActiveItem.Col, s.ActiveItem.Item.Symbol(), core.ColorWhite)
	}
}

// pieceRune marks weights and bombs apart from tetrominoes.
func pieceRune(k tetris.Kind) rune {
	if k.Special() {
		return '▓'
	}
	return '█'
}

// DrawNext draws the preview queue panel at x, y.
func DrawNext(dst *core.Screen, x, y int, next []tetris.Preview) {
	h := max(len(next)*3+2, 5)
	dst.DrawBox(core.NewRect(x, y, panelWidth, h))
	dst.DrawText(x+2, y, "NEXT")
	for i, p := range next {
		c := KindColor(p.Kind)
		if i > 0 {
			c = core.ColorGray
		}
		drawMini(dst, x+2, y+2+i*3, p, c)
	}
}

// drawMini draws a piece in its spawn orientation, two rows tall.
func drawMini(dst *core.Screen, x, y int, p tetris.Preview, c core.Color) {
	piece := tetris.Piece{Kind: p.Kind, Item: p.Item}
	item, hasItem := piece.ItemCell()
	top := 0
	if p.Kind == tetris.KindI {
		top = 1
	}
	for _, cell := range piece.Cells() {
		r := pieceRune(p.Kind)
		if hasItem && cell == item {
			r = p.Item.Symbol()
		}
		px := x + cell.Col*cellWidth
		py := y + cell.Row - top
		dst.SetColored(px, py, r, c)
		dst.SetColored(px+1, py, r, c)
	}
}

// DrawOverlay draws a box with up to three centered lines over the
// region x, y, w, h.
func DrawOverlay(dst *core.Screen, x, y, w, h int, lines ...string) {
	boxW := 4
	for _, l := range lines {
		boxW = max(boxW, len([]rune(l))+4)
	}
	boxW = min(boxW, w)
	boxH := len(lines) + 2
	bx := x + (w-boxW)/2
	by := y + (h-boxH)/2

	dst.DrawRect(core.NewRect(bx, by, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(bx, by, boxW, boxH))
	for i, l := range lines {
		lx := bx + (boxW-len([]rune(l)))/2
		dst.DrawText(lx, by+1+i, l)
	}
}

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
