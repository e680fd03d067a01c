package core

// Color is a logical foreground color for a screen cell.
// The platform maps it to a terminal color.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
	ColorDim
)

// ColorCount is the number of defined colors.
const ColorCount = int(ColorDim) + 1
