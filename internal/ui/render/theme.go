package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines the viewer colors. Style attributes map to
// colors independently: the foreground pick never implies bold or dim.
type ColorTheme struct {
	Background tcell.Color
	Foreground tcell.Color
	HeadingFg  tcell.Color
	QuoteFg    tcell.Color
	CodeFg     tcell.Color
	CursorBg   tcell.Color
	StatusBg   tcell.Color
	StatusFg   tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background: tcell.ColorDefault,
		Foreground: tcell.ColorDefault,
		HeadingFg:  tcell.ColorAqua,
		QuoteFg:    tcell.ColorYellow,
		CodeFg:     tcell.ColorGreen,
		CursorBg:   tcell.Color236,
		StatusBg:   tcell.ColorWhite,
		StatusFg:   tcell.ColorBlack,
	}
}
