package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// drawStatusBar paints the reserved bottom row: file name and format
// on the left, cursor position and scroll percentage on the right.
func (r *Renderer) drawStatusBar(y, w int, view View, totalLines int) {
	style := tcell.StyleDefault.Background(r.theme.StatusBg).Foreground(r.theme.StatusFg)

	left := fmt.Sprintf(" %s  [%s]", view.Name, view.Format)
	right := fmt.Sprintf("%s  %s ", positionText(view.CursorRow, totalLines), percentText(view.CursorRow, totalLines))

	x, _ := r.drawTextLine(0, y, w, left, style)
	rightWidth := r.measureTextWidth(right)
	rightStart := w - rightWidth
	if rightStart < x {
		rightStart = x
	}
	r.fillRow(x, y, rightStart, style)
	r.drawTextLine(rightStart, y, w, right, style)
}

func positionText(cursorRow, totalLines int) string {
	line := cursorRow + 1
	if totalLines == 0 {
		line = 0
	}
	return fmt.Sprintf("%d/%d", line, totalLines)
}

func percentText(cursorRow, totalLines int) string {
	if totalLines <= 1 {
		return "100%"
	}
	return fmt.Sprintf("%d%%", cursorRow*100/(totalLines-1))
}
