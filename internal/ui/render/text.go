package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// The render loop is single-threaded (one blocking event at a time),
// so the width caches need no locking.
func (r *Renderer) cachedRuneWidth(ru rune) int {
	if ru >= 0 && ru < 128 {
		if w := r.asciiWidth[ru]; w != 0 {
			return w - 1
		}
		w := runewidth.RuneWidth(ru)
		if w < 0 {
			w = 0
		}
		r.asciiWidth[ru] = w + 1
		return w
	}

	if w, ok := r.wideWidth[ru]; ok {
		return w
	}
	w := runewidth.RuneWidth(ru)
	if w < 0 {
		w = 0
	}
	r.wideWidth[ru] = w
	return w
}

func (r *Renderer) measureTextWidth(text string) int {
	width := 0
	for _, ru := range text {
		width += r.cachedRuneWidth(ru)
	}
	return width
}

// drawTextLine paints text starting at startX, clipping at the column
// limit. A double-width glyph that would straddle the limit is dropped
// whole, never split. Returns the first column after the drawn text
// and whether the text hit the limit; once clipped, nothing later on
// the line may paint into the remaining cells.
func (r *Renderer) drawTextLine(startX, y, maxX int, text string, style tcell.Style) (int, bool) {
	x := startX
	runes := []rune(text)
	i := 0

	for i < len(runes) {
		mainc := runes[i]
		i++

		var combc []rune
		for i < len(runes) && r.cachedRuneWidth(runes[i]) == 0 {
			combc = append(combc, runes[i])
			i++
		}

		w := r.cachedRuneWidth(mainc)
		if w == 0 {
			w = 1
		}
		if x+w > maxX {
			return x, true
		}

		r.screen.SetContent(x, y, mainc, combc, style)
		x += w
	}

	return x, false
}

func (r *Renderer) fillRow(x, y, maxX int, style tcell.Style) {
	for ; x < maxX; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}
