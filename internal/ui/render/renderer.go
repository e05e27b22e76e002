// Package render paints documents onto a tcell screen: the visible
// slice of lines, a cursor-row highlight, and a one-line status bar.
package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/xcat/internal/document"
)

// Renderer owns the mapping from document styles to terminal cells.
type Renderer struct {
	screen     tcell.Screen
	theme      ColorTheme
	asciiWidth [128]int
	wideWidth  map[rune]int
}

// NewRenderer creates a renderer for the given screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen:    screen,
		theme:     GetColorTheme(),
		wideWidth: make(map[rune]int),
	}
}

// View is the navigation state a single paint needs.
type View struct {
	Name      string
	Format    string
	Offset    int
	CursorRow int
	CursorCol int
}

// Render paints the visible document slice plus the status bar and
// flushes the screen. Painting the same (document, view, size) twice
// produces identical cells: every cell of every row is written.
func (r *Renderer) Render(doc *document.Document, view View) {
	w, h := r.screen.Size()
	rows := h - 1
	if rows < 0 {
		rows = 0
	}

	base := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)

	for row := 0; row < rows; row++ {
		idx := view.Offset + row
		if idx >= doc.LineCount() {
			r.fillRow(0, row, w, base)
			continue
		}
		r.drawDocumentLine(doc.Lines[idx], row, w, idx == view.CursorRow)
	}

	if h > 0 {
		r.drawStatusBar(rows, w, view, doc.LineCount())
	}

	r.placeCursor(doc, view, w, rows)
	r.screen.Show()
}

func (r *Renderer) drawDocumentLine(line document.Line, y, w int, isCursor bool) {
	rowBg := r.theme.Background
	if isCursor {
		rowBg = r.theme.CursorBg
	}
	rowStyle := tcell.StyleDefault.Background(rowBg).Foreground(r.theme.Foreground)

	x := 0
	for i := 0; i < line.Indent && x < w; i++ {
		r.screen.SetContent(x, y, ' ', nil, rowStyle)
		x++
	}

	for _, span := range line.Spans {
		if x >= w {
			break
		}
		style := r.spanStyle(span.Style).Background(rowBg)
		var clipped bool
		x, clipped = r.drawTextLine(x, y, w, span.Text, style)
		if clipped {
			break
		}
	}

	r.fillRow(x, y, w, rowStyle)
}

// spanStyle maps each style attribute to a terminal effect on its own.
// The foreground color takes the most specific block attribute;
// bold/italic/dim pass through as native attributes regardless.
func (r *Renderer) spanStyle(s document.Style) tcell.Style {
	st := tcell.StyleDefault.Foreground(r.theme.Foreground)

	switch {
	case s.Has(document.StyleHeading):
		st = st.Foreground(r.theme.HeadingFg)
	case s.Has(document.StyleQuote):
		st = st.Foreground(r.theme.QuoteFg)
	case s.Has(document.StyleCode):
		st = st.Foreground(r.theme.CodeFg)
	}

	if s.Has(document.StyleBold) {
		st = st.Bold(true)
	}
	if s.Has(document.StyleItalic) {
		st = st.Italic(true)
	}
	if s.Has(document.StyleDim) {
		st = st.Dim(true)
	}
	return st
}

func (r *Renderer) placeCursor(doc *document.Document, view View, w, rows int) {
	row := view.CursorRow - view.Offset
	if row < 0 || row >= rows || doc.LineCount() == 0 {
		r.screen.HideCursor()
		return
	}

	x := view.CursorCol
	if view.CursorRow < doc.LineCount() {
		x += doc.Lines[view.CursorRow].Indent
	}
	if x >= w {
		x = w - 1
	}
	if x < 0 {
		x = 0
	}
	r.screen.ShowCursor(x, row)
}
