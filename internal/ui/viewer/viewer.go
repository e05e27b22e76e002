// Package viewer owns the navigation state machine: it turns terminal
// key and resize events into cursor/scroll transitions and asks the
// renderer to paint exactly once per transition that changed state.
package viewer

import (
	"image"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/xcat/internal/document"
	"github.com/kk-code-lab/xcat/internal/ui/render"
)

// Painter is the rendering collaborator. It is an interface so
// transition tests can observe paint counts without a terminal.
type Painter interface {
	Render(doc *document.Document, view render.View)
	PaintImage(img image.Image, area render.Rect) error
}

// Viewer holds the document plus the composite navigation state:
// cursor row, cursor column and top-of-viewport offset. The state is
// mutated only by the blocking event loop.
type Viewer struct {
	screen  tcell.Screen
	painter Painter
	doc     *document.Document
	img     image.Image
	name    string
	format  string

	cursorRow int
	cursorCol int
	offset    int
	width     int
	height    int
}

// New creates a viewer for a converted document. The screen must not
// be initialized yet; Run owns the terminal lifecycle.
func New(screen tcell.Screen, painter Painter, doc *document.Document, name, format string) *Viewer {
	return &Viewer{
		screen:  screen,
		painter: painter,
		doc:     doc,
		name:    name,
		format:  format,
	}
}

// SetImage attaches a decoded image painted over the content area.
func (v *Viewer) SetImage(img image.Image) {
	v.img = img
}

// Run enters alternate-screen raw mode and drives the blocking
// read-transition-paint loop until quit. The screen is restored on
// every exit path, including panics while painting.
func (v *Viewer) Run() error {
	if err := v.screen.Init(); err != nil {
		return err
	}
	defer v.screen.Fini()

	v.width, v.height = v.screen.Size()
	v.clamp()
	v.paint()

	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return nil
		}

		repaint, quit := v.handleEvent(ev)
		if quit {
			return nil
		}
		if repaint {
			if _, ok := ev.(*tcell.EventResize); ok {
				v.screen.Sync()
			}
			v.paint()
		}
	}
}

// handleEvent applies one event and reports whether it changed state.
// A transition that changes nothing must not trigger a repaint.
func (v *Viewer) handleEvent(ev tcell.Event) (repaint, quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		act := actionForKey(ev)
		if act == actQuit {
			return false, true
		}
		return v.apply(act), false
	case *tcell.EventResize:
		v.width, v.height = ev.Size()
		v.clamp()
		return true, false
	}
	return false, false
}

type action int

const (
	actNone action = iota
	actMoveDown
	actMoveUp
	actMoveLeft
	actMoveRight
	actHalfPageDown
	actHalfPageUp
	actJumpTop
	actJumpBottom
	actQuit
)

func actionForKey(ev *tcell.EventKey) action {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return actQuit
	case tcell.KeyDown:
		return actMoveDown
	case tcell.KeyUp:
		return actMoveUp
	case tcell.KeyLeft:
		return actMoveLeft
	case tcell.KeyRight:
		return actMoveRight
	case tcell.KeyPgDn:
		return actHalfPageDown
	case tcell.KeyPgUp:
		return actHalfPageUp
	case tcell.KeyHome:
		return actJumpTop
	case tcell.KeyEnd:
		return actJumpBottom
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'j':
			return actMoveDown
		case 'k':
			return actMoveUp
		case 'h':
			return actMoveLeft
		case 'l':
			return actMoveRight
		case 'd':
			return actHalfPageDown
		case 'u':
			return actHalfPageUp
		case 'g':
			return actJumpTop
		case 'G':
			return actJumpBottom
		case 'q', 'Q':
			return actQuit
		}
	}
	return actNone
}

// contentRows is the viewport height excluding the status row.
func (v *Viewer) contentRows() int {
	rows := v.height - 1
	if rows < 0 {
		rows = 0
	}
	return rows
}

func (v *Viewer) lastLine() int {
	last := v.doc.LineCount() - 1
	if last < 0 {
		last = 0
	}
	return last
}

// apply runs one transition and reports whether (cursor, offset)
// changed.
func (v *Viewer) apply(act action) bool {
	prevRow, prevCol, prevOffset := v.cursorRow, v.cursorCol, v.offset

	last := v.lastLine()
	step := v.contentRows() / 2

	switch act {
	case actMoveDown:
		v.cursorRow++
	case actMoveUp:
		v.cursorRow--
	case actMoveRight:
		v.cursorCol++
	case actMoveLeft:
		v.cursorCol--
	case actHalfPageDown:
		v.cursorRow += step
		v.offset += step
	case actHalfPageUp:
		v.cursorRow -= step
		v.offset -= step
	case actJumpTop:
		v.cursorRow = 0
		v.offset = 0
	case actJumpBottom:
		v.cursorRow = last
		v.offset = last - v.contentRows() + 1
	}

	v.clamp()
	return v.cursorRow != prevRow || v.cursorCol != prevCol || v.offset != prevOffset
}

// clamp restores every navigation invariant: cursor row within the
// document, offset within [0, lastLine-rows+1], cursor visible, and
// cursor column within the visual width of its line.
func (v *Viewer) clamp() {
	last := v.lastLine()
	rows := v.contentRows()

	if v.cursorRow > last {
		v.cursorRow = last
	}
	if v.cursorRow < 0 {
		v.cursorRow = 0
	}

	maxOffset := last - rows + 1
	if maxOffset < 0 {
		maxOffset = 0
	}
	if v.offset > maxOffset {
		v.offset = maxOffset
	}
	if v.offset < 0 {
		v.offset = 0
	}

	if v.cursorRow < v.offset {
		v.offset = v.cursorRow
	}
	if rows > 0 && v.cursorRow >= v.offset+rows {
		v.offset = v.cursorRow - rows + 1
	}

	maxCol := 0
	if v.doc.LineCount() > 0 {
		line := v.doc.Lines[v.cursorRow]
		maxCol = line.Width() - line.Indent
	}
	if v.cursorCol > maxCol {
		v.cursorCol = maxCol
	}
	if v.cursorCol < 0 {
		v.cursorCol = 0
	}
}

func (v *Viewer) view() render.View {
	return render.View{
		Name:      v.name,
		Format:    v.format,
		Offset:    v.offset,
		CursorRow: v.cursorRow,
		CursorCol: v.cursorCol,
	}
}

// paint renders the document, then overlays the image if one is
// attached. A failed image paint degrades to a diagnostic document so
// the viewer stays navigable.
func (v *Viewer) paint() {
	v.painter.Render(v.doc, v.view())

	if v.img == nil {
		return
	}
	area := render.Rect{X: 0, Y: 1, Width: v.width, Height: v.contentRows() - 1}
	if err := v.painter.PaintImage(v.img, area); err != nil {
		fallback := document.Placeholder("cannot display " + v.format + " image: " + err.Error())
		v.doc = &fallback
		v.img = nil
		v.painter.Render(v.doc, v.view())
	}
}
