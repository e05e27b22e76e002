package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/xcat/internal/document"
)

func newTestScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(w, h)
	return screen
}

// rowString reads one painted row back, skipping continuation cells of
// double-width glyphs.
func rowString(screen tcell.SimulationScreen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < w; {
		mainc, _, _, width := screen.GetContent(x, y)
		b.WriteRune(mainc)
		if width < 1 {
			width = 1
		}
		x += width
	}
	return b.String()
}

func testDoc(texts ...string) document.Document {
	var doc document.Document
	for _, text := range texts {
		line := document.Line{}
		if text != "" {
			line.Spans = []document.Span{{Text: text, Style: document.StyleNone}}
		}
		doc.Append(line)
	}
	return doc
}

func snapshot(screen tcell.SimulationScreen) []string {
	_, h := screen.Size()
	rows := make([]string, h)
	for y := 0; y < h; y++ {
		rows[y] = rowString(screen, y)
	}
	return rows
}

func TestRenderIsIdempotent(t *testing.T) {
	screen := newTestScreen(t, 20, 6)
	r := NewRenderer(screen)
	doc := testDoc("first", "second", "third")
	view := View{Name: "a.md", Format: "markdown", CursorRow: 1}

	r.Render(&doc, view)
	first := snapshot(screen)
	r.Render(&doc, view)
	second := snapshot(screen)

	for y := range first {
		if first[y] != second[y] {
			t.Fatalf("row %d changed between identical renders:\n%q\n%q", y, first[y], second[y])
		}
	}
}

func TestRenderBlankRowsPastDocumentEnd(t *testing.T) {
	screen := newTestScreen(t, 10, 5)
	r := NewRenderer(screen)
	doc := testDoc("only line")

	r.Render(&doc, View{Name: "x", Format: "unknown"})

	for y := 1; y < 4; y++ {
		if got := strings.TrimRight(rowString(screen, y), " "); got != "" {
			t.Fatalf("row %d past document end = %q, want blank", y, got)
		}
	}
}

func TestRenderOffsetSelectsSlice(t *testing.T) {
	screen := newTestScreen(t, 12, 3)
	r := NewRenderer(screen)
	doc := testDoc("aaa", "bbb", "ccc", "ddd")

	r.Render(&doc, View{Name: "x", Format: "unknown", Offset: 2, CursorRow: 2})

	if got := strings.TrimRight(rowString(screen, 0), " "); got != "ccc" {
		t.Fatalf("top row = %q, want ccc", got)
	}
	if got := strings.TrimRight(rowString(screen, 1), " "); got != "ddd" {
		t.Fatalf("second row = %q, want ddd", got)
	}
}

func TestRenderIndent(t *testing.T) {
	screen := newTestScreen(t, 12, 3)
	r := NewRenderer(screen)
	var doc document.Document
	doc.Append(document.Line{
		Spans:  []document.Span{{Text: "• item", Style: document.StyleNone}},
		Indent: 4,
	})

	r.Render(&doc, View{Name: "x", Format: "markdown"})

	if got := strings.TrimRight(rowString(screen, 0), " "); got != "    • item" {
		t.Fatalf("indented row = %q", got)
	}
}

func TestRenderNeverSplitsWideGlyph(t *testing.T) {
	screen := newTestScreen(t, 4, 2)
	r := NewRenderer(screen)
	doc := testDoc("abc你")

	r.Render(&doc, View{Name: "x", Format: "unknown"})

	// The wide rune needs columns 3 and 4; only column 3 is left, so it
	// is dropped whole.
	mainc, _, _, _ := screen.GetContent(3, 0)
	if mainc != ' ' {
		t.Fatalf("cell after clip = %q, want space", mainc)
	}
	if got := rowString(screen, 0); got != "abc " {
		t.Fatalf("clipped row = %q", got)
	}
}

func TestRenderClipStopsLaterSpans(t *testing.T) {
	screen := newTestScreen(t, 4, 2)
	r := NewRenderer(screen)
	var doc document.Document
	doc.Append(document.Line{Spans: []document.Span{
		{Text: "abc你", Style: document.StyleNone},
		{Text: "z", Style: document.StyleBold},
	}})

	r.Render(&doc, View{Name: "x", Format: "unknown"})

	// Dropping the wide glyph ends the line; the next span must not
	// slide into the freed cell.
	if got := rowString(screen, 0); got != "abc " {
		t.Fatalf("clipped row = %q, want %q", got, "abc ")
	}
}

func TestRenderCursorRowHighlight(t *testing.T) {
	screen := newTestScreen(t, 10, 4)
	r := NewRenderer(screen)
	doc := testDoc("aaa", "bbb")

	r.Render(&doc, View{Name: "x", Format: "unknown", CursorRow: 1})

	_, _, cursorStyle, _ := screen.GetContent(0, 1)
	_, bg, _ := cursorStyle.Decompose()
	if bg != r.theme.CursorBg {
		t.Fatalf("cursor row background = %v, want %v", bg, r.theme.CursorBg)
	}

	_, _, plainStyle, _ := screen.GetContent(0, 0)
	_, bg, _ = plainStyle.Decompose()
	if bg == r.theme.CursorBg {
		t.Fatalf("non-cursor row must not carry the cursor background")
	}
}

func TestRenderStatusBar(t *testing.T) {
	screen := newTestScreen(t, 40, 5)
	r := NewRenderer(screen)
	doc := testDoc("a", "b", "c")

	r.Render(&doc, View{Name: "notes.md", Format: "markdown", CursorRow: 1})

	status := rowString(screen, 4)
	if !strings.HasPrefix(status, " notes.md  [markdown]") {
		t.Fatalf("status bar left side = %q", status)
	}
	if !strings.HasSuffix(status, "2/3  50% ") {
		t.Fatalf("status bar right side = %q", status)
	}
}

func TestRenderStatusBarSingleLine(t *testing.T) {
	screen := newTestScreen(t, 30, 3)
	r := NewRenderer(screen)
	doc := testDoc("only")

	r.Render(&doc, View{Name: "x.txt", Format: "unknown"})

	status := rowString(screen, 2)
	if !strings.HasSuffix(status, "1/1  100% ") {
		t.Fatalf("status bar = %q", status)
	}
}

func TestRenderCursorPlacement(t *testing.T) {
	screen := newTestScreen(t, 20, 4)
	r := NewRenderer(screen)
	var doc document.Document
	doc.Append(document.Line{
		Spans:  []document.Span{{Text: "item", Style: document.StyleNone}},
		Indent: 4,
	})

	r.Render(&doc, View{Name: "x", Format: "markdown", CursorCol: 2})

	x, y, visible := screen.GetCursor()
	if !visible {
		t.Fatal("cursor should be visible inside the viewport")
	}
	if x != 6 || y != 0 {
		t.Fatalf("cursor at (%d,%d), want (6,0): indent shifts the column", x, y)
	}
}

func TestRenderCursorHiddenOffViewport(t *testing.T) {
	screen := newTestScreen(t, 20, 3)
	r := NewRenderer(screen)
	doc := testDoc("a", "b", "c", "d", "e")

	r.Render(&doc, View{Name: "x", Format: "unknown", Offset: 3, CursorRow: 0})

	if _, _, visible := screen.GetCursor(); visible {
		t.Fatal("cursor above the viewport must be hidden")
	}
}

func TestSpanStyleForegroundPrecedence(t *testing.T) {
	r := NewRenderer(nil)
	tests := []struct {
		name  string
		style document.Style
		want  tcell.Color
	}{
		{"heading", document.StyleHeading, r.theme.HeadingFg},
		{"quote", document.StyleQuote, r.theme.QuoteFg},
		{"code", document.StyleCode, r.theme.CodeFg},
		{"heading wins over code", document.StyleHeading | document.StyleCode, r.theme.HeadingFg},
		{"quote wins over code", document.StyleQuote | document.StyleCode, r.theme.QuoteFg},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fg, _, _ := r.spanStyle(tt.style).Decompose()
			if fg != tt.want {
				t.Fatalf("foreground = %v, want %v", fg, tt.want)
			}
		})
	}
}

func TestSpanStyleAttributesAreIndependent(t *testing.T) {
	r := NewRenderer(nil)
	_, _, attrs := r.spanStyle(document.StyleHeading | document.StyleBold | document.StyleDim).Decompose()
	if attrs&tcell.AttrBold == 0 {
		t.Fatal("bold attribute lost")
	}
	if attrs&tcell.AttrDim == 0 {
		t.Fatal("dim attribute lost")
	}
}

func TestMeasureTextWidth(t *testing.T) {
	r := NewRenderer(nil)
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"a你b", 4},
		{"你好", 4},
	}
	for _, tt := range tests {
		if got := r.measureTextWidth(tt.text); got != tt.want {
			t.Errorf("measureTextWidth(%q)=%d want %d", tt.text, got, tt.want)
		}
	}
	// The cache answers the second lookup.
	if got := r.measureTextWidth("你好"); got != 4 {
		t.Errorf("cached width = %d, want 4", got)
	}
}

func TestPercentText(t *testing.T) {
	tests := []struct {
		cursorRow, total int
		want             string
	}{
		{0, 1, "100%"},
		{0, 0, "100%"},
		{0, 5, "0%"},
		{2, 5, "50%"},
		{4, 5, "100%"},
	}
	for _, tt := range tests {
		if got := percentText(tt.cursorRow, tt.total); got != tt.want {
			t.Errorf("percentText(%d,%d)=%q want %q", tt.cursorRow, tt.total, got, tt.want)
		}
	}
}
