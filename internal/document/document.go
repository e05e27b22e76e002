// Package document holds the render-ready representation of a previewed
// file: a flat list of lines made of style-annotated spans. Converters
// build a Document once; the viewer and renderer only read it.
package document

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Style is an orthogonal attribute bit-set. Attributes combine freely
// (a heading can also be bold); no attribute implies another.
type Style uint8

const (
	StyleBold Style = 1 << iota
	StyleItalic
	StyleDim
	StyleHeading
	StyleQuote
	StyleCode
)

// StyleNone is the zero style: plain text.
const StyleNone Style = 0

// Has reports whether every attribute in flags is set.
func (s Style) Has(flags Style) bool {
	return s&flags == flags
}

// With returns s with the given attributes added.
func (s Style) With(flags Style) Style {
	return s | flags
}

// Without returns s with the given attributes cleared.
func (s Style) Without(flags Style) Style {
	return s &^ flags
}

// Span is a contiguous run of text sharing one combined style.
type Span struct {
	Text  string
	Style Style
}

// Line is one visual row: ordered spans plus an indent measured in
// leading columns. The indent is never duplicated into span text.
type Line struct {
	Spans  []Span
	Indent int
}

// Text returns the concatenated span text, excluding the indent prefix.
func (l Line) Text() string {
	if len(l.Spans) == 0 {
		return ""
	}
	var b strings.Builder
	for _, sp := range l.Spans {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// Width returns the visual width of the line content in terminal
// columns, including the indent. Wide codepoints count per their
// display width, not per rune.
func (l Line) Width() int {
	w := l.Indent
	for _, sp := range l.Spans {
		w += runewidth.StringWidth(sp.Text)
	}
	return w
}

// IsBlank reports whether the line carries no spans.
func (l Line) IsBlank() bool {
	return len(l.Spans) == 0
}

// Document is the full converted file, top to bottom. It is built once
// by a converter and read-only afterwards.
type Document struct {
	Lines []Line
}

// Append adds a line to the end of the document.
func (d *Document) Append(line Line) {
	d.Lines = append(d.Lines, line)
}

// AppendBlank adds an empty separator line unless the document already
// ends with one, so consecutive block separators coalesce.
func (d *Document) AppendBlank() {
	if n := len(d.Lines); n > 0 && d.Lines[n-1].IsBlank() {
		return
	}
	d.Lines = append(d.Lines, Line{})
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return len(d.Lines)
}

// Placeholder builds a one-line diagnostic document, used when a file
// cannot be converted but the viewer should still have content.
func Placeholder(msg string) Document {
	return Document{Lines: []Line{{
		Spans: []Span{{Text: msg, Style: StyleDim}},
	}}}
}
