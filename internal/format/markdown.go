package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	gtext "github.com/yuin/goldmark/text"
	"github.com/mattn/go-runewidth"

	"github.com/kk-code-lab/xcat/internal/document"
	"github.com/kk-code-lab/xcat/internal/textutil"
)

const (
	listIndentWidth  = 4
	quoteIndentWidth = 2
	codeFenceRail    = "───"
	thematicRule     = "────────────────────────────────"
	cellSeparator    = "  "
)

var errUnbalancedEvents = errors.New("markdown: unbalanced structural events")

// markdownParser is the GFM collaborator. Its AST walk delivers the
// enter/leave event stream the converter consumes.
var markdownParser = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough),
)

// ConvertMarkdown parses GFM source and flattens it into a Document.
// A malformed event stream (or a parser panic) aborts the conversion
// with an error; it never crashes the process.
func ConvertMarkdown(source []byte) (doc document.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("markdown: conversion failed: %v", r)
		}
	}()

	root := markdownParser.Parser().Parse(gtext.NewReader(source))
	c := &mdConverter{src: source}
	if walkErr := ast.Walk(root, c.handle); walkErr != nil {
		return document.Document{}, walkErr
	}
	c.flush()
	c.trimTrailingBlanks()
	return c.doc, nil
}

type listContext struct {
	ordered bool
	index   int
}

// mdConverter folds the enter/leave event stream into lines. Entering
// a structural node pushes its style contribution; leaving pops it.
// Text runs are emitted as spans carrying the union of the stack.
type mdConverter struct {
	src []byte
	doc document.Document

	line   document.Line
	styles []document.Style
	indent int

	lists []listContext

	inTable   bool
	inCell    bool
	tableRows [][]string
	row       []string
	cell      strings.Builder
}

func (c *mdConverter) current() document.Style {
	s := document.StyleNone
	for _, st := range c.styles {
		s = s.With(st)
	}
	return s
}

func (c *mdConverter) push(s document.Style) {
	c.styles = append(c.styles, s)
}

func (c *mdConverter) pop() error {
	if len(c.styles) == 0 {
		return errUnbalancedEvents
	}
	c.styles = c.styles[:len(c.styles)-1]
	return nil
}

// inlineText sanitizes a text run for mid-line emission. Tabs become
// single spaces: inline runs start at arbitrary columns, so there is
// no tab stop to expand against.
func inlineText(text string) string {
	return strings.ReplaceAll(textutil.Sanitize(text), "\t", " ")
}

func (c *mdConverter) emit(text string, style document.Style) {
	if text == "" {
		return
	}
	c.line.Spans = append(c.line.Spans, document.Span{Text: text, Style: style})
}

// flush closes the in-progress line if it has content.
func (c *mdConverter) flush() {
	if len(c.line.Spans) == 0 {
		return
	}
	c.flushAlways()
}

// flushAlways closes the in-progress line even when empty, preserving
// blank lines inside code blocks.
func (c *mdConverter) flushAlways() {
	c.line.Indent = c.indent
	c.doc.Append(c.line)
	c.line = document.Line{}
}

func (c *mdConverter) blank() {
	c.doc.AppendBlank()
}

func (c *mdConverter) trimTrailingBlanks() {
	for n := len(c.doc.Lines); n > 0 && c.doc.Lines[n-1].IsBlank(); n-- {
		c.doc.Lines = c.doc.Lines[:n-1]
	}
}

func (c *mdConverter) handle(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := n.(type) {
	case *ast.Heading:
		if entering {
			c.push(document.StyleHeading | document.StyleBold)
		} else {
			if err := c.pop(); err != nil {
				return ast.WalkStop, err
			}
			c.flush()
			c.blank()
		}

	case *ast.Paragraph:
		if !entering && !c.inTable {
			c.flush()
			if len(c.lists) == 0 {
				c.blank()
			}
		}

	case *ast.TextBlock:
		// Tight list items carry text blocks instead of paragraphs.
		if !entering {
			c.flush()
		}

	case *ast.FencedCodeBlock:
		return c.handleCodeBlock(n, entering)

	case *ast.CodeBlock:
		return c.handleCodeBlock(n, entering)

	case *ast.Blockquote:
		if entering {
			c.indent += quoteIndentWidth
			c.push(document.StyleQuote)
			c.emit("│ ", document.StyleQuote|document.StyleDim)
		} else {
			c.indent -= quoteIndentWidth
			if c.indent < 0 {
				c.indent = 0
			}
			if err := c.pop(); err != nil {
				return ast.WalkStop, err
			}
			c.flush()
			c.blank()
		}

	case *ast.List:
		if entering {
			start := n.Start
			if start > 0 {
				start--
			}
			c.lists = append(c.lists, listContext{ordered: n.IsOrdered(), index: start})
			c.indent += listIndentWidth
		} else {
			if len(c.lists) == 0 {
				return ast.WalkStop, errUnbalancedEvents
			}
			c.lists = c.lists[:len(c.lists)-1]
			c.indent -= listIndentWidth
			if c.indent < 0 {
				c.indent = 0
			}
			if len(c.lists) == 0 {
				c.blank()
			}
		}

	case *ast.ListItem:
		if entering {
			if len(c.lists) == 0 {
				return ast.WalkStop, errUnbalancedEvents
			}
			ctx := &c.lists[len(c.lists)-1]
			if ctx.ordered {
				ctx.index++
				c.emit(fmt.Sprintf("%d. ", ctx.index), document.StyleNone)
			} else {
				c.emit("• ", document.StyleNone)
			}
		} else {
			c.flush()
		}

	case *ast.ThematicBreak:
		if entering {
			c.flush()
			c.emit(thematicRule, document.StyleDim)
			c.flushAlways()
		}

	case *ast.Emphasis:
		style := document.StyleItalic
		if n.Level >= 2 {
			style = document.StyleBold
		}
		if entering {
			c.push(style)
		} else if err := c.pop(); err != nil {
			return ast.WalkStop, err
		}

	case *ast.CodeSpan:
		if entering {
			c.push(document.StyleCode)
		} else if err := c.pop(); err != nil {
			return ast.WalkStop, err
		}

	case *east.Strikethrough:
		if entering {
			c.push(document.StyleDim)
		} else if err := c.pop(); err != nil {
			return ast.WalkStop, err
		}

	case *ast.Text:
		if entering {
			c.handleText(n)
		}

	case *ast.String:
		if entering {
			c.appendText(string(n.Value))
		}

	case *ast.AutoLink:
		if entering {
			c.appendText(string(n.URL(c.src)))
			return ast.WalkSkipChildren, nil
		}

	case *ast.HTMLBlock:
		return ast.WalkSkipChildren, nil

	case *ast.RawHTML:
		return ast.WalkSkipChildren, nil

	case *east.Table:
		if entering {
			c.inTable = true
			c.tableRows = nil
		} else {
			c.inTable = false
			c.layoutTable()
		}

	case *east.TableHeader:
		if entering {
			c.row = nil
		} else {
			c.tableRows = append(c.tableRows, c.row)
			c.row = nil
		}

	case *east.TableRow:
		if entering {
			c.row = nil
		} else {
			c.tableRows = append(c.tableRows, c.row)
			c.row = nil
		}

	case *east.TableCell:
		if entering {
			c.inCell = true
			c.cell.Reset()
		} else {
			c.inCell = false
			c.row = append(c.row, inlineText(c.cell.String()))
		}
	}

	return ast.WalkContinue, nil
}

func (c *mdConverter) handleText(n *ast.Text) {
	text := string(n.Segment.Value(c.src))
	if c.inCell {
		c.cell.WriteString(text)
		if n.SoftLineBreak() || n.HardLineBreak() {
			c.cell.WriteByte(' ')
		}
		return
	}
	c.emit(inlineText(text), c.current())
	switch {
	case n.HardLineBreak():
		c.flush()
	case n.SoftLineBreak():
		c.emit(" ", c.current())
	}
}

func (c *mdConverter) appendText(text string) {
	if c.inCell {
		c.cell.WriteString(text)
		return
	}
	c.emit(inlineText(text), c.current())
}

type codeLiner interface {
	Lines() *gtext.Segments
}

func (c *mdConverter) handleCodeBlock(n codeLiner, entering bool) (ast.WalkStatus, error) {
	if entering {
		c.flush()
		c.emit(codeFenceRail, document.StyleDim)
		c.flushAlways()
		c.push(document.StyleCode)

		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			text := strings.TrimSuffix(string(seg.Value(c.src)), "\n")
			text = textutil.ExpandTabs(textutil.Sanitize(text), textutil.DefaultTabWidth)
			c.emit(text, c.current())
			c.flushAlways()
		}
		return ast.WalkSkipChildren, nil
	}

	if err := c.pop(); err != nil {
		return ast.WalkStop, err
	}
	c.emit(codeFenceRail, document.StyleDim)
	c.flushAlways()
	return ast.WalkContinue, nil
}

// layoutTable emits one line per row. Each row is laid out on its own:
// cells joined by a fixed separator, no global column alignment.
func (c *mdConverter) layoutTable() {
	if len(c.tableRows) == 0 {
		return
	}

	for r, row := range c.tableRows {
		style := document.StyleNone
		if r == 0 {
			style = document.StyleBold | document.StyleHeading
		}

		line := document.Line{Indent: c.indent}
		for i, cell := range row {
			if i > 0 {
				line.Spans = append(line.Spans, document.Span{Text: cellSeparator, Style: document.StyleNone})
			}
			line.Spans = append(line.Spans, document.Span{Text: cell, Style: style})
		}
		c.doc.Append(line)

		if r == 0 {
			rule := document.Line{Indent: c.indent}
			for i, cell := range row {
				if i > 0 {
					rule.Spans = append(rule.Spans, document.Span{Text: cellSeparator, Style: document.StyleNone})
				}
				dashes := strings.Repeat("─", max(runewidth.StringWidth(cell), 1))
				rule.Spans = append(rule.Spans, document.Span{Text: dashes, Style: document.StyleDim})
			}
			c.doc.Append(rule)
		}
	}

	c.tableRows = nil
	c.blank()
}
