// Package app wires the pipeline: detect the file's format, convert
// it to a document, and hand it to the interactive viewer — or print
// it plainly when stdout is not a terminal.
package app

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-isatty"

	"github.com/kk-code-lab/xcat/internal/document"
	"github.com/kk-code-lab/xcat/internal/format"
	"github.com/kk-code-lab/xcat/internal/ui/render"
	"github.com/kk-code-lab/xcat/internal/ui/viewer"
)

// ErrUnsupportedFormat marks files that are neither a known format nor
// displayable text.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Run previews the file at path. It returns an error for I/O failures
// and unsupported content; conversion failures degrade to a diagnostic
// document instead.
func Run(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s: is a directory", path)
	}

	kind, err := format.DetectFile(path)
	if err != nil {
		return err
	}

	doc, img, err := loadDocument(path, kind)
	if err != nil {
		return err
	}

	name := filepath.Base(path)

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		printPlain(&doc)
		return nil
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		printPlain(&doc)
		return fmt.Errorf("cannot start interactive viewer: %w", err)
	}

	v := viewer.New(screen, render.NewRenderer(screen), &doc, name, kind.String())
	if img != nil {
		v.SetImage(img)
	}
	if err := v.Run(); err != nil {
		printPlain(&doc)
		return fmt.Errorf("cannot start interactive viewer: %w", err)
	}
	return nil
}

// loadDocument converts the file per its detected kind. Markdown and
// image conversion failures are recovered as placeholder documents;
// only unreadable files and non-text Unknown content are errors.
func loadDocument(path string, kind format.Kind) (document.Document, image.Image, error) {
	switch {
	case kind == format.Markdown:
		content, err := os.ReadFile(path)
		if err != nil {
			return document.Document{}, nil, err
		}
		doc, err := format.ConvertMarkdown(content)
		if err != nil {
			return document.Placeholder("unsupported content: " + err.Error()), nil, nil
		}
		if doc.LineCount() == 0 {
			return document.Placeholder("(empty file)"), nil, nil
		}
		return doc, nil, nil

	case kind.IsImage():
		img, err := format.DecodeImage(path)
		if err != nil {
			return format.ImageFallbackDocument(kind, err), nil, nil
		}
		return format.ImageDocument(kind, img), img, nil

	default:
		content, err := os.ReadFile(path)
		if err != nil {
			return document.Document{}, nil, err
		}
		if !format.IsText(content) {
			return document.Document{}, nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
		}
		doc := format.ConvertText(content)
		if doc.LineCount() == 0 {
			return document.Placeholder("(empty file)"), nil, nil
		}
		return doc, nil, nil
	}
}

// printPlain dumps the converted document to stdout without styling:
// direct mode for pipes and for terminals the viewer cannot own.
func printPlain(doc *document.Document) {
	var b strings.Builder
	for _, line := range doc.Lines {
		for i := 0; i < line.Indent; i++ {
			b.WriteByte(' ')
		}
		b.WriteString(line.Text())
		b.WriteByte('\n')
	}
	fmt.Print(b.String())
}
