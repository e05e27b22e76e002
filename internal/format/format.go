// Package format turns files into render-ready documents: it detects a
// file's format from its content signature and converts markdown,
// images and plain text into the document model.
package format

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Kind identifies a detected file format. The set is closed; adding a
// format means adding a tag here plus a signature or extension entry.
type Kind int

const (
	Unknown Kind = iota
	Markdown
	PNG
	JPEG
	GIF
	BMP
	WebP
	TIFF
	ICO
)

var kindNames = map[Kind]string{
	Unknown:  "unknown",
	Markdown: "markdown",
	PNG:      "png",
	JPEG:     "jpeg",
	GIF:      "gif",
	BMP:      "bmp",
	WebP:     "webp",
	TIFF:     "tiff",
	ICO:      "ico",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsImage reports whether the kind is a raster image format.
func (k Kind) IsImage() bool {
	switch k {
	case PNG, JPEG, GIF, BMP, WebP, TIFF, ICO:
		return true
	}
	return false
}

// HeaderSize is how many leading bytes Detect needs to see every
// signature in the table, including WebP's secondary marker.
const HeaderSize = 32

type signature struct {
	magic []byte
	kind  Kind
	// Secondary marker for container formats: RIFF alone is not WebP,
	// the "WEBP" fourcc at offset 8 is.
	also       []byte
	alsoOffset int
}

// Ordered by decreasing magic length so a short signature never
// shadows a longer, more specific one.
var signatures = []signature{
	{magic: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, kind: PNG},
	{magic: []byte{0x49, 0x49, 0x2A, 0x00}, kind: TIFF},
	{magic: []byte{0x4D, 0x4D, 0x00, 0x2A}, kind: TIFF},
	{magic: []byte{0x00, 0x00, 0x01, 0x00}, kind: ICO},
	{magic: []byte("GIF8"), kind: GIF},
	{magic: []byte("RIFF"), kind: WebP, also: []byte("WEBP"), alsoOffset: 8},
	{magic: []byte{0xFF, 0xD8, 0xFF}, kind: JPEG},
	{magic: []byte("BM"), kind: BMP},
}

var extensionKinds = map[string]Kind{
	".md":       Markdown,
	".markdown": Markdown,
	".mdown":    Markdown,
	".mkd":      Markdown,
	".mkdown":   Markdown,
	".mdwn":     Markdown,
	".png":      PNG,
	".jpg":      JPEG,
	".jpeg":     JPEG,
	".gif":      GIF,
	".bmp":      BMP,
	".webp":     WebP,
	".tif":      TIFF,
	".tiff":     TIFF,
	".ico":      ICO,
}

func (s signature) matches(prefix []byte) bool {
	if len(prefix) < len(s.magic) {
		return false
	}
	for i, b := range s.magic {
		if prefix[i] != b {
			return false
		}
	}
	if len(s.also) > 0 {
		end := s.alsoOffset + len(s.also)
		if len(prefix) < end {
			return false
		}
		for i, b := range s.also {
			if prefix[s.alsoOffset+i] != b {
				return false
			}
		}
	}
	return true
}

// Detect matches the file's leading bytes against the signature table,
// falling back to the name's extension. Signatures win over
// extensions; detection never fails, it only returns Unknown.
func Detect(prefix []byte, name string) Kind {
	for _, sig := range signatures {
		if sig.matches(prefix) {
			return sig.kind
		}
	}
	ext := strings.ToLower(filepath.Ext(name))
	if kind, ok := extensionKinds[ext]; ok {
		return kind
	}
	return Unknown
}

// DetectFile reads the file's header and detects its format. An
// unreadable file is an I/O failure, not a detection result.
func DetectFile(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer func() {
		_ = f.Close()
	}()

	prefix, err := io.ReadAll(io.LimitReader(f, HeaderSize))
	if err != nil {
		return Unknown, err
	}
	return Detect(prefix, filepath.Base(path)), nil
}
