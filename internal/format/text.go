package format

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/kk-code-lab/xcat/internal/document"
	"github.com/kk-code-lab/xcat/internal/textutil"
)

const (
	textSniffSampleSize          = 4096
	nonPrintableThresholdPercent = 30
)

type unicodeEncoding int

const (
	encodingUnknown unicodeEncoding = iota
	encodingUTF8BOM
	encodingUTF16LE
	encodingUTF16BE
)

// IsText reports whether content looks like displayable text. Files
// detected as Unknown run through this before the viewer gives up on
// them.
func IsText(content []byte) bool {
	if len(content) == 0 {
		return true
	}

	sample := content
	if len(sample) > textSniffSampleSize {
		sample = sample[:textSniffSampleSize]
	}

	if detectUnicodeEncoding(sample) != encodingUnknown {
		return true
	}
	if bytes.IndexByte(sample, 0x00) != -1 {
		return false
	}
	if utf8.Valid(sample) {
		return true
	}

	nonPrintable := 0
	for _, b := range sample {
		if !isCommonTextByte(b) {
			nonPrintable++
		}
	}
	return nonPrintable*100/len(sample) < nonPrintableThresholdPercent
}

// ConvertText turns raw text content into a plain Document: one line
// per source line, tabs expanded, terminal escapes neutralized.
func ConvertText(content []byte) document.Document {
	normalized := normalizeTextContent(content)
	normalized = strings.TrimSuffix(normalized, "\n")

	var doc document.Document
	if normalized == "" {
		return doc
	}
	for _, raw := range strings.Split(normalized, "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		text := textutil.ExpandTabs(textutil.Sanitize(raw), textutil.DefaultTabWidth)
		line := document.Line{}
		if text != "" {
			line.Spans = []document.Span{{Text: text, Style: document.StyleNone}}
		}
		doc.Append(line)
	}
	return doc
}

func isCommonTextByte(b byte) bool {
	switch {
	case b == 0x09 || b == 0x0A || b == 0x0D:
		return true
	case b >= 0x20 && b <= 0x7E:
		return true
	case b >= 0x80:
		return true
	default:
		return false
	}
}

func detectUnicodeEncoding(sample []byte) unicodeEncoding {
	if len(sample) >= 3 && sample[0] == 0xEF && sample[1] == 0xBB && sample[2] == 0xBF {
		return encodingUTF8BOM
	}
	if len(sample) >= 2 {
		switch {
		case sample[0] == 0xFF && sample[1] == 0xFE:
			return encodingUTF16LE
		case sample[0] == 0xFE && sample[1] == 0xFF:
			return encodingUTF16BE
		}
	}
	return encodingUnknown
}

// normalizeTextContent converts BOM-marked Unicode content to UTF-8.
func normalizeTextContent(content []byte) string {
	switch detectUnicodeEncoding(content) {
	case encodingUTF8BOM:
		return string(content[3:])
	case encodingUTF16LE:
		return decodeUTF16(content, unicode.LittleEndian)
	case encodingUTF16BE:
		return decodeUTF16(content, unicode.BigEndian)
	default:
		return string(content)
	}
}

func decodeUTF16(content []byte, endian unicode.Endianness) string {
	decoder := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder()
	out, err := decoder.Bytes(content)
	if err != nil {
		return string(content)
	}
	return string(out)
}
