package format

import (
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kk-code-lab/xcat/internal/document"
)

// DecodeImage opens and decodes a raster image file. All detected
// image kinds except ICO have a registered decoder; anything the
// decoders reject comes back as an error for the caller to degrade on.
func DecodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// ImageDocument is the navigable one-line document shown alongside a
// painted image.
func ImageDocument(kind Kind, img image.Image) document.Document {
	b := img.Bounds()
	return document.Placeholder(fmt.Sprintf("%s image %d×%d", kind, b.Dx(), b.Dy()))
}

// ImageFallbackDocument describes a decode or display failure, so the
// viewer still has content to navigate instead of crashing out.
func ImageFallbackDocument(kind Kind, err error) document.Document {
	return document.Placeholder(fmt.Sprintf("cannot display %s image: %v", kind, err))
}
