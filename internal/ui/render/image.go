package render

import (
	"errors"
	"image"

	"github.com/gdamore/tcell/v2"
)

// Rect is a cell rectangle inside the viewport.
type Rect struct {
	X, Y, Width, Height int
}

var errNoImageArea = errors.New("render: no room to paint image")

// PaintImage draws a decoded image into the given cell rectangle using
// half-block cells: each cell shows two vertically stacked pixels, the
// upper one as foreground of '▀', the lower one as background. Aspect
// ratio is preserved; the image is centered horizontally.
func (r *Renderer) PaintImage(img image.Image, area Rect) error {
	if area.Width <= 0 || area.Height <= 0 {
		return errNoImageArea
	}
	if r.screen.Colors() < 8 {
		return errors.New("render: terminal lacks color support for images")
	}

	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return errors.New("render: image has no pixels")
	}

	// One cell covers one column and two pixel rows.
	maxW := area.Width
	maxH := area.Height * 2

	scaleX := float64(maxW) / float64(srcW)
	scaleY := float64(maxH) / float64(srcH)
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}
	if scale > 1 {
		scale = 1
	}

	outW := int(float64(srcW) * scale)
	outH := int(float64(srcH) * scale)
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}

	cellRows := (outH + 1) / 2
	xOrigin := area.X + (area.Width-outW)/2

	for cy := 0; cy < cellRows && cy < area.Height; cy++ {
		for cx := 0; cx < outW; cx++ {
			top := samplePixel(img, cx, cy*2, outW, outH)
			style := tcell.StyleDefault.Foreground(top)
			if cy*2+1 < outH {
				style = style.Background(samplePixel(img, cx, cy*2+1, outW, outH))
			}
			r.screen.SetContent(xOrigin+cx, area.Y+cy, '▀', nil, style)
		}
	}

	return nil
}

// samplePixel maps an output pixel back to the source with nearest
// neighbor sampling.
func samplePixel(img image.Image, x, y, outW, outH int) tcell.Color {
	bounds := img.Bounds()
	srcX := bounds.Min.X + x*bounds.Dx()/outW
	srcY := bounds.Min.Y + y*bounds.Dy()/outH
	if srcX >= bounds.Max.X {
		srcX = bounds.Max.X - 1
	}
	if srcY >= bounds.Max.Y {
		srcY = bounds.Max.Y - 1
	}

	cr, cg, cb, _ := img.At(srcX, srcY).RGBA()
	return tcell.NewRGBColor(int32(cr>>8), int32(cg>>8), int32(cb>>8))
}
