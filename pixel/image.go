package pixel

import (
	"errors"
	"image"
	"image/color"
)

// Errors
var (
	// ErrBounds is returned by SetXRGB for coordinates outside the image.
	ErrBounds = errors.New("pixel: coordinates out of bounds")

	// ErrShortSource is returned by Blit when the source slice holds
	// fewer than w*h pixels.
	ErrShortSource = errors.New("pixel: source slice shorter than w×h")
)

// Buffer holds packed XRGB pixel values, either owned or aliasing mapped
// device memory.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the packed pixels, one word each.
	Pix []XRGB

	// Stride is the distance in words between vertically adjacent pixels.
	// For scanout buffers it is the driver-reported pitch divided by four
	// and may exceed Rect.Dx().
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

// Clear zero-fills the whole buffer, padding included.
func (p *Buffer) Clear() {
	clear(p.Pix)
}

// XRGBImage is a packed 32-bit XRGB image with clipped drawing primitives.
type XRGBImage struct {
	Buffer
}

// NewXRGBImage returns an owned, zeroed image of the given size.
func NewXRGBImage(w, h int) *XRGBImage {
	return &XRGBImage{
		Buffer: Buffer{
			Rect:   image.Rect(0, 0, w, h),
			Pix:    make([]XRGB, w*h),
			Stride: w,
		},
	}
}

func (p *XRGBImage) ColorModel() color.Model {
	return XRGBModel
}

func (p *XRGBImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return p.Pix[y*p.Stride+x]
}

// Set writes one pixel, silently discarding out-of-bounds coordinates. This
// is the [draw.Image] entry point used by stdlib drawing and font rendering.
func (p *XRGBImage) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	p.Pix[y*p.Stride+x] = xrgbModel(c).(XRGB)
}

// SetXRGB writes one pixel and reports [ErrBounds] for coordinates outside
// the image; the caller decides whether to clip, log or abort. This is slow
// for bulk work, prefer [XRGBImage.FillRect] and [XRGBImage.Blit].
func (p *XRGBImage) SetXRGB(x, y int, v XRGB) error {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return ErrBounds
	}
	p.Pix[y*p.Stride+x] = v
	return nil
}

// clip trims the rectangle (x,y,w,h) against the image. It returns the
// number of leading columns and rows to skip (cx, cy), the clamped span
// width and row count, and whether anything is left to draw. A rectangle
// whose origin lies past the far edge or whose end lies before the near
// edge on either axis is discarded entirely.
func (p *XRGBImage) clip(x, y, w, h int) (cx, cy, cw, ch int, ok bool) {
	var (
		width  = p.Rect.Dx()
		height = p.Rect.Dy()
	)
	if x > width || y > height {
		return 0, 0, 0, 0, false
	}
	if x+w < 0 || y+h < 0 {
		return 0, 0, 0, 0, false
	}

	if x < 0 {
		cx = -x
	}
	if y < 0 {
		cy = -y
	}

	cw = w - cx
	if x+w > width {
		cw -= (x + w) - width
	}
	ch = h
	if y+h > height {
		ch -= (y + h) - height
	}

	return cx, cy, cw, ch, cw > 0 && ch > cy
}

// FillRect fills the rectangle (x,y,w,h) with a single color. The rectangle
// is clamped to the image; the first clamped row is painted pixel by pixel
// and the remaining rows are bulk copies of it.
func (p *XRGBImage) FillRect(x, y, w, h int, v XRGB) {
	cx, cy, cw, ch, ok := p.clip(x, y, w, h)
	if !ok {
		return
	}

	var (
		left = x + cx
		top  = y + cy
		row  = p.Pix[top*p.Stride+left : top*p.Stride+left+cw]
	)
	for i := range row {
		row[i] = v
	}
	for ry := top + 1; ry < y+ch; ry++ {
		copy(p.Pix[ry*p.Stride+left:ry*p.Stride+left+cw], row)
	}
}

// Blit copies a w×h source pixel array to (x,y), row by row as contiguous
// spans. Destination clamping is mirrored into the source read offset: a
// negative x or y skips that many leading source columns or rows, and an
// end past the image edge trims the copied span. The source must hold at
// least w*h pixels.
func (p *XRGBImage) Blit(x, y, w, h int, src []XRGB) error {
	if len(src) < w*h {
		return ErrShortSource
	}

	cx, cy, cw, ch, ok := p.clip(x, y, w, h)
	if !ok {
		return nil
	}

	left := x + cx
	for ; cy < ch; cy++ {
		var (
			dst = (y+cy)*p.Stride + left
			off = cy*w + cx
		)
		copy(p.Pix[dst:dst+cw], src[off:off+cw])
	}
	return nil
}

// DrawImage draws src with its top-left corner at (x,y), with the same
// clipping as [XRGBImage.Blit].
func (p *XRGBImage) DrawImage(x, y int, src *XRGBImage) {
	var (
		w = src.Rect.Dx()
		h = src.Rect.Dy()
	)
	if src.Stride == w {
		// Always enough pixels, the short-source error cannot happen.
		_ = p.Blit(x, y, w, h, src.Pix)
		return
	}

	cx, cy, cw, ch, ok := p.clip(x, y, w, h)
	if !ok {
		return
	}
	left := x + cx
	for ; cy < ch; cy++ {
		var (
			dst = (y+cy)*p.Stride + left
			off = cy*src.Stride + cx
		)
		copy(p.Pix[dst:dst+cw], src.Pix[off:off+cw])
	}
}

// Fill paints the whole image in a single color.
func (p *XRGBImage) Fill(c color.Color) {
	p.FillRect(0, 0, p.Rect.Dx(), p.Rect.Dy(), xrgbModel(c).(XRGB))
}

// testBars are the TestPattern colors, left to right.
var testBars = [8]XRGB{
	0xFFFFFF, 0xFFFF00, 0x00FFFF, 0x00FF00,
	0xFF00FF, 0xFF0000, 0x0000FF, 0x000000,
}

// TestPattern paints eight equal-width vertical color bars. The first row
// is painted pixel by pixel and replicated downward with bulk row copies.
func (p *XRGBImage) TestPattern() {
	var (
		width  = p.Rect.Dx()
		height = p.Rect.Dy()
	)
	if width == 0 || height == 0 {
		return
	}

	barWidth := width / len(testBars)
	if barWidth == 0 {
		barWidth = 1
	}
	row := p.Pix[:width]
	for rx := range row {
		row[rx] = testBars[min(rx/barWidth, len(testBars)-1)]
	}
	for y := 1; y < height; y++ {
		copy(p.Pix[y*p.Stride:y*p.Stride+width], row)
	}
}

// Interface checks.
var (
	_ image.Image = (*XRGBImage)(nil)
	_ color.Color = XRGB(0)
)
