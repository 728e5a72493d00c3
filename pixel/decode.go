package pixel

import (
	"fmt"
	"image"
	"io"
	"os"

	// Registered decoders for the image sources a surface can display.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// Decode reads a PNG, JPEG or BMP image and converts it to XRGB.
func Decode(r io.Reader) (*XRGBImage, error) {
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("pixel: decode image: %w", err)
	}
	return FromImage(m), nil
}

// DecodeFile decodes the image file at path.
func DecodeFile(path string) (*XRGBImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pixel: open image: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// FromImage converts any image to a packed XRGB pixel array. Alpha is
// discarded.
func FromImage(m image.Image) *XRGBImage {
	var (
		b = m.Bounds()
		p = NewXRGBImage(b.Dx(), b.Dy())
	)
	if rgba, ok := m.(*image.RGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			var (
				src = rgba.Pix[y*rgba.Stride:]
				row = p.Pix[y*p.Stride : y*p.Stride+b.Dx()]
			)
			for x := range row {
				row[x] = RGB(src[x*4], src[x*4+1], src[x*4+2])
			}
		}
		return p
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			p.Pix[y*p.Stride+x] = xrgbModel(m.At(b.Min.X+x, b.Min.Y+y)).(XRGB)
		}
	}
	return p
}
