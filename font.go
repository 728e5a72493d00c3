package kmsfb

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// LoadFontFace parses a TTF file and returns a face at the given point size,
// suitable for [Surface.DrawString].
func LoadFontFace(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("kmsfb: load font: %w", err)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("kmsfb: parse font %s: %w", path, err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}

// DrawString renders s onto dst with its top-left corner at (x, y). Glyphs
// that fall outside dst are clipped. The string is a single line; split on
// newlines before calling.
func DrawString(dst draw.Image, x, y int, s string, face font.Face, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// DrawString renders a single line of text with its top-left corner at
// (x, y) in the given packed color.
func (s *Surface) DrawString(x, y int, text string, face font.Face, c color.Color) {
	DrawString(s, x, y, text, face, c)
}
