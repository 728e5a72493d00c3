package pixel

import "image/color"

// XRGB is a 32-bit pixel with 8 bits per color channel packed as 0x00RRGGBB.
// The top byte is ignored by the display and always written as zero.
type XRGB uint32

// RGB packs three 8-bit channels into an XRGB value.
func RGB(r, g, b uint8) XRGB {
	return XRGB(r)<<16 | XRGB(g)<<8 | XRGB(b)
}

func (c XRGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c>>16) & 0xff
	g = uint32(c>>8) & 0xff
	b = uint32(c) & 0xff
	// Duplicate the 8-bit channels into 16-bit ones.
	r |= r << 8
	g |= g << 8
	b |= b << 8
	return r, g, b, 0xffff
}

// XRGBModel converts arbitrary colors to XRGB, discarding alpha.
var XRGBModel color.Model = color.ModelFunc(xrgbModel)

func xrgbModel(c color.Color) color.Color {
	if _, ok := c.(XRGB); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
