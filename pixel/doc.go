// Package pixel implements the packed 32-bit XRGB pixel format used for
// scanout buffers, and a software rasterizer over it.
//
// The color and image types are compatible with Go's native [color.Color]
// and [image.Image] / [draw.Image] interfaces, so stdlib drawing, font
// rendering and image decoding interoperate with a surface directly.
package pixel
