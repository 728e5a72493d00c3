package kmsfb

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/scanline/kmsfb/pixel"
)

// framebuf is one dumb buffer registered as a scanout framebuffer and mapped
// into process memory. Width and height always equal the mode it was sized
// for; stride is the driver-reported pitch in bytes and may exceed width*4.
type framebuf struct {
	drv    driver
	width  int
	height int
	stride int
	size   uint64
	handle uint32
	fb     uint32
	pix    []byte
}

// createFramebuf allocates, registers and maps a dumb buffer sized to the
// given mode. On any failure the steps that already succeeded are undone in
// strict reverse order before the error propagates.
func createFramebuf(drv driver, width, height uint16) (*framebuf, error) {
	bo, err := drv.CreateDumb(width, height, 32)
	if err != nil {
		return nil, fmt.Errorf("kmsfb: create dumb buffer: %w", err)
	}

	buf := &framebuf{
		drv:    drv,
		width:  int(width),
		height: int(height),
		stride: int(bo.Pitch),
		size:   bo.Size,
		handle: bo.Handle,
	}

	// 24-bit color packed into 32-bit words, top byte ignored.
	buf.fb, err = drv.AddFB(width, height, 24, 32, bo.Pitch, bo.Handle)
	if err != nil {
		_ = drv.DestroyDumb(buf.handle)
		return nil, fmt.Errorf("kmsfb: register framebuffer: %w", err)
	}

	offset, err := drv.MapDumb(buf.handle)
	if err != nil {
		_ = drv.RmFB(buf.fb)
		_ = drv.DestroyDumb(buf.handle)
		return nil, fmt.Errorf("kmsfb: prepare buffer mapping: %w", err)
	}

	buf.pix, err = drv.Map(offset, int(buf.size))
	if err != nil {
		_ = drv.RmFB(buf.fb)
		_ = drv.DestroyDumb(buf.handle)
		return nil, fmt.Errorf("kmsfb: map buffer: %w", err)
	}

	// The buffer must be black before it is ever scanned out.
	clear(buf.pix)

	logger().Debug("framebuffer ready",
		"width", buf.width, "height", buf.height,
		"stride", buf.stride, "size", buf.size)
	return buf, nil
}

// image wraps the mapped memory in a bounds-checked XRGB pixel image. The
// stride is carried over in pixels, so driver alignment padding stays
// outside every row span the rasterizer touches.
func (b *framebuf) image() *pixel.XRGBImage {
	words := unsafe.Slice((*pixel.XRGB)(unsafe.Pointer(&b.pix[0])), len(b.pix)/4)
	return &pixel.XRGBImage{
		Buffer: pixel.Buffer{
			Rect:   image.Rect(0, 0, b.width, b.height),
			Pix:    words,
			Stride: b.stride / 4,
		},
	}
}

// release unmaps, unregisters and destroys the buffer, in that order. Each
// step runs even if an earlier one fails.
func (b *framebuf) release() error {
	var errs []error
	if b.pix != nil {
		if err := b.drv.Unmap(b.pix); err != nil {
			errs = append(errs, fmt.Errorf("kmsfb: unmap buffer: %w", err))
		}
		b.pix = nil
	}
	if err := b.drv.RmFB(b.fb); err != nil {
		errs = append(errs, fmt.Errorf("kmsfb: remove framebuffer: %w", err))
	}
	if err := b.drv.DestroyDumb(b.handle); err != nil {
		errs = append(errs, fmt.Errorf("kmsfb: destroy dumb buffer: %w", err))
	}
	return errors.Join(errs...)
}
