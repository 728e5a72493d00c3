package kmsfb

import (
	"fmt"
	"os"

	"github.com/NeowayLabs/drm"
)

// Card is an open DRM device with verified dumb-buffer support.
//
// A Card is opened once and closed when the process is done with the
// display. Close it only after every Surface bound through it has been
// closed; the mapped buffer and the saved CRTC state reference the device.
type Card struct {
	file   *os.File
	drv    driver
	closed bool
}

// OpenCard opens DRM card number n (typically 0 for /dev/dri/card0).
//
// The device is probed for the dumb-buffer capability; without it no
// CPU-mappable buffer can ever be created, so OpenCard fails with
// [ErrNoDumbBuffer] rather than fall back to another device.
func OpenCard(n int) (*Card, error) {
	file, err := drm.OpenCard(n)
	if err != nil {
		return nil, fmt.Errorf("kmsfb: open card %d: %w", n, err)
	}
	return newCard(file)
}

// Open opens the DRM device node at path, for setups where the card number
// is not known in advance.
func Open(path string) (*Card, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("kmsfb: open %s: %w", path, err)
	}
	return newCard(file)
}

func newCard(file *os.File) (*Card, error) {
	if !drm.HasDumbBuffer(file) {
		_ = file.Close()
		return nil, fmt.Errorf("kmsfb: %s: %w", file.Name(), ErrNoDumbBuffer)
	}
	logger().Debug("opened DRM device", "path", file.Name())
	return &Card{
		file: file,
		drv:  &drmDriver{file: file},
	}, nil
}

// Close closes the device node. Surfaces bound through this card must be
// closed first.
func (c *Card) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.file.Close()
}
