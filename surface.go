package kmsfb

import (
	"errors"

	"github.com/NeowayLabs/drm/mode"
	"github.com/scanline/kmsfb/pixel"
)

// Surface is an active display binding: one connector, one CRTC, one mode,
// and a memory-mapped pixel buffer being scanned out. The embedded
// [pixel.XRGBImage] provides every drawing primitive; all writes land
// directly in the buffer the display reads from.
//
// A Surface is exclusively owned by the binding that produced it and must
// not be drawn on from more than one goroutine at a time.
type Surface struct {
	*pixel.XRGBImage

	card      *Card
	buf       *framebuf
	saved     *savedState
	connector uint32
	crtc      uint32
	mode      mode.Info
	closed    bool
}

// Width of the surface in pixels.
func (s *Surface) Width() int { return s.buf.width }

// Height of the surface in pixels.
func (s *Surface) Height() int { return s.buf.height }

// Connector returns the DRM id of the connector this surface is bound to.
func (s *Surface) Connector() uint32 { return s.connector }

// CRTC returns the DRM id of the CRTC scanning this surface out.
func (s *Surface) CRTC() uint32 { return s.crtc }

// Mode returns the display mode the surface was bound with.
func (s *Surface) Mode() mode.Info { return s.mode }

// Close tears the binding down: the CRTC is restored to the configuration
// captured before the binding, then the buffer is unmapped, unregistered and
// destroyed. The order is load-bearing; the display must stop scanning the
// buffer before it goes away. Close is idempotent. The card stays open.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.XRGBImage = nil

	var errs []error
	if err := s.saved.restore(s.card.drv); err != nil {
		errs = append(errs, err)
	}
	if err := s.buf.release(); err != nil {
		errs = append(errs, err)
	}
	logger().Debug("released display pipeline", "connector", s.connector, "crtc", s.crtc)
	return errors.Join(errs...)
}
