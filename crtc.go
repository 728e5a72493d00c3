package kmsfb

import (
	"fmt"

	"github.com/NeowayLabs/drm/mode"
)

// savedState is the CRTC configuration captured immediately before the first
// mutation of a binding. It is restored exactly once, and always before the
// framebuffer it may reference is released.
type savedState struct {
	crtc      uint32
	fb        uint32
	x, y      uint32
	mode      mode.Info
	modeValid bool
	connector uint32
	restored  bool
}

// captureCRTC snapshots the CRTC's current configuration. The connector id
// is remembered alongside it because the kernel does not report the prior
// connector set; restoring reuses the connector this binding drove.
func captureCRTC(drv driver, crtcID, connectorID uint32) (*savedState, error) {
	crtc, err := drv.CRTC(crtcID)
	if err != nil {
		return nil, fmt.Errorf("kmsfb: capture CRTC %d: %w", crtcID, err)
	}
	return &savedState{
		crtc:      crtc.ID,
		fb:        crtc.BufferID,
		x:         crtc.X,
		y:         crtc.Y,
		mode:      crtc.Mode,
		modeValid: crtc.ModeValid != 0,
		connector: connectorID,
	}, nil
}

// applyCRTC programs the CRTC to scan out the binding's framebuffer at the
// origin with the binding's mode and single connector.
func applyCRTC(drv driver, crtcID uint32, buf *framebuf, connectorID uint32, m *mode.Info) error {
	conn := connectorID
	if err := drv.SetCRTC(crtcID, buf.fb, 0, 0, &conn, 1, m); err != nil {
		return fmt.Errorf("kmsfb: set CRTC %d: %w", crtcID, err)
	}
	return nil
}

// restore reprograms the CRTC to the captured configuration. Subsequent
// calls are no-ops.
func (s *savedState) restore(drv driver) error {
	if s.restored {
		return nil
	}
	s.restored = true

	var m *mode.Info
	if s.modeValid {
		m = &s.mode
	}
	conn := s.connector
	if err := drv.SetCRTC(s.crtc, s.fb, s.x, s.y, &conn, 1, m); err != nil {
		return fmt.Errorf("kmsfb: restore CRTC %d: %w", s.crtc, err)
	}
	return nil
}
