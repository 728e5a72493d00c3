package kmsfb

import (
	"context"
	"errors"
	"fmt"

	"github.com/NeowayLabs/drm/mode"
)

// Bind resolves a display pipeline and returns the bound drawing surface.
// See [Card.BindContext].
func (c *Card) Bind() (*Surface, error) {
	return c.BindContext(context.Background())
}

// BindContext walks the card's connectors and, for the first one that
// resolves, selects its preferred mode and a compatible CRTC, allocates a
// dumb buffer sized to the mode, and programs the CRTC to scan it out.
// Connectors that are unplugged, modeless, or out of CRTCs are skipped;
// their failures never abort the scan. If no connector resolves,
// BindContext returns [ErrNoDisplay].
//
// Every driver request blocks until the driver responds and cannot be
// interrupted, so the context deadline is best-effort: it is checked
// between driver round-trips, not during them.
func (c *Card) BindContext(ctx context.Context) (*Surface, error) {
	if c.closed {
		return nil, ErrClosed
	}

	res, err := c.drv.Resources()
	if err != nil {
		return nil, fmt.Errorf("kmsfb: get resources: %w", err)
	}

	// CRTCs claimed by bindings made earlier in this pass. A CRTC drives
	// one connector; handing it out twice would silently steal the first
	// binding's scanout.
	claimed := make(map[uint32]bool)

	for _, connID := range res.Connectors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		surf, err := c.resolveOne(res, connID, claimed)
		if err != nil {
			logger().Debug("skipping connector", "connector", connID, "reason", err)
			continue
		}
		return surf, nil
	}
	return nil, ErrNoDisplay
}

// resolveOne attempts to bind a single connector. Any error means this
// connector is skipped; resources allocated along the way are already
// released when it returns.
func (c *Card) resolveOne(res *mode.Resources, connID uint32, claimed map[uint32]bool) (*Surface, error) {
	conn, err := c.drv.Connector(connID)
	if err != nil {
		return nil, fmt.Errorf("query connector %d: %w", connID, err)
	}
	if conn.Connection != mode.Connected {
		return nil, ErrNotConnected
	}
	if len(conn.Modes) == 0 {
		return nil, ErrNoMode
	}

	// The first mode is the driver's preferred (typically highest
	// resolution) entry; no further negotiation.
	m := conn.Modes[0]
	logger().Debug("selected mode",
		"connector", connID, "width", m.Hdisplay, "height", m.Vdisplay)

	crtcID, err := c.findCRTC(res, conn, claimed)
	if err != nil {
		return nil, err
	}

	buf, err := createFramebuf(c.drv, m.Hdisplay, m.Vdisplay)
	if err != nil {
		return nil, err
	}

	// Snapshot the CRTC state now, immediately before the first mutation.
	saved, err := captureCRTC(c.drv, crtcID, connID)
	if err != nil {
		_ = buf.release()
		return nil, err
	}

	claimed[crtcID] = true

	surf := &Surface{
		XRGBImage: buf.image(),
		card:      c,
		buf:       buf,
		saved:     saved,
		connector: connID,
		crtc:      crtcID,
		mode:      m,
	}

	// A refused modeset is not fatal: the binding holds all its resources
	// and drawing works, but nothing reaches the display.
	if err := applyCRTC(c.drv, crtcID, buf, connID, &m); err != nil {
		logger().Warn("modeset refused, surface will not be displayed",
			"connector", connID, "crtc", crtcID, "err", err)
	}

	logger().Debug("bound display pipeline",
		"connector", connID, "crtc", crtcID,
		"width", m.Hdisplay, "height", m.Vdisplay)
	return surf, nil
}

// findCRTC picks a CRTC for the connector. The pairing the connector is
// currently driven by is reused when free, avoiding a full mode change;
// otherwise every encoder's compatibility bitmask is scanned against the
// card's CRTC list and the first free match wins.
func (c *Card) findCRTC(res *mode.Resources, conn *mode.Connector, claimed map[uint32]bool) (uint32, error) {
	if conn.EncoderID != 0 {
		if enc, err := c.drv.Encoder(conn.EncoderID); err == nil {
			if enc.CrtcID != 0 && !claimed[enc.CrtcID] {
				return enc.CrtcID, nil
			}
		}
	}

	var busy bool
	for _, encID := range conn.Encoders {
		enc, err := c.drv.Encoder(encID)
		if err != nil {
			logger().Debug("cannot query encoder", "encoder", encID, "err", err)
			continue
		}
		for j, crtcID := range res.Crtcs {
			if enc.PossibleCrtcs&(1<<uint(j)) == 0 {
				continue
			}
			if claimed[crtcID] {
				busy = true
				continue
			}
			return crtcID, nil
		}
	}
	if busy {
		return 0, ErrCRTCBusy
	}
	return 0, ErrNoCRTC
}

// IsPipelineError reports whether err is one of the per-connector resolution
// failures that [Card.BindContext] skips over.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrNotConnected) ||
		errors.Is(err, ErrNoMode) ||
		errors.Is(err, ErrNoCRTC) ||
		errors.Is(err, ErrCRTCBusy)
}
