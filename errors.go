package kmsfb

import "errors"

// Errors returned while resolving a display pipeline. The per-connector
// errors (ErrNotConnected, ErrNoMode, ErrNoCRTC, ErrCRTCBusy) never abort
// enumeration; [Card.Bind] skips the connector and tries the next one.
var (
	// ErrNoDumbBuffer means the device cannot allocate CPU-mappable
	// buffers. This is fatal: no buffer creation is ever attempted on
	// such a device.
	ErrNoDumbBuffer = errors.New("kmsfb: device does not support dumb buffers")

	// ErrNotConnected means no display is attached to the connector.
	ErrNotConnected = errors.New("kmsfb: connector has no display attached")

	// ErrNoMode means the connector reports an empty mode list.
	ErrNoMode = errors.New("kmsfb: connector reports no modes")

	// ErrNoCRTC means no CRTC is compatible with any of the connector's
	// encoders.
	ErrNoCRTC = errors.New("kmsfb: no suitable CRTC for connector")

	// ErrCRTCBusy means every compatible CRTC is already claimed by an
	// earlier binding in the same enumeration pass.
	ErrCRTCBusy = errors.New("kmsfb: all suitable CRTCs already claimed")

	// ErrNoDisplay means enumeration finished without resolving any
	// connector.
	ErrNoDisplay = errors.New("kmsfb: no connected display could be resolved")

	// ErrClosed is returned by operations on a closed Card or Surface.
	ErrClosed = errors.New("kmsfb: use after close")
)
