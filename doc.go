// Package kmsfb drives a display output directly through the kernel's
// DRM/KMS interface, without a windowing system.
//
// Opening a card probes it for dumb-buffer support, and [Card.Bind] walks the
// connectors until one resolves to a working connector → encoder → CRTC →
// mode pipeline. The selected mode's dumb buffer is memory-mapped into the
// process and exposed as a [Surface], a software-rendered drawing target.
// Closing the surface restores the CRTC configuration that was active before
// the binding and releases the buffer.
//
// The package owns the display exclusively while a binding is active; drawing
// calls are not synchronized and must come from a single goroutine.
package kmsfb
