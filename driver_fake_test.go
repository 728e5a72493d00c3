package kmsfb

import (
	"errors"
	"fmt"

	"github.com/NeowayLabs/drm/mode"
)

// fakeDriver is an in-process driver used to exercise pipeline resolution,
// buffer lifecycle and CRTC transactions without hardware. Every request is
// appended to calls so tests can assert ordering.
type fakeDriver struct {
	connectorOrder []uint32
	connectors     map[uint32]*mode.Connector
	encoders       map[uint32]*mode.Encoder
	crtcs          []uint32
	crtcState      map[uint32]*mode.Crtc

	calls []string

	failCreateDumb bool
	failAddFB      bool
	failMapDumb    bool
	failMmap       bool
	failSetCRTC    bool

	// dirtyMaps makes Map return non-zero memory, like a recycled buffer.
	dirtyMaps bool

	nextHandle uint32
	nextFB     uint32
}

var errFakeDriver = errors.New("fake driver failure")

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		connectors: make(map[uint32]*mode.Connector),
		encoders:   make(map[uint32]*mode.Encoder),
		crtcState:  make(map[uint32]*mode.Crtc),
	}
}

// addCRTC registers a CRTC id with an existing configuration.
func (d *fakeDriver) addCRTC(id uint32, state mode.Crtc) {
	state.ID = id
	d.crtcs = append(d.crtcs, id)
	d.crtcState[id] = &state
}

func (d *fakeDriver) addConnector(conn *mode.Connector) {
	d.connectorOrder = append(d.connectorOrder, conn.ID)
	d.connectors[conn.ID] = conn
}

func (d *fakeDriver) addEncoder(enc *mode.Encoder) {
	d.encoders[enc.ID] = enc
}

func (d *fakeDriver) record(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *fakeDriver) Resources() (*mode.Resources, error) {
	d.record("resources")
	return &mode.Resources{
		Crtcs:      append([]uint32(nil), d.crtcs...),
		Connectors: append([]uint32(nil), d.connectorOrder...),
	}, nil
}

func (d *fakeDriver) Connector(id uint32) (*mode.Connector, error) {
	d.record("connector %d", id)
	conn, ok := d.connectors[id]
	if !ok {
		return nil, fmt.Errorf("no connector %d: %w", id, errFakeDriver)
	}
	return conn, nil
}

func (d *fakeDriver) Encoder(id uint32) (*mode.Encoder, error) {
	d.record("encoder %d", id)
	enc, ok := d.encoders[id]
	if !ok {
		return nil, fmt.Errorf("no encoder %d: %w", id, errFakeDriver)
	}
	return enc, nil
}

func (d *fakeDriver) CRTC(id uint32) (*mode.Crtc, error) {
	d.record("getCRTC %d", id)
	state, ok := d.crtcState[id]
	if !ok {
		return nil, fmt.Errorf("no CRTC %d: %w", id, errFakeDriver)
	}
	snap := *state
	return &snap, nil
}

func (d *fakeDriver) SetCRTC(crtc, fb, x, y uint32, connectors *uint32, count int, m *mode.Info) error {
	d.record("setCRTC %d fb=%d", crtc, fb)
	if d.failSetCRTC {
		return errFakeDriver
	}
	state, ok := d.crtcState[crtc]
	if !ok {
		return fmt.Errorf("no CRTC %d: %w", crtc, errFakeDriver)
	}
	state.BufferID = fb
	state.X = x
	state.Y = y
	if m != nil {
		state.Mode = *m
		state.ModeValid = 1
	} else {
		state.ModeValid = 0
	}
	return nil
}

func (d *fakeDriver) CreateDumb(width, height uint16, bpp uint32) (*mode.FB, error) {
	d.record("createDumb %dx%d", width, height)
	if d.failCreateDumb {
		return nil, errFakeDriver
	}
	d.nextHandle++
	// Align the pitch the way real drivers do.
	pitch := (uint32(width)*bpp/8 + 63) &^ 63
	return &mode.FB{
		Width:  uint32(width),
		Height: uint32(height),
		BPP:    bpp,
		Handle: d.nextHandle,
		Pitch:  pitch,
		Size:   uint64(pitch) * uint64(height),
	}, nil
}

func (d *fakeDriver) AddFB(width, height uint16, depth, bpp uint8, pitch, handle uint32) (uint32, error) {
	d.record("addFB handle=%d", handle)
	if d.failAddFB {
		return 0, errFakeDriver
	}
	d.nextFB++
	return 100 + d.nextFB, nil
}

func (d *fakeDriver) RmFB(fb uint32) error {
	d.record("rmFB %d", fb)
	return nil
}

func (d *fakeDriver) MapDumb(handle uint32) (uint64, error) {
	d.record("mapDumb %d", handle)
	if d.failMapDumb {
		return 0, errFakeDriver
	}
	return uint64(handle) << 12, nil
}

func (d *fakeDriver) DestroyDumb(handle uint32) error {
	d.record("destroyDumb %d", handle)
	return nil
}

func (d *fakeDriver) Map(offset uint64, size int) ([]byte, error) {
	d.record("mmap %d", size)
	if d.failMmap {
		return nil, errFakeDriver
	}
	pix := make([]byte, size)
	if d.dirtyMaps {
		for i := range pix {
			pix[i] = 0xAA
		}
	}
	return pix, nil
}

func (d *fakeDriver) Unmap(pix []byte) error {
	d.record("unmap")
	return nil
}

// singleDisplay wires one connected connector (id 1) with one encoder
// (id 10) compatible with one CRTC (id 20) reporting an 800x600 mode.
func singleDisplay() *fakeDriver {
	d := newFakeDriver()
	d.addCRTC(20, mode.Crtc{BufferID: 7, X: 3, Y: 4, ModeValid: 1, Mode: mode.Info{Hdisplay: 1024, Vdisplay: 768}})
	d.addEncoder(&mode.Encoder{ID: 10, PossibleCrtcs: 1 << 0})
	d.addConnector(&mode.Connector{
		ID:         1,
		Connection: mode.Connected,
		Modes:      []mode.Info{{Hdisplay: 800, Vdisplay: 600}},
		Encoders:   []uint32{10},
	})
	return d
}

func testCard(d *fakeDriver) *Card {
	return &Card{drv: d}
}
