package kmsfb

import (
	"os"
	"syscall"

	"github.com/NeowayLabs/drm/mode"
)

// driver is the boundary with the display driver. The production
// implementation talks DRM ioctls; tests substitute an in-process fake.
type driver interface {
	// Resources enumerates the card's connector, encoder and CRTC ids.
	Resources() (*mode.Resources, error)

	// Connector queries one connector, including its mode list and
	// compatible encoder ids.
	Connector(id uint32) (*mode.Connector, error)

	// Encoder queries one encoder, including its CRTC compatibility
	// bitmask.
	Encoder(id uint32) (*mode.Encoder, error)

	// CRTC reads the current configuration of a CRTC.
	CRTC(id uint32) (*mode.Crtc, error)

	// SetCRTC programs a CRTC to scan out fb at (x,y) for the given
	// connector set.
	SetCRTC(crtc, fb, x, y uint32, connectors *uint32, count int, m *mode.Info) error

	// CreateDumb allocates a CPU-mappable buffer object.
	CreateDumb(width, height uint16, bpp uint32) (*mode.FB, error)

	// AddFB registers a buffer object as a scanout framebuffer.
	AddFB(width, height uint16, depth, bpp uint8, pitch, handle uint32) (uint32, error)

	// RmFB unregisters a framebuffer.
	RmFB(fb uint32) error

	// MapDumb asks the driver for a fake mmap offset for a buffer object.
	MapDumb(handle uint32) (uint64, error)

	// DestroyDumb releases a buffer object.
	DestroyDumb(handle uint32) error

	// Map maps size bytes of the buffer at the driver-returned offset
	// into process memory.
	Map(offset uint64, size int) ([]byte, error)

	// Unmap releases a mapping returned by Map.
	Unmap(pix []byte) error
}

// drmDriver implements driver on an open DRM device node.
type drmDriver struct {
	file *os.File
}

func (d *drmDriver) Resources() (*mode.Resources, error) {
	return mode.GetResources(d.file)
}

func (d *drmDriver) Connector(id uint32) (*mode.Connector, error) {
	return mode.GetConnector(d.file, id)
}

func (d *drmDriver) Encoder(id uint32) (*mode.Encoder, error) {
	return mode.GetEncoder(d.file, id)
}

func (d *drmDriver) CRTC(id uint32) (*mode.Crtc, error) {
	return mode.GetCrtc(d.file, id)
}

func (d *drmDriver) SetCRTC(crtc, fb, x, y uint32, connectors *uint32, count int, m *mode.Info) error {
	return mode.SetCrtc(d.file, crtc, fb, x, y, connectors, count, m)
}

func (d *drmDriver) CreateDumb(width, height uint16, bpp uint32) (*mode.FB, error) {
	return mode.CreateFB(d.file, width, height, bpp)
}

func (d *drmDriver) AddFB(width, height uint16, depth, bpp uint8, pitch, handle uint32) (uint32, error) {
	return mode.AddFB(d.file, width, height, depth, bpp, pitch, handle)
}

func (d *drmDriver) RmFB(fb uint32) error {
	return mode.RmFB(d.file, fb)
}

func (d *drmDriver) MapDumb(handle uint32) (uint64, error) {
	return mode.MapDumb(d.file, handle)
}

func (d *drmDriver) DestroyDumb(handle uint32) error {
	return mode.DestroyDumb(d.file, handle)
}

func (d *drmDriver) Map(offset uint64, size int) ([]byte, error) {
	return syscall.Mmap(int(d.file.Fd()), int64(offset), size,
		syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
}

func (d *drmDriver) Unmap(pix []byte) error {
	return syscall.Munmap(pix)
}
