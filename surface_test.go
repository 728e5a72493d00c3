package kmsfb

import (
	"slices"
	"testing"

	"github.com/NeowayLabs/drm/mode"
)

func TestSurfaceCloseRestoresCRTC(t *testing.T) {
	d := singleDisplay()
	before := *d.crtcState[20]

	surf, err := testCard(d).Bind()
	if err != nil {
		t.Fatal(err)
	}

	after := *d.crtcState[20]
	if after.BufferID == before.BufferID {
		t.Fatal("bind did not reprogram the CRTC")
	}
	if after.X != 0 || after.Y != 0 {
		t.Errorf("bound CRTC origin is (%d,%d), expected (0,0)", after.X, after.Y)
	}
	if after.Mode.Hdisplay != 800 || after.Mode.Vdisplay != 600 {
		t.Errorf("bound mode is %dx%d, expected 800x600", after.Mode.Hdisplay, after.Mode.Vdisplay)
	}

	if err := surf.Close(); err != nil {
		t.Fatal(err)
	}

	restored := *d.crtcState[20]
	if restored.BufferID != before.BufferID ||
		restored.X != before.X || restored.Y != before.Y ||
		restored.ModeValid != before.ModeValid ||
		restored.Mode != before.Mode {
		t.Errorf("CRTC state after close = %+v, expected %+v", restored, before)
	}
}

// The capture must precede the first modeset, and the restoring modeset must
// precede every buffer teardown request.
func TestSurfaceLifecycleOrdering(t *testing.T) {
	d := singleDisplay()
	surf, err := testCard(d).Bind()
	if err != nil {
		t.Fatal(err)
	}
	if err := surf.Close(); err != nil {
		t.Fatal(err)
	}

	index := func(call string) int {
		i := slices.Index(d.calls, call)
		if i < 0 {
			t.Fatalf("call %q missing from %v", call, d.calls)
		}
		return i
	}

	capture := index("getCRTC 20")
	apply := index("setCRTC 20 fb=101")
	restore := index("setCRTC 20 fb=7")
	if capture > apply {
		t.Error("CRTC state captured after the modeset")
	}
	if restore > index("unmap") || restore > index("rmFB 101") || restore > index("destroyDumb 1") {
		t.Errorf("CRTC restored after buffer teardown began: %v", d.calls)
	}
	if index("rmFB 101") > index("destroyDumb 1") {
		t.Errorf("framebuffer unregistered after its dumb buffer was destroyed: %v", d.calls)
	}
}

func TestSurfaceCloseIdempotent(t *testing.T) {
	d := singleDisplay()
	surf, err := testCard(d).Bind()
	if err != nil {
		t.Fatal(err)
	}

	if err := surf.Close(); err != nil {
		t.Fatal(err)
	}
	calls := len(d.calls)

	if err := surf.Close(); err != nil {
		t.Fatal(err)
	}
	if len(d.calls) != calls {
		t.Errorf("second close issued driver requests: %v", d.calls[calls:])
	}
}

func TestSurfaceCloseRestoreFailure(t *testing.T) {
	d := singleDisplay()
	surf, err := testCard(d).Bind()
	if err != nil {
		t.Fatal(err)
	}

	d.failSetCRTC = true
	if err := surf.Close(); err == nil {
		t.Fatal("expected restore error")
	}

	// The buffer must still be torn down completely.
	for _, call := range []string{"unmap", "rmFB 101", "destroyDumb 1"} {
		if !slices.Contains(d.calls, call) {
			t.Errorf("call %q missing from %v", call, d.calls)
		}
	}
}

func TestSurfaceAccessors(t *testing.T) {
	d := singleDisplay()
	surf, err := testCard(d).Bind()
	if err != nil {
		t.Fatal(err)
	}
	defer surf.Close()

	if surf.Width() != 800 || surf.Height() != 600 {
		t.Errorf("surface is %dx%d, expected 800x600", surf.Width(), surf.Height())
	}
	if surf.Connector() != 1 {
		t.Errorf("connector = %d, expected 1", surf.Connector())
	}
	if surf.CRTC() != 20 {
		t.Errorf("CRTC = %d, expected 20", surf.CRTC())
	}
	if want := (mode.Info{Hdisplay: 800, Vdisplay: 600}); surf.Mode() != want {
		t.Errorf("mode = %+v, expected %+v", surf.Mode(), want)
	}
}

func TestSurfaceRestoreWithoutValidMode(t *testing.T) {
	d := singleDisplay()
	d.crtcState[20].ModeValid = 0
	d.crtcState[20].Mode = mode.Info{}

	surf, err := testCard(d).Bind()
	if err != nil {
		t.Fatal(err)
	}
	if err := surf.Close(); err != nil {
		t.Fatal(err)
	}

	restored := d.crtcState[20]
	if restored.ModeValid != 0 {
		t.Errorf("restore forced ModeValid=%d on a CRTC captured without a mode", restored.ModeValid)
	}
}
