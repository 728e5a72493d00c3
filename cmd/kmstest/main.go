// Command kmstest takes over a display output and renders a moving test
// scene on it. Hit control-c to restore the previous configuration and exit.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/scanline/kmsfb"
	"github.com/scanline/kmsfb/pixel"
)

var cycle = []pixel.XRGB{0xFFFF00, 0xFF0000, 0x00FF00, 0x0000FF, 0x00FFFF}

func main() {
	cardFlag := flag.Int("card", 0, "DRM card number")
	deviceFlag := flag.String("device", "", "DRM device path (overrides -card)")
	imageFlag := flag.String("image", "", "Background image (PNG, JPEG or BMP)")
	fontFlag := flag.String("font", "", "TTF font for the text overlay")
	fontSizeFlag := flag.Float64("font-size", 24, "Font size in points")
	textFlag := flag.String("text", "", "Text overlay, use \\n for line breaks")
	patternFlag := flag.Bool("pattern", false, "Show the test pattern instead of the scene")
	verboseFlag := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	if *verboseFlag {
		kmsfb.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		card *kmsfb.Card
		err  error
	)
	if *deviceFlag != "" {
		card, err = kmsfb.Open(*deviceFlag)
	} else {
		card, err = kmsfb.OpenCard(*cardFlag)
	}
	if err != nil {
		fatal(err)
	}
	defer card.Close()

	surface, err := card.BindContext(ctx)
	if err != nil {
		fatal(err)
	}
	defer surface.Close()
	fmt.Printf("bound connector %d on CRTC %d at %dx%d\n",
		surface.Connector(), surface.CRTC(), surface.Width(), surface.Height())

	var face font.Face = basicfont.Face7x13
	if *fontFlag != "" {
		if face, err = kmsfb.LoadFontFace(*fontFlag, *fontSizeFlag); err != nil {
			fatal(err)
		}
	}

	var background *pixel.XRGBImage
	if *imageFlag != "" {
		img, err := pixel.DecodeFile(*imageFlag)
		if err != nil {
			fatal(err)
		}
		background = pixel.Scale(img, surface.Width(), surface.Height())
	}

	if *patternFlag {
		surface.TestPattern()
		<-ctx.Done()
		return
	}

	var (
		w      = surface.Width()
		h      = surface.Height()
		mu     sync.Mutex
		lines  = strings.Split(strings.ReplaceAll(*textFlag, `\n`, "\n"), "\n")
		ticker = time.NewTicker(20 * time.Millisecond)
		frame  int
		shift  int
	)
	defer ticker.Stop()

	// Lines typed on stdin are appended to the overlay as they come in.
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			mu.Lock()
			lines = append(lines, sc.Text())
			mu.Unlock()
		}
	}()

	for {
		if background != nil {
			surface.DrawImage(0, 0, background)
		} else {
			surface.Clear()
		}

		surface.FillRect(-100, -100, 200, 200, cycle[shift])
		surface.FillRect(w-100, h-100, 200, 200, cycle[(shift+1)%len(cycle)])
		surface.FillRect(w-100, -100, 200, 200, cycle[(shift+2)%len(cycle)])
		surface.FillRect(-100, h-100, 200, 200, cycle[(shift+3)%len(cycle)])
		surface.FillRect(w/2-200, h/2-200, 400, 400, cycle[(shift+4)%len(cycle)])

		mu.Lock()
		for i, line := range lines {
			surface.DrawString(200, 200+i*30, line, face, color.White)
		}
		mu.Unlock()

		// Advance the color cycle once a second.
		if frame++; frame%50 == 0 {
			shift = (shift + 1) % len(cycle)
		}

		select {
		case <-ctx.Done():
			fmt.Println("shutting down")
			return
		case <-ticker.C:
		}
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
