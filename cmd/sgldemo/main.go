// Command sgldemo renders a sequence of frames through a window surface
// backed by the in-memory buffer queue, exercising partial-update swaps,
// and saves the final presented frame as a PNG.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"

	"golang.org/x/image/draw"

	"github.com/gogpu/sgl"
	"github.com/gogpu/sgl/memwin"
	"github.com/gogpu/sgl/surface"

	// Enable GPU-accelerated copy-back when a device is available.
	_ "github.com/gogpu/sgl/gpu"
)

// target collects the planes a surface binds for rendering.
type target struct {
	color sgl.Plane
	depth sgl.Plane
	read  sgl.Plane
}

func (t *target) SetColorPlane(p sgl.Plane) { t.color = p }
func (t *target) SetDepthPlane(p sgl.Plane) { t.depth = p }
func (t *target) SetReadPlane(p sgl.Plane)  { t.read = p }

func main() {
	var (
		width   = flag.Int("width", 320, "window width")
		height  = flag.Int("height", 240, "window height")
		frames  = flag.Int("frames", 8, "frames to present")
		scale   = flag.Int("scale", 2, "output scale factor")
		output  = flag.String("output", "frame.png", "output file")
		partial = flag.Bool("partial", true, "use partial-update swaps")
		verbose = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if *verbose {
		sgl.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	dpy := sgl.DefaultDisplay()
	if err := dpy.Initialize(); err != nil {
		log.Fatalf("initialize display: %v", err)
	}
	defer dpy.Terminate()

	cfgs := sgl.ChooseConfig([]sgl.AttribValue{
		{Attrib: sgl.AttribRedSize, Value: 8},
		{Attrib: sgl.AttribGreenSize, Value: 8},
		{Attrib: sgl.AttribBlueSize, Value: 8},
		{Attrib: sgl.AttribAlphaSize, Value: 8},
		{Attrib: sgl.AttribSurfaceType, Value: sgl.SurfaceWindowBit},
	})
	if len(cfgs) == 0 {
		log.Fatal("no matching config")
	}
	cfg := cfgs[0]

	win := memwin.New(int32(*width), int32(*height), sgl.FormatRGBA8888, 2)
	ws, err := surface.NewWindow(dpy, cfg, win)
	if err != nil {
		log.Fatalf("create window surface: %v", err)
	}
	defer ws.Destroy()
	if err := ws.Connect(); err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer ws.Disconnect()

	for frame := 0; frame < *frames; frame++ {
		var t target
		if err := ws.BindDraw(&t); err != nil {
			log.Fatalf("bind frame %d: %v", frame, err)
		}
		if *partial && frame > 0 {
			// Redraw one vertical band per frame; the rest of the image
			// is preserved by copy-back from the previous buffer.
			band := ws.Width() / int32(*frames)
			left := band * int32(frame)
			if err := ws.SetSwapRect(left, 0, band, ws.Height()); err != nil {
				log.Fatalf("swap rect frame %d: %v", frame, err)
			}
			drawBand(t.color, left, left+band, frame)
		} else {
			if err := ws.SetSwapRect(0, 0, ws.Width(), ws.Height()); err != nil {
				log.Fatalf("swap rect frame %d: %v", frame, err)
			}
			drawBand(t.color, 0, t.color.Width, frame)
		}
		if err := ws.Present(); err != nil {
			log.Fatalf("present frame %d: %v", frame, err)
		}
	}

	if err := savePNG(win.Displayed(), *scale, *output); err != nil {
		log.Fatalf("save: %v", err)
	}
	log.Printf("saved %s after %d frames (%dx%d)", *output, *frames, *width, *height)
}

// drawBand fills the columns [left, right) of an RGBA8888 plane with a
// color derived from the frame number.
func drawBand(p sgl.Plane, left, right int32, frame int) {
	r := byte(40 * (frame + 1))
	g := byte(255 - 30*frame)
	for y := int32(0); y < p.Height; y++ {
		row := (y*p.Stride + left) * 4
		for x := left; x < right; x++ {
			p.Data[row+0] = r
			p.Data[row+1] = g
			p.Data[row+2] = byte(60 * frame)
			p.Data[row+3] = 0xff
			row += 4
		}
	}
}

// savePNG converts the displayed buffer to an image, scales it, and writes
// it out.
func savePNG(buf *memwin.Buffer, scale int, path string) error {
	src := image.NewRGBA(image.Rect(0, 0, int(buf.Width()), int(buf.Height())))
	data := buf.Bytes()
	rowBytes := int(buf.Stride()) * 4
	for y := 0; y < int(buf.Height()); y++ {
		copy(src.Pix[y*src.Stride:y*src.Stride+int(buf.Width())*4],
			data[y*rowBytes:y*rowBytes+int(buf.Width())*4])
	}

	out := image.NewRGBA(image.Rect(0, 0, src.Rect.Dx()*scale, src.Rect.Dy()*scale))
	draw.NearestNeighbor.Scale(out, out.Rect, src, src.Rect, draw.Src, nil)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, out)
}
