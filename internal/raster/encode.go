package raster

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"os"
)

func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePNG(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// Recorder collects every Every-th frame for an animated GIF.
type Recorder struct {
	Every int
	// Delay between recorded frames in hundredths of a second.
	Delay int

	seen   int
	frames []*image.Paletted
	delays []int
}

func NewRecorder(every, delay int) *Recorder {
	if every <= 0 {
		every = 1
	}
	if delay <= 0 {
		delay = 2
	}
	return &Recorder{Every: every, Delay: delay}
}

// Add offers a frame to the recorder and reports whether it was kept.
func (r *Recorder) Add(img image.Image) bool {
	return r.AddFunc(func() image.Image { return img })
}

// AddFunc counts a frame and calls render only when the frame is kept.
func (r *Recorder) AddFunc(render func() image.Image) bool {
	r.seen++
	if (r.seen-1)%r.Every != 0 {
		return false
	}
	img := render()
	pal := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.Draw(pal, pal.Bounds(), img, img.Bounds().Min, draw.Src)
	r.frames = append(r.frames, pal)
	r.delays = append(r.delays, r.Delay)
	return true
}

func (r *Recorder) Len() int { return len(r.frames) }

func (r *Recorder) Reset() {
	r.seen = 0
	r.frames = nil
	r.delays = nil
}

func (r *Recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return fmt.Errorf("no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0, Image: r.frames, Delay: r.delays}
	return gif.EncodeAll(w, &anim)
}

func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
