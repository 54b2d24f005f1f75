package main

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/raster"
	"github.com/san-kum/orbitsim/internal/scene"
)

type renderOptions struct {
	output     string
	frames     int
	every      int
	overlay    bool
	trajectory string
}

func newRenderCmd(a *app) *cobra.Command {
	var o renderOptions
	cmd := &cobra.Command{
		Use:   "render",
		Short: "render frames to PNG, GIF or SVG",
		Long: `render runs the simulation headless for --frames frames. The output
format follows the extension of --output: .png and .svg hold the last
frame, .gif every --every'th frame.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(o)
		},
	}
	cmd.Flags().StringVarP(&o.output, "output", "o", "orbit.png", "output file (.png, .gif or .svg)")
	cmd.Flags().IntVarP(&o.frames, "frames", "n", 600, "frames to simulate")
	cmd.Flags().IntVar(&o.every, "every", 4, "GIF: keep every k-th frame")
	cmd.Flags().BoolVar(&o.overlay, "overlay", false, "draw the equations onto raster output")
	cmd.Flags().StringVar(&o.trajectory, "trajectory", "", "also write the full path as SVG to this file")
	return cmd
}

func (a *app) render(o renderOptions) error {
	if o.frames <= 0 {
		return fmt.Errorf("%w: --frames must be positive", dynamo.ErrParameterBounds)
	}
	ext := strings.ToLower(filepath.Ext(o.output))
	switch ext {
	case ".png", ".gif", ".svg":
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}

	d, _, err := a.newDriver()
	if err != nil {
		return err
	}
	defer d.Stop()

	r := raster.New()
	r.Overlay = o.overlay
	var rec *raster.Recorder
	if ext == ".gif" {
		rec = raster.NewRecorder(o.every, max(1, o.every*100/a.cfg.Render.FPS))
	}

	path := make([]dynamo.Vec2, 0, o.frames)
	var last *scene.Frame
	for i := 0; i < o.frames; i++ {
		f, err := d.Tick()
		if err != nil {
			return err
		}
		last = f
		path = append(path, f.Body)
		if rec != nil {
			rec.AddFunc(func() image.Image { return r.Render(f) })
		}
	}

	switch ext {
	case ".png":
		err = raster.SavePNG(o.output, r.Render(last))
	case ".gif":
		err = rec.Save(o.output)
	case ".svg":
		err = export.SaveSVG(o.output, export.FrameToSVG(last))
	}
	if err != nil {
		return err
	}
	a.log.Info("rendered", zap.String("output", o.output), zap.Int("frames", o.frames))
	fmt.Fprintf(a.out, "wrote %s (%d frames, law %s)\n", o.output, o.frames, last.Law)

	if o.trajectory != "" {
		svg := export.TrajectoryToSVG(path, a.cfg.Render.Width, a.cfg.Render.Height, "#808080")
		if err := export.SaveSVG(o.trajectory, svg); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "wrote %s\n", o.trajectory)
	}
	return nil
}
