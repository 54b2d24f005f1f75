// Package gui is the native window host. It drives the simulation from the
// raylib frame loop and replays each composed frame with raylib draw calls.
package gui

import (
	"errors"
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/driver"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/equations"
	"github.com/san-kum/orbitsim/internal/raster"
	"github.com/san-kum/orbitsim/internal/scene"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColEq      = rl.NewColor(255, 200, 0, 255)
)

const (
	panelWidth = 320
	margin     = 20
	maxHistory = 400
)

type Options struct {
	FPS    int
	Width  int
	Height int
	Logger *zap.Logger
}

type App struct {
	drv  *driver.Driver
	live *driver.LiveInputs
	log  *zap.Logger

	width, height int
	fps           int

	Frame     *scene.Frame
	Running   bool
	Selected  int
	Telemetry []float64
	Status    string
}

func NewApp(drv *driver.Driver, live *driver.LiveInputs, opts Options) *App {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Width <= 0 {
		opts.Width = scene.CanvasWidth
	}
	if opts.Height <= 0 {
		opts.Height = scene.CanvasHeight
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &App{
		drv:       drv,
		live:      live,
		log:       opts.Logger,
		width:     opts.Width,
		height:    opts.Height,
		fps:       opts.FPS,
		Running:   true,
		Telemetry: make([]float64, 0, maxHistory),
	}
}

// Run opens the window and blocks until it is closed or the driver stops.
func (a *App) Run() error {
	rl.InitWindow(int32(a.width+panelWidth), int32(a.height), "orbitsim")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(a.fps))
	rl.SetExitKey(0)

	a.log.Info("window opened", zap.Int("width", a.width+panelWidth), zap.Int("height", a.height))
	defer a.drv.Stop()

	for !rl.WindowShouldClose() {
		if quit := a.Update(); quit {
			return nil
		}
		if a.Running {
			if err := a.step(); err != nil {
				if errors.Is(err, dynamo.ErrStopped) {
					return nil
				}
				return err
			}
		}
		a.Draw()
	}
	return nil
}

func (a *App) step() error {
	f, err := a.drv.Tick()
	if err != nil {
		return err
	}
	a.Frame = f
	a.Telemetry = append(a.Telemetry, f.Body.Norm())
	if len(a.Telemetry) > maxHistory {
		a.Telemetry = a.Telemetry[1:]
	}
	return nil
}

func (a *App) controls() []config.Control {
	return config.VisibleControls(a.live.Snapshot().Params.Law)
}

func (a *App) nudge(c config.Control, delta int) {
	before := a.live.Snapshot()
	after := a.live.Update(func(in *driver.Inputs) {
		*in = config.Nudge(*in, c, delta)
	})
	if before.Params != after.Params {
		a.Telemetry = a.Telemetry[:0]
	}
}

// Update polls the keyboard and reports whether the user asked to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return true
	}
	cs := a.controls()
	if a.Selected >= len(cs) {
		a.Selected = 0
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		if rl.IsKeyDown(rl.KeyLeftShift) {
			a.Selected = (a.Selected + len(cs) - 1) % len(cs)
		} else {
			a.Selected = (a.Selected + 1) % len(cs)
		}
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyRight) {
		a.nudge(cs[a.Selected], 1)
	}
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyLeft) {
		a.nudge(cs[a.Selected], -1)
	}
	if rl.IsKeyPressed(rl.KeyN) {
		a.nudge(config.ControlLaw, 1)
	}
	if rl.IsKeyPressed(rl.KeyC) {
		a.nudge(config.ControlCenter, 1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) {
		a.nudge(config.ControlZoom, 1)
	}
	if rl.IsKeyPressed(rl.KeyMinus) {
		a.nudge(config.ControlZoom, -1)
	}
	if rl.IsKeyPressed(rl.KeyR) {
		var in driver.Inputs
		if rl.IsKeyDown(rl.KeyLeftShift) {
			in = a.live.ResetParams()
		} else {
			in = a.live.Reset()
			a.Selected = 0
		}
		a.Telemetry = a.Telemetry[:0]
		a.log.Info("inputs reset", zap.Stringer("law", in.Params.Law))
	}
	if rl.IsKeyPressed(rl.KeyP) && a.Frame != nil {
		a.screenshot()
	}
	return false
}

// screenshot writes the current frame through the software rasterizer so
// the file matches what the other hosts produce.
func (a *App) screenshot() {
	path := fmt.Sprintf("orbit-%s.png", time.Now().Format("20060102-150405"))
	if err := raster.SavePNG(path, raster.New().Render(a.Frame)); err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		a.Status = "screenshot failed"
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
	a.Status = "saved " + path
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	DrawFrame(a.Frame, 0, 0)
	a.DrawHUD()
	rl.EndDrawing()
}

func controlLabel(in driver.Inputs, c config.Control) string {
	switch c {
	case config.ControlLaw:
		return in.Params.Law.String()
	case config.ControlGM:
		return fmt.Sprintf("%.1f", in.Params.GM)
	case config.ControlExponent:
		return fmt.Sprintf("%.2f", in.Params.Exponent)
	case config.ControlCharge1:
		return fmt.Sprintf("%.1f", in.Params.Charge1)
	case config.ControlCharge2:
		return fmt.Sprintf("%.1f", in.Params.Charge2)
	case config.ControlSpeed:
		return fmt.Sprintf("%.1fx", in.Speed)
	case config.ControlZoom:
		return fmt.Sprintf("%.1fx", in.Zoom)
	case config.ControlCenter:
		if in.CenterOnSun {
			return "sun"
		}
		return "body"
	}
	return ""
}

func (a *App) DrawHUD() {
	x := int32(a.width + margin)
	in := a.live.Snapshot()

	rl.DrawText("orbitsim", x, margin, 24, ColSelect)
	status, col := "RUNNING", ColSelect
	if !a.Running {
		status, col = "PAUSED", ColTextDim
	}
	rl.DrawText(status, x+200, margin+6, 14, col)

	y := int32(70)
	for i, c := range config.VisibleControls(in.Params.Law) {
		line := fmt.Sprintf("  %-9s %s", c, controlLabel(in, c))
		col := ColText
		if i == a.Selected {
			line = fmt.Sprintf("> %-9s %s", c, controlLabel(in, c))
			col = ColSelect
		}
		rl.DrawText(line, x, y, 16, col)
		y += 22
	}

	y += 16
	for _, line := range equations.ASCII(in.Params) {
		rl.DrawText(line, x, y, 14, ColEq)
		y += 20
	}

	if f := a.Frame; f != nil {
		y += 16
		rl.DrawText(fmt.Sprintf("t %.0f   r %.2f", f.Time, f.Body.Norm()), x, y, 14, ColAccent)
		y += 20
		rl.DrawText(fmt.Sprintf("E %.6f", f.Energy), x, y, 14, ColAccent)
	}

	gy := float32(a.height - 150)
	drawSeries(a.Telemetry, float32(x), gy, panelWidth-2*margin, 60, ColAccent)

	if a.Status != "" {
		rl.DrawText(a.Status, x, int32(a.height-70), 12, ColText)
	}
	rl.DrawText("TAB SELECT  ARROWS ADJUST  N LAW  C CENTRE", x, int32(a.height-46), 10, ColTextDim)
	rl.DrawText("R RESET  SHIFT+R PARAMS  P PNG  SPACE PAUSE  Q QUIT", x, int32(a.height-30), 10, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), int32(margin), int32(a.height-30), 14, ColTextDim)
}
