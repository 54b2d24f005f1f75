package viz

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/driver"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/equations"
	"github.com/san-kum/orbitsim/internal/raster"
	"github.com/san-kum/orbitsim/internal/scene"
)

const (
	defaultWidth    = 60
	defaultHeight   = 30
	panelWidth      = 48
	historyCapacity = 600
	defaultFPS      = 60
)

type TickMsg time.Time

// Options configures the terminal host.
type Options struct {
	FPS    int
	Width  int
	Height int
	Theme  string
	// RecordPath is where the GIF recording is written when it stops.
	RecordPath string
	// RecordEvery keeps one frame in this many while recording.
	RecordEvery int
	// Save persists the current inputs when 'w' is pressed and returns
	// where they went. Nil disables the key.
	Save   func(driver.Inputs) (string, error)
	Logger *zap.Logger
}

// Model is the bubbletea model for the orbit view. It drives the
// simulation from its own tick and writes user input to the live inputs.
type Model struct {
	drv   *driver.Driver
	live  *driver.LiveInputs
	log   *zap.Logger
	fps   int
	frame *scene.Frame

	canvas *Canvas
	theme  Theme
	styles Styles
	radii  []float64

	selected int
	running  bool
	showHelp bool

	recording  bool
	recorder   *raster.Recorder
	rasterizer *raster.Rasterizer
	recordPath string
	save       func(driver.Inputs) (string, error)

	status string
	done   bool
}

func NewModel(drv *driver.Driver, live *driver.LiveInputs, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = defaultFPS
	}
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	if opts.RecordPath == "" {
		opts.RecordPath = "orbit.gif"
	}
	if opts.RecordEvery <= 0 {
		opts.RecordEvery = 2
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	theme := GetTheme(opts.Theme)
	// GIF delays are in hundredths of a second.
	delay := max(1, opts.RecordEvery*100/opts.FPS)
	return Model{
		drv:        drv,
		live:       live,
		log:        opts.Logger,
		fps:        opts.FPS,
		canvas:     NewCanvas(opts.Width, opts.Height),
		theme:      theme,
		styles:     NewStyles(theme),
		radii:      make([]float64, 0, historyCapacity),
		running:    true,
		recorder:   raster.NewRecorder(opts.RecordEvery, delay),
		rasterizer: raster.New(),
		recordPath: opts.RecordPath,
		save:       opts.Save,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		if m.done {
			return m, nil
		}
		if m.running {
			if err := m.step(); err != nil {
				m.done = true
				return m, tea.Quit
			}
		}
		m.draw()
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.stopRecording()
		m.drv.Stop()
		m.done = true
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "tab":
		m.cycleControl(1)
	case "shift+tab":
		m.cycleControl(-1)
	case "up", "k", "right", "l":
		m.nudge(m.control(), 1)
	case "down", "j", "left", "h":
		m.nudge(m.control(), -1)
	case "n":
		m.nudge(config.ControlLaw, 1)
	case "c":
		m.nudge(config.ControlCenter, 1)
	case "+", "=":
		m.nudge(config.ControlZoom, 1)
	case "-", "_":
		m.nudge(config.ControlZoom, -1)
	case "r":
		in := m.live.Reset()
		m.selected = 0
		m.radii = m.radii[:0]
		m.log.Info("inputs reset", zap.Stringer("law", in.Params.Law))
	case "R":
		in := m.live.ResetParams()
		m.radii = m.radii[:0]
		m.log.Info("parameters reset", zap.Stringer("law", in.Params.Law))
	case "t":
		m.theme = NextTheme(m.theme)
		m.styles = NewStyles(m.theme)
	case "g":
		if m.recording {
			m.stopRecording()
		} else {
			m.recording = true
			m.recorder.Reset()
			m.status = "recording"
		}
	case "w":
		if m.save == nil {
			break
		}
		path, err := m.save(m.live.Snapshot())
		if err != nil {
			m.log.Error("saving settings", zap.Error(err))
			m.status = "save failed: " + err.Error()
			break
		}
		m.status = "settings saved to " + path
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// controls lists what the current law exposes.
func (m *Model) controls() []config.Control {
	return config.VisibleControls(m.live.Snapshot().Params.Law)
}

func (m *Model) control() config.Control {
	cs := m.controls()
	if m.selected >= len(cs) {
		m.selected = 0
	}
	return cs[m.selected]
}

func (m *Model) cycleControl(dir int) {
	n := len(m.controls())
	m.selected = ((m.selected+dir)%n + n) % n
}

func (m *Model) nudge(c config.Control, delta int) {
	var before driver.Inputs
	after := m.live.Update(func(in *driver.Inputs) {
		before = *in
		*in = config.Nudge(*in, c, delta)
	})
	if before.Params.Law != after.Params.Law {
		m.log.Info("law changed",
			zap.Stringer("from", before.Params.Law),
			zap.Stringer("to", after.Params.Law))
	}
	if before.Params != after.Params {
		m.radii = m.radii[:0]
	}
}

func (m *Model) step() error {
	f, err := m.drv.Tick()
	if err != nil {
		if !errors.Is(err, dynamo.ErrStopped) {
			m.log.Error("tick failed", zap.Error(err))
		}
		return err
	}
	m.frame = f
	m.radii = append(m.radii, f.Body.Norm())
	if len(m.radii) > historyCapacity {
		m.radii = m.radii[1:]
	}
	if m.recording {
		m.recorder.AddFunc(func() image.Image { return m.rasterizer.Render(f) })
	}
	return nil
}

func (m *Model) stopRecording() {
	if !m.recording {
		return
	}
	m.recording = false
	if m.recorder.Len() == 0 {
		m.status = "recording empty"
		return
	}
	if err := m.recorder.Save(m.recordPath); err != nil {
		m.log.Error("saving recording", zap.String("path", m.recordPath), zap.Error(err))
		m.status = "save failed: " + err.Error()
		return
	}
	m.log.Info("recording saved", zap.String("path", m.recordPath), zap.Int("frames", m.recorder.Len()))
	m.status = fmt.Sprintf("saved %s (%d frames)", m.recordPath, m.recorder.Len())
	m.recorder.Reset()
}

// resize keeps the canvas square in dots: one cell is 2x4 dots, so a
// square frame needs twice as many columns as rows.
func (m *Model) resize(w, h int) {
	rows := h - 4
	cols := w - panelWidth - 4
	if cols > 2*rows {
		cols = 2 * rows
	}
	rows = cols / 2
	if rows < 8 || cols < 16 {
		return
	}
	m.canvas = NewCanvas(cols, rows)
}

func (m *Model) draw() {
	if m.frame == nil {
		m.frame = m.drv.Latest()
	}
	m.canvas.Clear()
	DrawFrame(m.canvas, m.frame)
}

func controlValue(in driver.Inputs, c config.Control) string {
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

func (m Model) View() string {
	if m.done {
		return ""
	}
	s := m.styles
	in := m.live.Snapshot()

	canvasView := s.Canvas.Render(m.canvas.Render(m.theme.LayerStyle))

	var b strings.Builder
	state := s.Running.Render("● RUNNING")
	if !m.running {
		state = s.Paused.Render("❚❚ PAUSED")
	}
	if m.recording {
		state += "  " + s.Recording.Render(fmt.Sprintf("● REC %d", m.recorder.Len()))
	}
	b.WriteString(s.Header.Render("ORBIT") + "  " + state + "\n")

	cur := m.selected
	for i, c := range config.VisibleControls(in.Params.Law) {
		label := s.Label.Render(string(c))
		val := s.Value.Render(controlValue(in, c))
		if i == cur {
			b.WriteString(s.Active.Render(s.ActiveGlyph+string(c)) + strings.Repeat(" ", max(1, 12-len(c)-2)) + s.Active.Render(controlValue(in, c)) + "\n")
			continue
		}
		b.WriteString("  " + label + val + "\n")
	}

	b.WriteString("\n" + s.Rule(panelWidth-6) + "\n")
	for _, line := range equations.Plain(in.Params) {
		b.WriteString(s.Equation.Render(line) + "\n")
	}
	b.WriteString(s.Rule(panelWidth-6) + "\n\n")

	if f := m.frame; f != nil {
		b.WriteString(s.Label.Render("t") + s.Value.Render(fmt.Sprintf("%.0f", f.Time)) + "\n")
		b.WriteString(s.Label.Render("r") + s.Value.Render(fmt.Sprintf("%.2f", f.Body.Norm())) + "\n")
		b.WriteString(s.Label.Render("|v|") + s.Value.Render(fmt.Sprintf("%.4f", f.Velocity.Norm())) + "\n")
		b.WriteString(s.Label.Render("energy") + s.Value.Render(fmt.Sprintf("%.6f", f.Energy)) + "\n")
		b.WriteString(s.Label.Render("run") + s.Value.Render(fmt.Sprintf("%d", f.Run)) + "\n")
	}

	if len(m.radii) > 1 {
		chart := asciigraph.Plot(m.radii, asciigraph.Height(6), asciigraph.Width(panelWidth-14), asciigraph.Caption("radius"))
		b.WriteString(s.Graph.Render(chart) + "\n")
	}
	if m.status != "" {
		b.WriteString(s.Warning.Render(m.status) + "\n")
	}
	b.WriteString(s.Help.Render("tab select • ↑/↓ adjust • n law • r reset • ? help • q quit"))

	view := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, s.Panel.Render(b.String()))
	if m.showHelp {
		return lipgloss.JoinVertical(lipgloss.Left, view, s.Overlay.Render(helpText))
	}
	return view
}

const helpText = `space      pause / resume
tab        next control (shift+tab back)
↑ ↓ ← →    adjust selected control
n          next force law
c          centre on sun / body
+ -        zoom
r          reset everything, law included
R          reset parameters, keep law
t          cycle theme
g          start / stop GIF recording
w          save settings
?          toggle this help
q          quit`
