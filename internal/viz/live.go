package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/longsim/longsim/internal/profile"
	"github.com/longsim/longsim/internal/vehicle"
)

const (
	canvasWidth     = 70
	canvasHeight    = 16
	historyCapacity = 600
)

var (
	canvasStyle      = lipgloss.NewStyle().Padding(1, 2)
	statsStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(44)
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Dashboard is the live bubbletea view of a running vehicle simulation.
type Dashboard struct {
	car      *vehicle.Model
	throttle profile.Throttle
	incline  profile.Incline
	scene    RoadScene

	name          string
	t             float64
	stepsPerFrame int
	frameRate     int
	running       bool
	showHelp      bool

	canvas     *Canvas
	velHistory []float64
	engHistory []float64

	paramKeys     []string
	initialParams map[string]float64
	selected      int
}

// NewDashboard wires a scenario into the live view. span is the meters of
// road drawn; fps the frame rate. Each frame advances simulated time by
// one frame's worth of wall time.
func NewDashboard(car *vehicle.Model, throttle profile.Throttle, incline profile.Incline, name string, span float64, fps int) Dashboard {
	if fps <= 0 {
		fps = 30
	}
	steps := int(math.Round(1 / (float64(fps) * car.Params.Dt)))
	if steps < 1 {
		steps = 1
	}

	initial := car.Params.Map()
	keys := make([]string, 0, len(initial))
	for k := range initial {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return Dashboard{
		car:           car,
		throttle:      throttle,
		incline:       incline,
		scene:         RoadScene{Incline: incline, Span: span},
		name:          name,
		stepsPerFrame: steps,
		frameRate:     fps,
		running:       true,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		velHistory:    make([]float64, 0, historyCapacity),
		engHistory:    make([]float64, 0, historyCapacity),
		paramKeys:     keys,
		initialParams: initial,
	}
}

func (d Dashboard) Init() tea.Cmd {
	return d.tick()
}

func (d Dashboard) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(d.frameRate), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (d Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return d, tea.Quit
		case " ":
			d.running = !d.running
		case "r":
			d.reset()
		case "tab":
			d.cycleParam()
		case "up", "k":
			d.adjustParam(1.05)
		case "down", "j":
			d.adjustParam(0.95)
		case "?":
			d.showHelp = !d.showHelp
		}
	case TickMsg:
		if d.running {
			d.step()
		}
		return d, d.tick()
	}
	return d, nil
}

// step advances the simulation by one frame's worth of fixed steps.
func (d *Dashboard) step() {
	for i := 0; i < d.stepsPerFrame; i++ {
		st := d.car.State()
		d.car.Step(d.throttle.At(d.t), d.incline.At(st.X))
		d.t += d.car.Params.Dt
	}

	st := d.car.State()
	d.velHistory = append(d.velHistory, st.V)
	d.engHistory = append(d.engHistory, st.We)
	if len(d.velHistory) > historyCapacity {
		d.velHistory = d.velHistory[1:]
		d.engHistory = d.engHistory[1:]
	}
}

func (d *Dashboard) reset() {
	d.car.Reset()
	d.t = 0
	d.velHistory = d.velHistory[:0]
	d.engHistory = d.engHistory[:0]
	for k, v := range d.initialParams {
		d.car.Params.Set(k, v)
	}
}

func (d *Dashboard) cycleParam() {
	if len(d.paramKeys) == 0 {
		return
	}
	d.selected = (d.selected + 1) % len(d.paramKeys)
}

func (d *Dashboard) adjustParam(factor float64) {
	if len(d.paramKeys) == 0 {
		return
	}
	key := d.paramKeys[d.selected]
	val := d.car.Params.Map()[key]
	d.car.Params.Set(key, val*factor)
}

func (d Dashboard) View() string {
	d.canvas.Clear()
	st := d.car.State()
	d.scene.Draw(d.canvas, st.X)
	canvasView := canvasStyle.Render(d.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(d.name)) + "\n")
	status := "RUNNING"
	if !st.IsValid() {
		status = "DIVERGED"
	} else if !d.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(d.velHistory) > 1 {
		chart := asciigraph.Plot(d.velHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("velocity m/s"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", d.t)) + "\n")
	s.WriteString(labelStyle.Render("Position") + valueStyle.Render(fmt.Sprintf("%.1f m", st.X)) + "\n")
	s.WriteString(labelStyle.Render("Velocity") + valueStyle.Render(fmt.Sprintf("%.2f m/s", st.V)) + "\n")
	s.WriteString(labelStyle.Render("Accel") + valueStyle.Render(fmt.Sprintf("%.3f m/s²", st.A)) + "\n")
	s.WriteString(labelStyle.Render("Engine") + valueStyle.Render(fmt.Sprintf("%.1f rad/s", st.We)) + "\n")
	s.WriteString(labelStyle.Render("Throttle") + valueStyle.Render(fmt.Sprintf("%.0f%%", d.throttle.At(d.t)*100)) + "\n")
	s.WriteString(labelStyle.Render("Grade") + valueStyle.Render(fmt.Sprintf("%.2f°", d.incline.At(st.X)*180/math.Pi)) + "\n")

	s.WriteString("\nPARAMETERS\n")
	params := d.car.Params.Map()
	for i, k := range d.paramKeys {
		val, initial := params[k], d.initialParams[k]
		bar := paramBar(val, initial, 10)
		line := fmt.Sprintf("%-14s %s %.4g", k, bar, val)
		if i == d.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\nTab:Select ↑↓:Tune ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if d.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset vehicle and time   ║
║  Q        - Quit                     ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// paramBar shows the value relative to twice its initial setting.
func paramBar(val, initial float64, width int) string {
	if initial == 0 {
		initial = 1e-6
	}
	ratio := val / (2 * initial)
	if ratio > 1 {
		ratio = 1
	} else if ratio < 0 {
		ratio = 0
	}
	filled := int(ratio * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}
