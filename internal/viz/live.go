package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/okaryn/plife/internal/engine"
	"github.com/okaryn/plife/internal/field"
	"github.com/okaryn/plife/internal/metrics"
	"github.com/okaryn/plife/internal/plife"
)

const (
	width           = 72
	height          = 26
	historyCapacity = 240
)

type TickMsg time.Time

// Model drives the live view: it owns the engine, steps it on a frame
// timer and renders read-only snapshots.
type Model struct {
	eng       *engine.Engine
	palette   plife.Palette
	placement string

	canvas *Canvas
	camera *Camera

	running       bool
	stepsPerFrame int
	frameRate     int
	speedHistory  []float64
}

// NewModel wraps a freshly built engine for interactive viewing.
func NewModel(eng *engine.Engine, palette plife.Palette, placement string, frameRate int) Model {
	if frameRate <= 0 {
		frameRate = 30
	}
	return Model{
		eng:           eng,
		palette:       palette,
		placement:     placement,
		canvas:        NewCanvas(width, height),
		camera:        NewCamera(),
		running:       true,
		stepsPerFrame: 1,
		frameRate:     frameRate,
		speedHistory:  make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reseed()
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "]":
			if m.stepsPerFrame < 16 {
				m.stepsPerFrame++
			}
		case "[":
			if m.stepsPerFrame > 1 {
				m.stepsPerFrame--
			}
		}
	case TickMsg:
		if m.running {
			for i := 0; i < m.stepsPerFrame; i++ {
				m.eng.Step()
			}
			m.speedHistory = append(m.speedHistory, metrics.Speed(m.eng.Particles()))
			if len(m.speedHistory) > historyCapacity {
				m.speedHistory = m.speedHistory[1:]
			}
		}
		return m, m.tickCmd()
	}
	return m, nil
}

// reseed restarts the run with the next seed, keeping all other
// parameters.
func (m *Model) reseed() {
	params := m.eng.Params()
	params.Seed++
	particles, palette, err := field.New(params, m.placement)
	if err != nil {
		return
	}
	eng, err := engine.New(params, m.eng.Matrix(), particles)
	if err != nil {
		return
	}
	m.eng = eng
	m.palette = palette
	m.speedHistory = m.speedHistory[:0]
}

// View renders the TUI interface.
func (m Model) View() string {
	m.canvas.Clear()
	DrawDomain(m.canvas, m.camera)
	DrawParticles(m.canvas, m.camera, m.eng.Particles())
	canvasView := canvasStyle.Render(m.canvas.String())

	params := m.eng.Params()

	var s strings.Builder
	s.WriteString(headerStyle.Render("PARTICLE LIFE") + "\n")
	if m.running {
		s.WriteString("RUNNING\n\n")
	} else {
		s.WriteString("PAUSED\n\n")
	}

	if len(m.speedHistory) > 1 {
		chart := asciigraph.Plot(m.speedHistory,
			asciigraph.Height(4),
			asciigraph.Width(28),
			asciigraph.Caption("mean speed"),
		)
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Tick") + valueStyle.Render(fmt.Sprintf("%d", m.eng.Tick())) + "\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2f", m.eng.Time())) + "\n")
	s.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d", params.Particles)) + "\n")
	s.WriteString(labelStyle.Render("Beta") + valueStyle.Render(fmt.Sprintf("%.2f", params.Beta)) + "\n")
	s.WriteString(labelStyle.Render("Friction") + valueStyle.Render(fmt.Sprintf("%.2f", params.Friction)) + "\n")
	s.WriteString(labelStyle.Render("Seed") + valueStyle.Render(fmt.Sprintf("%d", params.Seed)) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%dx", m.stepsPerFrame)) + "\n")
	if n := len(m.eng.Anomalies()); n > 0 {
		s.WriteString(labelStyle.Render("Anomalies") + valueStyle.Render(fmt.Sprintf("%d", n)) + "\n")
	}

	s.WriteString("\nCOLORS\n")
	for c := 0; c < params.Colors; c++ {
		s.WriteString(swatch(m.palette.Hex(c)) + " " + labelStyle.Render(m.palette.Hex(c)) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reseed Q:Quit\nX/Y/Z:Rotate +/-:Zoom\n[ ]:Sim speed"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
