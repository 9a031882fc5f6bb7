// Package tui provides the desktop simulator: it runs the control loop in a
// Bubbletea program, paints the panel with half-block characters and turns
// the mouse into the touch sensor.
package tui

import (
	"context"
	"image"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/xvierd/flow-touch/internal/adapters/canvas"
	"github.com/xvierd/flow-touch/internal/remote"
	"github.com/xvierd/flow-touch/internal/services"
)

// DefaultInterval is the simulated control loop period.
const DefaultInterval = 20 * time.Millisecond

// tickMsg is sent on every loop tick.
type tickMsg time.Time

// Simulator wires the pieces the model drives.
type Simulator struct {
	Controller  *services.Controller
	Canvas      *canvas.Canvas
	Touch       *MouseTouch
	Orientation *ManualOrientation
	Control     *remote.Control
	Interval    time.Duration
}

// Model represents the simulator state.
type Model struct {
	sim    Simulator
	ctx    context.Context
	keys   keyMap
	help   help.Model
	width  int
	height int
	scale  int
	panel  image.Point

	frame   string
	version uint64
	pressed bool
}

var (
	statusStyle = lipgloss.NewStyle().Bold(true)
	hintStyle   = lipgloss.NewStyle().Faint(true)
)

// NewModel creates a new simulator model.
func NewModel(ctx context.Context, sim Simulator) Model {
	if sim.Interval <= 0 {
		sim.Interval = DefaultInterval
	}
	m := Model{
		sim:   sim,
		ctx:   ctx,
		keys:  keys,
		help:  help.New(),
		scale: 1,
	}
	if w, h, err := term.GetSize(os.Stdout.Fd()); err == nil {
		m.resize(w, h)
	}
	return m
}

// Init starts the loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.sim.Interval)
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.sim.Controller.Tick(m.ctx, time.Time(msg))
		m.refresh()
		return m, tickCmd(m.sim.Interval)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.version = 0
		m.refresh()

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Rotate):
			m.sim.Orientation.Rotate()
		case key.Matches(msg, m.keys.Start):
			m.sim.Control.Fire(remote.CommandStart)
		case key.Matches(msg, m.keys.Pause):
			m.sim.Control.Fire(remote.CommandPause)
		case key.Matches(msg, m.keys.Resume):
			m.sim.Control.Fire(remote.CommandResume)
		case key.Matches(msg, m.keys.Stop):
			m.sim.Control.Fire(remote.CommandStop)
		case key.Matches(msg, m.keys.Mode):
			m.sim.Control.Fire(remote.CommandCycleMode)
		}
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.pressed = true
	case msg.Action == tea.MouseActionMotion && m.pressed:
	case msg.Action == tea.MouseActionRelease:
		m.pressed = false
		m.sim.Touch.Release()
		return
	default:
		return
	}

	p := CellToPixel(msg.X, msg.Y, m.scale)
	if !p.In(m.panelBounds()) {
		m.pressed = false
		m.sim.Touch.Release()
		return
	}
	m.sim.Touch.Press(p)
}

func (m *Model) panelBounds() image.Rectangle {
	return image.Rect(0, 0, m.sim.Canvas.Width(), m.sim.Canvas.Height())
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.help.Width = w
	m.panel = m.panelBounds().Size()
	m.scale = FitScale(m.panel, w, h)
}

// refresh repaints the cached frame only when the canvas changed.
func (m *Model) refresh() {
	if size := m.panelBounds().Size(); size != m.panel {
		m.panel = size
		m.scale = FitScale(size, m.width, m.height)
		m.frame = ""
	}
	v := m.sim.Canvas.Version()
	if v == m.version && m.frame != "" {
		return
	}
	m.version = v
	m.frame = RenderHalfBlocks(m.sim.Canvas.Snapshot(), m.scale)
}

// View renders the panel, the status line and the key help.
func (m Model) View() string {
	status := statusStyle.Render(m.sim.Control.Status())
	hint := hintStyle.Render("hold the mouse button for a long press")
	return lipgloss.JoinVertical(lipgloss.Left,
		m.frame,
		status+"  "+hint,
		m.help.View(m.keys),
	)
}

// Run starts the simulator and blocks until the user quits or ctx ends.
func Run(ctx context.Context, sim Simulator) error {
	p := tea.NewProgram(
		NewModel(ctx, sim),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
