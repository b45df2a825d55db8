package viz

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/particlebox/internal/ensemble"
)

const (
	width          = 60
	height         = 30
	energyCapacity = 240
	spawnBatch     = 10
)

// Scale fields selectable with tab.
const (
	FieldSpeed = iota
	FieldSize
	FieldMass
	numFields
)

var fieldNames = [numFields]string{"speed", "size", "mass"}

type TickMsg time.Time

// Model drives one ensemble. The Manager is only touched from Update, so the
// Bubble Tea loop serializes every mutation with the tick.
type Model struct {
	mgr      *ensemble.Manager
	canvas   *Canvas
	interval time.Duration
	theme    Theme

	running bool
	tick    int
	last    ensemble.Stats
	hits    int

	scales   [numFields]int
	selected int
	status   string
	energy   []float64
}

func NewModel(mgr *ensemble.Manager, fps int) Model {
	if fps <= 0 {
		fps = 60
	}
	return Model{
		mgr:      mgr,
		canvas:   NewCanvas(width, height),
		interval: time.Second / time.Duration(fps),
		theme:    ThemeNeon,
		running:  true,
		scales:   [numFields]int{3, 3, 3},
		energy:   make([]float64, 0, energyCapacity),
	}
}

func (m Model) WithTheme(name string) Model {
	m.theme = GetTheme(name)
	return m
}

func (m Model) Init() tea.Cmd {
	return m.nextTick()
}

func (m Model) nextTick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case ".":
			if !m.running {
				m.step()
			}
		case "tab":
			m.selected = (m.selected + 1) % numFields
		case "1", "2", "3", "4", "5":
			m.scales[m.selected] = int(key[0] - '0')
		case "a":
			_, err := m.mgr.Add(m.scales[FieldSpeed], m.scales[FieldSize], m.scales[FieldMass])
			m.report("added", err)
		case "x":
			_, err := m.mgr.Remove()
			m.report("removed", err)
		case "c":
			m.status = fmt.Sprintf("cleared %d", m.mgr.Clear())
		case "n":
			m.status = fmt.Sprintf("spawned %d", len(m.mgr.Simulate(spawnBatch)))
		case "t":
			m.theme = nextTheme(m.theme)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.nextTick()
	}
	return m, nil
}

func (m *Model) step() {
	m.last = m.mgr.Update()
	m.hits += m.last.WallHits()
	m.tick++

	ke := 0.0
	for _, p := range m.mgr.Particles() {
		ke += p.KineticEnergy()
	}
	m.energy = append(m.energy, ke)
	if len(m.energy) > energyCapacity {
		m.energy = m.energy[1:]
	}
}

func (m *Model) report(done string, err error) {
	switch {
	case err == nil:
		m.status = done
	case errors.Is(err, ensemble.ErrCapacity):
		m.status = "ensemble is full"
	case errors.Is(err, ensemble.ErrEmpty):
		m.status = "nothing to remove"
	default:
		m.status = err.Error()
	}
}

// draw maps container coordinates onto canvas dots with one uniform scale
// so circles stay round.
func (m *Model) draw() {
	m.canvas.Clear()
	b := m.mgr.Bounds()

	sx := float64(m.canvas.DotsWide()-1) / b.Width()
	sy := float64(m.canvas.DotsHigh()-1) / b.Height()
	s := math.Min(sx, sy)
	project := func(x, y float64) (int, int) {
		return int(math.Round((x - b.XMin) * s)), int(math.Round((y - b.YMin) * s))
	}

	x1, y1 := project(b.XMax, b.YMax)
	m.canvas.DrawRect(0, 0, x1, y1, m.theme.Border)

	for _, in := range m.mgr.Info() {
		cx, cy := project(in.Pos.X, in.Pos.Y)
		r := int(math.Round(float64(in.Radius) * s))
		m.canvas.DrawCircle(cx, cy, r, RGBColor(in.Color))
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	accent := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)

	var s strings.Builder
	s.WriteString(accent.Render("PARTICLEBOX") + "\n")
	if m.running {
		s.WriteString("RUNNING\n\n")
	} else {
		s.WriteString("PAUSED\n\n")
	}

	cfg := m.mgr.Config()
	s.WriteString(labelStyle.Render("Tick") + valueStyle.Render(fmt.Sprintf("%d", m.tick)) + "\n")
	s.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d/%d", m.mgr.Len(), cfg.MaxParticles)) + "\n")
	s.WriteString(labelStyle.Render("Wall hits") + valueStyle.Render(fmt.Sprintf("%d", m.hits)) + "\n")
	if m.last.Contacts > 0 {
		s.WriteString(labelStyle.Render("Contacts") + valueStyle.Render(fmt.Sprintf("%d", m.last.Contacts)) + "\n")
	}
	if n := len(m.energy); n > 0 {
		s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.1f", m.energy[n-1])) + "\n")
		s.WriteString(muted.Render(Sparkline(m.energy, 24)) + "\n")
	}

	s.WriteString("\nNEW PARTICLE\n")
	mins := [numFields]int{cfg.MinSpeed, cfg.MinRadius, cfg.MinMass}
	for i, name := range fieldNames {
		v := m.scales[i]
		line := fmt.Sprintf("%-6s %s %d (%d)", name, ScaleBar(v, ensemble.MaxScale), v, ensemble.ScaleValue(mins[i], v))
		if i == m.selected {
			s.WriteString(accent.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}

	if m.status != "" {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Alert).Render(m.status) + "\n")
	}
	s.WriteString(muted.Render("\nA:Add X:Remove C:Clear N:Spawn\nTAB/1-5:Scales SP:Pause T:Theme Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle.Render(s.String()))
}
