package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luki/specc/internal/render"
)

// uiInterval is the redraw cadence, independent of the sampling
// interval that produces frames.
const uiInterval = 250 * time.Millisecond

// ── Messages ─────────────────────────────────────────────────────────

// FrameMsg delivers a freshly rendered frame to the dashboard.
type FrameMsg render.Frame

type uiTickMsg time.Time

// ── Model ────────────────────────────────────────────────────────────

// Dashboard is the bubbletea model for the live view. It only displays
// frames; sampling happens elsewhere and arrives as FrameMsg.
type Dashboard struct {
	frame     *render.Frame
	frames    int
	keys      keyMap
	help      help.Model
	width     int
	height    int
	scroll    int
	startTime time.Time
	now       time.Time
}

// NewDashboard returns an empty dashboard that shows a waiting message
// until the first frame arrives.
func NewDashboard() Dashboard {
	now := time.Now()
	return Dashboard{
		keys:      defaultKeys,
		help:      help.New(),
		startTime: now,
		now:       now,
	}
}

func uiTick() tea.Cmd {
	return tea.Tick(uiInterval, func(t time.Time) tea.Msg {
		return uiTickMsg(t)
	})
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Dashboard) Init() tea.Cmd {
	return uiTick()
}

func (m Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.scroll > 0 {
				m.scroll--
			}
		case key.Matches(msg, m.keys.Down):
			m.scroll = min(m.scroll+1, m.maxScroll())
		case key.Matches(msg, m.keys.Top):
			m.scroll = 0
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.scroll = min(m.scroll, m.maxScroll())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scroll = min(m.scroll, m.maxScroll())

	case FrameMsg:
		f := render.Frame(msg)
		m.frame = &f
		m.frames++
		m.scroll = min(m.scroll, m.maxScroll())

	case uiTickMsg:
		m.now = time.Time(msg)
		return m, uiTick()
	}

	return m, nil
}

// ── View ─────────────────────────────────────────────────────────────

func (m Dashboard) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	lines := m.lines()
	start := min(m.scroll, m.maxScroll())
	end := min(start+m.visibleLines(), len(lines))
	return strings.Join(lines[start:end], "\n")
}

// lines renders the full dashboard before scrolling.
func (m Dashboard) lines() []string {
	contentWidth := m.width
	if contentWidth < minWidth {
		contentWidth = minWidth
	}

	title := render.Title
	status := []string{fmt.Sprintf("up %s", fmtDuration(m.now.Sub(m.startTime)))}
	if m.frame != nil {
		if m.frame.Title != "" {
			title = m.frame.Title
		}
		if !m.frame.GeneratedAt.IsZero() {
			status = append(status, m.frame.GeneratedAt.Format("15:04:05"))
		}
		status = append(status, fmt.Sprintf("#%d", m.frames))
	}

	sections := []string{titleBar(title, status, contentWidth)}

	if m.frame == nil {
		waiting := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(contentWidth).
			Align(lipgloss.Center).
			Padding(2, 0).
			Render("Waiting for sensor data...")
		sections = append(sections, waiting)
	} else {
		sections = append(sections, panels(*m.frame, contentWidth)...)
	}

	if m.help.ShowAll {
		sections = append(sections, lipgloss.NewStyle().Padding(0, 1).Render(m.help.View(m.keys)))
		sections = append(sections, footer(contentWidth, ""))
	} else {
		sections = append(sections, footer(contentWidth, m.help.ShortHelpView(m.keys.ShortHelp())))
	}

	return strings.Split(lipgloss.JoinVertical(lipgloss.Left, sections...), "\n")
}

func (m Dashboard) visibleLines() int {
	return max(m.height, 5)
}

// maxScroll is the largest offset that still fills the screen. It is 0
// until the window size is known.
func (m Dashboard) maxScroll() int {
	if m.width == 0 {
		return 0
	}
	return max(len(m.lines())-m.visibleLines(), 0)
}

func fmtDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
