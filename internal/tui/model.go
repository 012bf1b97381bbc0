// Package tui provides the Bubble Tea reading interface.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuiread/internal/event"
	"github.com/verte-zerg/tuiread/internal/loop"
	"github.com/verte-zerg/tuiread/internal/model"
)

const (
	minBoxWidth      = 30
	maxProgressWidth = 60
)

// FrameMsg carries a new frame from the control loop.
type FrameMsg struct {
	Frame model.Frame
}

// Model implements the Bubble Tea reading UI. It forwards key presses to the
// control loop and draws whatever frame it last received.
type Model struct {
	feed     *event.Feed
	keys     loop.KeyMap
	help     help.Model
	progress progress.Model

	frame    model.Frame
	hasFrame bool

	width  int
	height int
}

var (
	wordStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#D0D0D0"))
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	contextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	wordBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Align(lipgloss.Center)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

// NewModel constructs a reading TUI model pushing keys into feed.
func NewModel(feed *event.Feed, keys loop.KeyMap) *Model {
	return &Model{
		feed:     feed,
		keys:     keys,
		help:     help.New(),
		progress: progress.New(progress.WithSolidFill("#C89A3A"), progress.WithoutPercentage()),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = progressWidth(msg.Width)
		return m, nil
	case tea.KeyMsg:
		if msg.Paste || m.feed == nil {
			return m, nil
		}
		m.feed.Push(event.Key(msg.String()))
		return m, nil
	case FrameMsg:
		m.frame = msg.Frame
		m.hasFrame = true
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.hasFrame {
		return ""
	}
	content := m.renderContent()
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	footerHeight := lipgloss.Height(footer)
	if m.height <= footerHeight+3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-footerHeight, lipgloss.Center, lipgloss.Center, content)
	footerBlock := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
	return body + "\n" + footerBlock
}

func (m *Model) renderContent() string {
	layout := LayoutWord(m.frame.Word)
	box := wordBoxStyle.Width(m.boxWidth(layout.Width())).Render(layout.render())

	above, below := "", ""
	if m.frame.Paused {
		above = contextStyle.Render(strings.Join(m.frame.Preceding, " "))
		below = contextStyle.Render(strings.Join(m.frame.Succeeding, " "))
	}
	return lipgloss.JoinVertical(lipgloss.Center, above, box, below)
}

func (m *Model) boxWidth(wordWidth int) int {
	w := minBoxWidth
	if need := wordWidth + 4; need > w {
		w = need
	}
	if m.width > 0 && w > m.width-2 {
		w = m.width - 2
	}
	if w < 1 {
		w = 1
	}
	return w
}

func (m *Model) renderFooter() string {
	f := m.frame
	state := "running"
	if f.Paused {
		state = pausedStyle.Render("paused")
	}
	status := footerStyle.Render(fmt.Sprintf("Word %d/%d  %d WPM  ", f.Index+1, f.Total, f.WPM)) + state

	keys := m.keys
	keys.Back.SetEnabled(f.Paused)
	m.help.ShowAll = f.ShowFullHelp

	lines := []string{status}
	if m.progress.Width > 0 {
		lines = append(lines, m.progress.ViewAs(f.Percent()))
	}
	lines = append(lines, m.help.View(keys))
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func progressWidth(termWidth int) int {
	w := termWidth - 4
	if w > maxProgressWidth {
		w = maxProgressWidth
	}
	if w < 0 {
		w = 0
	}
	return w
}
