package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultDebugWidth  = 80
	defaultDebugHeight = 8
)

type DebugModel struct {
	logs     AppLogger
	viewport viewport.Model
}

func NewDebugModel(logs AppLogger) *DebugModel {
	return &DebugModel{
		logs:     logs,
		viewport: viewport.New(defaultDebugWidth, defaultDebugHeight),
	}
}

func (m *DebugModel) SetSize(width, height int) {
	m.viewport.Width = max(width-6, 20)
	m.viewport.Height = max(height/3, 3)
	m.Refresh()
}

// Refresh reloads the ring; the view follows the tail unless scrolled up.
func (m *DebugModel) Refresh() {
	entries := m.logs.Entries()
	if len(entries) == 0 {
		m.viewport.SetContent("(no log entries)")
		m.viewport.GotoTop()
		return
	}

	follow := m.viewport.AtBottom()
	m.viewport.SetContent(strings.Join(entries, "\n"))
	if follow {
		m.viewport.GotoBottom()
	}
}

// Handles reports whether the overlay consumes key, leaving everything else
// to the active view.
func (m *DebugModel) Handles(key tea.KeyMsg) bool {
	switch key.String() {
	case "pgup", "pgdown":
		return true
	}
	return false
}

func (m *DebugModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *DebugModel) View() string {
	header := debugTitleStyle.Render("Debug log") + hintStyle.Render("  ctrl+d hide · ctrl+l clear · pgup/pgdown scroll")
	return debugBoxStyle.Render(header + "\n" + m.viewport.View())
}
