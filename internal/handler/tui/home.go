package tui

import (
	"TUI_youtube_pip/internal/core/domain"
	"TUI_youtube_pip/internal/core/usecases"
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type homeAction int

const (
	actionPlay homeAction = iota
	actionPaste
	actionSignIn
	actionBrowse
	actionSignOut
	actionQuit
)

type menuItem struct {
	label  string
	action homeAction
}

type urlErrorMsg struct{ err error }
type signedOutMsg struct{ err error }

type HomeModel struct {
	parent *AppModel

	input     textinput.Model
	cursor    int
	focusMenu bool

	notice   string
	errorMsg string
}

func NewHomeModel(parent *AppModel) *HomeModel {
	input := textinput.New()
	input.Placeholder = "https://www.youtube.com/watch?v=..."
	input.Prompt = "▶ "
	input.CharLimit = 512
	input.Width = 60
	// ctrl+v goes through the system clipboard port instead
	input.KeyMap.Paste.SetEnabled(false)

	return &HomeModel{
		parent: parent,
		input:  input,
	}
}

func (m *HomeModel) Init() tea.Cmd {
	m.focusMenu = false
	m.cursor = 0
	return tea.Batch(m.input.Focus(), textinput.Blink)
}

func (m *HomeModel) SetNotice(notice string) {
	m.notice = notice
	m.errorMsg = ""
}

func (m *HomeModel) menu() []menuItem {
	items := []menuItem{
		{label: "Play URL", action: actionPlay},
		{label: "Paste from clipboard", action: actionPaste},
	}

	switch {
	case m.parent.session.State().IsAuthenticated:
		items = append(items,
			menuItem{label: "Browse my playlists", action: actionBrowse},
			menuItem{label: "Sign out", action: actionSignOut},
		)
	case m.parent.options.CanSignIn:
		items = append(items, menuItem{label: "Sign in with Google", action: actionSignIn})
	}

	return append(items, menuItem{label: "Quit", action: actionQuit})
}

func resolveURLCmd(player usecases.PlayerUseCase, raw string) tea.Cmd {
	return func() tea.Msg {
		videoID, err := player.Resolve(raw)
		if err != nil {
			return urlErrorMsg{err: err}
		}
		return showPlayerMsg{videoID: videoID, returnTo: viewHome}
	}
}

func pasteCmd(player usecases.PlayerUseCase) tea.Cmd {
	return func() tea.Msg {
		videoID, err := player.FromClipboard()
		if err != nil {
			return urlErrorMsg{err: err}
		}
		return showPlayerMsg{videoID: videoID, returnTo: viewHome}
	}
}

func signOutCmd(ctx context.Context, session usecases.SessionUseCase) tea.Cmd {
	return func() tea.Msg {
		return signedOutMsg{err: session.Logout(ctx)}
	}
}

func (m *HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case urlErrorMsg:
		m.notice = ""
		m.errorMsg = domain.UserMessage(msg.err)
		return m, nil

	case signedOutMsg:
		if msg.err != nil {
			m.parent.logger.Error("sign out finished with errors", msg.err)
		}
		m.cursor = 0
		m.SetNotice("Signed out")
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.parent.cancelApp()
			return m, tea.Quit
		case "ctrl+v":
			return m, m.run(actionPaste)
		case "tab", "shift+tab":
			m.focusMenu = !m.focusMenu
			if m.focusMenu {
				m.input.Blur()
				return m, nil
			}
			return m, m.input.Focus()
		}

		if m.focusMenu {
			return m, m.updateMenu(msg)
		}

		if msg.Type == tea.KeyEnter {
			return m, m.run(actionPlay)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *HomeModel) updateMenu(msg tea.KeyMsg) tea.Cmd {
	items := m.menu()

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(items) {
			return m.run(items[m.cursor].action)
		}
	}

	return nil
}

func (m *HomeModel) run(action homeAction) tea.Cmd {
	m.errorMsg = ""
	m.notice = ""

	switch action {
	case actionPlay:
		raw := strings.TrimSpace(m.input.Value())
		if raw == "" {
			m.errorMsg = domain.UserMessage(domain.ErrInvalidVideoURL)
			return nil
		}
		return resolveURLCmd(m.parent.playerUseCase, raw)
	case actionPaste:
		return pasteCmd(m.parent.playerUseCase)
	case actionSignIn:
		return m.parent.send(showLoginMsg{})
	case actionBrowse:
		return m.parent.send(showPlaylistsMsg{})
	case actionSignOut:
		return signOutCmd(m.parent.appContext, m.parent.session)
	case actionQuit:
		m.parent.cancelApp()
		return tea.Quit
	}

	return nil
}

func (m *HomeModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("▶ YouTube PiP"))
	b.WriteString("\n")
	b.WriteString("Paste a YouTube link and press Enter:\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.errorMsg != "" {
		b.WriteString(errorMessageStyle.Render(m.errorMsg))
		b.WriteString("\n\n")
	}
	if m.notice != "" {
		b.WriteString(statusMessageStyle.Render(m.notice))
		b.WriteString("\n\n")
	}

	for i, item := range m.menu() {
		if m.focusMenu && i == m.cursor {
			b.WriteString(selectedListItemStyle.Render(item.label))
		} else {
			b.WriteString(listItemStyle.Render(item.label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if !m.parent.options.CanSignIn {
		b.WriteString(hintStyle.Render("Set YTPIP_CLIENT_ID/YTPIP_CLIENT_SECRET to browse your playlists."))
		b.WriteString("\n")
	}
	b.WriteString(hintStyle.Render("Tab switches to the menu, Ctrl+V pastes, Ctrl+D toggles debug log, Esc quits."))

	return docStyle.Render(b.String())
}
