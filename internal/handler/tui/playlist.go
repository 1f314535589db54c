package tui

import (
	"TUI_youtube_pip/internal/core/domain"
	"TUI_youtube_pip/internal/core/usecases"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const minVisibleRows = 5

type browseLoadedMsg struct {
	state       usecases.BrowseState
	resetCursor bool
}
type browseErrorMsg struct{ err error }

type PlaylistsModel struct {
	parent *AppModel

	state   usecases.BrowseState
	cursor  int
	loading bool
	spinner spinner.Model
	err     error

	urlInput    textinput.Model
	enteringURL bool

	height int
}

func NewPlaylistsModel(parent *AppModel) *PlaylistsModel {
	urlInput := textinput.New()
	urlInput.Placeholder = "https://www.youtube.com/playlist?list=..."
	urlInput.Prompt = "URL: "
	urlInput.CharLimit = 512
	urlInput.Width = 60

	return &PlaylistsModel{
		parent:   parent,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		urlInput: urlInput,
	}
}

func (m *PlaylistsModel) SetSize(_, height int) {
	m.height = height
}

func (m *PlaylistsModel) Init() tea.Cmd {
	m.err = nil
	m.enteringURL = false

	// coming back from the player keeps what was already fetched
	if state := m.parent.playlistUseCase.State(); len(state.Playlists) > 0 {
		m.state = state
		m.clampCursor()
		return nil
	}

	m.cursor = 0
	return m.load(func(ctx context.Context, uc usecases.PlaylistUseCase) (usecases.BrowseState, error) {
		return uc.LoadPlaylists(ctx)
	}, true)
}

func (m *PlaylistsModel) load(
	fetch func(ctx context.Context, uc usecases.PlaylistUseCase) (usecases.BrowseState, error),
	resetCursor bool,
) tea.Cmd {
	m.loading = true
	m.err = nil

	ctx := m.parent.appContext
	uc := m.parent.playlistUseCase

	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		state, err := fetch(ctx, uc)
		if err != nil {
			return browseErrorMsg{err: err}
		}
		return browseLoadedMsg{state: state, resetCursor: resetCursor}
	})
}

func (m *PlaylistsModel) rows() int {
	if m.state.Selected != nil {
		return len(m.state.Items)
	}
	return len(m.state.Playlists)
}

func (m *PlaylistsModel) hasMore() bool {
	if m.state.Selected != nil {
		return m.state.HasMoreItems
	}
	return m.state.HasMorePlaylists
}

func (m *PlaylistsModel) clampCursor() {
	if m.cursor >= m.rows() {
		m.cursor = m.rows() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func needsSignIn(err error) bool {
	return errors.Is(err, domain.ErrNotAuthenticated) || errors.Is(err, domain.ErrTokenExpired)
}

func (m *PlaylistsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case browseLoadedMsg:
		m.loading = false
		m.state = msg.state
		if msg.resetCursor {
			m.cursor = 0
		}
		m.clampCursor()
		m.parent.logger.Debug(fmt.Sprintf("Browse state: %d playlists, %d items", len(m.state.Playlists), len(m.state.Items)))
		return m, nil

	case browseErrorMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.enteringURL {
			return m, m.updateURLInput(msg)
		}
		if m.loading {
			return m, nil
		}
		return m, m.updateKeys(msg)
	}

	return m, nil
}

func (m *PlaylistsModel) updateURLInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.enteringURL = false
		m.urlInput.Blur()
		return nil
	case tea.KeyEnter:
		raw := strings.TrimSpace(m.urlInput.Value())
		m.enteringURL = false
		m.urlInput.Blur()
		m.urlInput.SetValue("")
		if raw == "" {
			return nil
		}
		m.parent.logger.Info("Opening playlist by URL " + raw)
		return m.load(func(ctx context.Context, uc usecases.PlaylistUseCase) (usecases.BrowseState, error) {
			return uc.SelectPlaylistByURL(ctx, raw)
		}, true)
	}

	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	return cmd
}

func (m *PlaylistsModel) updateKeys(msg tea.KeyMsg) tea.Cmd {
	if m.err != nil && needsSignIn(m.err) && msg.Type == tea.KeyEnter {
		return m.parent.send(showLoginMsg{})
	}

	switch msg.String() {
	case "esc", "backspace":
		if m.state.Selected != nil {
			m.state = m.parent.playlistUseCase.ClearSelection()
			m.cursor = 0
			m.err = nil
			return nil
		}
		return m.parent.send(showHomeMsg{})

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.rows()-1 {
			m.cursor++
		}

	case "m":
		if !m.hasMore() {
			return nil
		}
		if m.state.Selected != nil {
			return m.load(func(ctx context.Context, uc usecases.PlaylistUseCase) (usecases.BrowseState, error) {
				return uc.LoadMoreItems(ctx)
			}, false)
		}
		return m.load(func(ctx context.Context, uc usecases.PlaylistUseCase) (usecases.BrowseState, error) {
			return uc.LoadMorePlaylists(ctx)
		}, false)

	case "r":
		m.parent.playlistUseCase.Reset()
		m.state = usecases.BrowseState{}
		return m.load(func(ctx context.Context, uc usecases.PlaylistUseCase) (usecases.BrowseState, error) {
			return uc.LoadPlaylists(ctx)
		}, true)

	case "u":
		m.enteringURL = true
		m.err = nil
		return m.urlInput.Focus()

	case "enter":
		if m.rows() == 0 {
			return nil
		}
		if m.state.Selected == nil {
			selected := m.state.Playlists[m.cursor]
			m.parent.logger.Info(fmt.Sprintf("Playlist selected: %s (ID: %s)", selected.Title, selected.ID))
			return m.load(func(ctx context.Context, uc usecases.PlaylistUseCase) (usecases.BrowseState, error) {
				return uc.SelectPlaylist(ctx, selected)
			}, true)
		}
		item := m.state.Items[m.cursor]
		return m.parent.send(showPlayerMsg{videoID: item.VideoID, returnTo: viewPlaylists})
	}

	return nil
}

// window returns the slice of rows around the cursor that fits the terminal.
func (m *PlaylistsModel) window() (int, int) {
	visible := m.height - 12
	if visible < minVisibleRows {
		visible = minVisibleRows
	}

	total := m.rows()
	if total <= visible {
		return 0, total
	}

	start := m.cursor - visible/2
	if start < 0 {
		start = 0
	}
	if start+visible > total {
		start = total - visible
	}

	return start, start + visible
}

func playlistLabel(p domain.Playlist) string {
	if p.IsSpecial() {
		return "★ " + p.Title
	}
	if p.ItemCount > 0 {
		return fmt.Sprintf("%s (%d)", p.Title, p.ItemCount)
	}
	return p.Title
}

func itemLabel(item domain.PlaylistItem) string {
	title := item.Title
	if title == "" {
		title = item.VideoID
	}
	return fmt.Sprintf("%3d. %s", item.Position+1, title)
}

func (m *PlaylistsModel) View() string {
	var b strings.Builder

	header := "Your Playlists"
	if m.state.Selected != nil {
		header = m.state.Selected.Title
	}
	b.WriteString(listHeaderStyle.Render(header))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorMessageStyle.Render("Error: " + domain.UserMessage(m.err)))
		b.WriteString("\n\n")
		if needsSignIn(m.err) {
			b.WriteString(hintStyle.Render("Press Enter to sign in again."))
			b.WriteString("\n\n")
		}
	}

	if m.enteringURL {
		b.WriteString("Open a playlist by URL:\n")
		b.WriteString(m.urlInput.View())
		b.WriteString("\n\n")
	}

	if m.rows() == 0 && !m.loading && m.err == nil {
		if m.state.Selected != nil {
			b.WriteString(dimItemStyle.Render("This playlist is empty."))
		} else {
			b.WriteString(dimItemStyle.Render("No playlists found."))
		}
		b.WriteString("\n")
	}

	start, end := m.window()
	for i := start; i < end; i++ {
		var label string
		if m.state.Selected != nil {
			label = itemLabel(m.state.Items[i])
		} else {
			label = playlistLabel(m.state.Playlists[i])
		}

		if i == m.cursor {
			b.WriteString(selectedListItemStyle.Render(label))
		} else {
			b.WriteString(listItemStyle.Render(label))
		}
		b.WriteString("\n")
	}

	if m.hasMore() {
		b.WriteString(dimItemStyle.Render("… more available, press m to load"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.loading {
		b.WriteString(m.spinner.View() + " Loading…\n\n")
	}

	if m.state.Selected != nil {
		b.WriteString(hintStyle.Render("↑/↓ navigate, Enter plays, m loads more, Esc back to playlists."))
	} else {
		b.WriteString(hintStyle.Render("↑/↓ navigate, Enter opens, m loads more, u opens by URL, r reloads, Esc home."))
	}

	return docStyle.Render(b.String())
}
