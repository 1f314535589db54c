package tui

import (
	"TUI_youtube_pip/internal/core/domain"
	"TUI_youtube_pip/internal/core/ports"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type videoDetailsMsg struct {
	video domain.Video
	err   error
}
type playedMsg struct {
	url string
	err error
}
type sharedMsg struct {
	link string
	err  error
}

type PlayerModel struct {
	parent   *AppModel
	videoID  string
	returnTo currentView

	video   domain.Video
	options domain.PlayerOptions

	lastURL   string
	statusMsg string
	errorMsg  string
}

func NewPlayerModel(parent *AppModel, videoID string, returnTo currentView) *PlayerModel {
	return &PlayerModel{
		parent:   parent,
		videoID:  videoID,
		returnTo: returnTo,
		video:    domain.Video{ID: videoID},
		options:  domain.DefaultPlayerOptions(),
	}
}

// Init starts playback right away and fetches details in the background.
func (m *PlayerModel) Init() tea.Cmd {
	if m.videoID == "" {
		return nil
	}

	return tea.Batch(m.play(), m.details())
}

func (m *PlayerModel) details() tea.Cmd {
	player := m.parent.playerUseCase
	ctx := m.parent.appContext
	videoID := m.videoID

	return func() tea.Msg {
		video, err := player.Details(ctx, videoID)
		return videoDetailsMsg{video: video, err: err}
	}
}

func (m *PlayerModel) play() tea.Cmd {
	player := m.parent.playerUseCase
	videoID := m.videoID
	options := m.options

	return func() tea.Msg {
		target, err := player.Play(videoID, options)
		return playedMsg{url: target, err: err}
	}
}

func (m *PlayerModel) share() tea.Cmd {
	player := m.parent.playerUseCase
	videoID := m.videoID

	return func() tea.Msg {
		link, err := player.Share(videoID)
		return sharedMsg{link: link, err: err}
	}
}

func openURLCmd(browser ports.BrowserPort, url string, logger ports.LoggerPort) tea.Cmd {
	return func() tea.Msg {
		if err := browser.OpenURL(url); err != nil {
			logger.Error("could not open the browser", err)
		}
		return nil
	}
}

func (m *PlayerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case videoDetailsMsg:
		if msg.err != nil {
			m.errorMsg = domain.UserMessage(msg.err)
			return m, nil
		}
		m.video = msg.video
		return m, nil

	case playedMsg:
		m.lastURL = msg.url
		if msg.err != nil {
			m.errorMsg = domain.UserMessage(msg.err)
			return m, nil
		}
		m.errorMsg = ""
		m.statusMsg = "Opened in your browser"
		return m, nil

	case sharedMsg:
		if msg.err != nil {
			m.errorMsg = "Could not copy the link: " + domain.UserMessage(msg.err)
			m.statusMsg = msg.link
			return m, nil
		}
		m.errorMsg = ""
		m.statusMsg = "Link copied: " + msg.link
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "backspace":
			if m.returnTo == viewPlaylists {
				return m, m.parent.send(showPlaylistsMsg{})
			}
			return m, m.parent.send(showHomeMsg{})
		case "a":
			m.options.Autoplay = !m.options.Autoplay
		case "f":
			m.options.Fullscreen = !m.options.Fullscreen
		case "p":
			m.options.PictureInPicture = !m.options.PictureInPicture
		case "enter", "o":
			m.statusMsg = ""
			return m, m.play()
		case "w":
			return m, openURLCmd(m.parent.browser, domain.WatchURL(m.videoID), m.parent.logger)
		case "s":
			return m, m.share()
		}
	}

	return m, nil
}

func (m *PlayerModel) View() string {
	var b strings.Builder

	title := m.video.Title
	if title == "" {
		title = "Video " + m.videoID
	}
	b.WriteString(titleStyle.Render("▶ " + title))
	b.WriteString("\n")

	if m.video.ChannelTitle != "" {
		b.WriteString(labelStyle.Render("Channel") + m.video.ChannelTitle + "\n")
	}
	if m.video.Duration > 0 {
		b.WriteString(labelStyle.Render("Duration") + m.video.Duration.String() + "\n")
	}
	b.WriteString(labelStyle.Render("Video ID") + m.videoID + "\n")
	b.WriteString(labelStyle.Render("Watch") + urlStyle.Render(domain.WatchURL(m.videoID)) + "\n\n")

	b.WriteString(fmt.Sprintf("%s autoplay (a)   %s fullscreen (f)   %s picture-in-picture (p)\n\n",
		checkbox(m.options.Autoplay), checkbox(m.options.Fullscreen), checkbox(m.options.PictureInPicture)))

	if m.lastURL != "" {
		b.WriteString(hintStyle.Render("Player: "+m.lastURL) + "\n\n")
	}

	if m.errorMsg != "" {
		b.WriteString(errorMessageStyle.Render(m.errorMsg))
		b.WriteString("\n\n")
	}
	if m.statusMsg != "" {
		b.WriteString(statusMessageStyle.Render(m.statusMsg))
		b.WriteString("\n\n")
	}

	b.WriteString(hintStyle.Render("Enter reopens the player, s copies a share link, w opens on YouTube, Esc goes back."))

	return docStyle.Render(b.String())
}
