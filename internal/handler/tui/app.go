package tui

import (
	"TUI_youtube_pip/internal/core/domain"
	"TUI_youtube_pip/internal/core/ports"
	"TUI_youtube_pip/internal/core/usecases"
	"TUI_youtube_pip/internal/handler/server"
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type currentView int

const (
	viewHome currentView = iota
	viewLogin
	viewPlaylists
	viewPlayer
)

const debugRefreshInterval = time.Second

// AppLogger is the logger plus the controls behind the debug overlay.
type AppLogger interface {
	ports.LoggerPort
	ports.DebugLogPort
	SetDebug(enabled bool)
	DebugEnabled() bool
}

type Options struct {
	CallbackAddr string
	CallbackPath string
	// CanSignIn is false when no OAuth client is configured.
	CanSignIn bool
	// InitialURL is played as soon as the program starts.
	InitialURL string
	// Preferences keeps the debug toggle between runs; nil disables saving.
	Preferences ports.PreferencesPort
}

type AppModel struct {
	session         usecases.SessionUseCase
	playlistUseCase usecases.PlaylistUseCase
	playerUseCase   usecases.PlayerUseCase
	callbackHandler server.CallbackHandler
	browser         ports.BrowserPort
	logger          AppLogger
	options         Options

	homeModel      *HomeModel
	loginModel     *LoginModel
	playlistsModel *PlaylistsModel
	playerModel    *PlayerModel
	debugModel     *DebugModel

	currentView currentView
	showDebug   bool

	appContext context.Context
	cancelApp  context.CancelFunc

	width  int
	height int
}

func NewAppModel(
	session usecases.SessionUseCase,
	playlistUC usecases.PlaylistUseCase,
	playerUC usecases.PlayerUseCase,
	cbHandler server.CallbackHandler,
	browser ports.BrowserPort,
	log AppLogger,
	options Options,
) *AppModel {
	appCtx, cancel := context.WithCancel(context.Background())

	m := &AppModel{
		session:         session,
		playlistUseCase: playlistUC,
		playerUseCase:   playerUC,
		callbackHandler: cbHandler,
		browser:         browser,
		logger:          log,
		options:         options,

		appContext: appCtx,
		cancelApp:  cancel,
	}

	m.homeModel = NewHomeModel(m)
	m.loginModel = NewLoginModel(m)
	m.playlistsModel = NewPlaylistsModel(m)
	m.playerModel = NewPlayerModel(m, "", viewHome)
	m.debugModel = NewDebugModel(log)

	m.currentView = viewHome
	m.showDebug = log.DebugEnabled()
	return m
}

func (m *AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.homeModel.Init(),
		waitForSessionChange(m.appContext, m.session.Changes()),
	}

	if m.showDebug {
		cmds = append(cmds, debugTick())
	}

	if m.options.InitialURL != "" {
		cmds = append(cmds, resolveURLCmd(m.playerUseCase, m.options.InitialURL))
	}

	return tea.Batch(cmds...)
}

type showHomeMsg struct{ notice string }
type showLoginMsg struct{}
type showPlaylistsMsg struct{}
type showPlayerMsg struct {
	videoID  string
	returnTo currentView
}

type sessionChangedMsg struct{ state domain.AuthState }
type debugTickMsg struct{}

func (m *AppModel) savePreferences() {
	if m.options.Preferences == nil {
		return
	}

	if err := m.options.Preferences.Save(domain.Preferences{Debug: m.showDebug}); err != nil {
		m.logger.Error("Failed to save preferences", err)
	}
}

func (m *AppModel) send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func waitForSessionChange(ctx context.Context, changes <-chan domain.AuthState) tea.Cmd {
	return func() tea.Msg {
		select {
		case state := <-changes:
			return sessionChangedMsg{state: state}
		case <-ctx.Done():
			return nil
		}
	}
}

func debugTick() tea.Cmd {
	return tea.Tick(debugRefreshInterval, func(time.Time) tea.Msg { return debugTickMsg{} })
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.logger.Info("Ctrl+C pressed, quitting")
			m.cancelApp()
			return m, tea.Quit

		case "ctrl+d":
			m.showDebug = !m.showDebug
			m.logger.SetDebug(m.showDebug)
			m.savePreferences()
			if m.showDebug {
				m.logger.Debug("Debug overlay enabled")
				m.debugModel.Refresh()
				return m, debugTick()
			}
			return m, nil

		case "ctrl+l":
			m.logger.Clear()
			m.debugModel.Refresh()
			return m, nil
		}

		if m.showDebug && m.debugModel.Handles(msg) {
			return m, m.debugModel.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.debugModel.SetSize(msg.Width, msg.Height)
		m.playlistsModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case debugTickMsg:
		if !m.showDebug {
			return m, nil
		}
		m.debugModel.Refresh()
		return m, debugTick()

	case sessionChangedMsg:
		cmds = append(cmds, waitForSessionChange(m.appContext, m.session.Changes()))
		if !msg.state.IsAuthenticated {
			m.playlistUseCase.Reset()
			if m.currentView == viewPlaylists {
				cmds = append(cmds, m.send(showHomeMsg{notice: "You are signed out"}))
			}
		}

	case showHomeMsg:
		m.currentView = viewHome
		m.homeModel.SetNotice(msg.notice)
		return m, m.homeModel.Init()

	case showLoginMsg:
		m.currentView = viewLogin
		m.loginModel = NewLoginModel(m)
		return m, m.loginModel.Init()

	case showPlaylistsMsg:
		m.currentView = viewPlaylists
		return m, m.playlistsModel.Init()

	case showPlayerMsg:
		m.currentView = viewPlayer
		m.playerModel = NewPlayerModel(m, msg.videoID, msg.returnTo)
		return m, m.playerModel.Init()
	}

	var currentViewCmd tea.Cmd
	switch m.currentView {
	case viewHome:
		_, currentViewCmd = m.homeModel.Update(msg)
	case viewLogin:
		_, currentViewCmd = m.loginModel.Update(msg)
	case viewPlaylists:
		_, currentViewCmd = m.playlistsModel.Update(msg)
	case viewPlayer:
		_, currentViewCmd = m.playerModel.Update(msg)
	}

	cmds = append(cmds, currentViewCmd)
	return m, tea.Batch(cmds...)
}

func (m *AppModel) View() string {
	var body string

	switch m.currentView {
	case viewHome:
		body = m.homeModel.View()
	case viewLogin:
		body = m.loginModel.View()
	case viewPlaylists:
		body = m.playlistsModel.View()
	case viewPlayer:
		body = m.playerModel.View()
	default:
		body = "Unknown view"
	}

	if m.showDebug {
		body += "\n" + m.debugModel.View()
	}

	return body
}
