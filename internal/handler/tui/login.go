package tui

import (
	"TUI_youtube_pip/internal/core/domain"
	"TUI_youtube_pip/internal/core/ports"
	"TUI_youtube_pip/internal/core/usecases"
	"TUI_youtube_pip/internal/handler/server"
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type authURLGeneratedMsg struct {
	url     string
	results <-chan domain.CallbackParams
}
type callbackReceivedMsg struct{ params domain.CallbackParams }
type authSuccessMsg struct{}
type authErrorMsg struct{ err error }

type loginState int

const (
	loginStarting loginState = iota
	loginWaitingForCallback
	loginExchangingToken
	loginSuccess
	loginError
)

type LoginModel struct {
	parent   *AppModel
	state    loginState
	spinner  spinner.Model
	authURL  string
	errorMsg string

	statusMsg        string
	httpServerCtx    context.Context
	httpServerCancel context.CancelFunc
}

func NewLoginModel(parent *AppModel) *LoginModel {
	return &LoginModel{
		parent:  parent,
		state:   loginStarting,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m *LoginModel) Init() tea.Cmd {
	m.state = loginStarting
	m.errorMsg = ""
	m.authURL = ""
	m.statusMsg = "Preparing Google sign-in..."

	m.stopServer()
	m.httpServerCtx, m.httpServerCancel = context.WithCancel(m.parent.appContext)

	return tea.Batch(
		m.spinner.Tick,
		startLoginCmd(m.httpServerCtx, m.parent.session, m.parent.callbackHandler, m.parent.options),
	)
}

// startLoginCmd issues a fresh nonce and binds the callback server before the
// browser is pointed at Google, so the redirect always finds a listener.
func startLoginCmd(
	ctx context.Context,
	session usecases.SessionUseCase,
	callbackHandler server.CallbackHandler,
	options Options,
) tea.Cmd {
	return func() tea.Msg {
		authURL, err := session.BeginLogin()
		if err != nil {
			return authErrorMsg{err: err}
		}

		results := make(chan domain.CallbackParams, 1)
		if _, err := callbackHandler.ListenAndServe(ctx, options.CallbackAddr, options.CallbackPath, results); err != nil {
			session.CancelLogin()
			return authErrorMsg{err: err}
		}

		return authURLGeneratedMsg{url: authURL, results: results}
	}
}

func waitForCallbackCmd(ctx context.Context, results <-chan domain.CallbackParams, logger ports.LoggerPort) tea.Cmd {
	return func() tea.Msg {
		logger.Info("Waiting for the OAuth callback...")

		select {
		case params := <-results:
			return callbackReceivedMsg{params: params}
		case <-ctx.Done():
			// only cancelled by us (esc, retry, quit)
			logger.Info("Callback wait cancelled")
			return nil
		}
	}
}

func completeLoginCmd(ctx context.Context, session usecases.SessionUseCase, params domain.CallbackParams) tea.Cmd {
	return func() tea.Msg {
		if err := session.CompleteLogin(ctx, params); err != nil {
			return authErrorMsg{err: err}
		}
		return authSuccessMsg{}
	}
}

func (m *LoginModel) stopServer() {
	if m.httpServerCancel != nil {
		m.httpServerCancel()
		m.httpServerCancel = nil
	}
}

func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.stopServer()
			m.parent.session.CancelLogin()
			return m, m.parent.send(showHomeMsg{notice: "Sign-in cancelled"})
		case "enter":
			if m.state == loginError {
				return m, m.Init()
			}
		case "o":
			if m.state == loginWaitingForCallback && m.authURL != "" {
				return m, openURLCmd(m.parent.browser, m.authURL, m.parent.logger)
			}
		}

	case authURLGeneratedMsg:
		m.authURL = msg.url
		m.state = loginWaitingForCallback
		m.statusMsg = "Open this link in your browser to sign in:"

		return m, tea.Batch(
			openURLCmd(m.parent.browser, m.authURL, m.parent.logger),
			waitForCallbackCmd(m.httpServerCtx, msg.results, m.parent.logger),
		)

	case callbackReceivedMsg:
		m.stopServer()
		m.state = loginExchangingToken
		m.statusMsg = "Authorization received! Exchanging it for a token..."
		return m, completeLoginCmd(m.parent.appContext, m.parent.session, msg.params)

	case authSuccessMsg:
		m.state = loginSuccess
		m.statusMsg = "Signed in! Loading your playlists..."
		m.errorMsg = ""
		return m, tea.Sequence(
			tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg { return nil }),
			m.parent.send(showPlaylistsMsg{}),
		)

	case authErrorMsg:
		m.stopServer()
		if m.parent.session.Phase() == domain.PhasePending {
			m.parent.session.CancelLogin()
		}
		m.state = loginError
		m.errorMsg = domain.UserMessage(msg.err)
		m.statusMsg = "Press Enter to try again, Esc to go back."
		m.parent.logger.Error("sign-in failed", msg.err)
		return m, nil

	case spinner.TickMsg:
		if m.state == loginError || m.state == loginSuccess {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *LoginModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Google Sign-in"))
	b.WriteString("\n")

	if m.errorMsg != "" {
		b.WriteString(errorMessageStyle.Render(m.errorMsg))
		b.WriteString("\n\n")
	}

	if m.state != loginError && m.state != loginSuccess {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
	}
	b.WriteString(m.statusMsg)
	b.WriteString("\n")

	if m.state == loginWaitingForCallback && m.authURL != "" {
		b.WriteString("\n")
		b.WriteString(urlStyle.Render(m.authURL))
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render("Waiting for the browser... (o reopens the link)"))
	}

	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("Esc to go back, Ctrl+C to quit."))
	return docStyle.Render(b.String())
}
