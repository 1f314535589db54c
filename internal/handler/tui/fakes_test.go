package tui

import (
	"TUI_youtube_pip/internal/core/domain"
	"TUI_youtube_pip/internal/core/usecases"
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeLogger struct {
	mu      sync.Mutex
	debug   bool
	entries []string
}

func (l *fakeLogger) Debug(msg string)   { l.add(msg) }
func (l *fakeLogger) Info(msg string)    { l.add(msg) }
func (l *fakeLogger) Warning(msg string) { l.add(msg) }
func (l *fakeLogger) Error(msg string, err error) {
	if err != nil {
		msg += ": " + err.Error()
	}
	l.add(msg)
}
func (l *fakeLogger) Close() {}

func (l *fakeLogger) add(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.debug {
		l.entries = append(l.entries, msg)
	}
}

func (l *fakeLogger) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

func (l *fakeLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

func (l *fakeLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = enabled
}

func (l *fakeLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

type fakePreferences struct {
	saved []domain.Preferences
}

func (p *fakePreferences) Load() (domain.Preferences, error) {
	if len(p.saved) == 0 {
		return domain.Preferences{}, errors.New("no preferences")
	}
	return p.saved[len(p.saved)-1], nil
}

func (p *fakePreferences) Save(prefs domain.Preferences) error {
	p.saved = append(p.saved, prefs)
	return nil
}

type fakeOAuth struct{}

func (fakeOAuth) AuthCodeURL(state string) string {
	return "https://accounts.example.test/auth?state=" + state
}

func (fakeOAuth) Exchange(_ context.Context, code string) (domain.TokenGrant, error) {
	return domain.TokenGrant{AccessToken: "access-" + code, RefreshToken: "refresh", Expiry: time.Now().Add(time.Hour)}, nil
}

func (fakeOAuth) Refresh(context.Context, string) (domain.TokenGrant, error) {
	return domain.TokenGrant{AccessToken: "refreshed", Expiry: time.Now().Add(time.Hour)}, nil
}

func (fakeOAuth) Revoke(context.Context, string) error { return nil }

type memoryStore struct {
	mu    sync.Mutex
	state *domain.AuthState
}

func (s *memoryStore) Load() (domain.AuthState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return domain.AuthState{}, errors.New("no stored session")
	}
	return *s.state, nil
}

func (s *memoryStore) Save(state domain.AuthState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = &state
	return nil
}

func (s *memoryStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = nil
	return nil
}

type fakeYoutube struct{}

func (fakeYoutube) ListMyPlaylists(_ context.Context, pageToken string) (domain.Page[domain.Playlist], error) {
	return domain.Page[domain.Playlist]{Items: []domain.Playlist{{ID: "PL1", Title: "Road trip", ItemCount: 2}}}, nil
}

func (fakeYoutube) ListPlaylistItems(_ context.Context, playlistID, _ string) (domain.Page[domain.PlaylistItem], error) {
	return domain.Page[domain.PlaylistItem]{Items: []domain.PlaylistItem{
		{ID: "i1", Title: "Lo-fi beats", VideoID: "NWus8pVPXaI", Position: 0},
		{ID: "i2", Title: "Never gonna", VideoID: "dQw4w9WgXcQ", Position: 1},
	}}, nil
}

func (fakeYoutube) GetPlaylist(_ context.Context, playlistID string) (domain.Playlist, error) {
	return domain.Playlist{ID: playlistID, Title: "By URL"}, nil
}

func (fakeYoutube) GetVideo(_ context.Context, videoID string) (domain.Video, error) {
	return domain.Video{ID: videoID, Title: "Lo-fi beats", ChannelTitle: "Chill", Duration: 3 * time.Minute}, nil
}

type fakeClipboard struct {
	mu      sync.Mutex
	text    string
	written []string
}

func (c *fakeClipboard) ReadText() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}

func (c *fakeClipboard) WriteText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, text)
	return nil
}

type fakeBrowser struct {
	mu     sync.Mutex
	opened []string
}

func (b *fakeBrowser) OpenURL(u string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opened = append(b.opened, u)
	return nil
}

func (b *fakeBrowser) urls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.opened...)
}

type fakeCallback struct {
	results chan<- domain.CallbackParams
}

func (f *fakeCallback) ListenAndServe(_ context.Context, _, _ string, results chan<- domain.CallbackParams) (*http.Server, error) {
	f.results = results
	return &http.Server{}, nil
}

type harness struct {
	app       *AppModel
	session   usecases.SessionUseCase
	store     *memoryStore
	logger    *fakeLogger
	clipboard *fakeClipboard
	browser   *fakeBrowser
	callback  *fakeCallback
	prefs     *fakePreferences
}

func newHarness(t *testing.T, signedIn bool) *harness {
	t.Helper()

	h := &harness{
		store:     &memoryStore{},
		logger:    &fakeLogger{},
		clipboard: &fakeClipboard{},
		browser:   &fakeBrowser{},
		callback:  &fakeCallback{},
		prefs:     &fakePreferences{},
	}

	if signedIn {
		h.store.state = &domain.AuthState{
			AccessToken:     "access",
			RefreshToken:    "refresh",
			ExpiresAt:       time.Now().Add(time.Hour),
			IsAuthenticated: true,
		}
	}

	h.session = usecases.NewSessionUseCase(fakeOAuth{}, h.store, h.logger)
	t.Cleanup(h.session.Close)
	h.session.Restore(context.Background())

	service := fakeYoutube{}
	playlists := usecases.NewPlaylistUseCase(service, h.logger, usecases.RetryConfig{MaxRetries: 0})
	player := usecases.NewPlayerUseCase(service, h.session, h.clipboard, h.browser, nil, h.logger)

	h.app = NewAppModel(h.session, playlists, player, h.callback, h.browser, h.logger, Options{
		CallbackAddr: "localhost:8080",
		CallbackPath: "/auth/callback",
		CanSignIn:    true,
		Preferences:  h.prefs,
	})
	t.Cleanup(h.app.cancelApp)

	return h
}

// collect runs cmd and flattens batches into the messages they produce.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}

	return []tea.Msg{msg}
}

func findMsg[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if typed, ok := msg.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}

func stateFromAuthURL(t *testing.T, authURL string) string {
	t.Helper()

	parsed, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("invalid auth url %q: %v", authURL, err)
	}
	return parsed.Query().Get("state")
}
