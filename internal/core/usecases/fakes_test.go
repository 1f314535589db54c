package usecases

import (
	"TUI_youtube_pip/internal/core/domain"
	"context"
	"errors"
	"sync"
	"time"
)

type nopLogger struct{}

func (nopLogger) Debug(string)        {}
func (nopLogger) Info(string)         {}
func (nopLogger) Error(string, error) {}
func (nopLogger) Warning(string)      {}
func (nopLogger) Close()              {}

type fakeOAuth struct {
	mu            sync.Mutex
	exchangeCalls []string
	refreshCalls  []string
	revoked       []string
	exchangeErr   error
	refreshErr    error
	lifetime      time.Duration
	// delay slows Refresh down to widen the window for concurrent callers
	delay time.Duration
}

func (f *fakeOAuth) AuthCodeURL(state string) string {
	return "https://accounts.example.test/auth?state=" + state
}

func (f *fakeOAuth) Exchange(_ context.Context, code string) (domain.TokenGrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.exchangeCalls = append(f.exchangeCalls, code)
	if f.exchangeErr != nil {
		return domain.TokenGrant{}, f.exchangeErr
	}

	return domain.TokenGrant{
		AccessToken:  "access-" + code,
		RefreshToken: "refresh-" + code,
		Expiry:       time.Now().Add(f.tokenLifetime()),
	}, nil
}

func (f *fakeOAuth) Refresh(_ context.Context, refreshToken string) (domain.TokenGrant, error) {
	f.mu.Lock()
	f.refreshCalls = append(f.refreshCalls, refreshToken)
	delay := f.delay
	f.mu.Unlock()

	time.Sleep(delay)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.refreshErr != nil {
		return domain.TokenGrant{}, f.refreshErr
	}

	return domain.TokenGrant{
		AccessToken: "refreshed-access",
		Expiry:      time.Now().Add(f.tokenLifetime()),
	}, nil
}

func (f *fakeOAuth) Revoke(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.revoked = append(f.revoked, token)
	return nil
}

func (f *fakeOAuth) tokenLifetime() time.Duration {
	if f.lifetime == 0 {
		return time.Hour
	}
	return f.lifetime
}

func (f *fakeOAuth) refreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.refreshCalls)
}

type memoryStore struct {
	mu      sync.Mutex
	state   *domain.AuthState
	deletes int
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
	s.deletes++
	return nil
}

func (s *memoryStore) stored() *domain.AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

type fakeYoutube struct {
	mu             sync.Mutex
	playlistPages  map[string]domain.Page[domain.Playlist]
	itemPages      map[string]domain.Page[domain.PlaylistItem]
	playlists      map[string]domain.Playlist
	videos         map[string]domain.Video
	playlistErrs   []error
	playlistCalls  int
	itemCalls      []string
	lastPageTokens []string
}

func (f *fakeYoutube) ListMyPlaylists(_ context.Context, pageToken string) (domain.Page[domain.Playlist], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.playlistCalls++
	f.lastPageTokens = append(f.lastPageTokens, pageToken)
	if len(f.playlistErrs) > 0 {
		err := f.playlistErrs[0]
		f.playlistErrs = f.playlistErrs[1:]
		return domain.Page[domain.Playlist]{}, err
	}

	return f.playlistPages[pageToken], nil
}

func (f *fakeYoutube) ListPlaylistItems(_ context.Context, playlistID, pageToken string) (domain.Page[domain.PlaylistItem], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.itemCalls = append(f.itemCalls, playlistID+"/"+pageToken)
	page, ok := f.itemPages[playlistID+"/"+pageToken]
	if !ok {
		return domain.Page[domain.PlaylistItem]{}, domain.ErrPlaylistNotFound
	}

	return page, nil
}

func (f *fakeYoutube) GetPlaylist(_ context.Context, playlistID string) (domain.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	playlist, ok := f.playlists[playlistID]
	if !ok {
		return domain.Playlist{}, domain.ErrPlaylistNotFound
	}

	return playlist, nil
}

func (f *fakeYoutube) GetVideo(_ context.Context, videoID string) (domain.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	video, ok := f.videos[videoID]
	if !ok {
		return domain.Video{}, domain.ErrVideoNotFound
	}

	return video, nil
}

type fakeClipboard struct {
	text    string
	written []string
	err     error
}

func (c *fakeClipboard) ReadText() (string, error) {
	return c.text, c.err
}

func (c *fakeClipboard) WriteText(text string) error {
	if c.err != nil {
		return c.err
	}
	c.written = append(c.written, text)
	return nil
}

type fakeBrowser struct {
	opened []string
	err    error
}

func (b *fakeBrowser) OpenURL(url string) error {
	b.opened = append(b.opened, url)
	return b.err
}
