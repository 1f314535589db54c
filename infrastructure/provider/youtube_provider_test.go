package provider

import (
	"TUI_youtube_pip/internal/core/domain"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type nopLogger struct{}

func (nopLogger) Debug(string)        {}
func (nopLogger) Info(string)         {}
func (nopLogger) Error(string, error) {}
func (nopLogger) Warning(string)      {}
func (nopLogger) Close()              {}

type fakeTokens struct {
	mu         sync.Mutex
	token      string
	err        error
	refreshErr error
	refreshes  int
	lastCtx    context.Context
}

func (f *fakeTokens) AccessToken(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastCtx = ctx

	return f.token, f.err
}

func (f *fakeTokens) Refresh(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.refreshes++
	if f.refreshErr != nil {
		return f.refreshErr
	}
	f.token = "fresh"

	return nil
}

func writeAPIError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"error":{"code":%d,"message":%q,"errors":[{"message":%q,"reason":"test"}]}}`, code, message, message)
}

func newTestProvider(t *testing.T, tokens *fakeTokens, handler http.Handler) *youtubeProvider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := newYoutubeProvider(context.Background(), tokens, nopLogger{}, option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	p.retryDelay = 0

	return p
}

func TestListMyPlaylists(t *testing.T) {
	var gotAuth, gotPageToken, gotMaxResults string

	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/playlists", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPageToken = r.URL.Query().Get("pageToken")
		gotMaxResults = r.URL.Query().Get("maxResults")
		assert.Equal(t, "true", r.URL.Query().Get("mine"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"nextPageToken": "P2",
			"pageInfo": {"totalResults": 51},
			"items": [{
				"id": "PL1",
				"snippet": {
					"title": "Road trip",
					"channelId": "UC1",
					"channelTitle": "me",
					"publishedAt": "2024-01-02T03:04:05Z",
					"thumbnails": {"medium": {"url": "https://i.ytimg.com/m.jpg", "width": 320, "height": 180}}
				},
				"contentDetails": {"itemCount": 12}
			}]
		}`)
	})

	p := newTestProvider(t, &fakeTokens{token: "tok"}, mux)

	page, err := p.ListMyPlaylists(context.Background(), "P1")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "P1", gotPageToken)
	assert.Equal(t, "50", gotMaxResults)

	assert.Equal(t, "P2", page.NextPageToken)
	assert.Equal(t, int64(51), page.TotalResults)
	require.Len(t, page.Items, 1)

	playlist := page.Items[0]
	assert.Equal(t, "Road trip", playlist.Title)
	assert.Equal(t, int64(12), playlist.ItemCount)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), playlist.PublishedAt)
	require.NotNil(t, playlist.Thumbnails.Preferred())
	assert.Equal(t, "https://i.ytimg.com/m.jpg", playlist.Thumbnails.Preferred().URL)
}

func TestListPlaylistItemsSkipsMissingVideos(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/playlistItems", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PL1", r.URL.Query().Get("playlistId"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items": [
			{"id": "i1", "snippet": {"title": "First", "position": 0, "resourceId": {"videoId": "NWus8pVPXaI"}}},
			{"id": "i2", "snippet": {"title": "Deleted video", "position": 1}},
			{"id": "i3", "snippet": {"title": "Third", "position": 2}, "contentDetails": {"videoId": "dQw4w9WgXcQ"}}
		]}`)
	})

	p := newTestProvider(t, &fakeTokens{token: "tok"}, mux)

	page, err := p.ListPlaylistItems(context.Background(), "PL1", "")
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, "NWus8pVPXaI", page.Items[0].VideoID)
	assert.Equal(t, "dQw4w9WgXcQ", page.Items[1].VideoID)
	assert.Equal(t, int64(2), page.Items[1].Position)
	assert.False(t, page.HasMore())
}

func TestGetVideoParsesDuration(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/videos", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("id") != "NWus8pVPXaI" {
			fmt.Fprint(w, `{"items": []}`)
			return
		}
		fmt.Fprint(w, `{"items": [{
			"id": "NWus8pVPXaI",
			"snippet": {"title": "Lo-fi beats", "channelTitle": "Chill"},
			"contentDetails": {"duration": "PT1H2M3S"}
		}]}`)
	})

	p := newTestProvider(t, &fakeTokens{token: "tok"}, mux)

	video, err := p.GetVideo(context.Background(), "NWus8pVPXaI")
	require.NoError(t, err)
	assert.Equal(t, "Lo-fi beats", video.Title)
	assert.Equal(t, "Chill", video.ChannelTitle)
	assert.Equal(t, time.Hour+2*time.Minute+3*time.Second, video.Duration)

	_, err = p.GetVideo(context.Background(), "dQw4w9WgXcQ")
	assert.ErrorIs(t, err, domain.ErrVideoNotFound)
}

func TestGetPlaylistEmptyResult(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/playlists", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items": []}`)
	})

	p := newTestProvider(t, &fakeTokens{token: "tok"}, mux)

	_, err := p.GetPlaylist(context.Background(), "PLmissing")
	assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)
}

func TestUnauthorizedRefreshesAndRetriesOnce(t *testing.T) {
	var calls int
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/playlists", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Header.Get("Authorization") != "Bearer fresh" {
			writeAPIError(w, http.StatusUnauthorized, "Invalid Credentials")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items": [{"id": "PL1", "snippet": {"title": "Road trip"}}]}`)
	})

	tokens := &fakeTokens{token: "stale"}
	p := newTestProvider(t, tokens, mux)

	page, err := p.ListMyPlaylists(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 1, tokens.refreshes)
	assert.Equal(t, 2, calls)
}

func TestUnauthorizedWithFailedRefresh(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/playlists", func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusUnauthorized, "Invalid Credentials")
	})

	tokens := &fakeTokens{token: "stale", refreshErr: domain.ErrTokenExpired}
	p := newTestProvider(t, tokens, mux)

	_, err := p.ListMyPlaylists(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
	assert.Equal(t, 1, tokens.refreshes)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		code int
		want error
	}{
		{"quota", http.StatusForbidden, domain.ErrQuotaExceeded},
		{"not found", http.StatusNotFound, domain.ErrPlaylistNotFound},
		{"server error", http.StatusBadRequest, domain.ErrAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/youtube/v3/playlistItems", func(w http.ResponseWriter, r *http.Request) {
				writeAPIError(w, tt.code, "went wrong")
			})

			p := newTestProvider(t, &fakeTokens{token: "tok"}, mux)

			_, err := p.ListPlaylistItems(context.Background(), "PL1", "")
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "went wrong")
		})
	}
}

func TestNotAuthenticatedIsNotANetworkError(t *testing.T) {
	p := newTestProvider(t, &fakeTokens{err: domain.ErrNotAuthenticated}, http.NotFoundHandler())

	_, err := p.ListMyPlaylists(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.False(t, errors.Is(err, domain.ErrNetwork))
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	p, err := newYoutubeProvider(context.Background(), &fakeTokens{token: "tok"}, nopLogger{}, option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)

	_, err = p.GetVideo(context.Background(), "NWus8pVPXaI")
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

type ctxKey struct{}

func TestTokenSourceUsesProviderContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items": []}`)
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "app"))
	defer cancel()

	tokens := &fakeTokens{token: "tok"}
	p, err := newYoutubeProvider(ctx, tokens, nopLogger{}, option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)

	_, err = p.ListMyPlaylists(context.Background(), "")
	require.NoError(t, err)

	tokens.mu.Lock()
	got := tokens.lastCtx
	tokens.mu.Unlock()
	require.NotNil(t, got)
	assert.Equal(t, "app", got.Value(ctxKey{}))
}
