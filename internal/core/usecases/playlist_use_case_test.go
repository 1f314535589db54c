package usecases

import (
	"TUI_youtube_pip/internal/core/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBrowseFixture() *fakeYoutube {
	return &fakeYoutube{
		playlistPages: map[string]domain.Page[domain.Playlist]{
			"":   {Items: []domain.Playlist{{ID: "PL1", Title: "Road trip"}}, NextPageToken: "P2"},
			"P2": {Items: []domain.Playlist{{ID: "PL2", Title: "Focus"}}},
		},
		itemPages: map[string]domain.Page[domain.PlaylistItem]{
			"PL1/":   {Items: []domain.PlaylistItem{{ID: "i1", VideoID: "NWus8pVPXaI", Position: 0}}, NextPageToken: "I2"},
			"PL1/I2": {Items: []domain.PlaylistItem{{ID: "i2", VideoID: "dQw4w9WgXcQ", Position: 1}}},
			"PL2/":   {Items: []domain.PlaylistItem{{ID: "i3", VideoID: "aaaaaaaaaaa"}}},
		},
		playlists: map[string]domain.Playlist{
			"PL2": {ID: "PL2", Title: "Focus"},
		},
	}
}

func TestLoadPlaylistsPrependsAccountLists(t *testing.T) {
	service := newBrowseFixture()
	uc := NewPlaylistUseCase(service, nopLogger{}, fastRetry)

	state, err := uc.LoadPlaylists(context.Background())
	require.NoError(t, err)

	require.Len(t, state.Playlists, 3)
	assert.Equal(t, domain.WatchLaterPlaylistID, state.Playlists[0].ID)
	assert.Equal(t, domain.HistoryPlaylistID, state.Playlists[1].ID)
	assert.Equal(t, "PL1", state.Playlists[2].ID)
	assert.True(t, state.HasMorePlaylists)
}

func TestLoadMorePlaylistsAppends(t *testing.T) {
	service := newBrowseFixture()
	uc := NewPlaylistUseCase(service, nopLogger{}, fastRetry)

	_, err := uc.LoadPlaylists(context.Background())
	require.NoError(t, err)

	state, err := uc.LoadMorePlaylists(context.Background())
	require.NoError(t, err)
	require.Len(t, state.Playlists, 4)
	assert.Equal(t, "PL2", state.Playlists[3].ID)
	assert.False(t, state.HasMorePlaylists)

	// without a page token nothing is requested
	_, err = uc.LoadMorePlaylists(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"", "P2"}, service.lastPageTokens)
}

func TestLoadPlaylistsRetriesTransientErrors(t *testing.T) {
	service := newBrowseFixture()
	service.playlistErrs = []error{domain.ErrNetwork, domain.ErrNetwork}
	uc := NewPlaylistUseCase(service, nopLogger{}, fastRetry)

	state, err := uc.LoadPlaylists(context.Background())
	require.NoError(t, err)
	assert.Len(t, state.Playlists, 3)
	assert.Equal(t, 3, service.playlistCalls)
}

func TestLoadPlaylistsDoesNotRetryQuota(t *testing.T) {
	service := newBrowseFixture()
	service.playlistErrs = []error{domain.ErrQuotaExceeded}
	uc := NewPlaylistUseCase(service, nopLogger{}, fastRetry)

	_, err := uc.LoadPlaylists(context.Background())
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.Equal(t, 1, service.playlistCalls)
}

func TestSelectPlaylistAndLoadMoreItems(t *testing.T) {
	service := newBrowseFixture()
	uc := NewPlaylistUseCase(service, nopLogger{}, fastRetry)

	state, err := uc.SelectPlaylist(context.Background(), domain.Playlist{ID: "PL1", Title: "Road trip"})
	require.NoError(t, err)
	require.NotNil(t, state.Selected)
	assert.Equal(t, "PL1", state.Selected.ID)
	assert.Len(t, state.Items, 1)
	assert.True(t, state.HasMoreItems)

	state, err = uc.LoadMoreItems(context.Background())
	require.NoError(t, err)
	require.Len(t, state.Items, 2)
	assert.Equal(t, "dQw4w9WgXcQ", state.Items[1].VideoID)
	assert.False(t, state.HasMoreItems)

	state = uc.ClearSelection()
	assert.Nil(t, state.Selected)
	assert.Empty(t, state.Items)
	assert.False(t, state.HasMoreItems)
}

func TestLoadMoreItemsWithoutSelection(t *testing.T) {
	service := newBrowseFixture()
	uc := NewPlaylistUseCase(service, nopLogger{}, fastRetry)

	state, err := uc.LoadMoreItems(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state.Items)
	assert.Empty(t, service.itemCalls)
}

func TestSelectPlaylistErrorKeepsState(t *testing.T) {
	service := newBrowseFixture()
	uc := NewPlaylistUseCase(service, nopLogger{}, fastRetry)

	_, err := uc.SelectPlaylist(context.Background(), domain.Playlist{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)
	assert.Nil(t, uc.State().Selected)
}

func TestSelectPlaylistByURL(t *testing.T) {
	service := newBrowseFixture()
	uc := NewPlaylistUseCase(service, nopLogger{}, fastRetry)

	state, err := uc.SelectPlaylistByURL(context.Background(), "https://www.youtube.com/playlist?list=PL2")
	require.NoError(t, err)
	require.NotNil(t, state.Selected)
	assert.Equal(t, "Focus", state.Selected.Title)
	assert.Len(t, state.Items, 1)

	_, err = uc.SelectPlaylistByURL(context.Background(), "https://www.youtube.com/watch?v=NWus8pVPXaI")
	assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)
}

func TestResetDropsEverything(t *testing.T) {
	service := newBrowseFixture()
	uc := NewPlaylistUseCase(service, nopLogger{}, fastRetry)

	_, err := uc.LoadPlaylists(context.Background())
	require.NoError(t, err)
	_, err = uc.SelectPlaylist(context.Background(), domain.Playlist{ID: "PL1"})
	require.NoError(t, err)

	uc.Reset()
	assert.Equal(t, BrowseState{}, uc.State())
}
