package usecases

import (
	"TUI_youtube_pip/internal/core/domain"
	"TUI_youtube_pip/internal/core/ports"
	"context"
	"sync"
)

// BrowseState is a snapshot of what the playlist browser shows.
type BrowseState struct {
	Playlists        []domain.Playlist
	Selected         *domain.Playlist
	Items            []domain.PlaylistItem
	HasMorePlaylists bool
	HasMoreItems     bool
}

type playlistUseCase struct {
	service ports.YoutubePort
	log     ports.LoggerPort
	retry   RetryConfig

	mu                sync.Mutex
	playlists         []domain.Playlist
	selected          *domain.Playlist
	items             []domain.PlaylistItem
	playlistPageToken string
	itemPageToken     string
}

type PlaylistUseCase interface {
	LoadPlaylists(ctx context.Context) (BrowseState, error)
	LoadMorePlaylists(ctx context.Context) (BrowseState, error)
	SelectPlaylist(ctx context.Context, playlist domain.Playlist) (BrowseState, error)
	SelectPlaylistByURL(ctx context.Context, url string) (BrowseState, error)
	LoadMoreItems(ctx context.Context) (BrowseState, error)
	ClearSelection() BrowseState
	Reset()
	State() BrowseState
}

func NewPlaylistUseCase(service ports.YoutubePort, logger ports.LoggerPort, retry RetryConfig) PlaylistUseCase {
	return &playlistUseCase{
		service: service,
		log:     logger,
		retry:   retry,
	}
}

func (uc *playlistUseCase) State() BrowseState {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.snapshotLocked()
}

func (uc *playlistUseCase) ClearSelection() BrowseState {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.selected = nil
	uc.items = nil
	uc.itemPageToken = ""

	return uc.snapshotLocked()
}

// Reset drops everything, used on logout.
func (uc *playlistUseCase) Reset() {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.playlists = nil
	uc.playlistPageToken = ""
	uc.selected = nil
	uc.items = nil
	uc.itemPageToken = ""
}

func (uc *playlistUseCase) snapshotLocked() BrowseState {
	state := BrowseState{
		Playlists:        append([]domain.Playlist(nil), uc.playlists...),
		Items:            append([]domain.PlaylistItem(nil), uc.items...),
		HasMorePlaylists: uc.playlistPageToken != "",
		HasMoreItems:     uc.selected != nil && uc.itemPageToken != "",
	}

	if uc.selected != nil {
		selected := *uc.selected
		state.Selected = &selected
	}

	return state
}
