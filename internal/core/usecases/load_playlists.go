package usecases

import (
	"TUI_youtube_pip/internal/core/domain"
	"context"
	"fmt"
)

func (uc *playlistUseCase) LoadPlaylists(ctx context.Context) (BrowseState, error) {
	uc.log.Info("Init Load playlists")

	page, err := retryDo(ctx, uc.retry, func() (domain.Page[domain.Playlist], error) {
		page, err := uc.service.ListMyPlaylists(ctx, "")
		if err != nil {
			uc.log.Warning("Loading playlists failed: " + err.Error())
		}
		return page, err
	})
	if err != nil {
		uc.log.Error("Failed to load playlists", err)
		return uc.State(), fmt.Errorf("error while loading playlists: %w", err)
	}

	playlists := make([]domain.Playlist, 0, len(page.Items)+2)
	playlists = append(playlists, domain.WatchLaterPlaylist(), domain.HistoryPlaylist())
	playlists = append(playlists, page.Items...)

	uc.mu.Lock()
	uc.playlists = playlists
	uc.playlistPageToken = page.NextPageToken
	state := uc.snapshotLocked()
	uc.mu.Unlock()

	uc.log.Info(fmt.Sprintf("Load playlists completed: %d playlists", len(page.Items)))

	return state, nil
}

func (uc *playlistUseCase) LoadMorePlaylists(ctx context.Context) (BrowseState, error) {
	uc.mu.Lock()
	pageToken := uc.playlistPageToken
	uc.mu.Unlock()

	if pageToken == "" {
		return uc.State(), nil
	}

	page, err := uc.service.ListMyPlaylists(ctx, pageToken)
	if err != nil {
		uc.log.Error("Failed to load more playlists", err)
		return uc.State(), fmt.Errorf("error while loading more playlists: %w", err)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	// ignore a page that no longer continues the current list
	if uc.playlistPageToken != pageToken {
		return uc.snapshotLocked(), nil
	}

	uc.playlists = append(uc.playlists, page.Items...)
	uc.playlistPageToken = page.NextPageToken

	return uc.snapshotLocked(), nil
}
