package usecases

import (
	"TUI_youtube_pip/internal/core/domain"
	"context"
	"fmt"
)

func (uc *playlistUseCase) SelectPlaylist(ctx context.Context, playlist domain.Playlist) (BrowseState, error) {
	uc.log.Info(fmt.Sprintf("Init Select playlist %s (%s)", playlist.Title, playlist.ID))

	page, err := uc.service.ListPlaylistItems(ctx, playlist.ID, "")
	if err != nil {
		uc.log.Error("Failed to load playlist items", err)
		return uc.State(), fmt.Errorf("error while loading playlist items: %w", err)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	selected := playlist
	uc.selected = &selected
	uc.items = page.Items
	uc.itemPageToken = page.NextPageToken

	return uc.snapshotLocked(), nil
}

func (uc *playlistUseCase) LoadMoreItems(ctx context.Context) (BrowseState, error) {
	uc.mu.Lock()
	selected := uc.selected
	pageToken := uc.itemPageToken
	uc.mu.Unlock()

	if selected == nil || pageToken == "" {
		return uc.State(), nil
	}

	page, err := uc.service.ListPlaylistItems(ctx, selected.ID, pageToken)
	if err != nil {
		uc.log.Error("Failed to load more items", err)
		return uc.State(), fmt.Errorf("error while loading more items: %w", err)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.selected == nil || uc.selected.ID != selected.ID || uc.itemPageToken != pageToken {
		return uc.snapshotLocked(), nil
	}

	uc.items = append(uc.items, page.Items...)
	uc.itemPageToken = page.NextPageToken

	return uc.snapshotLocked(), nil
}
