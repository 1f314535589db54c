package usecases

import (
	"TUI_youtube_pip/internal/core/domain"
	"context"
	"fmt"
)

func (uc *playlistUseCase) SelectPlaylistByURL(ctx context.Context, url string) (BrowseState, error) {
	uc.log.Info("Init Select playlist by URL")

	if url == "" {
		return uc.State(), fmt.Errorf("playlist URL cannot be empty")
	}

	playlistID, err := domain.ExtractPlaylistID(url)
	if err != nil {
		return uc.State(), err
	}

	playlist, err := uc.service.GetPlaylist(ctx, playlistID)
	if err != nil {
		uc.log.Error("Failed to get playlist by URL", err)
		return uc.State(), fmt.Errorf("error while getting playlist: %w", err)
	}

	return uc.SelectPlaylist(ctx, playlist)
}
