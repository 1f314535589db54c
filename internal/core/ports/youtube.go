package ports

import (
	"TUI_youtube_pip/internal/core/domain"
	"context"
)

type YoutubePort interface {
	ListMyPlaylists(ctx context.Context, pageToken string) (domain.Page[domain.Playlist], error)
	ListPlaylistItems(ctx context.Context, playlistID, pageToken string) (domain.Page[domain.PlaylistItem], error)
	GetPlaylist(ctx context.Context, playlistID string) (domain.Playlist, error)
	GetVideo(ctx context.Context, videoID string) (domain.Video, error)
}
