package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	WatchLaterPlaylistID = "WL"
	HistoryPlaylistID    = "HL"
)

type Playlist struct {
	ID           string
	Title        string
	Description  string
	ChannelID    string
	ChannelTitle string
	PublishedAt  time.Time
	ItemCount    int64
	Thumbnails   Thumbnails
}

// IsSpecial reports whether the playlist is one of the account lists
// (Watch Later, History) rather than a user-created one.
func (p Playlist) IsSpecial() bool {
	return p.ID == WatchLaterPlaylistID || p.ID == HistoryPlaylistID
}

type PlaylistItem struct {
	ID          string
	Title       string
	Description string
	Position    int64
	VideoID     string
	Thumbnails  Thumbnails
}

type Thumbnail struct {
	URL    string
	Width  int64
	Height int64
}

type Thumbnails struct {
	Default  *Thumbnail
	Medium   *Thumbnail
	High     *Thumbnail
	Standard *Thumbnail
	Maxres   *Thumbnail
}

// Preferred picks the medium thumbnail and falls back to the default one.
func (t Thumbnails) Preferred() *Thumbnail {
	if t.Medium != nil {
		return t.Medium
	}

	return t.Default
}

type Page[T any] struct {
	Items         []T
	NextPageToken string
	TotalResults  int64
}

func (p Page[T]) HasMore() bool {
	return p.NextPageToken != ""
}

func WatchLaterPlaylist() Playlist {
	return Playlist{ID: WatchLaterPlaylistID, Title: "Watch later"}
}

func HistoryPlaylist() Playlist {
	return Playlist{ID: HistoryPlaylistID, Title: "History"}
}

// ExtractPlaylistID reads the list parameter of a playlist URL.
func ExtractPlaylistID(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("error in parsing playlist url: %w", err)
	}

	playlistID := parsed.Query().Get("list")
	if playlistID == "" {
		return "", ErrPlaylistNotFound
	}

	return playlistID, nil
}
