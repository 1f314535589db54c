package provider

import (
	"TUI_youtube_pip/internal/core/domain"
	"TUI_youtube_pip/internal/core/ports"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sosodev/duration"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	pageSize = 50

	defaultRetryDelay = time.Second
)

var (
	playlistParts = []string{"id", "snippet", "contentDetails"}
	itemParts     = []string{"id", "snippet", "contentDetails"}
	videoParts    = []string{"snippet", "contentDetails"}
)

type youtubeProvider struct {
	tokens     ports.TokenProvider
	log        ports.LoggerPort
	service    *youtube.Service
	retryDelay time.Duration
}

// sessionTokenSource feeds the session's current bearer token to every
// request, so a refresh done elsewhere is picked up immediately. oauth2
// hands Token no request, so refreshes run under the provider's context.
type sessionTokenSource struct {
	ctx    context.Context
	tokens ports.TokenProvider
}

func (s sessionTokenSource) Token() (*oauth2.Token, error) {
	accessToken, err := s.tokens.AccessToken(s.ctx)
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}, nil
}

func NewYoutubeProvider(ctx context.Context, tokens ports.TokenProvider, logger ports.LoggerPort, opts ...option.ClientOption) (ports.YoutubePort, error) {
	return newYoutubeProvider(ctx, tokens, logger, opts...)
}

func newYoutubeProvider(ctx context.Context, tokens ports.TokenProvider, logger ports.LoggerPort, opts ...option.ClientOption) (*youtubeProvider, error) {
	client := &http.Client{
		Transport: &oauth2.Transport{Source: sessionTokenSource{ctx: ctx, tokens: tokens}},
		Timeout:   30 * time.Second,
	}

	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error while create youtube service: %w", err)
	}

	return &youtubeProvider{
		tokens:     tokens,
		log:        logger,
		service:    service,
		retryDelay: defaultRetryDelay,
	}, nil
}

func (s *youtubeProvider) ListMyPlaylists(ctx context.Context, pageToken string) (domain.Page[domain.Playlist], error) {
	response, err := withReauth(ctx, s, func() (*youtube.PlaylistListResponse, error) {
		call := s.service.Playlists.List(playlistParts).Mine(true).MaxResults(pageSize).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		return call.Do()
	})
	if err != nil {
		s.log.Error("error while listing playlists", err)
		return domain.Page[domain.Playlist]{}, mapError(err, domain.ErrPlaylistNotFound)
	}

	page := domain.Page[domain.Playlist]{
		Items:         make([]domain.Playlist, 0, len(response.Items)),
		NextPageToken: response.NextPageToken,
		TotalResults:  totalResults(response.PageInfo),
	}
	for _, item := range response.Items {
		page.Items = append(page.Items, toPlaylist(item))
	}

	if len(page.Items) == 0 {
		s.log.Warning("No youtube playlists found")
	}

	s.log.Debug(fmt.Sprintf("Fetched %d playlists (next page %q)", len(page.Items), page.NextPageToken))

	return page, nil
}

func (s *youtubeProvider) ListPlaylistItems(ctx context.Context, playlistID, pageToken string) (domain.Page[domain.PlaylistItem], error) {
	response, err := withReauth(ctx, s, func() (*youtube.PlaylistItemListResponse, error) {
		call := s.service.PlaylistItems.List(itemParts).PlaylistId(playlistID).MaxResults(pageSize).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		return call.Do()
	})
	if err != nil {
		s.log.Error("error while listing playlist items", err)
		return domain.Page[domain.PlaylistItem]{}, mapError(err, domain.ErrPlaylistNotFound)
	}

	page := domain.Page[domain.PlaylistItem]{
		Items:         make([]domain.PlaylistItem, 0, len(response.Items)),
		NextPageToken: response.NextPageToken,
		TotalResults:  totalResults(response.PageInfo),
	}
	for _, item := range response.Items {
		converted, ok := toPlaylistItem(item)
		if !ok {
			continue
		}
		page.Items = append(page.Items, converted)
	}

	s.log.Debug(fmt.Sprintf("Fetched %d items of %s (next page %q)", len(page.Items), playlistID, page.NextPageToken))

	return page, nil
}

func (s *youtubeProvider) GetPlaylist(ctx context.Context, playlistID string) (domain.Playlist, error) {
	response, err := withReauth(ctx, s, func() (*youtube.PlaylistListResponse, error) {
		return s.service.Playlists.List(playlistParts).Id(playlistID).Context(ctx).Do()
	})
	if err != nil {
		s.log.Error("error while getting playlist", err)
		return domain.Playlist{}, mapError(err, domain.ErrPlaylistNotFound)
	}

	if len(response.Items) == 0 {
		return domain.Playlist{}, fmt.Errorf("%w: %s", domain.ErrPlaylistNotFound, playlistID)
	}

	return toPlaylist(response.Items[0]), nil
}

func (s *youtubeProvider) GetVideo(ctx context.Context, videoID string) (domain.Video, error) {
	response, err := withReauth(ctx, s, func() (*youtube.VideoListResponse, error) {
		return s.service.Videos.List(videoParts).Id(videoID).Context(ctx).Do()
	})
	if err != nil {
		s.log.Error("error while getting video details", err)
		return domain.Video{}, mapError(err, domain.ErrVideoNotFound)
	}

	if len(response.Items) == 0 {
		return domain.Video{}, fmt.Errorf("%w: %s", domain.ErrVideoNotFound, videoID)
	}

	item := response.Items[0]

	video := domain.Video{ID: item.Id}
	if item.Snippet != nil {
		video.Title = item.Snippet.Title
		video.ChannelTitle = item.Snippet.ChannelTitle
		video.Description = item.Snippet.Description
		video.PublishedAt = parsePublished(item.Snippet.PublishedAt)
		video.Thumbnails = toThumbnails(item.Snippet.Thumbnails)
	}

	if item.ContentDetails != nil && item.ContentDetails.Duration != "" {
		parsed, err := duration.Parse(item.ContentDetails.Duration)
		if err != nil {
			return domain.Video{}, fmt.Errorf("error while parsing video duration: %w", err)
		}
		video.Duration = parsed.ToTimeDuration()
	}

	return video, nil
}

// withReauth runs call and, on a 401, refreshes the session once and
// retries after a short pause.
func withReauth[T any](ctx context.Context, s *youtubeProvider, call func() (T, error)) (T, error) {
	result, err := call()
	if err == nil || !isUnauthorized(err) {
		return result, err
	}

	s.log.Warning("YouTube API answered 401, refreshing the session")

	var zero T
	if err := s.tokens.Refresh(ctx); err != nil {
		return zero, fmt.Errorf("error while refreshing session: %w", err)
	}

	if s.retryDelay > 0 {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(s.retryDelay):
		}
	}

	return call()
}

func isUnauthorized(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized
}

// mapError turns client errors into domain categories; notFound is the
// sentinel used for a 404 on this resource.
func mapError(err error, notFound error) error {
	if errors.Is(err, domain.ErrNotAuthenticated) || errors.Is(err, domain.ErrTokenExpired) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", domain.ErrTokenExpired, apiErr.Message)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %s", domain.ErrQuotaExceeded, apiErr.Message)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", notFound, apiErr.Message)
		default:
			return fmt.Errorf("%w: %s", domain.ErrAPI, apiMessage(apiErr))
		}
	}

	return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
}

func apiMessage(apiErr *googleapi.Error) string {
	if apiErr.Message != "" {
		return apiErr.Message
	}
	if len(apiErr.Errors) > 0 && apiErr.Errors[0].Message != "" {
		return apiErr.Errors[0].Message
	}

	return http.StatusText(apiErr.Code)
}

func totalResults(info *youtube.PageInfo) int64 {
	if info == nil {
		return 0
	}

	return info.TotalResults
}

func toPlaylist(item *youtube.Playlist) domain.Playlist {
	playlist := domain.Playlist{ID: item.Id}

	if item.Snippet != nil {
		playlist.Title = item.Snippet.Title
		playlist.Description = item.Snippet.Description
		playlist.ChannelID = item.Snippet.ChannelId
		playlist.ChannelTitle = item.Snippet.ChannelTitle
		playlist.PublishedAt = parsePublished(item.Snippet.PublishedAt)
		playlist.Thumbnails = toThumbnails(item.Snippet.Thumbnails)
	}

	if item.ContentDetails != nil {
		playlist.ItemCount = item.ContentDetails.ItemCount
	}

	return playlist
}

// toPlaylistItem drops entries without a video (deleted or private videos).
func toPlaylistItem(item *youtube.PlaylistItem) (domain.PlaylistItem, bool) {
	converted := domain.PlaylistItem{ID: item.Id}

	if item.Snippet != nil {
		converted.Title = item.Snippet.Title
		converted.Description = item.Snippet.Description
		converted.Position = item.Snippet.Position
		converted.Thumbnails = toThumbnails(item.Snippet.Thumbnails)
		if item.Snippet.ResourceId != nil {
			converted.VideoID = item.Snippet.ResourceId.VideoId
		}
	}

	if item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
		converted.VideoID = item.ContentDetails.VideoId
	}

	return converted, converted.VideoID != ""
}

func toThumbnails(details *youtube.ThumbnailDetails) domain.Thumbnails {
	if details == nil {
		return domain.Thumbnails{}
	}

	return domain.Thumbnails{
		Default:  toThumbnail(details.Default),
		Medium:   toThumbnail(details.Medium),
		High:     toThumbnail(details.High),
		Standard: toThumbnail(details.Standard),
		Maxres:   toThumbnail(details.Maxres),
	}
}

func toThumbnail(t *youtube.Thumbnail) *domain.Thumbnail {
	if t == nil {
		return nil
	}

	return &domain.Thumbnail{URL: t.Url, Width: t.Width, Height: t.Height}
}

func parsePublished(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}

	return parsed
}
