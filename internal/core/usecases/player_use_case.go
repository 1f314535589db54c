package usecases

import (
	"TUI_youtube_pip/internal/core/domain"
	"TUI_youtube_pip/internal/core/ports"
	"context"
	"fmt"
	"strings"
)

// PlayerPageURL builds the address of a locally served player page. An empty
// result means no page server runs and the bare embed URL is opened.
type PlayerPageURL func(videoID string, opts domain.PlayerOptions) string

type playerUseCase struct {
	service   ports.YoutubePort
	session   SessionUseCase
	clipboard ports.ClipboardPort
	browser   ports.BrowserPort
	pageURL   PlayerPageURL
	log       ports.LoggerPort
}

type PlayerUseCase interface {
	Resolve(input string) (string, error)
	FromClipboard() (string, error)
	Details(ctx context.Context, videoID string) (domain.Video, error)
	Play(videoID string, opts domain.PlayerOptions) (string, error)
	Share(videoID string) (string, error)
}

func NewPlayerUseCase(
	service ports.YoutubePort,
	session SessionUseCase,
	clipboard ports.ClipboardPort,
	browser ports.BrowserPort,
	pageURL PlayerPageURL,
	logger ports.LoggerPort,
) PlayerUseCase {
	return &playerUseCase{
		service:   service,
		session:   session,
		clipboard: clipboard,
		browser:   browser,
		pageURL:   pageURL,
		log:       logger,
	}
}

func (uc *playerUseCase) Resolve(input string) (string, error) {
	videoID, err := domain.ExtractVideoID(strings.TrimSpace(input))
	if err != nil {
		uc.log.Warning(fmt.Sprintf("Could not extract a video id from %q", input))
		return "", err
	}

	uc.log.Debug("Resolved video id " + videoID)

	return videoID, nil
}

func (uc *playerUseCase) FromClipboard() (string, error) {
	if uc.clipboard == nil {
		return "", fmt.Errorf("clipboard is not available")
	}

	text, err := uc.clipboard.ReadText()
	if err != nil {
		uc.log.Error("Failed to read clipboard", err)
		return "", fmt.Errorf("error while reading clipboard: %w", err)
	}

	return uc.Resolve(text)
}

// Details falls back to a bare reference when nobody is signed in.
func (uc *playerUseCase) Details(ctx context.Context, videoID string) (domain.Video, error) {
	if uc.session == nil || !uc.session.State().IsAuthenticated {
		return domain.Video{ID: videoID}, nil
	}

	video, err := uc.service.GetVideo(ctx, videoID)
	if err != nil {
		uc.log.Error("Failed to get video details", err)
		return domain.Video{ID: videoID}, fmt.Errorf("error while getting video details: %w", err)
	}

	return video, nil
}

func (uc *playerUseCase) Play(videoID string, opts domain.PlayerOptions) (string, error) {
	if !domain.IsValidVideoID(videoID) {
		return "", domain.ErrInvalidVideoURL
	}

	target := ""
	if uc.pageURL != nil {
		target = uc.pageURL(videoID, opts)
	}
	if target == "" {
		target = domain.EmbedURL(videoID, opts)
	}

	if err := uc.browser.OpenURL(target); err != nil {
		uc.log.Error("Failed to open player", err)
		return target, fmt.Errorf("error while opening player: %w", err)
	}

	uc.log.Info("Playing " + videoID + " at " + target)

	return target, nil
}

func (uc *playerUseCase) Share(videoID string) (string, error) {
	if !domain.IsValidVideoID(videoID) {
		return "", domain.ErrInvalidVideoURL
	}

	shareURL := domain.ShareURL(videoID)
	if uc.clipboard == nil {
		return shareURL, fmt.Errorf("clipboard is not available")
	}

	if err := uc.clipboard.WriteText(shareURL); err != nil {
		uc.log.Error("Failed to copy share link", err)
		return shareURL, fmt.Errorf("error while copying share link: %w", err)
	}

	uc.log.Info("Share link copied: " + shareURL)

	return shareURL, nil
}
