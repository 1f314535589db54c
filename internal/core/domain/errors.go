package domain

import "errors"

var (
	ErrAuthFailed       = errors.New("authentication failed")
	ErrTokenExpired     = errors.New("token has expired")
	ErrInvalidState     = errors.New("invalid state parameter")
	ErrNoCode           = errors.New("no authorization code received")
	ErrUserCancelled    = errors.New("user cancelled authentication")
	ErrNotAuthenticated = errors.New("not authenticated")

	ErrQuotaExceeded    = errors.New("youtube api quota exceeded")
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrVideoNotFound    = errors.New("video not found")
	ErrAPI              = errors.New("youtube api error")
	ErrNetwork          = errors.New("network error")

	ErrInvalidVideoURL = errors.New("please enter a valid YouTube URL")
)

var userMessages = []struct {
	err error
	msg string
}{
	{ErrInvalidVideoURL, "Please enter a valid YouTube URL"},
	{ErrNotAuthenticated, "Sign in with Google to browse your playlists"},
	{ErrInvalidState, "Sign-in was rejected (state mismatch). Please try again"},
	{ErrUserCancelled, "Sign-in was cancelled"},
	{ErrTokenExpired, "Your session expired. Please sign in again"},
	{ErrAuthFailed, "Authentication failed"},
	{ErrNoCode, "No authorization code received"},
	{ErrQuotaExceeded, "YouTube API quota exceeded"},
	{ErrPlaylistNotFound, "Playlist not found"},
	{ErrVideoNotFound, "Video not found"},
	{ErrNetwork, "Network error, check your connection"},
}

// UserMessage renders err as the inline message shown in the UI.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}

	return err.Error()
}
