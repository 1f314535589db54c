package domain

import (
	"net/url"
	"regexp"
	"time"
)

const (
	embedBaseURL = "https://www.youtube.com/embed/"
	watchBaseURL = "https://www.youtube.com/watch"
	shareBaseURL = "https://youtu.be/"

	videoIDLength = 11
)

// group 7 holds the candidate id
var videoURLPattern = regexp.MustCompile(`^.*((youtu.be\/)|(v\/)|(\/u\/\w\/)|(embed\/)|(watch\?))\??v?=?([^#&?]*).*`)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

type Video struct {
	ID           string
	Title        string
	ChannelTitle string
	Description  string
	PublishedAt  time.Time
	Duration     time.Duration
	Thumbnails   Thumbnails
}

type PlayerOptions struct {
	Autoplay         bool
	Fullscreen       bool
	PictureInPicture bool
}

func DefaultPlayerOptions() PlayerOptions {
	return PlayerOptions{Autoplay: true, Fullscreen: true}
}

// Query encodes the options for the local player page.
func (o PlayerOptions) Query() url.Values {
	query := url.Values{}
	if o.Autoplay {
		query.Set("autoplay", "1")
	}
	if o.Fullscreen {
		query.Set("fs", "1")
	}
	if o.PictureInPicture {
		query.Set("pip", "1")
	}

	return query
}

func ParsePlayerOptions(query url.Values) PlayerOptions {
	return PlayerOptions{
		Autoplay:         query.Get("autoplay") == "1",
		Fullscreen:       query.Get("fs") == "1",
		PictureInPicture: query.Get("pip") == "1",
	}
}

// ExtractVideoID returns the 11-character id found in a pasted YouTube URL.
func ExtractVideoID(input string) (string, error) {
	match := videoURLPattern.FindStringSubmatch(input)
	// the capture is any 11 characters; the id alphabet is checked separately
	if match == nil || len(match[7]) != videoIDLength || !IsValidVideoID(match[7]) {
		return "", ErrInvalidVideoURL
	}

	return match[7], nil
}

func IsValidVideoID(id string) bool {
	return videoIDPattern.MatchString(id)
}

func EmbedURL(videoID string, opts PlayerOptions) string {
	query := url.Values{}
	if opts.Autoplay {
		query.Set("autoplay", "1")
	}
	if opts.Fullscreen {
		query.Set("fs", "1")
	}
	if opts.PictureInPicture {
		query.Set("playsinline", "1")
	}

	embed := embedBaseURL + url.PathEscape(videoID)
	if len(query) == 0 {
		return embed
	}

	return embed + "?" + query.Encode()
}

func WatchURL(videoID string) string {
	return watchBaseURL + "?" + url.Values{"v": []string{videoID}}.Encode()
}

func ShareURL(videoID string) string {
	return shareBaseURL + url.PathEscape(videoID)
}
