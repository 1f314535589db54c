package ports

import "TUI_youtube_pip/internal/core/domain"

type ClipboardPort interface {
	ReadText() (string, error)
	WriteText(text string) error
}

type BrowserPort interface {
	OpenURL(url string) error
}

type PreferencesPort interface {
	Load() (domain.Preferences, error)
	Save(prefs domain.Preferences) error
}
