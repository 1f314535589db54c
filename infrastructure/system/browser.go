package system

import (
	"TUI_youtube_pip/internal/core/ports"
	"fmt"
	"io"

	"github.com/pkg/browser"
)

type systemBrowser struct{}

// NewBrowser opens URLs in the default browser. The launcher's own output is
// discarded so it cannot draw over the terminal UI.
func NewBrowser() ports.BrowserPort {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard

	return &systemBrowser{}
}

func (systemBrowser) OpenURL(url string) error {
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("could not open browser for %s: %w", url, err)
	}

	return nil
}
