package system

import (
	"TUI_youtube_pip/internal/core/ports"
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

type systemClipboard struct {
	once    sync.Once
	initErr error
}

// NewClipboard returns the OS clipboard. Initialisation is deferred to first
// use so a headless session only fails the clipboard actions.
func NewClipboard() ports.ClipboardPort {
	return &systemClipboard{}
}

func (c *systemClipboard) init() error {
	c.once.Do(func() {
		if err := clipboard.Init(); err != nil {
			c.initErr = fmt.Errorf("clipboard unavailable: %w", err)
		}
	})

	return c.initErr
}

func (c *systemClipboard) ReadText() (string, error) {
	if err := c.init(); err != nil {
		return "", err
	}

	return string(clipboard.Read(clipboard.FmtText)), nil
}

func (c *systemClipboard) WriteText(text string) error {
	if err := c.init(); err != nil {
		return err
	}

	clipboard.Write(clipboard.FmtText, []byte(text))

	return nil
}
