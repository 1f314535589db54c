package token_manager

import (
	"TUI_youtube_pip/internal/core/domain"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type preferenceServiceImpl struct {
	path string
}

type PreferenceService interface {
	Load() (domain.Preferences, error)
	Save(prefs domain.Preferences) error
}

func NewPreferenceService(path string) PreferenceService {
	if path == "" {
		path = "preferences.json"
	}

	return &preferenceServiceImpl{path: path}
}

func (p *preferenceServiceImpl) Load() (domain.Preferences, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("failed to read preferences file %s: %w", p.path, err)
	}

	prefs := domain.Preferences{}
	if err := json.Unmarshal(data, &prefs); err != nil {
		return domain.Preferences{}, fmt.Errorf("failed to decode preferences file %s: %w", p.path, err)
	}

	return prefs, nil
}

func (p *preferenceServiceImpl) Save(prefs domain.Preferences) error {
	if dir := filepath.Dir(p.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("could not create preferences directory %s: %w", dir, err)
		}
	}

	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("could not encode preferences: %w", err)
	}

	if err := os.WriteFile(p.path, data, 0600); err != nil {
		return fmt.Errorf("could not write preferences file %s: %w", p.path, err)
	}

	return nil
}
