package token_manager

import (
	"TUI_youtube_pip/internal/core/domain"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

type tokenServiceImpl struct {
	TokenFilePath string
}

type TokenService interface {
	Delete() error
	Load() (domain.AuthState, error)
	Save(state domain.AuthState) error
}

func NewTokenService(tokenFilePath string) TokenService {
	if tokenFilePath == "" {
		tokenFilePath = "auth_state.json"
	}

	return &tokenServiceImpl{
		TokenFilePath: tokenFilePath,
	}
}

func (t *tokenServiceImpl) Delete() error {
	err := os.Remove(t.TokenFilePath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not remove token file: %w", err)
	}

	return nil
}

func (t *tokenServiceImpl) Load() (domain.AuthState, error) {
	file, err := os.Open(t.TokenFilePath)
	if err != nil {
		return domain.AuthState{}, fmt.Errorf("failed to open token file %s: %w", t.TokenFilePath, err)
	}

	defer file.Close()
	state := domain.AuthState{}

	err = json.NewDecoder(file).Decode(&state)
	if err != nil {
		return domain.AuthState{}, fmt.Errorf("failed to decode token file %s: %w", t.TokenFilePath, err)
	}

	if state.AccessToken == "" && state.RefreshToken == "" {
		return domain.AuthState{}, fmt.Errorf("invalid token: no access token or refresh token")
	}

	return state, nil
}

func (t *tokenServiceImpl) Save(state domain.AuthState) error {
	if dir := filepath.Dir(t.TokenFilePath); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("could not create token directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(t.TokenFilePath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("could not open/create token file %s: %w", t.TokenFilePath, err)
	}

	defer file.Close()
	return json.NewEncoder(file).Encode(state)
}
