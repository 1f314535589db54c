package ports

import (
	"TUI_youtube_pip/internal/core/domain"
	"context"
)

type OAuthPort interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (domain.TokenGrant, error)
	Refresh(ctx context.Context, refreshToken string) (domain.TokenGrant, error)
	Revoke(ctx context.Context, token string) error
}

type TokenStorePort interface {
	Load() (domain.AuthState, error)
	Save(state domain.AuthState) error
	Delete() error
}

// TokenProvider hands out bearer tokens to API clients and lets them force a
// refresh after a 401.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
	Refresh(ctx context.Context) error
}
