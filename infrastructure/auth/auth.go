package auth

import (
	"TUI_youtube_pip/internal/core/domain"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleRevokeURL = "https://oauth2.googleapis.com/revoke"

	// used when the token endpoint omits expires_in
	defaultTokenLifetime = time.Hour
)

// Credentials come either from a downloaded client_secret.json or from a
// client id/secret pair.
type Credentials struct {
	ClientID         string
	ClientSecret     string
	ClientSecretFile string
}

type authenticationServiceImpl struct {
	oauthConfig *oauth2.Config
	revokeURL   string
	now         func() time.Time
}

type AuthenticationService interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (domain.TokenGrant, error)
	Refresh(ctx context.Context, refreshToken string) (domain.TokenGrant, error)
	Revoke(ctx context.Context, token string) error
}

func NewAuthenticationService(scopes []string, creds Credentials, redirectURL string) (AuthenticationService, error) {
	config, err := loadConfig(scopes, creds)
	if err != nil {
		return nil, fmt.Errorf("could not load the client configuration: %w", err)
	}

	config.RedirectURL = redirectURL

	return newAuthenticationService(config, googleRevokeURL), nil
}

func newAuthenticationService(config *oauth2.Config, revokeURL string) *authenticationServiceImpl {
	return &authenticationServiceImpl{
		oauthConfig: config,
		revokeURL:   revokeURL,
		now:         time.Now,
	}
}

func loadConfig(scopes []string, creds Credentials) (*oauth2.Config, error) {
	if creds.ClientSecretFile != "" {
		b, err := os.ReadFile(creds.ClientSecretFile)
		if err != nil {
			return nil, fmt.Errorf("could not read the client secret file (%s): %w", creds.ClientSecretFile, err)
		}

		config, err := google.ConfigFromJSON(b, scopes...)
		if err != nil {
			return nil, fmt.Errorf("could not parse the client configuration JSON: %w", err)
		}

		return config, nil
	}

	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("client id and client secret are required when no client secret file is set")
	}

	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       scopes,
	}, nil
}

func (a *authenticationServiceImpl) AuthCodeURL(state string) string {
	return a.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		// consent forces Google to hand out a refresh token every time
		oauth2.ApprovalForce,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
}

func (a *authenticationServiceImpl) Exchange(ctx context.Context, code string) (domain.TokenGrant, error) {
	token, err := a.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return domain.TokenGrant{}, fmt.Errorf("could not exchange the authorization code for a token: %w", err)
	}

	return a.toGrant(token), nil
}

func (a *authenticationServiceImpl) Refresh(ctx context.Context, refreshToken string) (domain.TokenGrant, error) {
	if refreshToken == "" {
		return domain.TokenGrant{}, domain.ErrTokenExpired
	}

	source := a.oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return domain.TokenGrant{}, fmt.Errorf("could not refresh the token: %w", err)
	}

	return a.toGrant(token), nil
}

func (a *authenticationServiceImpl) Revoke(ctx context.Context, tokenToRevoke string) error {
	if tokenToRevoke == "" {
		return nil
	}

	data := url.Values{}
	data.Set("token", tokenToRevoke)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.revokeURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient(ctx).Do(req)
	if err != nil {
		return fmt.Errorf("failed to send revoke request: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to revoke token, status: %s", resp.Status)
	}

	return nil
}

func (a *authenticationServiceImpl) toGrant(token *oauth2.Token) domain.TokenGrant {
	expiry := token.Expiry
	if expiry.IsZero() {
		expiry = a.now().Add(defaultTokenLifetime)
	}

	return domain.TokenGrant{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       expiry,
	}
}

// httpClient honours the client oauth2 reads from the context, so tests and
// callers share one transport for every Google call.
func httpClient(ctx context.Context) *http.Client {
	if c, ok := ctx.Value(oauth2.HTTPClient).(*http.Client); ok && c != nil {
		return c
	}

	return http.DefaultClient
}

type unconfiguredService struct{}

// NewUnconfiguredService stands in when no OAuth client is configured: video
// playback keeps working and every sign-in attempt fails with ErrAuthFailed.
func NewUnconfiguredService() AuthenticationService {
	return unconfiguredService{}
}

func (unconfiguredService) AuthCodeURL(string) string {
	return ""
}

func (unconfiguredService) Exchange(context.Context, string) (domain.TokenGrant, error) {
	return domain.TokenGrant{}, fmt.Errorf("%w: no OAuth client configured", domain.ErrAuthFailed)
}

func (unconfiguredService) Refresh(context.Context, string) (domain.TokenGrant, error) {
	return domain.TokenGrant{}, fmt.Errorf("%w: no OAuth client configured", domain.ErrAuthFailed)
}

func (unconfiguredService) Revoke(context.Context, string) error {
	return nil
}
