package domain

import "time"

// RefreshBuffer is how long before expiry the access token gets refreshed.
const RefreshBuffer = 5 * time.Minute

type AuthPhase int

const (
	PhaseUnauthenticated AuthPhase = iota
	PhasePending
	PhaseAuthenticated
)

func (p AuthPhase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

type AuthState struct {
	AccessToken     string    `json:"accessToken"`
	RefreshToken    string    `json:"refreshToken"`
	ExpiresAt       time.Time `json:"expiresAt"`
	IsAuthenticated bool      `json:"isAuthenticated"`
}

type TokenGrant struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

type CallbackParams struct {
	State            string
	Code             string
	Error            string
	ErrorDescription string
}

func (s AuthState) IsValid(now time.Time) bool {
	return s.IsAuthenticated && s.AccessToken != "" && s.ExpiresAt.After(now)
}

func (s AuthState) NeedsRefresh(now time.Time) bool {
	if !s.IsAuthenticated {
		return false
	}

	return s.ExpiresAt.Sub(now) < RefreshBuffer
}

// RefreshIn is the delay until the refresh window opens, never negative.
func (s AuthState) RefreshIn(now time.Time) time.Duration {
	d := s.ExpiresAt.Sub(now) - RefreshBuffer
	if d < 0 {
		return 0
	}

	return d
}

func (s AuthState) Apply(grant TokenGrant) AuthState {
	refreshToken := grant.RefreshToken
	if refreshToken == "" {
		refreshToken = s.RefreshToken
	}

	return AuthState{
		AccessToken:     grant.AccessToken,
		RefreshToken:    refreshToken,
		ExpiresAt:       grant.Expiry,
		IsAuthenticated: true,
	}
}
