package usecases

import (
	"TUI_youtube_pip/internal/core/domain"
	"TUI_youtube_pip/internal/core/ports"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const accessDenied = "access_denied"

type sessionUseCase struct {
	oauth ports.OAuthPort
	store ports.TokenStorePort
	log   ports.LoggerPort

	now      func() time.Time
	newNonce func() string

	baseCtx context.Context
	cancel  context.CancelFunc

	mu     sync.Mutex
	state  domain.AuthState
	phase  domain.AuthPhase
	nonce  string
	timer  *time.Timer
	closed bool

	// serializes refreshes coming from the timer and from 401 retries
	refreshMu sync.Mutex

	changes chan domain.AuthState
}

type SessionUseCase interface {
	ports.TokenProvider

	Restore(ctx context.Context) domain.AuthState
	State() domain.AuthState
	Phase() domain.AuthPhase
	BeginLogin() (string, error)
	CompleteLogin(ctx context.Context, params domain.CallbackParams) error
	CancelLogin()
	Logout(ctx context.Context) error
	Changes() <-chan domain.AuthState
	Close()
}

func NewSessionUseCase(oauth ports.OAuthPort, store ports.TokenStorePort, logger ports.LoggerPort) SessionUseCase {
	ctx, cancel := context.WithCancel(context.Background())

	return &sessionUseCase{
		oauth:    oauth,
		store:    store,
		log:      logger,
		now:      time.Now,
		newNonce: uuid.NewString,
		baseCtx:  ctx,
		cancel:   cancel,
		phase:    domain.PhaseUnauthenticated,
		changes:  make(chan domain.AuthState, 1),
	}
}

func (uc *sessionUseCase) Restore(ctx context.Context) domain.AuthState {
	stored, err := uc.store.Load()
	if err != nil {
		uc.log.Info("No stored session found")
		return domain.AuthState{}
	}

	now := uc.now()
	if !stored.IsAuthenticated || (!stored.IsValid(now) && stored.RefreshToken == "") {
		uc.log.Warning("Stored session expired, discarding it")
		if err := uc.store.Delete(); err != nil {
			uc.log.Error("Failed to delete expired session", err)
		}
		return domain.AuthState{}
	}

	uc.mu.Lock()
	uc.state = stored
	uc.phase = domain.PhaseAuthenticated
	uc.scheduleLocked()
	uc.mu.Unlock()

	uc.log.Info(fmt.Sprintf("Session restored, token expires at %s", stored.ExpiresAt.Format(time.RFC3339)))
	uc.publish(stored)

	return stored
}

func (uc *sessionUseCase) State() domain.AuthState {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.state
}

func (uc *sessionUseCase) Phase() domain.AuthPhase {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.phase
}

func (uc *sessionUseCase) BeginLogin() (string, error) {
	nonce := uc.newNonce()
	if nonce == "" {
		return "", fmt.Errorf("%w: empty state nonce", domain.ErrAuthFailed)
	}

	uc.mu.Lock()
	uc.nonce = nonce
	uc.phase = domain.PhasePending
	uc.mu.Unlock()

	uc.log.Info("Login started, waiting for OAuth callback")

	return uc.oauth.AuthCodeURL(nonce), nil
}

func (uc *sessionUseCase) CancelLogin() {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.phase != domain.PhasePending {
		return
	}

	uc.nonce = ""
	uc.phase = uc.restingPhaseLocked()
}

func (uc *sessionUseCase) CompleteLogin(ctx context.Context, params domain.CallbackParams) error {
	uc.mu.Lock()
	expected := uc.nonce
	pending := uc.phase == domain.PhasePending
	// the nonce is single use, whatever the outcome
	uc.nonce = ""
	if pending {
		uc.phase = uc.restingPhaseLocked()
	}
	uc.mu.Unlock()

	if !pending || expected == "" || params.State != expected {
		uc.log.Warning("OAuth callback rejected: state mismatch")
		return domain.ErrInvalidState
	}

	if params.Error != "" {
		if params.Error == accessDenied {
			return domain.ErrUserCancelled
		}
		if params.ErrorDescription != "" {
			return fmt.Errorf("%w: %s - %s", domain.ErrAuthFailed, params.Error, params.ErrorDescription)
		}
		return fmt.Errorf("%w: %s", domain.ErrAuthFailed, params.Error)
	}

	if params.Code == "" {
		return domain.ErrNoCode
	}

	grant, err := uc.oauth.Exchange(ctx, params.Code)
	if err != nil {
		uc.log.Error("Failed to exchange authorization code", err)
		return fmt.Errorf("%w: %w", domain.ErrAuthFailed, err)
	}

	uc.mu.Lock()
	next := uc.state.Apply(grant)
	uc.state = next
	uc.phase = domain.PhaseAuthenticated
	uc.scheduleLocked()
	uc.mu.Unlock()

	uc.persist(next)
	uc.publish(next)
	uc.log.Info("Login completed")

	return nil
}

func (uc *sessionUseCase) Refresh(ctx context.Context) error {
	return uc.refresh(ctx, nil)
}

// refresh exchanges the refresh token under refreshMu. A non-nil due is
// evaluated on the state seen after the lock is taken; when it reports false
// another caller already refreshed and nothing is sent.
func (uc *sessionUseCase) refresh(ctx context.Context, due func(domain.AuthState) bool) error {
	uc.refreshMu.Lock()
	defer uc.refreshMu.Unlock()

	current := uc.State()
	if !current.IsAuthenticated {
		return domain.ErrNotAuthenticated
	}

	if due != nil && !due(current) {
		return nil
	}

	if current.RefreshToken == "" {
		uc.forceLogout("no refresh token available")
		return domain.ErrTokenExpired
	}

	grant, err := uc.oauth.Refresh(ctx, current.RefreshToken)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		uc.log.Error("Token refresh failed", err)
		uc.forceLogout("token refresh failed")
		return fmt.Errorf("%w: %w", domain.ErrTokenExpired, err)
	}

	uc.mu.Lock()
	// a logout may have happened while the request was in flight
	if !uc.state.IsAuthenticated {
		uc.mu.Unlock()
		return domain.ErrNotAuthenticated
	}
	next := uc.state.Apply(grant)
	uc.state = next
	uc.scheduleLocked()
	uc.mu.Unlock()

	uc.persist(next)
	uc.publish(next)
	uc.log.Info(fmt.Sprintf("Token refreshed, new expiry %s", next.ExpiresAt.Format(time.RFC3339)))

	return nil
}

func (uc *sessionUseCase) Logout(ctx context.Context) error {
	uc.mu.Lock()
	token := uc.state.RefreshToken
	if token == "" {
		token = uc.state.AccessToken
	}
	uc.clearLocked()
	uc.mu.Unlock()

	if token != "" {
		if err := uc.oauth.Revoke(ctx, token); err != nil {
			uc.log.Warning("Token revoke failed: " + err.Error())
		}
	}

	uc.publish(domain.AuthState{})
	uc.log.Info("Logged out")

	if err := uc.store.Delete(); err != nil {
		return fmt.Errorf("error while deleting stored session: %w", err)
	}

	return nil
}

func (uc *sessionUseCase) AccessToken(ctx context.Context) (string, error) {
	current := uc.State()
	if !current.IsAuthenticated {
		return "", domain.ErrNotAuthenticated
	}

	if !current.IsValid(uc.now()) {
		stale := func(s domain.AuthState) bool { return !s.IsValid(uc.now()) }
		if err := uc.refresh(ctx, stale); err != nil {
			return "", err
		}
		current = uc.State()
	}

	return current.AccessToken, nil
}

func (uc *sessionUseCase) Changes() <-chan domain.AuthState {
	return uc.changes
}

func (uc *sessionUseCase) Close() {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.closed = true
	if uc.timer != nil {
		uc.timer.Stop()
		uc.timer = nil
	}
	uc.cancel()
}

func (uc *sessionUseCase) forceLogout(reason string) {
	uc.mu.Lock()
	uc.clearLocked()
	uc.mu.Unlock()

	uc.log.Warning("Forcing logout: " + reason)
	if err := uc.store.Delete(); err != nil {
		uc.log.Error("Failed to delete stored session", err)
	}
	uc.publish(domain.AuthState{})
}

func (uc *sessionUseCase) clearLocked() {
	uc.state = domain.AuthState{}
	uc.phase = domain.PhaseUnauthenticated
	uc.nonce = ""
	if uc.timer != nil {
		uc.timer.Stop()
		uc.timer = nil
	}
}

func (uc *sessionUseCase) restingPhaseLocked() domain.AuthPhase {
	if uc.state.IsAuthenticated {
		return domain.PhaseAuthenticated
	}

	return domain.PhaseUnauthenticated
}

// scheduleLocked arms the refresh timer for the current state. Callers hold mu.
func (uc *sessionUseCase) scheduleLocked() {
	if uc.timer != nil {
		uc.timer.Stop()
		uc.timer = nil
	}

	if uc.closed || !uc.state.IsAuthenticated {
		return
	}

	delay := uc.state.RefreshIn(uc.now())
	scheduledFor := uc.state.AccessToken
	uc.timer = time.AfterFunc(delay, func() {
		due := func(s domain.AuthState) bool {
			return s.AccessToken == scheduledFor && s.RefreshIn(uc.now()) == 0
		}
		if err := uc.refresh(uc.baseCtx, due); err != nil && !errors.Is(err, domain.ErrNotAuthenticated) {
			uc.log.Error("Scheduled token refresh failed", err)
		}
	})
}

func (uc *sessionUseCase) persist(state domain.AuthState) {
	if err := uc.store.Save(state); err != nil {
		uc.log.Error("Failed to persist session", err)
	}
}

// publish keeps only the latest state in the channel.
func (uc *sessionUseCase) publish(state domain.AuthState) {
	for {
		select {
		case uc.changes <- state:
			return
		default:
		}

		select {
		case <-uc.changes:
		default:
		}
	}
}
