// Package session resolves who is using the Mini App before any page renders.
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"telewall/internal/client/bridge"
	usermodels "telewall/internal/features/user/models"
)

type State string

const (
	StateStart          State = "start"
	StateMockUser       State = "mock_user"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
	StateAuthFailed     State = "auth_failed"
)

// Terminal reports whether the bootstrap is over.
func (s State) Terminal() bool {
	return s == StateMockUser || s == StateAuthenticated || s == StateAuthFailed
}

// Session is the bootstrap result threaded to every page. User is nil only after AuthFailed.
type Session struct {
	User     *usermodels.UserProfile
	InitData string
	State    State
	// Err is a *BootstrapAuthError when State is AuthFailed.
	Err error
}

// HasPlatformIdentity reports whether the user came from Telegram and can
// re-authenticate privileged requests.
func (s *Session) HasPlatformIdentity() bool {
	return s != nil && s.User != nil && s.User.TelegramID != "" && s.InitData != ""
}

// UserID is the backend id used by every user-scoped request.
func (s *Session) UserID() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.ID
}

// BootstrapAuthError means the login exchange was rejected or the backend was unreachable.
type BootstrapAuthError struct {
	Err error
}

func (e *BootstrapAuthError) Error() string {
	return fmt.Sprintf("telegram login failed: %v", e.Err)
}

func (e *BootstrapAuthError) Unwrap() error {
	return e.Err
}

// Authenticator exchanges init data for a profile.
type Authenticator interface {
	TelegramLogin(ctx context.Context, initData string) (*usermodels.UserProfile, error)
}

const mockPhotoURL = "https://www.gravatar.com/avatar/00000000000000000000000000000000?d=mp&f=y"

// MockUser is the placeholder identity used outside Telegram. It has no
// Telegram id so it can never pay.
func MockUser() *usermodels.UserProfile {
	return &usermodels.UserProfile{
		ID:           "12345",
		Name:         "Daniil Shelesteev",
		Username:     "marnitic",
		PhotoURL:     mockPhotoURL,
		Privacy:      usermodels.DefaultPrivacy(),
		StarsBalance: 270,
	}
}

// Bootstrapper runs the login handshake once and publishes the result.
type Bootstrapper struct {
	bridge bridge.Bridge
	auth   Authenticator
	logger zerolog.Logger

	once    sync.Once
	done    chan struct{}
	loading atomic.Bool

	mu      sync.RWMutex
	state   State
	session *Session
}

// NewBootstrapper takes a nil bridge when the app runs outside Telegram.
func NewBootstrapper(b bridge.Bridge, auth Authenticator, logger zerolog.Logger) *Bootstrapper {
	bs := &Bootstrapper{
		bridge: b,
		auth:   auth,
		logger: logger.With().Str("component", "session_bootstrap").Logger(),
		done:   make(chan struct{}),
		state:  StateStart,
	}
	bs.loading.Store(true)
	return bs
}

// Run drives the bootstrap to a terminal state. Only the first call does any
// work; later calls wait for it and return the same session.
func (b *Bootstrapper) Run(ctx context.Context) *Session {
	b.once.Do(func() {
		b.finish(b.bootstrap(ctx))
	})
	<-b.done
	return b.Session()
}

func (b *Bootstrapper) bootstrap(ctx context.Context) *Session {
	if b.bridge == nil {
		b.logger.Info().Msg("No Telegram WebApp, using mock user")
		return &Session{User: MockUser(), State: StateMockUser}
	}

	b.bridge.Ready()
	b.bridge.Expand()

	initData := b.bridge.InitData()
	if initData == "" {
		b.logger.Warn().Msg("Telegram WebApp returned empty init data, using mock user")
		return &Session{User: MockUser(), State: StateMockUser}
	}

	b.setState(StateAuthenticating)
	profile, err := b.auth.TelegramLogin(ctx, initData)
	if err != nil {
		authErr := &BootstrapAuthError{Err: err}
		b.logger.Error().Err(err).Msg("Telegram login failed, continuing anonymously")
		return &Session{InitData: initData, State: StateAuthFailed, Err: authErr}
	}
	return &Session{User: profile, InitData: initData, State: StateAuthenticated}
}

func (b *Bootstrapper) finish(s *Session) {
	b.mu.Lock()
	b.session = s
	b.state = s.State
	b.mu.Unlock()

	b.loading.Store(false)
	close(b.done)

	b.logger.Info().
		Str("bootstrap_state", string(s.State)).
		Str("user_id", s.UserID()).
		Msg("Session bootstrap finished")
}

func (b *Bootstrapper) setState(s State) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
	b.logger.Debug().Str("bootstrap_state", string(s)).Msg("Bootstrap state changed")
}

// Loading is true until a terminal state is reached.
func (b *Bootstrapper) Loading() bool {
	return b.loading.Load()
}

// Done is closed once the session is available.
func (b *Bootstrapper) Done() <-chan struct{} {
	return b.done
}

func (b *Bootstrapper) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Session returns nil until Done is closed.
func (b *Bootstrapper) Session() *Session {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.session
}
