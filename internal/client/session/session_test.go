package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telewall/internal/client/bridge"
	usermodels "telewall/internal/features/user/models"
)

type fakeBridge struct {
	initData string
	readied  atomic.Bool
	expanded atomic.Bool
}

func (f *fakeBridge) Ready()           { f.readied.Store(true) }
func (f *fakeBridge) Expand()          { f.expanded.Store(true) }
func (f *fakeBridge) InitData() string { return f.initData }
func (f *fakeBridge) OpenInvoice(string, func(bridge.InvoiceStatus)) {}

type fakeAuth struct {
	calls   atomic.Int32
	profile *usermodels.UserProfile
	err     error
	gate    chan struct{}
}

func (f *fakeAuth) TelegramLogin(_ context.Context, initData string) (*usermodels.UserProfile, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

func TestRun_NoBridge(t *testing.T) {
	auth := &fakeAuth{}
	b := NewBootstrapper(nil, auth, zerolog.Nop())
	assert.True(t, b.Loading())
	assert.Nil(t, b.Session())

	s := b.Run(context.Background())
	require.NotNil(t, s.User)
	assert.Equal(t, StateMockUser, s.State)
	assert.Equal(t, "12345", s.User.ID)
	assert.False(t, s.HasPlatformIdentity())
	assert.False(t, b.Loading())
	assert.Zero(t, auth.calls.Load())
}

func TestRun_EmptyInitData(t *testing.T) {
	br := &fakeBridge{}
	auth := &fakeAuth{}
	b := NewBootstrapper(br, auth, zerolog.Nop())

	s := b.Run(context.Background())
	assert.Equal(t, StateMockUser, s.State)
	assert.NotNil(t, s.User)
	assert.True(t, br.readied.Load())
	assert.True(t, br.expanded.Load())
	assert.Zero(t, auth.calls.Load(), "never authenticates")
}

func TestRun_Authenticated(t *testing.T) {
	profile := &usermodels.UserProfile{ID: "u1", TelegramID: "123", StarsBalance: 100}
	auth := &fakeAuth{profile: profile, gate: make(chan struct{})}
	b := NewBootstrapper(&fakeBridge{initData: "valid_token"}, auth, zerolog.Nop())

	result := make(chan *Session, 1)
	go func() { result <- b.Run(context.Background()) }()

	require.Eventually(t, func() bool { return b.State() == StateAuthenticating }, time.Second, time.Millisecond)
	assert.True(t, b.Loading())
	close(auth.gate)

	s := <-result
	assert.Equal(t, StateAuthenticated, s.State)
	assert.Same(t, profile, s.User)
	assert.Equal(t, "u1", s.UserID())
	assert.Equal(t, "valid_token", s.InitData)
	assert.True(t, s.HasPlatformIdentity())
	assert.False(t, b.Loading())
}

func TestRun_AuthFailed(t *testing.T) {
	auth := &fakeAuth{err: errors.New("401 Invalid Telegram init data")}
	b := NewBootstrapper(&fakeBridge{initData: "forged"}, auth, zerolog.Nop())

	s := b.Run(context.Background())
	assert.Equal(t, StateAuthFailed, s.State)
	assert.Nil(t, s.User)
	assert.Empty(t, s.UserID())
	assert.False(t, s.HasPlatformIdentity())

	var authErr *BootstrapAuthError
	require.ErrorAs(t, s.Err, &authErr)
	assert.ErrorIs(t, s.Err, auth.err)
}

func TestRun_Once(t *testing.T) {
	auth := &fakeAuth{profile: &usermodels.UserProfile{ID: "u1", TelegramID: "1"}}
	b := NewBootstrapper(&fakeBridge{initData: "valid_token"}, auth, zerolog.Nop())

	var wg sync.WaitGroup
	sessions := make([]*Session, 8)
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i] = b.Run(context.Background())
		}(i)
	}
	wg.Wait()

	for _, s := range sessions {
		assert.Same(t, sessions[0], s)
	}
	assert.Equal(t, int32(1), auth.calls.Load())

	select {
	case <-b.Done():
	default:
		t.Fatal("Done not closed")
	}
}

func TestStateTerminal(t *testing.T) {
	assert.False(t, StateStart.Terminal())
	assert.False(t, StateAuthenticating.Terminal())
	assert.True(t, StateMockUser.Terminal())
	assert.True(t, StateAuthenticated.Terminal())
	assert.True(t, StateAuthFailed.Terminal())
}
