// internal/app/live/identity.go
package live

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/docdeck/docdeck/internal/app/store/users"
	"github.com/docdeck/docdeck/internal/app/system/timeouts"
	"github.com/docdeck/docdeck/internal/domain/models"
)

// State is the identity state of a client session. Unknown lasts only until
// the provider reports; consumers render a splash, never login or data.
type State int

const (
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Identity is what an auth provider knows about a signed-in principal.
type Identity struct {
	AuthID    string
	Name      string
	Email     string
	AvatarURL string
}

// Provider reports auth state. A nil Identity in the callback means signed
// out. Implementations must invoke the callback with the current state
// immediately on subscribe.
type Provider interface {
	AuthStateChanges(fn func(*Identity)) CancelFunc
	SignIn(ctx context.Context) error
	SignOut(ctx context.Context) error
}

// ProfileStore is the slice of the user store the identity layer needs.
type ProfileStore interface {
	GetByAuthID(ctx context.Context, authID string) (models.UserProfile, error)
	Create(ctx context.Context, u models.UserProfile) (models.UserProfile, error)
}

// MaterializeProfile maps a provider identity onto a stored profile:
// read by auth id first, create only on a genuine miss. Safe to call
// repeatedly for the same identity.
func MaterializeProfile(ctx context.Context, store ProfileStore, ident Identity) (models.UserProfile, error) {
	profile, err := store.GetByAuthID(ctx, ident.AuthID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, users.ErrNotFound) {
		return models.UserProfile{}, fmt.Errorf("lookup profile: %w", err)
	}

	avatar := ident.AvatarURL
	if avatar == "" {
		avatar = fmt.Sprintf("https://i.pravatar.cc/150?u=%s", ident.AuthID)
	}
	profile, err = store.Create(ctx, models.UserProfile{
		AuthID:          ident.AuthID,
		Name:            ident.Name,
		Email:           ident.Email,
		AvatarURL:       avatar,
		ThemePreference: "system",
	})
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}

// IdentityManager tracks one client's auth state and the stored profile
// behind it. Consumers read State/Profile and get a change callback; they
// never talk to the provider directly.
type IdentityManager struct {
	provider Provider
	profiles ProfileStore
	log      *zap.Logger

	mu       sync.Mutex
	state    State
	profile  models.UserProfile
	cancel   CancelFunc
	onChange func(State, models.UserProfile)
}

func NewIdentityManager(provider Provider, profiles ProfileStore, logger *zap.Logger) *IdentityManager {
	return &IdentityManager{
		provider: provider,
		profiles: profiles,
		log:      logger,
		state:    StateUnknown,
	}
}

// SetOnChange registers the state-change callback. Call before Start; the
// provider delivers the current state synchronously on subscribe.
func (m *IdentityManager) SetOnChange(fn func(State, models.UserProfile)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Start subscribes to the provider. Until the first report arrives the
// state stays Unknown.
func (m *IdentityManager) Start() {
	cancel := m.provider.AuthStateChanges(m.apply)
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()
}

func (m *IdentityManager) apply(ident *Identity) {
	if ident == nil {
		m.transition(StateAnonymous, models.UserProfile{})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
	defer cancel()
	profile, err := MaterializeProfile(ctx, m.profiles, *ident)
	if err != nil {
		// Stay in the prior state; a later provider report retries.
		m.log.Error("profile materialization failed",
			zap.String("auth_id", ident.AuthID), zap.Error(err))
		return
	}
	m.transition(StateAuthenticated, profile)
}

func (m *IdentityManager) transition(state State, profile models.UserProfile) {
	m.mu.Lock()
	m.state = state
	m.profile = profile
	fn := m.onChange
	m.mu.Unlock()
	if fn != nil {
		fn(state, profile)
	}
}

// SignIn triggers the provider's sign-in flow. Failures are logged, not
// surfaced; the state machine only moves on a provider report.
func (m *IdentityManager) SignIn(ctx context.Context) {
	if err := m.provider.SignIn(ctx); err != nil {
		m.log.Error("sign-in failed", zap.Error(&AuthError{Op: "sign in", Err: err}))
	}
}

// SignOut asks the provider to end the session. On failure the session
// remains authenticated.
func (m *IdentityManager) SignOut(ctx context.Context) {
	if err := m.provider.SignOut(ctx); err != nil {
		m.log.Error("sign-out failed", zap.Error(&AuthError{Op: "sign out", Err: err}))
	}
}

// State returns the current auth state and, when authenticated, the profile.
func (m *IdentityManager) State() (State, models.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.profile
}

// Close detaches from the provider.
func (m *IdentityManager) Close() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// StaticProvider bridges an already-established cookie session into the
// Provider contract. The interactive flow happened in the OAuth feature;
// here the identity is fixed, reported immediately on subscribe, and
// SignOut reports signed-out to all subscribers.
type StaticProvider struct {
	mu    sync.Mutex
	ident *Identity
	subs  map[int]func(*Identity)
	next  int
}

func NewStaticProvider(ident Identity) *StaticProvider {
	return &StaticProvider{
		ident: &ident,
		subs:  make(map[int]func(*Identity)),
	}
}

func (p *StaticProvider) AuthStateChanges(fn func(*Identity)) CancelFunc {
	p.mu.Lock()
	id := p.next
	p.next++
	p.subs[id] = fn
	ident := p.ident
	p.mu.Unlock()

	fn(ident)

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
		})
	}
}

func (p *StaticProvider) SignIn(ctx context.Context) error {
	return errors.New("interactive sign-in is handled by the oauth flow")
}

func (p *StaticProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.ident = nil
	fns := make([]func(*Identity), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(nil)
	}
	return nil
}

var _ Provider = (*StaticProvider)(nil)
