// internal/app/live/identity_test.go
package live

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/docdeck/docdeck/internal/domain/models"
)

func TestMaterializeProfileCreatesOnce(t *testing.T) {
	profiles := newFakeProfiles()
	ident := Identity{AuthID: "google-oauth|123", Name: "Ada", Email: "ada@example.com"}

	first, err := MaterializeProfile(context.Background(), profiles, ident)
	if err != nil {
		t.Fatalf("first materialization: %v", err)
	}
	if first.ID.IsZero() {
		t.Fatal("profile has no id")
	}
	if first.ThemePreference != "system" {
		t.Errorf("theme is %q, want %q", first.ThemePreference, "system")
	}

	second, err := MaterializeProfile(context.Background(), profiles, ident)
	if err != nil {
		t.Fatalf("repeat materialization: %v", err)
	}
	if second.ID != first.ID {
		t.Error("repeat materialization returned a different profile")
	}
	if profiles.creates != 1 {
		t.Errorf("got %d creates, want 1", profiles.creates)
	}
}

func TestMaterializeProfileDefaultsAvatar(t *testing.T) {
	profiles := newFakeProfiles()
	p, err := MaterializeProfile(context.Background(), profiles, Identity{AuthID: "abc"})
	if err != nil {
		t.Fatalf("MaterializeProfile: %v", err)
	}
	if p.AvatarURL == "" {
		t.Error("avatar url not defaulted")
	}
}

func TestIdentityManagerAuthenticates(t *testing.T) {
	profiles := newFakeProfiles()
	provider := NewStaticProvider(Identity{AuthID: "auth-1", Name: "Ada"})
	m := NewIdentityManager(provider, profiles, zap.NewNop())

	var states []State
	m.SetOnChange(func(s State, _ models.UserProfile) { states = append(states, s) })
	m.Start()
	defer m.Close()

	state, profile := m.State()
	if state != StateAuthenticated {
		t.Fatalf("state is %v, want authenticated", state)
	}
	if profile.Name != "Ada" {
		t.Errorf("profile name is %q, want %q", profile.Name, "Ada")
	}
	if len(states) != 1 || states[0] != StateAuthenticated {
		t.Errorf("change callbacks: %v", states)
	}
}

func TestIdentityManagerSignOut(t *testing.T) {
	profiles := newFakeProfiles()
	provider := NewStaticProvider(Identity{AuthID: "auth-1"})
	m := NewIdentityManager(provider, profiles, zap.NewNop())
	m.Start()
	defer m.Close()

	m.SignOut(context.Background())

	state, profile := m.State()
	if state != StateAnonymous {
		t.Fatalf("state is %v, want anonymous", state)
	}
	if !profile.ID.IsZero() {
		t.Error("profile not cleared on sign-out")
	}
}

func TestIdentityManagerKeepsStateOnLookupFailure(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.readErr = errors.New("primary stepped down")
	provider := NewStaticProvider(Identity{AuthID: "auth-1"})
	m := NewIdentityManager(provider, profiles, zap.NewNop())
	m.Start()
	defer m.Close()

	state, _ := m.State()
	if state != StateUnknown {
		t.Fatalf("state is %v, want unknown after materialization failure", state)
	}
}

func TestStaticProviderCancelStopsDelivery(t *testing.T) {
	provider := NewStaticProvider(Identity{AuthID: "auth-1"})

	var got []*Identity
	cancel := provider.AuthStateChanges(func(id *Identity) { got = append(got, id) })
	if len(got) != 1 || got[0] == nil {
		t.Fatalf("no immediate delivery: %v", got)
	}

	cancel()
	cancel() // idempotent

	if err := provider.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("canceled subscriber still received %d deliveries", len(got))
	}
}
