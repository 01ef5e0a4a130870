package oauthstate_test

import (
	"testing"
	"time"

	"github.com/docdeck/docdeck/internal/app/store/oauthstate"
	"github.com/docdeck/docdeck/internal/testutil"
)

func TestValidateConsumesState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := oauthstate.New(db)

	if err := store.Save(ctx, "state-token-1", "/dashboard", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	returnURL, valid, err := store.Validate(ctx, "state-token-1")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !valid {
		t.Fatal("freshly saved state rejected")
	}
	if returnURL != "/dashboard" {
		t.Errorf("return url is %q, want %q", returnURL, "/dashboard")
	}

	// One-time use: a replay must fail.
	_, valid, err = store.Validate(ctx, "state-token-1")
	if err != nil {
		t.Fatalf("second Validate: %v", err)
	}
	if valid {
		t.Fatal("state token accepted twice")
	}
}

func TestValidateUnknownState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := oauthstate.New(db)

	_, valid, err := store.Validate(ctx, "never-saved")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if valid {
		t.Fatal("unknown state accepted")
	}
}
