package settings_test

import (
	"net/http"
	"net/url"
	"testing"

	"go.uber.org/zap"

	uierrors "github.com/docdeck/docdeck/internal/app/features/errors"
	"github.com/docdeck/docdeck/internal/app/features/settings"
	"github.com/docdeck/docdeck/internal/app/store/users"
	"github.com/docdeck/docdeck/internal/testutil"
)

func newSettingsFixture(t *testing.T) (*settings.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return settings.NewHandler(db, uierrors.NewErrorLogger(logger), logger), testutil.NewFixtures(t, db)
}

func TestServeTheme_PersistsPreference(t *testing.T) {
	h, fx := newSettingsFixture(t)
	ctx := testutil.TestContext(t)

	profile := fx.CreateUser(ctx, "Vera", "vera@example.com")
	user := testutil.UserFor(profile)

	req := testutil.WithUser(testutil.NewRequest("POST", "/settings/theme"), user)
	req.PostForm = url.Values{"theme": {"dark"}}

	rec := testutil.NewRecorder()
	h.ServeTheme(rec, req)

	rec.AssertStatus(t, http.StatusSeeOther)
	rec.AssertRedirect(t, "/settings?saved=1")

	got, err := users.New(fx.DB()).GetByID(ctx, profile.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ThemePreference != "dark" {
		t.Fatalf("theme = %q, want dark", got.ThemePreference)
	}
}

func TestServeTheme_RejectsUnknownTheme(t *testing.T) {
	h, fx := newSettingsFixture(t)
	ctx := testutil.TestContext(t)

	profile := fx.CreateUser(ctx, "Walt", "walt@example.com")
	user := testutil.UserFor(profile)

	req := testutil.WithUser(testutil.NewRequest("POST", "/settings/theme"), user)
	req.PostForm = url.Values{"theme": {"neon"}}

	rec := testutil.NewRecorder()
	func() {
		defer func() { recover() }() // error page render needs the template engine
		h.ServeTheme(rec, req)
	}()

	got, err := users.New(fx.DB()).GetByID(ctx, profile.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ThemePreference == "neon" {
		t.Fatal("invalid theme was persisted")
	}
}

func TestServeTheme_RedirectsAnonymous(t *testing.T) {
	h, _ := newSettingsFixture(t)

	req := testutil.NewRequest("POST", "/settings/theme")
	req.PostForm = url.Values{"theme": {"dark"}}

	rec := testutil.NewRecorder()
	h.ServeTheme(rec, req)

	rec.AssertStatus(t, http.StatusSeeOther)
	rec.AssertRedirect(t, "/login")
}
