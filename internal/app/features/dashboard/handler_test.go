package dashboard_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/docdeck/docdeck/internal/app/features/dashboard"
	uierrors "github.com/docdeck/docdeck/internal/app/features/errors"
	"github.com/docdeck/docdeck/internal/app/live"
	"github.com/docdeck/docdeck/internal/app/store/documents"
	"github.com/docdeck/docdeck/internal/app/store/users"
	"github.com/docdeck/docdeck/internal/app/system/ai"
	"github.com/docdeck/docdeck/internal/testutil"
)

type dashboardFixture struct {
	handler  *dashboard.Handler
	registry *live.Registry
	fx       *testutil.Fixtures
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	hub := live.NewHub(logger)
	gw := live.NewMongoGateway(db, hub, logger)
	improver := ai.New("", "", "", logger)
	registry := live.NewRegistry(gw, users.New(db), improver, 10*time.Millisecond, time.Hour, logger)
	t.Cleanup(func() { registry.Stop() })

	return &dashboardFixture{
		handler:  dashboard.NewHandler(registry, gw, uierrors.NewErrorLogger(logger), logger),
		registry: registry,
		fx:       testutil.NewFixtures(t, db),
	}
}

func TestServeDashboard_RedirectsAnonymous(t *testing.T) {
	f := newDashboardFixture(t)

	req := testutil.NewRequest("GET", "/dashboard")
	rec := testutil.NewRecorder()
	f.handler.ServeDashboard(rec, req)

	rec.AssertStatus(t, http.StatusSeeOther)
	rec.AssertRedirect(t, "/login")
}

func TestServeCreateDocument_RequiresActiveWorkspace(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := testutil.TestContext(t)

	// A user with no workspaces has nothing auto-selected.
	profile := f.fx.CreateUser(ctx, "Nora", "nora@example.com")
	user := testutil.UserFor(profile)

	req := testutil.WithUser(testutil.NewRequest("POST", "/dashboard/documents"), user)
	req.PostForm = url.Values{"title": {"Notes"}}

	rec := testutil.NewRecorder()
	func() {
		defer func() { recover() }() // error page render needs the template engine
		f.handler.ServeCreateDocument(rec, req)
	}()

	docs, err := documents.New(f.fx.DB()).ForWorkspace(ctx, profile.ID)
	if err != nil {
		t.Fatalf("ForWorkspace: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected no documents, got %d", len(docs))
	}
}

func TestServeCreateDocument_CreatesInActiveWorkspace(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := testutil.TestContext(t)

	profile := f.fx.CreateUser(ctx, "Owen", "owen@example.com")
	ws := f.fx.CreateWorkspace(ctx, "Docs", profile.ID)
	user := testutil.UserFor(profile)

	req := testutil.WithUser(testutil.NewRequest("POST", "/dashboard/documents"), user)
	req.PostForm = url.Values{"title": {"Launch plan"}}

	rec := testutil.NewRecorder()
	f.handler.ServeCreateDocument(rec, req)

	rec.AssertStatus(t, http.StatusSeeOther)
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/documents/") {
		t.Fatalf("expected redirect to the new document, got %q", loc)
	}

	docs, err := documents.New(f.fx.DB()).ForWorkspace(ctx, ws.ID)
	if err != nil {
		t.Fatalf("ForWorkspace: %v", err)
	}
	if len(docs) != 1 || docs[0].Title != "Launch plan" {
		t.Fatalf("unexpected documents: %+v", docs)
	}
}

func TestServeSelectWorkspace_SwitchesActive(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := testutil.TestContext(t)

	profile := f.fx.CreateUser(ctx, "Pia", "pia@example.com")
	first := f.fx.CreateWorkspace(ctx, "First", profile.ID)
	second := f.fx.CreateWorkspace(ctx, "Second", profile.ID)
	user := testutil.UserFor(profile)

	// Establish the session; the oldest workspace is selected on start.
	seed := testutil.WithUser(testutil.NewRequest("POST", "/dashboard/workspace"), user)
	seed.PostForm = url.Values{"workspace_id": {second.ID.Hex()}}
	rec := testutil.NewRecorder()
	f.handler.ServeSelectWorkspace(rec, seed)
	rec.AssertStatus(t, http.StatusSeeOther)

	cs, _, ok := clientSessionFor(f, user)
	if !ok {
		t.Fatal("expected a live session")
	}
	snap := cs.Orchestrator.Snapshot()
	if snap.ActiveWorkspace == nil || snap.ActiveWorkspace.ID != second.ID {
		t.Fatalf("expected %s active, got %+v", second.Name, snap.ActiveWorkspace)
	}
	if snap.ActiveWorkspace.ID == first.ID {
		t.Fatal("first workspace should no longer be active")
	}
}

func TestServeSelectWorkspace_HTMXRedirect(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := testutil.TestContext(t)

	profile := f.fx.CreateUser(ctx, "Quinn", "quinn@example.com")
	ws := f.fx.CreateWorkspace(ctx, "Only", profile.ID)
	user := testutil.UserFor(profile)

	req := testutil.WithUser(testutil.NewRequest("POST", "/dashboard/workspace"), user)
	req.PostForm = url.Values{"workspace_id": {ws.ID.Hex()}}
	req.Header.Set("HX-Request", "true")

	rec := testutil.NewRecorder()
	f.handler.ServeSelectWorkspace(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if got := rec.Header().Get("HX-Redirect"); got != "/dashboard" {
		t.Fatalf("HX-Redirect = %q, want /dashboard", got)
	}
}

func clientSessionFor(f *dashboardFixture, user testutil.TestUser) (*live.ClientSession, testutil.TestUser, bool) {
	cs := f.registry.Get(user.ClientID, live.Identity{
		AuthID: user.AuthID,
		Name:   user.Name,
		Email:  user.Email,
	})
	return cs, user, cs != nil
}
