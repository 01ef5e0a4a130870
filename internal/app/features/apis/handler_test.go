package apis_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"go.uber.org/zap"

	apisfeature "github.com/docdeck/docdeck/internal/app/features/apis"
	uierrors "github.com/docdeck/docdeck/internal/app/features/errors"
	"github.com/docdeck/docdeck/internal/app/live"
	apistore "github.com/docdeck/docdeck/internal/app/store/apis"
	"github.com/docdeck/docdeck/internal/app/store/users"
	"github.com/docdeck/docdeck/internal/app/system/ai"
	"github.com/docdeck/docdeck/internal/app/system/apikeys"
	"github.com/docdeck/docdeck/internal/testutil"
)

type catalogFixture struct {
	handler  *apisfeature.Handler
	registry *live.Registry
	fx       *testutil.Fixtures
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	hub := live.NewHub(logger)
	gw := live.NewMongoGateway(db, hub, logger)
	registry := live.NewRegistry(gw, users.New(db), ai.New("", "", "", logger), time.Hour, time.Hour, logger)
	t.Cleanup(func() { registry.Stop() })

	return &catalogFixture{
		handler:  apisfeature.NewHandler(registry, gw, uierrors.NewErrorLogger(logger), logger),
		registry: registry,
		fx:       testutil.NewFixtures(t, db),
	}
}

func TestServeCreate_GeneratesKeyServerSide(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := testutil.TestContext(t)

	profile := f.fx.CreateUser(ctx, "Rae", "rae@example.com")
	ws := f.fx.CreateWorkspace(ctx, "Platform", profile.ID)
	user := testutil.UserFor(profile)

	req := testutil.WithUser(testutil.NewRequest("POST", "/apis"), user)
	req.PostForm = url.Values{
		"name":        {"Billing API"},
		"version":     {"v2"},
		"description": {"Invoices and payments"},
		// A key in the form must be ignored; new key generation happens here.
		"api_key": {"dk_live_attack_attempt"},
	}

	rec := testutil.NewRecorder()
	f.handler.ServeCreate(rec, req)
	rec.AssertStatus(t, http.StatusSeeOther)

	regs, err := apistore.New(f.fx.DB()).ForWorkspace(ctx, ws.ID)
	if err != nil {
		t.Fatalf("ForWorkspace: %v", err)
	}
	if len(regs) != 1 {
		t.Fatalf("expected 1 registration, got %d", len(regs))
	}
	if !apikeys.ValidFormat(regs[0].ApiKey) {
		t.Fatalf("generated key has wrong format: %q", regs[0].ApiKey)
	}
	if regs[0].Status != "development" {
		t.Fatalf("default status = %q, want development", regs[0].Status)
	}
}

func TestServeCreate_RequiresName(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := testutil.TestContext(t)

	profile := f.fx.CreateUser(ctx, "Sam", "sam@example.com")
	ws := f.fx.CreateWorkspace(ctx, "Platform", profile.ID)
	user := testutil.UserFor(profile)

	req := testutil.WithUser(testutil.NewRequest("POST", "/apis"), user)
	req.PostForm = url.Values{"name": {"   "}}

	rec := testutil.NewRecorder()
	func() {
		defer func() { recover() }() // error page render needs the template engine
		f.handler.ServeCreate(rec, req)
	}()

	regs, err := apistore.New(f.fx.DB()).ForWorkspace(ctx, ws.ID)
	if err != nil {
		t.Fatalf("ForWorkspace: %v", err)
	}
	if len(regs) != 0 {
		t.Fatalf("expected no registrations, got %d", len(regs))
	}
}

func TestServeRevealKey_UnknownID(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := testutil.TestContext(t)

	profile := f.fx.CreateUser(ctx, "Tess", "tess@example.com")
	f.fx.CreateWorkspace(ctx, "Platform", profile.ID)
	user := testutil.UserFor(profile)

	req := testutil.WithUser(testutil.NewRequest("GET", "/apis/nope/key"), user)
	req = testutil.WithChiURLParam(req, "id", "not-an-object-id")

	rec := testutil.NewRecorder()
	f.handler.ServeRevealKey(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
}
