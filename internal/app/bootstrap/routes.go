// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	analyticsfeature "github.com/docdeck/docdeck/internal/app/features/analytics"
	apisfeature "github.com/docdeck/docdeck/internal/app/features/apis"
	authgooglefeature "github.com/docdeck/docdeck/internal/app/features/authgoogle"
	dashboardfeature "github.com/docdeck/docdeck/internal/app/features/dashboard"
	documentsfeature "github.com/docdeck/docdeck/internal/app/features/documents"
	errorsfeature "github.com/docdeck/docdeck/internal/app/features/errors"
	healthfeature "github.com/docdeck/docdeck/internal/app/features/health"
	homefeature "github.com/docdeck/docdeck/internal/app/features/home"
	livefeedfeature "github.com/docdeck/docdeck/internal/app/features/livefeed"
	loginfeature "github.com/docdeck/docdeck/internal/app/features/login"
	logoutfeature "github.com/docdeck/docdeck/internal/app/features/logout"
	settingsfeature "github.com/docdeck/docdeck/internal/app/features/settings"
	workspacesfeature "github.com/docdeck/docdeck/internal/app/features/workspaces"
	"github.com/docdeck/docdeck/internal/app/live"
	"github.com/docdeck/docdeck/internal/app/store/oauthstate"
	userstore "github.com/docdeck/docdeck/internal/app/store/users"
	"github.com/docdeck/docdeck/internal/app/system/ai"
	"github.com/docdeck/docdeck/internal/app/system/auth"
)

// runtimeState holds long-lived workers created in BuildHandler so Shutdown
// can stop them.
var runtimeState struct {
	registry *live.Registry
	watcher  *live.Watcher
}

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. DocDeck wires the live-sync core here:
// the change hub and gateway over MongoDB, the AI client, and the per-client
// session registry, then mounts feature routers over them.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Session manager; secure cookies in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh profile data on each request, so name and theme edits take
	// effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Live-sync core: hub, gateway, AI client, per-client session registry.
	hub := live.NewHub(logger)
	gateway := live.NewMongoGateway(deps.MongoDatabase, hub, logger)
	improver := ai.New(appCfg.AIAPIKey, appCfg.AIEndpoint, appCfg.AIModel, logger)
	registry := live.NewRegistry(gateway, userstore.New(deps.MongoDatabase), improver,
		appCfg.AutosaveQuietPeriod, appCfg.ClientSessionTTL, logger)
	registry.Start()

	watcher := live.NewWatcher(deps.MongoDatabase, hub, logger)
	watcher.Start()

	runtimeState.registry = registry
	runtimeState.watcher = watcher

	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli).
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages.
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication.
	loginHandler := loginfeature.NewHandler(appCfg.GoogleClientID != "", logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, registry, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	googleHandler := authgooglefeature.NewHandler(
		sessionMgr, errLog,
		oauthstate.New(deps.MongoDatabase),
		userstore.New(deps.MongoDatabase),
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL,
		logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Error pages.
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Signed-in application areas.
	dashboardHandler := dashboardfeature.NewHandler(registry, gateway, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	documentsHandler := documentsfeature.NewHandler(registry, errLog, logger)
	r.Mount("/documents", documentsfeature.Routes(documentsHandler, sessionMgr))

	apisHandler := apisfeature.NewHandler(registry, gateway, errLog, logger)
	r.Mount("/apis", apisfeature.Routes(apisHandler, sessionMgr))

	analyticsHandler := analyticsfeature.NewHandler(registry, errLog, logger)
	r.Mount("/analytics", analyticsfeature.Routes(analyticsHandler, sessionMgr))

	settingsHandler := settingsfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/settings", settingsfeature.Routes(settingsHandler, sessionMgr))

	workspacesHandler := workspacesfeature.NewHandler(deps.MongoDatabase, gateway, errLog, logger)
	r.Mount("/workspaces", workspacesfeature.Routes(workspacesHandler, sessionMgr))

	// Server-sent events stream pushing live snapshot changes.
	livefeedHandler := livefeedfeature.NewHandler(registry, logger)
	r.Mount("/live", livefeedfeature.Routes(livefeedHandler, sessionMgr))

	return r, nil
}
