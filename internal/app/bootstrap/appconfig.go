// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging, CORS, timeouts). AppConfig is everything specific to DocDeck:
// database connection strings, external service credentials, and tuning
// knobs for the live-sync layer. The struct is passed to most lifecycle
// hooks, so anything needed during startup, request handling, or shutdown
// lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: docdeck-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Base URL for OAuth callbacks
	BaseURL string // e.g., "https://docdeck.dev" or "http://localhost:3000"

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// AI document improvement service. An empty key switches the AI
	// client into mock mode.
	AIAPIKey   string
	AIEndpoint string
	AIModel    string

	// Live-sync tuning
	AutosaveQuietPeriod time.Duration // typing pause before an autosave fires
	ClientSessionTTL    time.Duration // idle time before a client session is evicted
}
