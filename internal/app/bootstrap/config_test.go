package bootstrap

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:            "mongodb://localhost:27017",
		MongoDatabase:       "docdeck_test",
		SessionKey:          "test-session-key",
		SessionName:         "docdeck-session",
		BaseURL:             "http://localhost:3000",
		AutosaveQuietPeriod: 500 * time.Millisecond,
		ClientSessionTTL:    30 * time.Minute,
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	if err := ValidateConfig(nil, validAppConfig(), zap.NewNop()); err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
}

func TestValidateConfig_BadMongoURI(t *testing.T) {
	cfg := validAppConfig()
	cfg.MongoURI = "http://not-a-mongo-uri"

	err := ValidateConfig(nil, cfg, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for bad mongo uri")
	}
}

func TestValidateConfig_NonPositiveDurations(t *testing.T) {
	cfg := validAppConfig()
	cfg.AutosaveQuietPeriod = 0
	if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for zero quiet period")
	}

	cfg = validAppConfig()
	cfg.ClientSessionTTL = -time.Minute
	if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for negative session ttl")
	}
}

func TestValidateConfig_GoogleCredentialsTogether(t *testing.T) {
	cfg := validAppConfig()
	cfg.GoogleClientID = "id-without-secret"

	err := ValidateConfig(nil, cfg, zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "google_client") {
		t.Fatalf("expected google credential pairing error, got %v", err)
	}

	cfg.GoogleClientSecret = "secret"
	if err := ValidateConfig(nil, cfg, zap.NewNop()); err != nil {
		t.Fatalf("ValidateConfig with both set: %v", err)
	}
}
