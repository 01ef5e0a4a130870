// Package apikeys generates and formats API keys for the registry.
//
// Key format: dk_live_{prefix}_{secret}
// Example: dk_live_7a9e3b_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b
//
// Keys are cryptographically random. The 6-char prefix is safe to show in
// lists; the registry masks the rest until the user reveals it.
package apikeys

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

const (
	// PrefixLen is the visible prefix length (hex encoded 3 bytes).
	PrefixLen = 6
	// SecretLen is the secret length (hex encoded 16 bytes).
	SecretLen = 32
)

var keyFormatRegex = regexp.MustCompile(`^dk_live_[a-f0-9]{6}_[a-f0-9]{32}$`)

// Generate creates a new API key.
func Generate() (string, error) {
	prefixBytes := make([]byte, PrefixLen/2)
	if _, err := rand.Read(prefixBytes); err != nil {
		return "", fmt.Errorf("generate prefix: %w", err)
	}

	secretBytes := make([]byte, SecretLen/2)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}

	return fmt.Sprintf("dk_live_%s_%s",
		hex.EncodeToString(prefixBytes),
		hex.EncodeToString(secretBytes)), nil
}

// ValidFormat checks whether key matches the expected format.
func ValidFormat(key string) bool {
	return keyFormatRegex.MatchString(key)
}

// Mask returns a display form of the key that keeps the visible prefix and
// hides the secret, e.g. "dk_live_7a9x3k_••••••••".
func Mask(key string) string {
	i := strings.LastIndex(key, "_")
	if i < 0 {
		return strings.Repeat("•", 8)
	}
	return key[:i+1] + strings.Repeat("•", 8)
}
