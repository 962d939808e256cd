// Package auth handles the API key sent to the scanning service.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

const (
	// HeaderName is the request header carrying the API key.
	HeaderName = "Authorization"

	keyLength     = 64
	visiblePrefix = 4
)

var ErrInvalidKeyFormat = errors.New("invalid API key format")

// Validate reports whether key looks like a service-issued key: 64 hex
// characters. The server is the authority; callers use this for warnings only.
func Validate(key string) error {
	if len(key) != keyLength {
		return ErrInvalidKeyFormat
	}
	for _, c := range key {
		if !isHex(c) {
			return ErrInvalidKeyFormat
		}
	}
	return nil
}

// Redact returns a form of key that is safe to log.
func Redact(key string) string {
	if key == "" {
		return "<empty>"
	}
	if len(key) <= visiblePrefix*2 {
		return strings.Repeat("*", len(key))
	}
	return key[:visiblePrefix] + "..." + strings.Repeat("*", 4)
}

// Fingerprint returns a short stable identifier for key without revealing it.
func Fingerprint(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:6])
}

func isHex(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
