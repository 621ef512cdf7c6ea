package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
)

// SessionTokenLen is the length of a hex encoded session token.
const SessionTokenLen = 64

var sessionTokenRegex = regexp.MustCompile(`^[a-f0-9]{64}$`)

// GenerateSessionToken returns a new opaque session token (32 random bytes, hex).
// Only QuickHash(token) is ever stored server side.
func GenerateSessionToken() (string, error) {
	b := make([]byte, SessionTokenLen/2)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// ValidSessionToken reports whether s looks like a token we issued.
func ValidSessionToken(s string) bool {
	return sessionTokenRegex.MatchString(s)
}
