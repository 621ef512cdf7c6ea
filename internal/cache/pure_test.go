package cache

import (
	"strings"
	"testing"
)

func TestSessionKey_Deterministic(t *testing.T) {
	t.Parallel()

	token := "abcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789"
	if sessionKey(token) != sessionKey(token) {
		t.Error("Same token should produce same key")
	}
}

func TestSessionKey_DoesNotContainToken(t *testing.T) {
	t.Parallel()

	token := "abcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789"
	key := sessionKey(token)

	if !strings.HasPrefix(key, sessionPrefix) {
		t.Errorf("key %q should start with %q", key, sessionPrefix)
	}
	if strings.Contains(key, token) {
		t.Error("key must not embed the raw token")
	}
	if len(key) != len(sessionPrefix)+32 {
		t.Errorf("unexpected key length %d", len(key))
	}
}

func TestSessionKey_Different(t *testing.T) {
	t.Parallel()

	if sessionKey("token-a") == sessionKey("token-b") {
		t.Error("Different tokens should produce different keys")
	}
}
