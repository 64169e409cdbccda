package redis

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	csrfTokenBytes = 32
	csrfTokenTTL   = 12 * time.Hour
)

// CSRFStore implements the single-use anti-forgery token contract on Redis.
// One token is outstanding per session at a time: Mint overwrites any
// previous unconsumed value, and Verify consumes the stored value whether or
// not the supplied token matches, so a replay always fails.
type CSRFStore struct {
	client redis.UniversalClient
	prefix string
}

// NewCSRFStore creates a Redis-backed CSRF token store.
func NewCSRFStore(client redis.UniversalClient) *CSRFStore {
	return &CSRFStore{client: client, prefix: "csrf:"}
}

// Mint generates a fresh token for the session, replacing any previous one.
func (s *CSRFStore) Mint(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", errors.New("session ID cannot be empty")
	}

	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(b)

	if err := s.client.Set(ctx, s.prefix+sessionID, token, csrfTokenTTL).Err(); err != nil {
		return "", fmt.Errorf("store csrf token: %w", err)
	}
	return token, nil
}

// Verify consumes the session's stored token and compares it in constant
// time with the supplied value. The stored token is cleared regardless of
// the outcome; a second Verify with the same value always returns false.
func (s *CSRFStore) Verify(ctx context.Context, sessionID, supplied string) (bool, error) {
	if sessionID == "" || supplied == "" {
		return false, nil
	}

	stored, err := s.client.GetDel(ctx, s.prefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("consume csrf token: %w", err)
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1, nil
}
