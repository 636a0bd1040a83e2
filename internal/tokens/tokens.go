// Package tokens defines the durable key/value contract the Spotify token lives in.
//
// A [Store] only knows strings; [Load] and [Save] translate between the three
// persisted keys and a [models.Token]. Implementations backed by SQLite and
// bbolt live in the repositories package, [MemoryStore] serves tests and the
// "memory" storage driver.
package tokens

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/desertthunder/spotctl/internal/models"
	"github.com/desertthunder/spotctl/internal/shared"
)

// Persisted keys.
const (
	KeyAccessToken     = "access_token"
	KeyRefreshToken    = "refresh_token"
	KeyTokenExpiration = "token_expiration"
)

// Store persists string values across process lifetimes.
//
// An empty value is reported as absent.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Load reads the persisted token. ok is false when no access token is stored.
//
// A malformed expiration is read as 0, which makes the token invalid rather than failing the caller.
func Load(s Store) (tok models.Token, ok bool, err error) {
	access, ok, err := s.Get(KeyAccessToken)
	if err != nil {
		return models.Token{}, false, fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}

	refresh, _, err := s.Get(KeyRefreshToken)
	if err != nil {
		return models.Token{}, false, fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}

	expiration, _, err := s.Get(KeyTokenExpiration)
	if err != nil {
		return models.Token{}, false, fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}

	expiresAt, _ := strconv.ParseInt(expiration, 10, 64)
	return models.Token{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, ok, nil
}

// Save writes the access token and its expiration, and the refresh token when one is set.
func Save(s Store, tok models.Token) error {
	if err := s.Set(KeyAccessToken, tok.AccessToken); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}
	if err := s.Set(KeyTokenExpiration, strconv.FormatInt(tok.ExpiresAt, 10)); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}
	if tok.RefreshToken != "" {
		if err := s.Set(KeyRefreshToken, tok.RefreshToken); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrStorage, err)
		}
	}
	return nil
}

// Clear blanks every persisted key.
func Clear(s Store) error {
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyTokenExpiration} {
		if err := s.Set(key, ""); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrStorage, err)
		}
	}
	return nil
}

// MemoryStore is a process-local [Store].
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty [MemoryStore], optionally seeded with values.
func NewMemoryStore(seed map[string]string) *MemoryStore {
	values := make(map[string]string, len(seed))
	for k, v := range seed {
		values[k] = v
	}
	return &MemoryStore{values: values}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v := m.values[key]
	return v, v != "", nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
