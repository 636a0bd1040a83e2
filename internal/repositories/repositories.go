package repositories

import (
	"fmt"

	"github.com/desertthunder/spotctl/internal/shared"
	"github.com/desertthunder/spotctl/internal/tokens"
)

// Storage drivers accepted by [Open].
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

// TokenStore is a [tokens.Store] that owns a resource.
type TokenStore interface {
	tokens.Store
	Close() error
}

type memoryStore struct{ *tokens.MemoryStore }

func (memoryStore) Close() error { return nil }

// Open creates the token store selected by cfg.Driver at path.
//
// An empty driver means sqlite.
func Open(cfg shared.StorageConfig, path string) (TokenStore, error) {
	switch cfg.Driver {
	case "", DriverSQLite:
		s, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		shared.ConfigureDatabase(s.db, cfg.MaxOpenConns, cfg.MaxIdleConns)
		return s, nil
	case DriverBolt:
		return NewBoltStore(path)
	case DriverMemory:
		return memoryStore{tokens.NewMemoryStore(nil)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", shared.ErrInvalidConfig, cfg.Driver)
	}
}
