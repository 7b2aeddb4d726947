package session

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned for unknown or expired sessions
var ErrNotFound = errors.New("session not found")

// Store persists sessions between requests
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// Store drivers
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// StoreConfig selects and configures a session store
type StoreConfig struct {
	Driver     string
	TTL        time.Duration
	SQLitePath string
	RedisURL   string
}

// NewStore opens the store named by cfg.Driver
func NewStore(cfg StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemoryStore(cfg.TTL), nil
	case DriverSQLite:
		return NewSQLiteStore(cfg.SQLitePath, cfg.TTL)
	case DriverRedis:
		return NewRedisStore(cfg.RedisURL, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown session driver: %s", cfg.Driver)
	}
}
