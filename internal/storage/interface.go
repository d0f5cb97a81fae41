package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/dailyspark/internal/storage/memory"
	"github.com/julianstephens/dailyspark/internal/storage/postgres"
	"github.com/julianstephens/dailyspark/internal/storage/sqlite"
)

// Provider is a string key-value store. Values are JSON documents owned by
// the caller; the store never interprets them.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Get returns the value and whether the key exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}

// SchemaReporter is implemented by stores backed by a migrated SQL schema.
type SchemaReporter interface {
	SchemaVersion() (current, latest int, err error)
}

var (
	_ SchemaReporter = (*sqlite.Store)(nil)
	_ SchemaReporter = (*postgres.Store)(nil)

	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
	_ Provider = (*memory.Store)(nil)
)

var ErrEmbeddedCredentials = postgres.ErrEmbeddedCredentials

// IsPostgres reports whether config is a PostgreSQL URI rather than a file path.
func IsPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

// HasEmbeddedCredentials reports whether a PostgreSQL URI carries a password.
func HasEmbeddedCredentials(connStr string) bool {
	u, err := url.Parse(connStr)
	if err != nil || u.User == nil {
		return false
	}
	_, set := u.User.Password()
	return set
}

// New selects the backend from the config value: PostgreSQL for connection
// URIs, SQLite for everything else.
func New(config string) (Provider, error) {
	if IsPostgres(config) {
		if HasEmbeddedCredentials(config) {
			return nil, ErrEmbeddedCredentials
		}
		return postgres.New(config), nil
	}
	return sqlite.NewStore(config), nil
}

// NewTrusted is New for connection strings read from the OS keyring, where an
// embedded password is acceptable.
func NewTrusted(config string) Provider {
	if IsPostgres(config) {
		return postgres.New(config)
	}
	return sqlite.NewStore(config)
}

// GetJSON decodes the value at key into v. It reports false when the key is
// absent, leaving v untouched.
func GetJSON(p Provider, key string, v any) (bool, error) {
	raw, ok, err := p.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it at key.
func SetJSON(p Provider, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return p.Set(key, string(data))
}

// IsNotInitialized reports whether err means the store has never been created.
func IsNotInitialized(err error) bool {
	return errors.Is(err, sqlite.ErrNotInitialized)
}
