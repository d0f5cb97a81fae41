// Package keyring keeps the PostgreSQL connection string in the OS keyring so
// it never has to appear on the command line or in shell history.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/dailyspark/internal/constants"
)

var (
	ErrNotFound           = errors.New("credentials not found in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	ErrEmpty              = errors.New("connection string cannot be empty")
)

const probeUser = "availability-probe"

func GetConnectionString() (string, error) {
	connStr, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

func SetConnectionString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return ErrEmpty
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

func DeleteConnectionString() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable probes the keyring with a read. A miss still means it works.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, probeUser)
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// ResolveConfig returns the stored connection string when config is still the
// default path and one is stored. The second result reports whether the
// keyring supplied the value.
func ResolveConfig(config string) (string, bool) {
	if config != constants.DefaultConfigPath {
		return config, false
	}
	connStr, err := GetConnectionString()
	if err != nil {
		return config, false
	}
	return connStr, true
}

// MaskPassword hides the password of a URI or key=value connection string.
func MaskPassword(connStr string) string {
	if scheme, rest, ok := strings.Cut(connStr, "://"); ok {
		at := strings.LastIndex(rest, "@")
		if at < 0 {
			return connStr
		}
		user, _, hasPassword := strings.Cut(rest[:at], ":")
		if !hasPassword {
			return connStr
		}
		return scheme + "://" + user + ":****" + rest[at:]
	}

	fields := strings.Fields(connStr)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=****"
		}
	}
	return strings.Join(fields, " ")
}
