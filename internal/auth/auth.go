// Package auth resolves the API key for the remote code execution service.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmgilman/canvas/internal/keychain"
)

// RemoteAccount is the keychain account holding the execution service API key.
const RemoteAccount = "remote-api-key"

// EnvVar is the environment variable consulted before the keychain.
const EnvVar = "CANVAS_REMOTE_API_KEY"

// ErrInvalidKey is returned when an API key fails validation.
var ErrInvalidKey = errors.New("invalid API key")

// Source identifies where a resolved API key came from.
type Source string

const (
	SourceNone     Source = ""
	SourceConfig   Source = "config"
	SourceKeychain Source = "keychain"
)

// Resolver finds the execution service API key.
//
// The configured value (config file or EnvVar, already merged by the
// config loader) wins over the keychain. A missing key is not an error:
// callers decide how to report it.
type Resolver struct {
	configured string
	keychain   keychain.Keychain
}

// NewResolver creates a resolver. kc may be nil when no keyring is available.
func NewResolver(configured string, kc keychain.Keychain) *Resolver {
	return &Resolver{configured: strings.TrimSpace(configured), keychain: kc}
}

// APIKey returns the API key and its source, or SourceNone when absent.
func (r *Resolver) APIKey() (string, Source, error) {
	if r.configured != "" {
		return r.configured, SourceConfig, nil
	}
	if r.keychain == nil {
		return "", SourceNone, nil
	}

	key, err := r.keychain.Get(RemoteAccount)
	if errors.Is(err, keychain.ErrNotFound) {
		return "", SourceNone, nil
	}
	if err != nil {
		return "", SourceNone, fmt.Errorf("load API key: %w", err)
	}
	return key, SourceKeychain, nil
}

// Store validates and saves an API key to the keychain.
func (r *Resolver) Store(key string) error {
	key = strings.TrimSpace(key)
	if err := Validate(key); err != nil {
		return err
	}
	if r.keychain == nil {
		return errors.New("no keychain available")
	}
	return r.keychain.Set(RemoteAccount, key)
}

// Forget removes the stored API key from the keychain.
func (r *Resolver) Forget() error {
	if r.keychain == nil {
		return nil
	}
	return r.keychain.Delete(RemoteAccount)
}

// Validate rejects empty keys and keys containing whitespace.
func Validate(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.ContainsFunc(key, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }) {
		return fmt.Errorf("%w: contains whitespace", ErrInvalidKey)
	}
	return nil
}

// Mask shows only the last four characters of a key.
func Mask(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
