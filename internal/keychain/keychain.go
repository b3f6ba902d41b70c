// Package keychain provides secure credential storage backed by the
// operating system keyring (macOS Keychain, Secret Service, KWallet,
// Windows Credential Manager) with an encrypted file fallback.
package keychain

import (
	"errors"
	"fmt"
	"os"

	"github.com/99designs/keyring"
)

// DefaultService is the keyring service name credentials are stored under.
const DefaultService = "canvas"

// PasswordEnvVar supplies the password for the encrypted file backend.
const PasswordEnvVar = "CANVAS_KEYRING_PASSWORD"

// ErrNotFound is returned when a credential is not found in the keychain.
var ErrNotFound = errors.New("credential not found in keychain")

// Keychain stores secrets by account name.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/keychain.go . Keychain
type Keychain interface {
	// Set stores a credential in the keychain.
	Set(account, secret string) error

	// Get retrieves a credential from the keychain.
	// Returns ErrNotFound if the credential does not exist.
	Get(account string) (string, error)

	// Delete removes a credential from the keychain.
	// Returns nil if the credential does not exist.
	Delete(account string) error
}

// Config selects and configures the keyring backend.
type Config struct {
	// Service names the keyring entry group. Defaults to DefaultService.
	Service string

	// FileDir is where the encrypted file backend keeps its items.
	FileDir string

	// Backends restricts the backends tried, in order. Empty means all
	// available system backends followed by the file backend.
	Backends []keyring.BackendType
}

type keychain struct {
	ring keyring.Keyring
}

// New opens the keyring described by cfg.
func New(cfg Config) (Keychain, error) {
	if cfg.Service == "" {
		cfg.Service = DefaultService
	}

	ring, err := keyring.Open(keyring.Config{
		ServiceName:              cfg.Service,
		AllowedBackends:          cfg.Backends,
		KeychainTrustApplication: true,
		FileDir:                  cfg.FileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt(os.Getenv(PasswordEnvVar)),
	})
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}

	return &keychain{ring: ring}, nil
}

// FromKeyring wraps an already opened keyring.
func FromKeyring(ring keyring.Keyring) Keychain {
	return &keychain{ring: ring}
}

func (k *keychain) Set(account, secret string) error {
	err := k.ring.Set(keyring.Item{
		Key:   account,
		Data:  []byte(secret),
		Label: DefaultService + " " + account,
	})
	if err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	return nil
}

func (k *keychain) Get(account string) (string, error) {
	item, err := k.ring.Get(account)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read credential: %w", err)
	}
	return string(item.Data), nil
}

func (k *keychain) Delete(account string) error {
	err := k.ring.Remove(account)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}
