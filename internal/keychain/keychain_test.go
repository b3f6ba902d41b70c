package keychain

import (
	"path/filepath"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeychain_ArrayBackend(t *testing.T) {
	kc := FromKeyring(keyring.NewArrayKeyring(nil))

	_, err := kc.Get("remote-api-key")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kc.Set("remote-api-key", "sk-123"))
	got, err := kc.Get("remote-api-key")
	require.NoError(t, err)
	assert.Equal(t, "sk-123", got)

	require.NoError(t, kc.Delete("remote-api-key"))
	_, err = kc.Get("remote-api-key")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing credential is not an error
	assert.NoError(t, kc.Delete("remote-api-key"))
}

func TestNew_FileBackend(t *testing.T) {
	t.Setenv(PasswordEnvVar, "test-password")
	dir := filepath.Join(t.TempDir(), "keyring")

	kc, err := New(Config{
		FileDir:  dir,
		Backends: []keyring.BackendType{keyring.FileBackend},
	})
	require.NoError(t, err)
	require.NoError(t, kc.Set("remote-api-key", "sk-file"))

	// A second handle on the same directory reads the stored item
	again, err := New(Config{FileDir: dir, Backends: []keyring.BackendType{keyring.FileBackend}})
	require.NoError(t, err)
	got, err := again.Get("remote-api-key")
	require.NoError(t, err)
	assert.Equal(t, "sk-file", got)
}
