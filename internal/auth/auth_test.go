package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/canvas/internal/keychain"
	"github.com/jmgilman/canvas/internal/keychain/mocks"
)

func TestResolver_APIKey(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		kc         keychain.Keychain
		wantKey    string
		wantSource Source
		wantErr    bool
	}{
		{
			name:       "configured wins over keychain",
			configured: " sk-config ",
			kc:         &mocks.KeychainMock{GetFunc: func(string) (string, error) { return "sk-kc", nil }},
			wantKey:    "sk-config",
			wantSource: SourceConfig,
		},
		{
			name:       "falls back to keychain",
			kc:         &mocks.KeychainMock{GetFunc: func(string) (string, error) { return "sk-kc", nil }},
			wantKey:    "sk-kc",
			wantSource: SourceKeychain,
		},
		{
			name:       "absent key is not an error",
			kc:         &mocks.KeychainMock{GetFunc: func(string) (string, error) { return "", keychain.ErrNotFound }},
			wantSource: SourceNone,
		},
		{
			name:       "no keychain",
			wantSource: SourceNone,
		},
		{
			name:    "keychain failure",
			kc:      &mocks.KeychainMock{GetFunc: func(string) (string, error) { return "", errors.New("locked") }},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, source, err := NewResolver(tt.configured, tt.kc).APIKey()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestResolver_Store(t *testing.T) {
	t.Run("stores trimmed key under remote account", func(t *testing.T) {
		kc := &mocks.KeychainMock{SetFunc: func(string, string) error { return nil }}

		require.NoError(t, NewResolver("", kc).Store("  sk-new\n"))

		calls := kc.SetCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, RemoteAccount, calls[0].Account)
		assert.Equal(t, "sk-new", calls[0].Secret)
	})

	t.Run("rejects invalid key", func(t *testing.T) {
		kc := &mocks.KeychainMock{}
		err := NewResolver("", kc).Store("sk with space")
		assert.ErrorIs(t, err, ErrInvalidKey)
		assert.Empty(t, kc.SetCalls())
	})

	t.Run("no keychain", func(t *testing.T) {
		assert.Error(t, NewResolver("", nil).Store("sk-1"))
	})
}

func TestResolver_Forget(t *testing.T) {
	kc := &mocks.KeychainMock{DeleteFunc: func(string) error { return nil }}
	require.NoError(t, NewResolver("", kc).Forget())
	assert.Len(t, kc.DeleteCalls(), 1)

	assert.NoError(t, NewResolver("", nil).Forget())
}

func TestMask(t *testing.T) {
	assert.Equal(t, "****", Mask("abcd"))
	assert.Equal(t, "****5678", Mask("abcd5678"))
	assert.Equal(t, "", Mask(""))
}
