package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/registry"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/mutate"
	"github.com/google/go-containerregistry/pkg/v1/random"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/google/go-containerregistry/pkg/v1/remote/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/canvas/internal/flags"
)

// pushImage pushes a random image with the given config to an in-memory registry
// and returns the registry host.
func pushImage(t *testing.T, repo string, cfg v1.Config) string {
	t.Helper()

	server := httptest.NewServer(registry.New())
	t.Cleanup(server.Close)
	host := strings.TrimPrefix(server.URL, "http://")

	img, err := random.Image(512, 1)
	require.NoError(t, err)
	img, err = mutate.Config(img, cfg)
	require.NoError(t, err)

	ref, err := name.ParseReference(host + "/" + repo)
	require.NoError(t, err)
	require.NoError(t, remote.Write(ref, img))

	return host
}

func TestClient_Inspect(t *testing.T) {
	ctx := context.Background()

	t.Run("reads labels, flags and digest", func(t *testing.T) {
		host := pushImage(t, "canvas/runtime:latest", v1.Config{
			Labels:     map[string]string{FlagsLabel: "memory=2g init"},
			Env:        []string{"NODE_ENV=development"},
			WorkingDir: "/workspace",
		})

		img, err := NewClient(ClientConfig{Insecure: true}).Inspect(ctx, host+"/canvas/runtime:latest")

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(img.Digest, "sha256:"))
		assert.Equal(t, host+"/canvas/runtime@"+img.Digest, img.Pinned)
		assert.Equal(t, flags.Flags{"memory": "2g", "init": true}, img.Flags)
		assert.Equal(t, []string{"NODE_ENV=development"}, img.Env)
		assert.Equal(t, "/workspace", img.Workdir)
	})

	t.Run("image without flags label", func(t *testing.T) {
		host := pushImage(t, "plain/node:22", v1.Config{})

		img, err := NewClient(ClientConfig{Insecure: true}).Inspect(ctx, host+"/plain/node:22")

		require.NoError(t, err)
		assert.Empty(t, img.Flags)
	})

	t.Run("returns ErrInvalidRef for malformed reference", func(t *testing.T) {
		_, err := NewClient(ClientConfig{}).Inspect(ctx, "UPPER/Case::bad")
		assert.ErrorIs(t, err, ErrInvalidRef)
	})

	t.Run("returns ErrImageNotFound for missing image", func(t *testing.T) {
		server := httptest.NewServer(registry.New())
		defer server.Close()
		host := strings.TrimPrefix(server.URL, "http://")

		_, err := NewClient(ClientConfig{Insecure: true}).Inspect(ctx, host+"/missing/image:latest")
		assert.ErrorIs(t, err, ErrImageNotFound)
	})
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "unauthorized code",
			err:  &transport.Error{StatusCode: http.StatusUnauthorized, Errors: []transport.Diagnostic{{Code: transport.UnauthorizedErrorCode}}},
			want: ErrUnauthorized,
		},
		{name: "403 status", err: &transport.Error{StatusCode: http.StatusForbidden}, want: ErrUnauthorized},
		{
			name: "manifest unknown code",
			err:  &transport.Error{StatusCode: http.StatusNotFound, Errors: []transport.Diagnostic{{Code: transport.ManifestUnknownErrorCode}}},
			want: ErrImageNotFound,
		},
		{name: "404 status", err: &transport.Error{StatusCode: http.StatusNotFound}, want: ErrImageNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError(tt.err), tt.want)
		})
	}

	t.Run("wraps unknown errors", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := mapError(cause)
		assert.Contains(t, err.Error(), "registry error")
		assert.ErrorIs(t, err, cause)
	})
}
