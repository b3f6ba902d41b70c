package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/canvas/internal/exec"
	"github.com/jmgilman/canvas/internal/exec/mocks"
)

func TestPodmanRuntime_Run(t *testing.T) {
	mockExec := &mocks.ExecutorMock{
		RunFunc: func(_ context.Context, opts *exec.RunOptions) (*exec.Result, error) {
			assert.Equal(t, "podman", opts.Name)
			assert.Equal(t, []string{"run", "--detach", "--name", "canvas-runtime", "--userns=keep-id", "--cpus=2"}, opts.Args[:6])
			return &exec.Result{Stdout: []byte("f00\n")}, nil
		},
	}

	c, err := NewPodmanRuntime(mockExec).Run(context.Background(), &RunConfig{
		Name:  "canvas-runtime",
		Image: "node:22",
		Flags: []string{"--cpus=2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "f00", c.ID)
}

func TestPodmanRuntime_Get(t *testing.T) {
	tests := []struct {
		name      string
		stdout    string
		wantImage string
	}{
		{
			name:      "prefers ImageName",
			stdout:    `[{"Id":"p1","Name":"canvas-runtime","Created":"2025-01-02T03:04:05.5Z","State":{"Status":"running"},"Config":{"Image":"sha256:deadbeef"},"ImageName":"docker.io/library/node:22"}]`,
			wantImage: "docker.io/library/node:22",
		},
		{
			name:      "falls back to Config.Image",
			stdout:    `[{"Id":"p1","Name":"canvas-runtime","Created":"bogus","State":{"Status":"created"},"Config":{"Image":"node:22"}}]`,
			wantImage: "node:22",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockExec := &mocks.ExecutorMock{
				RunFunc: func(_ context.Context, opts *exec.RunOptions) (*exec.Result, error) {
					assert.Equal(t, "podman", opts.Name)
					return &exec.Result{Stdout: []byte(tt.stdout)}, nil
				},
			}

			c, err := NewPodmanRuntime(mockExec).Get(context.Background(), "canvas-runtime")
			require.NoError(t, err)
			assert.Equal(t, "p1", c.ID)
			assert.Equal(t, tt.wantImage, c.Image)
		})
	}
}

func TestParseContainerStatus(t *testing.T) {
	tests := map[string]Status{
		"running": StatusRunning,
		"Running": StatusRunning,
		"exited":  StatusStopped,
		"stopped": StatusStopped,
		"created": StatusStopped,
		"paused":  StatusUnknown,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, parseContainerStatus(in))
		})
	}
}
