// Package registry reads runtime image metadata from OCI registries.
package registry

import (
	"context"
	"errors"
	"time"

	"github.com/jmgilman/canvas/internal/flags"
)

// FlagsLabel is the image label carrying default container run flags for the
// preview runtime, in the format accepted by flags.FromLabel.
const FlagsLabel = "io.canvas.runtime.flags"

// Sentinel errors for registry operations.
var (
	// ErrImageNotFound is returned when the requested image does not exist.
	ErrImageNotFound = errors.New("image not found")

	// ErrUnauthorized is returned when authentication fails.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidRef is returned when the image reference is malformed.
	ErrInvalidRef = errors.New("invalid image reference")
)

// Image describes a runtime image as published in its registry.
type Image struct {
	// Ref is the reference that was inspected.
	Ref string

	// Pinned is Ref's repository addressed by digest (repo@sha256:...).
	Pinned string

	// Digest is the manifest digest.
	Digest string

	Labels  map[string]string
	Env     []string
	Workdir string
	Created time.Time

	// Flags are the run flags declared by FlagsLabel, empty when absent.
	Flags flags.Flags
}

// ClientConfig configures the registry client.
type ClientConfig struct {
	// Insecure allows HTTP (non-TLS) connections to registries.
	Insecure bool
}

// Client inspects images in OCI registries.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/client.go . Client
type Client interface {
	// Inspect fetches metadata for a tag or digest reference.
	Inspect(ctx context.Context, ref string) (*Image, error)
}
