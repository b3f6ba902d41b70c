// Package catalog persists the preview runtime record and preview session
// history across CLI invocations.
package catalog

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for catalog operations.
var (
	ErrNotFound      = errors.New("entry not found")
	ErrAlreadyExists = errors.New("entry already exists")
	ErrLockTimeout   = errors.New("failed to acquire catalog lock")
)

// Status represents the runtime lifecycle state.
type Status string

const (
	StatusBooting Status = "booting"
	StatusRunning Status = "running"
	StatusStopped Status = "stopped"
	StatusError   Status = "error"
)

// Runtime records a booted isolated runtime container.
// At most one record exists per runtime name.
type Runtime struct {
	Name        string    `json:"name"`         // Fixed container name (e.g., "canvas-runtime")
	Engine      string    `json:"engine"`       // docker or podman
	ContainerID string    `json:"container_id"` // Container ID (empty while booting)
	Image       string    `json:"image"`        // Image reference as configured
	Digest      string    `json:"digest"`       // Resolved manifest digest, if known
	Workspace   string    `json:"workspace"`    // Host directory mounted into the container
	Port        int       `json:"port"`         // Published dev server port
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Session records a preview session and its last observed phase.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"` // Human-readable name (e.g., "happy-panda")
	Title     string    `json:"title"`
	Language  string    `json:"language"`
	Phase     string    `json:"phase"`
	URL       string    `json:"url,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionFilter filters session listings.
type SessionFilter struct {
	Phase string // Filter by phase (empty = all)
}

// Store provides persistent storage for runtime and session records.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/store.go . Store
type Store interface {
	// GetRuntime retrieves the runtime record with the given name.
	// Returns ErrNotFound if not found.
	GetRuntime(ctx context.Context, name string) (*Runtime, error)

	// PutRuntime creates or replaces the runtime record with rt.Name.
	PutRuntime(ctx context.Context, rt Runtime) error

	// RemoveRuntime deletes the runtime record.
	// Returns ErrNotFound if not found.
	RemoveRuntime(ctx context.Context, name string) error

	// AddSession creates a session record.
	// Returns ErrAlreadyExists if the ID or name is taken.
	AddSession(ctx context.Context, s Session) error

	// GetSession retrieves a session by ID or name.
	// Returns ErrNotFound if not found.
	GetSession(ctx context.Context, idOrName string) (*Session, error)

	// UpdateSession applies fn to the stored session and persists the result.
	// Returns ErrNotFound if not found.
	UpdateSession(ctx context.Context, id string, fn func(*Session)) error

	// RemoveSession deletes a session by ID.
	// Returns ErrNotFound if not found.
	RemoveSession(ctx context.Context, id string) error

	// ListSessions returns sessions matching the filter, oldest first.
	ListSessions(ctx context.Context, filter SessionFilter) ([]Session, error)
}
