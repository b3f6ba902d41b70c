// Package names provides Docker-style random names for preview sessions.
package names

import (
	"fmt"
	"strings"

	"github.com/docker/docker/pkg/namesgenerator"
)

// ExistsFn checks if a name already exists.
type ExistsFn func(name string) bool

// Generate returns a random adjective-surname name (e.g., "focused-turing").
func Generate() string {
	return strings.ReplaceAll(namesgenerator.GetRandomName(0), "_", "-")
}

// GenerateUnique returns a name that doesn't exist according to existsFn.
// Returns an error if unable to find a unique name after maxAttempts tries.
func GenerateUnique(existsFn ExistsFn, maxAttempts int) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = 100
	}

	for range maxAttempts {
		name := Generate()
		if !existsFn(name) {
			return name, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique name after %d attempts", maxAttempts)
}
