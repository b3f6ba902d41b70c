package container

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmgilman/canvas/internal/exec"
)

// NewPodmanRuntime creates a Runtime using Podman CLI.
// Podman runs rootless by default, so the bind-mounted workspace keeps the
// caller's uid inside the container.
func NewPodmanRuntime(e exec.Executor) Runtime {
	return &cliRuntime{
		exec:       e,
		binaryName: "podman",
		runFlags:   []string{"--userns=keep-id"},
		parser:     podmanParser{},
	}
}

type podmanParser struct{}

// podmanInspect represents the JSON output of `podman inspect`.
type podmanInspect struct {
	ID      string `json:"Id"`
	Name    string `json:"Name"`
	Created string `json:"Created"`
	State   struct {
		Status string `json:"Status"`
	} `json:"State"`
	Config struct {
		Image string `json:"Image"`
	} `json:"Config"`
	ImageName string `json:"ImageName"`
}

func (podmanParser) parseInspect(data []byte) (*Container, error) {
	var infos []podmanInspect
	if err := json.Unmarshal(data, &infos); err != nil {
		return nil, fmt.Errorf("parse container info: %w", err)
	}
	if len(infos) == 0 {
		return nil, ErrNotFound
	}

	p := infos[0]

	// Use ImageName if available, otherwise fall back to Config.Image
	image := p.ImageName
	if image == "" {
		image = p.Config.Image
	}

	return &Container{
		ID:        p.ID,
		Name:      strings.TrimPrefix(p.Name, "/"),
		Image:     image,
		Status:    parseContainerStatus(p.State.Status),
		CreatedAt: parseCreated(p.Created),
	}, nil
}
