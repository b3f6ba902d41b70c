package container

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmgilman/canvas/internal/exec"
)

// NewDockerRuntime creates a Runtime using Docker CLI.
func NewDockerRuntime(e exec.Executor) Runtime {
	return &cliRuntime{
		exec:       e,
		binaryName: "docker",
		parser:     dockerParser{},
	}
}

type dockerParser struct{}

// dockerInspect represents the JSON output of `docker inspect`.
type dockerInspect struct {
	ID      string `json:"Id"`
	Name    string `json:"Name"`
	Created string `json:"Created"`
	State   struct {
		Status string `json:"Status"`
	} `json:"State"`
	Config struct {
		Image string `json:"Image"`
	} `json:"Config"`
}

func (dockerParser) parseInspect(data []byte) (*Container, error) {
	var infos []dockerInspect
	if err := json.Unmarshal(data, &infos); err != nil {
		return nil, fmt.Errorf("parse container info: %w", err)
	}
	if len(infos) == 0 {
		return nil, ErrNotFound
	}

	d := infos[0]
	return &Container{
		ID: d.ID,
		// Docker reports names as /container-name
		Name:      strings.TrimPrefix(d.Name, "/"),
		Image:     d.Config.Image,
		Status:    parseContainerStatus(d.State.Status),
		CreatedAt: parseCreated(d.Created),
	}, nil
}
