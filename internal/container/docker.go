package container

import (
	"context"
	"strings"
	"time"

	dcontainer "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// dockerAPI is the part of the docker client the resolver uses.
type dockerAPI interface {
	ContainerInspect(ctx context.Context, containerID string) (dcontainer.InspectResponse, error)
	Close() error
}

// DockerResolver looks up container names through the docker daemon
// configured by the DOCKER_HOST family of environment variables.
type DockerResolver struct {
	api     dockerAPI
	timeout time.Duration
}

// NewDockerResolver connects lazily: creating the client does not contact
// the daemon, so an absent daemon only shows up as failed lookups.
func NewDockerResolver(timeout time.Duration) (*DockerResolver, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, errors.Wrap(err, "create docker client")
	}
	return &DockerResolver{api: cli, timeout: timeout}, nil
}

// Name returns the container's name without docker's leading slash.
func (r *DockerResolver) Name(ctx context.Context, id string) (string, bool) {
	if r == nil || r.api == nil || !isContainerID(id) {
		return "", false
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	resp, err := r.api.ContainerInspect(ctx, id)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("container", ShortID(id)).Msg("docker inspect")
		return "", false
	}
	if resp.ContainerJSONBase == nil || resp.Name == "" {
		return "", false
	}
	return strings.TrimPrefix(resp.Name, "/"), true
}

// Close releases the client connection.
func (r *DockerResolver) Close() error {
	if r == nil || r.api == nil {
		return nil
	}
	return r.api.Close()
}
