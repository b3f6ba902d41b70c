package registry

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"runtime"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/google/go-containerregistry/pkg/v1/remote/transport"

	"github.com/jmgilman/canvas/internal/flags"
)

type client struct {
	config ClientConfig
}

// NewClient creates a new registry client with the given configuration.
func NewClient(cfg ClientConfig) Client {
	return &client{config: cfg}
}

func (c *client) Inspect(ctx context.Context, ref string) (*Image, error) {
	var nameOpts []name.Option
	if c.config.Insecure {
		nameOpts = append(nameOpts, name.Insecure)
	}

	parsed, err := name.ParseReference(ref, nameOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRef, err)
	}

	img, err := remote.Image(parsed, c.remoteOptions(ctx)...)
	if err != nil {
		return nil, mapError(err)
	}

	digest, err := img.Digest()
	if err != nil {
		return nil, fmt.Errorf("get image digest: %w", err)
	}

	cf, err := img.ConfigFile()
	if err != nil {
		return nil, fmt.Errorf("get image config: %w", err)
	}

	out := &Image{
		Ref:     ref,
		Pinned:  parsed.Context().Digest(digest.String()).String(),
		Digest:  digest.String(),
		Labels:  cf.Config.Labels,
		Env:     cf.Config.Env,
		Workdir: cf.Config.WorkingDir,
		Flags:   flags.FromLabel(cf.Config.Labels[FlagsLabel]),
	}
	if !cf.Created.IsZero() {
		out.Created = cf.Created.Time
	}

	return out, nil
}

func (c *client) remoteOptions(ctx context.Context) []remote.Option {
	opts := []remote.Option{
		remote.WithAuthFromKeychain(authn.DefaultKeychain),
		remote.WithContext(ctx),
		// The runtime always runs linux images on the host architecture
		remote.WithPlatform(v1.Platform{
			Architecture: runtime.GOARCH,
			OS:           "linux",
		}),
	}

	if c.config.Insecure {
		tr := &http.Transport{}
		if dt, ok := http.DefaultTransport.(*http.Transport); ok {
			tr = dt.Clone()
		}
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for local registries
		opts = append(opts, remote.WithTransport(tr))
	}

	return opts
}

// mapError converts go-containerregistry errors to sentinel errors.
func mapError(err error) error {
	var terr *transport.Error
	if errors.As(err, &terr) {
		for _, d := range terr.Errors {
			switch d.Code {
			case transport.UnauthorizedErrorCode:
				return fmt.Errorf("%w: %s", ErrUnauthorized, err)
			case transport.ManifestUnknownErrorCode, transport.NameUnknownErrorCode:
				return fmt.Errorf("%w: %s", ErrImageNotFound, err)
			}
		}
		switch terr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrUnauthorized, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrImageNotFound, err)
		}
	}

	return fmt.Errorf("registry error: %w", err)
}
