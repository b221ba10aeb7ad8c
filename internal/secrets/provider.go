package secrets

import (
	"context"
	"errors"
	"fmt"
)

// Material is the opaque secret record a run is provisioned from. All
// fields are required, a missing one aborts the run before any stage
// executes.
type Material struct {
	ServerHost string
	ClientHost string
	PrivateKey []byte
	User       string
	Port       int
}

var ErrInvalidMaterial = errors.New("invalid secret material")

func (m Material) Validate() error {
	switch {
	case m.ServerHost == "":
		return fmt.Errorf("server hostname is empty: %w", ErrInvalidMaterial)
	case m.ClientHost == "":
		return fmt.Errorf("client hostname is empty: %w", ErrInvalidMaterial)
	case len(m.PrivateKey) == 0:
		return fmt.Errorf("private key is empty: %w", ErrInvalidMaterial)
	case m.User == "":
		return fmt.Errorf("user is empty: %w", ErrInvalidMaterial)
	case m.Port <= 0 || m.Port > 65535:
		return fmt.Errorf("port %d out of range: %w", m.Port, ErrInvalidMaterial)
	}

	return nil
}

type Interface interface {
	Resolve(ctx context.Context) (Material, error)
}

// Resolver yields secret material from one backing store.
type Resolver func(ctx context.Context) (Material, error)

type provider struct {
	resolvers []Resolver
}

func New(resolvers ...Resolver) *provider {
	return &provider{
		resolvers: resolvers,
	}
}

// Resolve returns the material from the first resolver which yields a
// valid record.
func (p *provider) Resolve(ctx context.Context) (Material, error) {
	var errs []error

	for _, resolver := range p.resolvers {
		material, err := resolver(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := material.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}

		return material, nil
	}

	return Material{}, fmt.Errorf("could not resolve secret material: %w", errors.Join(errs...))
}

// WithStatic serves a fixed record, mostly useful for tests.
func WithStatic(material Material) Resolver {
	return func(ctx context.Context) (Material, error) {
		return material, nil
	}
}
