package processor

import (
	"context"
	"fmt"

	"github.com/pairbench/pairbench/internal/credential"
	"github.com/pairbench/pairbench/internal/mask"
	"github.com/pairbench/pairbench/internal/secrets"
)

type CredentialProvisioner interface {
	Provision(ctx context.Context, material secrets.Material) (*credential.AccessCredential, error)
}

func WithProvision(provider secrets.Interface, provisioner CredentialProvisioner, maskStore *mask.Store, teardown chan Teardown) ProcessorBuilder {
	return func(spec *StageSpec) Bootstraper {
		return &Provision{
			provider:    provider,
			provisioner: provisioner,
			maskStore:   maskStore,
			teardown:    teardown,
		}
	}
}

type Provision struct {
	provider    secrets.Interface
	provisioner CredentialProvisioner
	maskStore   *mask.Store
	teardown    chan Teardown
}

// Bootstrap establishes host access before the driver runs. The
// credential is created once and reused by the release stage, its
// removal is deferred to the end of the run.
func (s *Provision) Bootstrap(next Next) (Next, error) {
	return func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		if stageContext.Credential != nil {
			return next(ctx, stageContext)
		}

		material, err := s.provider.Resolve(ctx)
		if err != nil {
			return stageContext, fmt.Errorf("failed to resolve secret material: %w", err)
		}

		if s.maskStore != nil {
			s.maskStore.Add(material.PrivateKey, []byte(material.ServerHost), []byte(material.ClientHost))
		}

		cred, err := s.provisioner.Provision(ctx, material)
		if err != nil {
			return stageContext, fmt.Errorf("failed to provision credential: %w", err)
		}

		if s.teardown != nil {
			s.teardown <- cred.Remove
		}

		stageContext.Material = material
		stageContext.Credential = cred

		return next(ctx, stageContext)
	}, nil
}
