package processor

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/pairbench/pairbench/internal/artifact"
	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
)

type ArtifactCollector interface {
	Collect(ctx context.Context, stage v1beta1.StageName) (*artifact.Set, error)
}

func WithCollect(collector ArtifactCollector) ProcessorBuilder {
	return func(spec *StageSpec) Bootstraper {
		if collector == nil {
			return nil
		}

		return &Collect{
			stageName: spec.Name,
			collector: collector,
		}
	}
}

type Collect struct {
	stageName v1beta1.StageName
	collector ArtifactCollector
}

// Bootstrap guarantees artifact collection on every code path, including
// panics further down the chain and run cancellation. Failure diagnostics
// must never be lost, a collection error is logged and does not override
// the stage outcome.
func (s *Collect) Bootstrap(next Next) (Next, error) {
	return func(ctx context.Context, stageContext StageContext) (out StageContext, err error) {
		out = stageContext

		defer func() {
			// best effort, also after cancellation
			set, collectErr := s.collector.Collect(context.WithoutCancel(ctx), s.stageName)
			if collectErr != nil {
				logr.FromContextOrDiscard(ctx).Error(collectErr, "failed to collect artifacts", "stage", s.stageName)
			}

			if result, ok := out.Stages[s.stageName]; ok {
				result.Artifacts = set
			}
		}()

		out, err = next(ctx, stageContext)
		return
	}, nil
}
