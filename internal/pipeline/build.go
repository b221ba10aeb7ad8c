package pipeline

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/pairbench/pairbench/internal/processor"
	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
)

type builder struct {
	logger       logr.Logger
	stageBuilder StageBuilder
}

type builderOption func(*builder)

// StageBuilder assembles the processor chain for one stage.
type StageBuilder func(spec *processor.StageSpec) []processor.Bootstraper

func WithLogger(logger logr.Logger) func(*builder) {
	return func(s *builder) {
		s.logger = logger
	}
}

func WithStageBuilder(stageBuilder StageBuilder) func(*builder) {
	return func(s *builder) {
		s.stageBuilder = stageBuilder
	}
}

func NewBuilder(opts ...builderOption) *builder {
	e := &builder{
		logger: logr.Discard(),
	}

	for _, o := range opts {
		o(e)
	}

	return e
}

// Executable runs a built campaign once.
type Executable func(ctx context.Context, stageContext processor.StageContext) (*Run, error)

func (e *builder) Build(campaign v1beta1.Campaign) (Executable, error) {
	campaign.SetDefaults()

	if e.stageBuilder == nil {
		return nil, ErrNoStageBuilder
	}

	e.logger.V(1).Info("build run from campaign spec", "campaign", campaign)

	p := &pipeline{}

	for _, spec := range stageSpecs(campaign.CampaignSpec) {
		entrypoint, err := processor.Chain(e.stageBuilder(spec)...)
		if err != nil {
			return nil, fmt.Errorf("failed to bootstrap stage %s: %w", spec.Name, err)
		}

		p.stages = append(p.stages, &pipelineStage{
			spec:       spec,
			entrypoint: entrypoint,
		})
	}

	return p.sequence, nil
}

// stageSpecs is the fixed debug before release stage order. The release
// stage only differs in the build mode handed to the driver.
func stageSpecs(spec v1beta1.CampaignSpec) []*processor.StageSpec {
	return []*processor.StageSpec{
		{
			Name:    v1beta1.StageDebug,
			Debug:   true,
			Timeout: spec.StageTimeout.Duration,
		},
		{
			Name:    v1beta1.StageRelease,
			Timeout: spec.StageTimeout.Duration,
		},
	}
}
