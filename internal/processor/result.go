package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
)

func WithResult() ProcessorBuilder {
	return func(spec *StageSpec) Bootstraper {
		return &Result{
			stageName: spec.Name,
		}
	}
}

type Result struct {
	stageName v1beta1.StageName
}

func (s *Result) Bootstrap(next Next) (Next, error) {
	return func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		stageContext.Stages[s.stageName] = &StageResult{
			Stage:     s.stageName,
			Status:    v1beta1.StageStatusRunning,
			StartedAt: time.Now(),
		}

		stageContext, nextErr := next(ctx, stageContext)

		result := stageContext.Stages[s.stageName]
		result.EndedAt = time.Now()
		result.Finalize(nextErr)

		if nextErr != nil {
			nextErr = fmt.Errorf("stage %s failed: %w", s.stageName, nextErr)
		}

		return stageContext, nextErr
	}, nil
}
