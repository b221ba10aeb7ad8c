package processor

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
)

func WithLogger(logger logr.Logger) ProcessorBuilder {
	return func(spec *StageSpec) Bootstraper {
		if logger.IsZero() {
			return nil
		}

		return &Logger{
			stageName: spec.Name,
			logger:    logger,
		}
	}
}

type Logger struct {
	stageName v1beta1.StageName
	logger    logr.Logger
}

func (s *Logger) Bootstrap(next Next) (Next, error) {
	return func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		logger := s.logger.WithValues("stage", s.stageName, "ref", stageContext.Ref)
		ctx = logr.NewContext(ctx, logger)

		logger.Info("stage started")
		stageContext, err := next(ctx, stageContext)

		if err != nil {
			logger.Error(err, "stage failed")
		} else {
			logger.Info("stage done")
		}

		return stageContext, err
	}, nil
}
